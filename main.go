package main

import (
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/vpdbscan/cmd"
)

// main is the entry point of the application. Logging is configured by
// core's init() from the VPDBSCAN_LOG environment variable; main only
// wires up interrupt handling and runs the CLI.
func main() {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	go listenForInterrupt(stopChan)

	cmd.Execute()
}

// listenForInterrupt listens for an interrupt signal and exits the program when it is received.
// It takes a channel of os.Signal as a parameter.
func listenForInterrupt(stopChan chan os.Signal) {
	<-stopChan
	log.Fatal().Msg("Interrupt signal received. Exiting...")
}
