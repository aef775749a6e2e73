package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/projectdiscovery/arptable/internal/runner"
	"github.com/projectdiscovery/gologger"
)

func main() {
	options := runner.ParseOptions()
	arpRunner, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Setup close handler
	go func() {
		<-c
		fmt.Println("\r- Ctrl+C pressed in Terminal, Exiting...")
		_ = arpRunner.Close()
		os.Exit(1)
	}()

	err = arpRunner.Run()
	if cerr := arpRunner.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		gologger.Fatal().Msgf("Could not read arp table: %s\n", err)
	}
}
