package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"git.sr.ht/~whereswaldon/linesel/backend"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `%[1]s: generate a synthetic csv trace file
Usage:

 %[1]s > file

OR

 %[1]s | linesel-demo -trace -

Emits one row of generated samples per interval until interrupted.

`, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	dur := flag.Duration("sample-interval", 100*time.Millisecond, "Interval between emitting new samples")
	outputName := flag.String("output", "-", "Output file for CSV trace data")
	flag.Parse()

	var output io.WriteCloser
	if *outputName == "-" {
		output = os.Stdout
	} else {
		f, err := os.Create(*outputName)
		if err != nil {
			log.Fatalf("failed opening output file %q: %v", *outputName, err)
		}
		output = f
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	trace := backend.Demo(ctx, *dur)
	defer trace.Close()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		// We've gotten an interrupt; shut down.
		cancel()
	}()
	if _, err := io.Copy(output, trace); err != nil {
		log.Printf("failed writing trace: %v", err)
	}
	if err := output.Close(); err != nil {
		log.Printf("failed closing output: %v", err)
	}
}
