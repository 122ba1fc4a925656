package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/meat-stats/cmd/batch"
	"fjacquet/meat-stats/cmd/chart"
	"fjacquet/meat-stats/cmd/corrections"
	"fjacquet/meat-stats/cmd/normalize"
	"fjacquet/meat-stats/cmd/population"
	"fjacquet/meat-stats/cmd/rollup"
	"fjacquet/meat-stats/cmd/root"
	"fjacquet/meat-stats/cmd/weights"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(normalize.Cmd)
	root.Cmd.AddCommand(weights.Cmd)
	root.Cmd.AddCommand(rollup.Cmd)
	root.Cmd.AddCommand(population.Cmd)
	root.Cmd.AddCommand(chart.Cmd)
	root.Cmd.AddCommand(corrections.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	// An interrupt stops a running population fetch between requests.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		root.Log.Info("Received interrupt signal, shutting down")
		cancel()
	}()

	err := root.Cmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
