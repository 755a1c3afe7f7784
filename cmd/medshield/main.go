// Package main is the entry point for the medshield relay and page scanner.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/stake-plus/medshield/cmd/medshield/commands"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := commands.New(os.Stdout, os.Stderr).Execute(ctx); err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
