package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"dupfinder/internal/adapters/phash"
	"dupfinder/internal/adapters/protocol"
)

func main() {
	// SIGINT aborts a running scan through the context; the host ends the
	// session by sending quit or closing stdin.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := protocol.NewServer(phash.NewProvider(), os.Stdin, os.Stdout)
	if err := srv.Serve(ctx); err != nil {
		log.Fatalf("dupfinder-backend: %v", err)
	}
}
