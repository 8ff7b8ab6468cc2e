package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/five82/dstk/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	// A .env file in the working directory may set DSTK_* variables; values
	// already in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "dstk: load .env: %v\n", err)
		return app.ExitUsage
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return app.Execute(ctx, os.Args[1:], app.StdStreams())
}
