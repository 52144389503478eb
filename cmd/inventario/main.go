package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/inventario-agricola/inventario/cmd/inventario/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := commands.Run(ctx, os.Args, commands.Options{Stdout: os.Stdout, Stderr: os.Stderr})
	stop()
	os.Exit(code)
}
