// Command gocrypt encrypts and decrypts files with AES and RSA.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/idelchi/gocrypt/internal/commands"
	"github.com/idelchi/gocrypt/internal/config"
)

// version is set by the build, e.g. -ldflags "-X main.version=v0.1.0".
var version = "unknown"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var cfg config.Config

	err := commands.NewRootCommand(&cfg, version).ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
