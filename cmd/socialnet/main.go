package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/socialnet/internal/flagx"
	"github.com/dmitrijs2005/socialnet/internal/server"
	"github.com/dmitrijs2005/socialnet/internal/server/cli"
	"github.com/dmitrijs2005/socialnet/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	args := flagx.Positional(os.Args[1:], config.Flags)
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, cli.Usage)
		os.Exit(2)
	}

	app := server.NewApp(cfg)

	if err := app.Run(ctx, args[0], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, cli.ErrUnknownCommand) {
			fmt.Fprintln(os.Stderr, cli.Usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}
