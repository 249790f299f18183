package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/AleeCode25/panel-billeteras/client"
	"github.com/urfave/cli/v2"
)

func serverCommands() *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "Server utility commands",
		Subcommands: []*cli.Command{
			healthCommand(),
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check server health",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "Panel server URL",
				EnvVars: []string{"PANEL_SERVER_URL"},
			},
		},
		Action: func(c *cli.Context) error {
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelError,
			}))

			cl := client.NewClient(c.String("server"), nil, logger)
			if err := cl.Health(context.Background()); err != nil {
				return err
			}

			fmt.Println("OK")
			return nil
		},
	}
}
