package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/AleeCode25/panel-billeteras/client"
	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"
)

// serverFlags are the connection flags shared by all wallet commands.
func serverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Value:   "http://localhost:8080",
			Usage:   "Panel server URL",
			EnvVars: []string{"PANEL_SERVER_URL"},
		},
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "Panel username",
			EnvVars: []string{"PANEL_USERNAME"},
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Panel password",
			EnvVars: []string{"PANEL_PASSWORD"},
		},
		&cli.StringFlag{
			Name:  "jq",
			Usage: "jq expression applied to the JSON result before printing",
		},
	}
}

func walletCommands() *cli.Command {
	return &cli.Command{
		Name:  "wallet",
		Usage: "Wallet query commands",
		Subcommands: []*cli.Command{
			walletListCommand(),
			walletIncomingCommand(),
			walletOutflowsCommand(),
			walletBalanceCommand(),
		},
	}
}

// loggedInClient builds an API client and authenticates it.
func loggedInClient(c *cli.Context) (*client.Client, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	cl := client.NewClient(c.String("server"), nil, logger)
	if err := cl.Login(context.Background(), c.String("username"), c.String("password")); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return cl, nil
}

// printResult renders v as JSON, optionally filtered through a jq
// expression.
func printResult(c *cli.Context, v interface{}) error {
	expr := c.String("jq")
	if expr == "" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	query, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("failed to parse jq expression %q: %w", expr, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("failed to compile jq expression %q: %w", expr, err)
	}

	// Round-trip through encoding/json so gojq sees plain maps/slices.
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}

	iter := code.Run(doc)
	for {
		out, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := out.(error); isErr {
			return fmt.Errorf("jq evaluation failed: %w", err)
		}
		data, err := json.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}

func walletListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List configured wallets",
		Flags: serverFlags(),
		Action: func(c *cli.Context) error {
			cl, err := loggedInClient(c)
			if err != nil {
				return err
			}

			wallets, err := cl.Wallets(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list wallets: %w", err)
			}
			return printResult(c, map[string]interface{}{"wallets": wallets})
		},
	}
}

func walletIncomingCommand() *cli.Command {
	return &cli.Command{
		Name:      "incoming",
		Usage:     "Fetch a page of incoming transactions for a wallet",
		ArgsUsage: "WALLET_ID",
		Flags: append(serverFlags(),
			&cli.StringFlag{
				Name:     "date",
				Aliases:  []string{"d"},
				Usage:    "Civil date (YYYY-MM-DD)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "shift",
				Usage: "Shift window: all, morning, afternoon or night",
				Value: "all",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "1-based page number",
				Value: 1,
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("wallet id is required")
			}

			cl, err := loggedInClient(c)
			if err != nil {
				return err
			}

			page, err := cl.Incoming(context.Background(), c.Args().Get(0), c.String("date"), c.String("shift"), c.Int("page"))
			if err != nil {
				return fmt.Errorf("failed to fetch incoming transactions: %w", err)
			}
			return printResult(c, page)
		},
	}
}

func walletOutflowsCommand() *cli.Command {
	return &cli.Command{
		Name:      "outflows",
		Usage:     "Fetch the outgoing transactions and total for a wallet",
		ArgsUsage: "WALLET_ID",
		Flags: append(serverFlags(),
			&cli.StringFlag{
				Name:     "date",
				Aliases:  []string{"d"},
				Usage:    "Civil date (YYYY-MM-DD)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "shift",
				Usage: "Shift window: all, morning, afternoon or night",
				Value: "all",
			},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("wallet id is required")
			}

			cl, err := loggedInClient(c)
			if err != nil {
				return err
			}

			summary, err := cl.Outflows(context.Background(), c.Args().Get(0), c.String("date"), c.String("shift"))
			if err != nil {
				return fmt.Errorf("failed to fetch outflows: %w", err)
			}
			return printResult(c, summary)
		},
	}
}

func walletBalanceCommand() *cli.Command {
	return &cli.Command{
		Name:      "balance",
		Usage:     "Fetch the provider account balance for a wallet",
		ArgsUsage: "WALLET_ID",
		Flags:     serverFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("wallet id is required")
			}

			cl, err := loggedInClient(c)
			if err != nil {
				return err
			}

			balance, err := cl.Balance(context.Background(), c.Args().Get(0))
			if err != nil {
				return fmt.Errorf("failed to fetch balance: %w", err)
			}
			return printResult(c, balance)
		},
	}
}
