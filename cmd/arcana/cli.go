package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/kchava/arcana/internal/config"
	"github.com/kchava/arcana/internal/deck"
	"github.com/kchava/arcana/internal/errors"
	"github.com/kchava/arcana/internal/ops"
	"github.com/kchava/arcana/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, d deck.Deck) *cli.App {
	app := &cli.App{
		Name:    "arcana",
		Usage:   "Deterministic daily card draws",
		Version: Version,
		Commands: []*cli.Command{
			drawCmd(db, cfg, d),
			getCmd(db),
			windowCmd(cfg),
			historyCmd(db),
			deckCmd(d),
			exportCmd(db, cfg),
			pruneCmd(db, cfg),
			webCmd(db, cfg, d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// drawCmd creates the draw command.
func drawCmd(db *sql.DB, cfg *config.Config, d deck.Deck) *cli.Command {
	return &cli.Command{
		Name:      "draw",
		Usage:     "Get or create the daily draw for an identity",
		ArgsUsage: "<identity>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "day", Aliases: []string{"d"}, Usage: "Day key YYYY-MM-DD (default: today in the configured timezone)"},
			&cli.StringFlag{Name: "timezone", Aliases: []string{"z"}, Usage: "Timezone for resolving today (ignored when --day is set)"},
			&cli.IntFlag{Name: "count", Aliases: []string{"c"}, Usage: "Number of cards to draw (default: configured draw count)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidKey("identity argument is required"))
			}

			input := ops.DailyInput{
				Identity: c.Args().First(),
				Day:      c.String("day"),
				Count:    c.Int("count"),
			}

			if input.Day == "" {
				window, err := ops.Window(cfg, ops.WindowInput{Timezone: c.String("timezone")})
				if err != nil {
					return outputError(err)
				}
				input.Day = window.Window.Today
			}

			output, err := ops.Daily(db, cfg, d, input)
			if err != nil {
				// A persist failure still yields a usable draw; surface the
				// warning on stderr and print the result.
				if output != nil && errors.Is(err, errors.ErrStorePersistFailure) {
					fmt.Fprintf(os.Stderr, "warning: %s\n", output.PersistWarning)
					return outputJSON(output)
				}
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// getCmd creates the get command.
func getCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get a stored draw without creating one",
		ArgsUsage: "<identity> <day>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return outputError(errors.NewInvalidRequest("identity and day arguments are required"))
			}

			output, err := ops.Get(db, ops.GetInput{
				Identity: c.Args().Get(0),
				Day:      c.Args().Get(1),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// windowCmd creates the window command.
func windowCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "window",
		Usage: "Resolve yesterday/today/tomorrow day keys for a timezone",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "timezone", Aliases: []string{"z"}, Usage: "IANA timezone (default: configured timezone)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Window(cfg, ops.WindowInput{
				Timezone: c.String("timezone"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "List an identity's stored draws, newest first",
		ArgsUsage: "<identity>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidKey("identity argument is required"))
			}

			output, err := ops.History(db, ops.HistoryInput{
				Identity: c.Args().First(),
				Limit:    c.Int("limit"),
				Offset:   c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deckCmd creates the deck command.
func deckCmd(d deck.Deck) *cli.Command {
	return &cli.Command{
		Name:  "deck",
		Usage: "Show the active card catalog",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "names-only", Usage: "Only list card names"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("names-only") {
				names := make([]string, len(d.Cards))
				for i, card := range d.Cards {
					names[i] = card.Name
				}
				return outputJSON(map[string]any{
					"name":  d.Name,
					"size":  d.Size(),
					"cards": names,
				})
			}

			return outputJSON(map[string]any{
				"name":  d.Name,
				"size":  d.Size(),
				"cards": d.Cards,
			})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export stored draws to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.arcana/exports/<identity>-<timestamp>.jsonl)"},
			&cli.StringFlag{Name: "identity", Aliases: []string{"i"}, Usage: "Only export draws for this identity"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path: c.String("path"),
			}

			if identity := c.String("identity"); identity != "" {
				input.Identity = &identity
			}

			output, err := ops.Export(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// pruneCmd creates the prune command.
func pruneCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "prune",
		Usage: "Delete draws older than a retention window",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Required: true, Usage: "Delete draws more than N days old"},
			&cli.StringFlag{Name: "identity", Aliases: []string{"i"}, Usage: "Only prune draws for this identity"},
			&cli.StringFlag{Name: "timezone", Aliases: []string{"z"}, Usage: "Timezone for resolving the cutoff (default: configured timezone)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PruneInput{
				Days:     c.Int("days"),
				Timezone: c.String("timezone"),
			}

			if identity := c.String("identity"); identity != "" {
				input.Identity = &identity
			}

			output, err := ops.Prune(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// webCmd creates the web command.
func webCmd(db *sql.DB, cfg *config.Config, d deck.Deck) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Run the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 7878, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, d, Version, c.String("bind"), c.Int("port"))
			if err := web.Run(srv); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if aErr, ok := err.(*errors.ArcanaError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", aErr.Code, aErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
