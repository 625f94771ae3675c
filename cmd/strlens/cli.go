package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/strlens/strlens/internal/analysis"
	"github.com/strlens/strlens/internal/config"
	"github.com/strlens/strlens/internal/errors"
	"github.com/strlens/strlens/internal/filter"
	"github.com/strlens/strlens/internal/ops"
	"github.com/strlens/strlens/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "strlens",
		Usage:   "String analysis and filtering service",
		Version: Version,
		Commands: []*cli.Command{
			analyzeCmd(),
			storeCmd(db, cfg),
			fetchCmd(db),
			listCmd(db),
			queryCmd(db),
			deleteCmd(db),
			exportCmd(db, cfg),
			importCmd(db, cfg),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// valueFromArgsOrStdin resolves the string to operate on: the positional
// argument wins, otherwise piped stdin.
func valueFromArgsOrStdin(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}
	if !stdinHasData() {
		return "", errors.NewInvalidRequest("provide a value as an argument or pipe it via stdin")
	}
	return readStdin()
}

// analyzeCmd creates the analyze command (pure analysis, nothing stored).
func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze a string and print its properties without storing it",
		ArgsUsage: "[value]",
		Action: func(c *cli.Context) error {
			value, err := valueFromArgsOrStdin(c)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(analysis.Analyze(value))
		},
	}
}

// storeCmd creates the store command.
func storeCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "store",
		Usage:     "Analyze a string and store its properties",
		ArgsUsage: "[value]",
		Action: func(c *cli.Context) error {
			value, err := valueFromArgsOrStdin(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Store(c.Context, db, cfg, ops.StoreInput{Value: value})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a stored entry by content hash or exact value",
		ArgsUsage: "<identifier>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("identifier is required"))
			}

			output, err := ops.Fetch(c.Context, db, ops.FetchInput{
				Identifier: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored entries, optionally filtered",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "is-palindrome", Usage: "Filter by palindrome flag: true|false"},
			&cli.IntFlag{Name: "min-length", Usage: "Minimum length in characters"},
			&cli.IntFlag{Name: "max-length", Usage: "Maximum length in characters"},
			&cli.IntFlag{Name: "word-count", Usage: "Exact word count"},
			&cli.IntFlag{Name: "min-word-count", Usage: "Minimum word count"},
			&cli.StringFlag{Name: "contains-character", Usage: "Single character the string must contain"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 0, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			preds, err := predicatesFromFlags(c)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.List(c.Context, db, ops.ListInput{
				Predicates: preds,
				Limit:      c.Int("limit"),
				Offset:     c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// queryCmd creates the query command.
func queryCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Filter stored entries with a natural-language phrase",
		ArgsUsage: "<phrase>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 0, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("query phrase is required"))
			}

			output, err := ops.Query(c.Context, db, ops.QueryInput{
				Query:  strings.Join(c.Args().Slice(), " "),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a stored entry by content hash or exact value",
		ArgsUsage: "<identifier>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}

			output, err := ops.Delete(c.Context, db, ops.DeleteInput{
				ID: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export stored entries to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.strlens/exports/strings-<timestamp>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, db, cfg, ops.ExportInput{
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import entries from a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, db, cfg, ops.ImportInput{
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command, which runs the HTTP JSON API.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Address to bind to"},
			&cli.IntFlag{Name: "port", Value: 8423, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// predicatesFromFlags builds filter predicates from CLI flags.
func predicatesFromFlags(c *cli.Context) (filter.Predicates, error) {
	var preds filter.Predicates

	if s := c.String("is-palindrome"); s != "" {
		switch s {
		case "true", "1":
			v := true
			preds.IsPalindrome = &v
		case "false", "0":
			v := false
			preds.IsPalindrome = &v
		default:
			return preds, errors.NewInvalidRequest("is-palindrome must be true or false")
		}
	}

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"min-length", &preds.MinLength},
		{"max-length", &preds.MaxLength},
		{"word-count", &preds.WordCount},
		{"min-word-count", &preds.MinWordCount},
	} {
		if c.IsSet(p.name) {
			v := c.Int(p.name)
			*p.dst = &v
		}
	}

	if s := c.String("contains-character"); s != "" {
		preds.ContainsCharacter = &s
	}

	return preds, nil
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
	if sErr, ok := err.(*errors.StrlensError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
