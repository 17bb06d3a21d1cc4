package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/errors"
	"github.com/hpungsan/jot/internal/ops"
	"github.com/hpungsan/jot/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(np *ops.Notepad, cfg *config.Config, logger *slog.Logger) *cli.App {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	app := &cli.App{
		Name:    "jot",
		Usage:   "Minimal local notepad",
		Version: Version,
		Commands: []*cli.Command{
			listCmd(np),
			createCmd(np),
			deleteCmd(np),
			catCmd(np),
			writeCmd(np, cfg),
			recentCmd(np),
			historyCmd(np),
			serveCmd(np, cfg, logger),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// listCmd creates the list command.
func listCmd(np *ops.Notepad) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List files in the documents directory",
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, np, ops.ListInput{})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// createCmd creates the create command.
func createCmd(np *ops.Notepad) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Add a file name to the catalog (the file is written on first save)",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			name, err := nameArg(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Create(c.Context, np, ops.CreateInput{Name: name})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(np *ops.Notepad) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a file",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			name, err := nameArg(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Delete(c.Context, np, ops.DeleteInput{Name: name})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// catCmd creates the cat command.
func catCmd(np *ops.Notepad) *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "Print a file's text",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print name, path and byte count as JSON"},
		},
		Action: func(c *cli.Context) error {
			name, err := nameArg(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Read(c.Context, np, ops.ReadInput{Name: name})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("json") {
				return outputJSON(c.App.Writer, output)
			}
			_, err = io.WriteString(c.App.Writer, output.Text)
			return err
		},
	}
}

// writeCmd creates the write command.
func writeCmd(np *ops.Notepad, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "write",
		Usage:     "Replace a file's text (reads text from stdin)",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			name, err := nameArg(c)
			if err != nil {
				return outputError(err)
			}
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("text must be piped via stdin"))
			}
			text, err := readStdin(cfg.MaxDocumentBytes)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Write(c.Context, np, ops.WriteInput{Name: name, Text: text})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// recentCmd creates the recent command.
func recentCmd(np *ops.Notepad) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "List recently touched files",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultRecentLimit, Usage: "Maximum files to show"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Recent(c.Context, np, ops.RecentInput{Limit: c.Int("limit")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(np *ops.Notepad) *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "Show a file's journal, newest first",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultHistoryLimit, Usage: "Maximum events to show"},
		},
		Action: func(c *cli.Context) error {
			name, err := nameArg(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.History(c.Context, np, ops.HistoryInput{Name: name, Limit: c.Int("limit")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c.App.Writer, output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(np *ops.Notepad, cfg *config.Config, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web editor",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 7878, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv, err := web.NewServer(np, cfg, logger, Version, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv, logger)
		},
	}
}

// Helper functions

// nameArg returns the single positional file name.
func nameArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", errors.NewInvalidRequest(fmt.Sprintf("%s takes exactly one file name", c.Command.Name))
	}
	return c.Args().First(), nil
}

// outputJSON writes v to w as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	jErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", jErr.Code, jErr.Message), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all of stdin, refusing more than limit bytes.
// The text is kept exactly, trailing newline included.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", errors.NewIO("read", "stdin", err)
	}
	if int64(len(data)) > limit {
		return "", errors.NewFileTooLarge("stdin", limit, int64(len(data)))
	}
	return string(data), nil
}
