package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/lint-todo-migrate/internal/core/logging"
	"github.com/hay-kot/lint-todo-migrate/internal/core/styles"
	"github.com/hay-kot/lint-todo-migrate/internal/core/todo"
	"github.com/hay-kot/lint-todo-migrate/internal/store/legacy"
	"github.com/hay-kot/lint-todo-migrate/internal/store/todofile"
	"github.com/hay-kot/lint-todo-migrate/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List the todos of a project",
		UsageText: "lint-todo-migrate ls [--json] [working-dir]",
		Description: `Displays a table of the live todos in the storage file.

Projects that have not been migrated yet are listed from the legacy directory.
The SOURCE column shows "file" for the storage file, or the legacy format
version ("v1", "v2") each todo was read from.

Use --json for one JSON object per line.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

// lsEntry is the JSON output format for ls --json.
type lsEntry struct {
	todo.Record
	Source string `json:"source"`
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	baseDir, err := resolveBaseDir(c.Args().First())
	if err != nil {
		return err
	}

	cfg := cmd.flags.config()
	log := logging.Component("ls")
	ctx = logging.WithScope(ctx, logging.Scope{Command: "ls", BaseDir: baseDir, StorageName: cfg.StorageName})

	var (
		records []todo.Record
		source  = func(r todo.Record) string { return r.FileFormat.String() }
		path    = todofile.FilePath(baseDir, cfg.StorageName)
		reader  = legacy.NewReader(cfg.StorageName, cfg.LegacyPattern)
	)

	switch {
	case todofile.FileExists(path):
		set, err := todofile.Read(path)
		if err != nil {
			return fmt.Errorf("read storage file: %w", err)
		}
		records = set.Records()
		source = func(todo.Record) string { return "file" }
	case reader.DirExists(baseDir):
		records, err = reader.Read(baseDir)
		if err != nil {
			return fmt.Errorf("read legacy todos: %w", err)
		}
	default:
		if !cmd.jsonOutput {
			styles.NewPrinter(c.Root().ErrWriter).Warning("No todos found (no %s file or directory)", cfg.StorageName)
		}
		return nil
	}

	log.Debug().Ctx(ctx).Int("todos", len(records)).Msg("listing todos")

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, r := range records {
			if err := iojson.WriteLine(out, lsEntry{Record: r, Source: source(r)}); err != nil {
				return fmt.Errorf("encode todo: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ENGINE\tRULE\tFILE\tRANGE\tSOURCE")
	for _, r := range records {
		loc := r.Location
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d:%d-%d:%d\t%s\n",
			r.Engine, r.RuleID, r.FilePath,
			loc.LineStart, loc.ColumnStart, loc.LineEnd, loc.ColumnEnd,
			source(r),
		)
	}

	return w.Flush()
}
