package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/lint-todo-migrate/internal/core/logging"
	"github.com/hay-kot/lint-todo-migrate/internal/core/styles"
	"github.com/hay-kot/lint-todo-migrate/internal/store/todofile"
)

type CompactCmd struct {
	flags *Flags
}

// NewCompactCmd creates a new compact command
func NewCompactCmd(flags *Flags) *CompactCmd {
	return &CompactCmd{flags: flags}
}

// Register adds the compact command to the application
func (cmd *CompactCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "compact",
		Usage:     "Rewrite the storage file without removed todos",
		UsageText: "lint-todo-migrate compact [working-dir]",
		Description: `Replays the storage file and rewrites it with one "add" line per live todo,
dropping every "remove" line and the todos it cancelled.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *CompactCmd) run(ctx context.Context, c *cli.Command) error {
	baseDir, err := resolveBaseDir(c.Args().First())
	if err != nil {
		return err
	}

	cfg := cmd.flags.config()
	path := todofile.FilePath(baseDir, cfg.StorageName)
	p := styles.NewPrinter(c.Root().Writer)

	if !todofile.FileExists(path) {
		p.Warning("Nothing to compact (no %s file)", cfg.StorageName)
		return nil
	}

	kept, err := todofile.Compact(path)
	if err != nil {
		return fmt.Errorf("compact %s: %w", path, err)
	}

	ctx = logging.WithScope(ctx, logging.Scope{Command: "compact", BaseDir: baseDir, StorageName: cfg.StorageName})
	logging.Component("compact").Info().Ctx(ctx).Int("todos", kept).Msg("storage file compacted")

	p.Success("Compacted %s to %d todos", cfg.StorageName, kept)
	return nil
}
