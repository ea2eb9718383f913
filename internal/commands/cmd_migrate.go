package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/lint-todo-migrate/internal/core/logging"
	"github.com/hay-kot/lint-todo-migrate/internal/core/styles"
	"github.com/hay-kot/lint-todo-migrate/internal/migrator"
	"github.com/hay-kot/lint-todo-migrate/pkg/iojson"
)

type MigrateCmd struct {
	flags *Flags

	// flags
	removeV1   bool
	jsonOutput bool
}

// NewMigrateCmd creates the migration command.
func NewMigrateCmd(flags *Flags) *MigrateCmd {
	return &MigrateCmd{flags: flags}
}

// Register installs the migration as the root action of app.
func (cmd *MigrateCmd) Register(app *cli.Command) *cli.Command {
	app.ArgsUsage = "[working-dir]"
	app.Flags = append(app.Flags,
		&cli.BoolFlag{
			Name:        "removeV1",
			Aliases:     []string{"r"},
			Usage:       "remove todos in version 1 format instead of failing",
			Local:       true,
			Destination: &cmd.removeV1,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print the migration result as JSON",
			Local:       true,
			Destination: &cmd.jsonOutput,
		},
	)
	app.Action = cmd.run

	return app
}

func (cmd *MigrateCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() > 1 {
		return fmt.Errorf("expected at most one working directory, got %d arguments", c.Args().Len())
	}

	baseDir, err := resolveBaseDir(c.Args().First())
	if err != nil {
		return err
	}

	cfg := cmd.flags.config()
	ctx = logging.WithScope(ctx, logging.Scope{Command: "migrate", BaseDir: baseDir, StorageName: cfg.StorageName})

	svc := migrator.NewService(cfg.StorageName, cfg.LegacyPattern, logging.Component("migrator"))
	res, err := svc.Migrate(ctx, baseDir, migrator.Options{RemoveV1: cmd.removeV1 || cfg.RemoveV1})
	if err != nil {
		var v1Err *migrator.V1TodosError
		if errors.As(err, &v1Err) {
			styles.NewPrinter(c.Root().ErrWriter).Error(
				"Cannot migrate todos: found %d todos in version 1 format. Re-run with --removeV1 to remove them, or regenerate your todos.",
				v1Err.Count,
			)
			return cli.Exit("", 1)
		}
		return fmt.Errorf("migrate todos: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, res)
	}

	p := styles.NewPrinter(out)
	switch res.Outcome {
	case migrator.OutcomeSkippedFileFound:
		p.Warning("Skipped migration (detected %s file)", cfg.StorageName)
	case migrator.OutcomeSkippedNothingToMigrate:
		p.Warning("Skipped migration (nothing to migrate)")
		if res.LeftoverPath != "" {
			styles.NewPrinter(c.Root().ErrWriter).Warning(
				"Found %s from an interrupted migration. Rename it to %s and re-run, or remove it.",
				res.LeftoverPath, filepath.Join(baseDir, cfg.StorageName),
			)
		}
	case migrator.OutcomeMigrated:
		msg := fmt.Sprintf("Successfully migrated %d todos to single file format", res.Migrated)
		if res.RemovedV1 > 0 {
			msg += fmt.Sprintf(" (%d version 1 todos were removed)", res.RemovedV1)
		}
		p.Success("%s", msg)
	}

	return nil
}
