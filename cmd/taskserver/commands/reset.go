package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

type ResetCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	seedPath string
}

// NewResetCommand returns the reset command.
func NewResetCommand(rootCmd *RootCommand, app *kingpin.Application) *ResetCommand {
	c := &ResetCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("reset", "Replace every stored task with the contents of a seed document.")
	c.Cmd.Flag("seed", "Seed document (JSON or YAML).").Default("db-backup.json").StringVar(&c.seedPath)

	return c
}

func (c ResetCommand) Name() string { return c.Cmd.FullCommand() }

func (c ResetCommand) Run(ctx context.Context) error {
	loader, name := seedLoader(c.seedPath)
	tasks, err := loader.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("could not load seed: %w", err)
	}

	repo, release, err := c.rootCmd.OpenRepository(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := repo.ReplaceTasks(ctx, tasks); err != nil {
		return fmt.Errorf("could not reset store: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "%s reset from %s (%d tasks)\n", c.rootCmd.DBPath, c.seedPath, len(tasks))
	return nil
}
