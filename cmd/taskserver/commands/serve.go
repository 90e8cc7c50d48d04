package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/simonbystrom/tasks/internal/server"
)

const shutdownTimeout = 5 * time.Second

type ServeCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	listenAddr string
	seedPath   string
}

// NewServeCommand returns the serve command.
func NewServeCommand(rootCmd *RootCommand, app *kingpin.Application) *ServeCommand {
	c := &ServeCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("serve", "Serve the tasks REST API.").Default()
	c.Cmd.Flag("listen", "Address to listen on.").Default(":3000").StringVar(&c.listenAddr)
	c.Cmd.Flag("seed", "Seed document loaded when the store is empty (JSON or YAML).").StringVar(&c.seedPath)

	return c
}

func (c ServeCommand) Name() string { return c.Cmd.FullCommand() }

func (c ServeCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, release, err := c.rootCmd.OpenRepository(ctx)
	if err != nil {
		return err
	}
	defer release()

	if c.seedPath != "" {
		existing, err := repo.ListTasks(ctx)
		if err != nil {
			return fmt.Errorf("could not list tasks: %w", err)
		}
		if len(existing) == 0 {
			loader, name := seedLoader(c.seedPath)
			tasks, err := loader.Load(ctx, name)
			if err != nil {
				return fmt.Errorf("could not load seed: %w", err)
			}
			if err := repo.ReplaceTasks(ctx, tasks); err != nil {
				return fmt.Errorf("could not seed store: %w", err)
			}
			logger.Infof("Seeded store with %d tasks from %s", len(tasks), c.seedPath)
		}
	}

	srv, err := server.New(server.Config{Repository: repo, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              c.listenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s (storage: %s)", c.listenAddr, c.rootCmd.Storage)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not shut down http server: %w", err)
	}
	logger.Debugf("HTTP server stopped")
	return nil
}
