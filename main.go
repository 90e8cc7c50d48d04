package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/tasks/internal/config"
	"github.com/simonbystrom/tasks/internal/coordinator"
	"github.com/simonbystrom/tasks/internal/taskservice"
	"github.com/simonbystrom/tasks/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to $XDG_CONFIG_HOME/tasks/tasks.conf)")
	apiURL := flag.String("api", "", "task API base URL (overrides config)")
	logPath := flag.String("log", config.LogPath(), "path to the log file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *configPath == "" {
		*configPath = config.Path()
		if err := config.WriteDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not write default config: %v\n", err)
		}
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}

	closeLog, err := setupLogging(*logPath, *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := taskservice.New(cfg.API.BaseURL, taskservice.WithTimeout(cfg.API.Timeout()))
	coord := coordinator.New(ctx, client, coordinator.WithTimings(coordinator.Timings{
		Delete: cfg.Animation.Delete(),
		Move:   cfg.Animation.Move(),
		Settle: cfg.Animation.Settle(),
		Add:    cfg.Animation.Add(),
	}))

	slog.Info("starting", "api", cfg.API.BaseURL, "config", *configPath)

	model := ui.NewApp(cfg, coord)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging points the default slog logger at a JSON log file, since the
// TUI owns the terminal.
func setupLogging(path string, debug bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})))
	return func() { f.Close() }, nil
}
