package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/simonbystrom/tasks/internal/log"
	"github.com/simonbystrom/tasks/internal/storage"
	"github.com/simonbystrom/tasks/internal/storage/jsonfile"
	"github.com/simonbystrom/tasks/internal/storage/memory"
	"github.com/simonbystrom/tasks/internal/storage/seed"
	"github.com/simonbystrom/tasks/internal/storage/sqlite"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

const (
	StorageMemory   = "memory"
	StorageJSONFile = "jsonfile"
	StorageSQLite   = "sqlite"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand holds the global flags and instances shared by every command.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoColor    bool
	LoggerType string
	Storage    string
	DBPath     string

	// Global instances.
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)
	app.Flag("storage", "Storage backend.").Default(StorageJSONFile).EnumVar(&c.Storage, StorageMemory, StorageJSONFile, StorageSQLite)
	app.Flag("db", "Path to the db.json document or SQLite database, depending on the storage backend.").Default("db.json").StringVar(&c.DBPath)

	return c
}

// closer is implemented by repositories holding a connection.
type closer interface {
	Close() error
}

// OpenRepository opens the configured storage backend. The returned func
// releases it.
func (c *RootCommand) OpenRepository(ctx context.Context) (storage.Repository, func(), error) {
	var (
		repo storage.Repository
		err  error
	)
	switch c.Storage {
	case StorageMemory:
		repo, err = memory.NewRepository(memory.RepositoryConfig{Logger: c.Logger})
	case StorageJSONFile:
		repo, err = jsonfile.NewRepository(ctx, jsonfile.RepositoryConfig{Path: c.DBPath, Logger: c.Logger})
	case StorageSQLite:
		repo, err = sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: c.DBPath, Logger: c.Logger})
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not create repository: %w", err)
	}

	release := func() {
		if cl, ok := repo.(closer); ok {
			if err := cl.Close(); err != nil {
				c.Logger.Warningf("could not close repository: %s", err)
			}
		}
	}
	return repo, release, nil
}

// seedLoader returns a loader rooted at the directory holding path, and the
// file name to load from it.
func seedLoader(path string) (*seed.Loader, string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return seed.NewLoader(os.DirFS(filepath.Dir(abs))), filepath.Base(abs)
}
