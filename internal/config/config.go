package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// API holds the task backend settings.
type API struct {
	BaseURL   string `toml:"base_url"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// Timeout returns the per-request timeout.
func (a API) Timeout() time.Duration { return ms(a.TimeoutMS) }

// Animation holds the durations, in milliseconds, of the list animations.
type Animation struct {
	DeleteMS int `toml:"delete_ms"`
	MoveMS   int `toml:"move_ms"`
	SettleMS int `toml:"settle_ms"`
	AddMS    int `toml:"add_ms"`
}

func (a Animation) Delete() time.Duration { return ms(a.DeleteMS) }
func (a Animation) Move() time.Duration   { return ms(a.MoveMS) }
func (a Animation) Settle() time.Duration { return ms(a.SettleMS) }
func (a Animation) Add() time.Duration    { return ms(a.AddMS) }

// Swipe holds the swipe-to-delete gesture settings. Distances are in pixels;
// CellWidth converts terminal columns to pixels.
type Swipe struct {
	MaxDistance int `toml:"max_distance"`
	Threshold   int `toml:"threshold"`
	CellWidth   int `toml:"cell_width"`
}

// Colors holds color values for every UI style.
// Values can be xterm-256 codes (0-255) or hex colors (#rrggbb).
type Colors struct {
	Title      string   `toml:"title"`
	Header     string   `toml:"header"`
	Text       string   `toml:"text"`
	Completed  string   `toml:"completed"`
	SelectedBG string   `toml:"selected_bg"`
	SelectedFG string   `toml:"selected_fg"`
	Checkbox   string   `toml:"checkbox"`
	Added      string   `toml:"added"`
	Moving     string   `toml:"moving"`
	Deleting   string   `toml:"deleting"`
	DeleteBG   string   `toml:"delete_bg"`
	Error      string   `toml:"error"`
	Help       string   `toml:"help"`
	HelpActive string   `toml:"help_active"`
	Border     string   `toml:"border"`
	Confetti   []string `toml:"confetti"`
}

// Config is the top-level configuration.
type Config struct {
	API       API       `toml:"api"`
	Animation Animation `toml:"animation"`
	Swipe     Swipe     `toml:"swipe"`
	Colors    Colors    `toml:"colors"`
}

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:   "http://localhost:3000",
			TimeoutMS: 5000,
		},
		Animation: Animation{
			DeleteMS: 300,
			MoveMS:   150,
			SettleMS: 50,
			AddMS:    400,
		},
		Swipe: Swipe{
			MaxDistance: 80,
			Threshold:   40,
			CellWidth:   8,
		},
		Colors: Colors{
			Title:      "#e11896", // Craft pink
			Header:     "#e11896",
			Text:       "#f5f5f5",
			Completed:  "#7f849c",
			SelectedBG: "#3b2a35",
			SelectedFG: "#ffffff",
			Checkbox:   "#e11896",
			Added:      "#ffc0cb",
			Moving:     "#9b59b6",
			Deleting:   "#585b70",
			DeleteBG:   "#e74c3c",
			Error:      "#f38ba8",
			Help:       "#7f849c",
			HelpActive: "#bac2de",
			Border:     "#585b70",
			Confetti:   []string{"#e11896", "#ff69b4", "#ffc0cb", "#9b59b6", "#3498db"},
		},
	}
}

// Path returns the config file path, respecting XDG_CONFIG_HOME.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "tasks", "tasks.conf")
}

// Load reads the config file at Path.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path and returns a Config. Omitted fields
// keep their default values. If the file does not exist, defaults are
// returned with no error.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.TimeoutMS <= 0 {
		return fmt.Errorf("api.timeout_ms must be positive")
	}
	for name, v := range map[string]int{
		"animation.delete_ms": c.Animation.DeleteMS,
		"animation.move_ms":   c.Animation.MoveMS,
		"animation.settle_ms": c.Animation.SettleMS,
		"animation.add_ms":    c.Animation.AddMS,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.Swipe.MaxDistance <= 0 || c.Swipe.Threshold <= 0 || c.Swipe.CellWidth <= 0 {
		return fmt.Errorf("swipe values must be positive")
	}
	if c.Swipe.Threshold > c.Swipe.MaxDistance {
		return fmt.Errorf("swipe.threshold must not exceed swipe.max_distance")
	}
	return nil
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

const defaultFileContent = `# Tasks configuration
# Uncomment and modify values to customize. All values are optional.
# Colors can be hex (#rrggbb) or xterm-256 codes (0-255).

[api]
# base_url   = "http://localhost:3000"
# timeout_ms = 5000

[animation]
# delete_ms = 300   # fade-out before a task is removed
# move_ms   = 150   # lift before a toggled task changes position
# settle_ms = 50    # pause after the new position is committed
# add_ms    = 400   # highlight on a newly added task

[swipe]
# max_distance = 80   # pixels
# threshold    = 40   # pixels past which a swipe opens the delete action
# cell_width   = 8    # pixels per terminal column

[colors]
# title       = "#e11896"  # Craft pink
# header      = "#e11896"
# text        = "#f5f5f5"
# completed   = "#7f849c"
# selected_bg = "#3b2a35"
# selected_fg = "#ffffff"
# checkbox    = "#e11896"
# added       = "#ffc0cb"
# moving      = "#9b59b6"
# deleting    = "#585b70"
# delete_bg   = "#e74c3c"
# error       = "#f38ba8"
# help        = "#7f849c"
# help_active = "#bac2de"
# border      = "#585b70"
# confetti    = ["#e11896", "#ff69b4", "#ffc0cb", "#9b59b6", "#3498db"]
`

// WriteDefault writes the default config file with all values commented out.
// It no-ops if the file already exists. Parent directories are created as needed.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // file already exists
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(defaultFileContent), 0o644)
}
