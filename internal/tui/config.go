package tui

import (
	"context"
	"log/slog"

	"github.com/saladlab/consult-tags/internal/engine"
	"github.com/saladlab/consult-tags/internal/report"
	"github.com/saladlab/consult-tags/internal/service"
	"github.com/saladlab/consult-tags/internal/tui/themes"
)

// Backend is the slice of the analysis engine the dashboard drives.
type Backend interface {
	ConsultationSheets(ctx context.Context) ([]service.SheetInfo, error)
	Analyze(ctx context.Context, sheet string) (*report.Analysis, error)
	Compare(ctx context.Context, sheets []string, progress engine.ProgressFunc) (*report.Comparison, error)
}

var _ Backend = (*engine.Engine)(nil)

// Config holds dashboard settings.
type Config struct {
	Backend Backend
	Logger  *slog.Logger
	Theme   themes.Theme
	Mode    Mode
	Width   int
	Height  int
	TopN    int
}

// Option configures the dashboard.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Mode:   ModeUnset,
		Width:  100,
		Height: 30,
		TopN:   report.DefaultOptions().TopN,
		Logger: slog.Default(),
	}
}

// WithBackend sets the engine used to list and analyze sheets.
func WithBackend(b Backend) Option {
	return func(c *Config) {
		c.Backend = b
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithMode starts the dashboard in the given mode, skipping the mode picker.
func WithMode(mode Mode) Option {
	return func(c *Config) {
		c.Mode = mode
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithTopN limits how many tags each table shows.
func WithTopN(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.TopN = n
		}
	}
}
