package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tuannvm/bookshelf/internal/catalog"
	"github.com/tuannvm/bookshelf/internal/client"
	"github.com/tuannvm/bookshelf/internal/config"
	"github.com/tuannvm/bookshelf/internal/logger"
	"github.com/tuannvm/bookshelf/internal/theme"
	"github.com/tuannvm/bookshelf/internal/tui"
)

// Options are the command-line overrides shared by every command.
type Options struct {
	ConfigFile string
	Catalog    string
	Debug      bool
}

// LoadConfig reads the config file and applies the command-line overrides.
func LoadConfig(opts Options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigFile != "" {
		cfg, err = config.LoadFile(opts.ConfigFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.Catalog != "" {
		cfg.Catalog = opts.Catalog
	}
	if opts.Debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// Run initializes and runs the terminal browser.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := signalContext(ctx)
	defer cancel()

	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ui, err := tui.NewApp(cfg, CatalogLoader(cfg, log), theme.NewHolder(), log)
	if err != nil {
		return err
	}

	return ui.Run(ctx)
}

// CatalogLoader resolves cfg.Catalog, fetching remote catalogs with the
// rate-limited client.
func CatalogLoader(cfg *config.Config, log *logger.Logger) tui.LoadFunc {
	fetcher := client.New(client.WithLogger(log))
	return func(ctx context.Context) (*catalog.Catalog, error) {
		c, err := catalog.Load(ctx, cfg.Catalog, fetcher)
		if err != nil {
			return nil, err
		}
		if missing := c.MissingAuthors(); len(missing) > 0 {
			log.WithFields(map[string]any{"books": missing}).Warn("catalog has books with unknown authors")
		}
		return c, nil
	}
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// setupLogger writes to the log file in debug mode and discards otherwise,
// since the terminal belongs to the TUI.
func setupLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	if !cfg.Debug {
		return logger.Nop(), func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Writer: f})
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return log, func() { f.Close() }, nil
}

// stderrLogger is the human-readable logger of non-interactive commands.
func stderrLogger(cfg *config.Config, w io.Writer) (*logger.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	return logger.New(logger.Options{Level: cfg.LogLevel, HumanReadable: true, Writer: w})
}
