// Package logging installs the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/thiagokokada/promptns/internal/config"
)

// New returns a text logger writing to w. A nil writer discards everything.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetupLibrary installs the logger used inside a provider library. Output
// goes to cfg.LogFile, or nowhere when it is unset. The returned closer
// releases the log file.
func SetupLibrary(cfg *config.Config) (io.Closer, error) {
	level, err := cfg.Level()
	if err != nil {
		return nopCloser{}, err
	}
	if cfg.LogFile == "" {
		slog.SetDefault(New(nil, level))
		return nopCloser{}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		slog.SetDefault(New(nil, level))
		return nopCloser{}, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(New(f, level).With(slog.Int("pid", os.Getpid())))
	return f, nil
}

// SetupCLI logs to stderr; verbose forces debug level.
func SetupCLI(cfg *config.Config, verbose bool) error {
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(New(os.Stderr, level))
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
