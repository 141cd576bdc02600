package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"

	"github.com/origadmin/buildergen/internal/config"
	"github.com/origadmin/buildergen/internal/diag"
)

// setupLogger routes slog through a charm logger. The returned func closes the log file, if any.
func setupLogger(cfg *config.Config, stderr io.Writer) (func(), error) {
	w := stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          config.Application,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	slog.SetDefault(slog.New(logger))
	return closeFn, nil
}

// printError writes err in red, followed by a hint for known generation errors.
func printError(w io.Writer, err error) {
	label := color.New(color.FgRed, color.Bold)
	label.Fprint(w, "error: ")
	fmt.Fprintln(w, err)

	if hint := hintFor(err); hint != "" {
		color.New(color.FgYellow).Fprintf(w, "  → %s\n", hint)
	}
}

func hintFor(err error) string {
	var de *diag.Error
	if !errors.As(err, &de) {
		return ""
	}
	switch de.Kind {
	case diag.KindAttribute:
		return `the only accepted directive is //builder:each="Name" on a slice field`
	case diag.KindConflict:
		return "rename the field or choose another accumulator name"
	case diag.KindUnsupported:
		return "builders are generated for structs with named fields only"
	case diag.KindNotFound:
		return "check --type or mark the struct with //derive:builder"
	default:
		return ""
	}
}
