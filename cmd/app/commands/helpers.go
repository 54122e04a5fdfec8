// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/allisson/rolegate/internal/app"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// ParseRoles splits a comma-separated role list. Blank entries are dropped; the role
// store normalizes what remains.
func ParseRoles(raw string) []string {
	roles := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			roles = append(roles, part)
		}
	}
	return roles
}

// validateFormat rejects output formats other than text and json.
func validateFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}
