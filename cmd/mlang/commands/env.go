// cmd/mlang/commands/env.go
package commands

import (
	"io"
	"log/slog"

	"mlang/internal/config"
	"mlang/internal/lexer"
)

// Env carries what every command needs.
type Env struct {
	Config config.Config
	Logger *slog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

func (e *Env) lexerOptions(strict bool) []lexer.Option {
	opts := []lexer.Option{lexer.WithLogger(e.Logger)}
	if strict {
		opts = append(opts, lexer.WithStrict())
	}
	return opts
}
