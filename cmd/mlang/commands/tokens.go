// cmd/mlang/commands/tokens.go
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"mlang/internal/lexer"
	"mlang/internal/server"
)

// ErrFailed is returned when at least one file failed to tokenize. The
// diagnostics have already been written.
var ErrFailed = errors.New("tokenization failed")

// File is a tokenized source file.
type File struct {
	Path   string
	Source string
	Result lexer.Result
}

// TokenizeFiles reads and tokenizes paths concurrently. Results keep the
// order of paths.
func TokenizeFiles(ctx context.Context, paths []string, opts ...lexer.Option) ([]File, error) {
	files := make([]File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			src := string(data)
			files[i] = File{Path: path, Source: src, Result: lexer.Tokenize(src, opts...)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// TokensCommand prints the tokens of every file.
func TokensCommand(ctx context.Context, env *Env, args []string) error {
	stdout, stderr := env.Stdout, env.Stderr
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	fs.SetOutput(stderr)
	strict := fs.Bool("strict", env.Config.Strict, "raise a diagnostic when a token cannot be resolved")
	asJSON := fs.Bool("json", false, "print tokens as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: mlang tokens [-strict] [-json] <file>...")
	}

	files, err := TokenizeFiles(ctx, fs.Args(), env.lexerOptions(*strict)...)
	if err != nil {
		return err
	}

	failed := false
	for _, f := range files {
		if *asJSON {
			if err := writeJSON(stdout, f); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(stdout, "%s (%s, %d tokens)\n", f.Path, humanize.Bytes(uint64(len(f.Source))), len(f.Result.Tokens))
			for _, tk := range f.Result.Tokens {
				fmt.Fprintf(stdout, "  %s\n", tk)
			}
		}
		if report(stderr, f) {
			failed = true
		}
	}
	if failed {
		return ErrFailed
	}
	return nil
}

// CheckCommand tokenizes every file strictly and reports the outcome.
func CheckCommand(ctx context.Context, env *Env, args []string) error {
	stdout, stderr := env.Stdout, env.Stderr
	if len(args) == 0 {
		return fmt.Errorf("usage: mlang check <file>...")
	}
	files, err := TokenizeFiles(ctx, args, env.lexerOptions(true)...)
	if err != nil {
		return err
	}

	failed := 0
	for _, f := range files {
		if report(stderr, f) {
			failed++
			continue
		}
		fmt.Fprintf(stdout, "%s: ok (%s tokens)\n", f.Path, humanize.Comma(int64(len(f.Result.Tokens))))
	}
	if failed > 0 {
		fmt.Fprintf(stderr, "\n%s of %s failed\n", humanize.Comma(int64(failed)), humanize.Comma(int64(len(files))))
		return ErrFailed
	}
	return nil
}

// LexiconCommand prints the lexicon table.
func LexiconCommand(env *Env) {
	stdout := env.Stdout
	fmt.Fprintf(stdout, "%-8s %-12s %-8s %s\n", "TEXT", "KIND", "PREC", "INTERFIX")
	for _, e := range lexer.Entries() {
		fmt.Fprintf(stdout, "%-8s %-12s %-8s %v\n", e.Characters, e.Kind, e.Precedence, e.Interfix)
	}
}

// report writes the diagnostic for f, if any, and tells whether f failed.
func report(w io.Writer, f File) bool {
	res := f.Result
	switch {
	case res.Failed():
		_ = res.Err.Fprint(w, f.Source, f.Path)
		return true
	case !res.ReachedEOF:
		fmt.Fprintf(w, "%s: stopped after %d tokens before the end of input\n", f.Path, len(res.Tokens))
		return true
	}
	return false
}

func writeJSON(w io.Writer, f File) error {
	out := struct {
		Path       string                `json:"path"`
		ReachedEOF bool                  `json:"reached_eof"`
		Tokens     []server.TokenMessage `json:"tokens"`
		Error      string                `json:"error,omitempty"`
	}{Path: f.Path, ReachedEOF: f.Result.ReachedEOF}

	for _, tk := range f.Result.Tokens {
		out.Tokens = append(out.Tokens, server.Encode(tk))
	}
	if f.Result.Failed() {
		out.Error = strings.TrimSpace(f.Result.Err.Traceback(f.Source, f.Path))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
