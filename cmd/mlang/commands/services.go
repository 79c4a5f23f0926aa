// cmd/mlang/commands/services.go
package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/dustin/go-humanize"

	"mlang/internal/repl"
	"mlang/internal/server"
	"mlang/internal/store"
)

// DumpCommand tokenizes files and stores every run in the configured
// database.
func DumpCommand(ctx context.Context, env *Env, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	driver := fs.String("driver", env.Config.StoreDriver, "database type: sqlite, postgres, mysql or sqlserver")
	dsn := fs.String("dsn", env.Config.StoreDSN, "data source name")
	strict := fs.Bool("strict", env.Config.Strict, "raise a diagnostic when a token cannot be resolved")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: mlang dump [-driver d] [-dsn s] <file>...")
	}

	files, err := TokenizeFiles(ctx, fs.Args(), env.lexerOptions(*strict)...)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, *driver, *dsn)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	total := 0
	for _, f := range files {
		id, err := st.SaveRun(ctx, f.Path, f.Result)
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", f.Path, err)
		}
		total += len(f.Result.Tokens)
		env.Logger.Info("stored run", "run", id, "uri", f.Path, "tokens", len(f.Result.Tokens), "reached_eof", f.Result.ReachedEOF)
		fmt.Fprintf(env.Stdout, "%s\t%s\n", id, f.Path)
	}
	fmt.Fprintf(env.Stdout, "stored %s tokens from %s files\n", humanize.Comma(int64(total)), humanize.Comma(int64(len(files))))
	return nil
}

// ServeCommand runs the WebSocket tokenize service until ctx is cancelled.
func ServeCommand(ctx context.Context, env *Env, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	addr := fs.String("addr", env.Config.ListenAddr, "listen address")
	strict := fs.Bool("strict", env.Config.Strict, "raise a diagnostic when a token cannot be resolved")
	if err := fs.Parse(args); err != nil {
		return err
	}

	srv := server.New(server.Options{Strict: *strict, Logger: env.Logger})
	return srv.ListenAndServe(ctx, *addr)
}

// ReplCommand starts the interactive shell.
func ReplCommand(env *Env) error {
	return repl.Start(&repl.Session{Strict: env.Config.Strict, URI: "<repl>"}, env.Stdout)
}
