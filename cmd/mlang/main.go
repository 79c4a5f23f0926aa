// cmd/mlang/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mlang/cmd/mlang/commands"
	"mlang/internal/config"
)

const VERSION = "0.1.0"

// Build variables - can be set during build with ldflags
var (
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		showUsage()
		return 2
	}

	switch args[0] {
	case "--help", "-h", "help":
		showUsage()
		return 0
	case "--version", "-v", "version":
		showVersion()
		return 0
	}

	configPath := os.Getenv("MLANG_CONFIG")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	env := &commands.Env{
		Config: cfg,
		Logger: cfg.Logger(os.Stderr),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "tokens":
		err = commands.TokensCommand(ctx, env, args[1:])
	case "check":
		err = commands.CheckCommand(ctx, env, args[1:])
	case "dump":
		err = commands.DumpCommand(ctx, env, args[1:])
	case "serve":
		err = commands.ServeCommand(ctx, env, args[1:])
	case "repl":
		err = commands.ReplCommand(env)
	case "lexicon":
		commands.LexiconCommand(env)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		showUsage()
		return 2
	}

	if err != nil {
		if !errors.Is(err, commands.ErrFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func showUsage() {
	fmt.Println("mlang - tokenizer for the mlang language")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mlang tokens [-strict] [-json] <file>...   Print the tokens of each file")
	fmt.Println("  mlang check <file>...                      Tokenize strictly and report errors")
	fmt.Println("  mlang dump [-driver d] [-dsn s] <file>...  Store token runs in a database")
	fmt.Println("  mlang serve [-addr host:port]              Serve tokenization over WebSocket")
	fmt.Println("  mlang repl                                 Start interactive REPL")
	fmt.Println("  mlang lexicon                              Print the lexicon table")
	fmt.Println("  mlang version                              Show version")
	fmt.Println()
	fmt.Println("Configuration is read from mlang.json (or $MLANG_CONFIG) and MLANG_* variables.")
}

func showVersion() {
	fmt.Printf("mlang v%s\n", VERSION)
	fmt.Printf("Build Date: %s\n", BuildDate)
	if GitCommit != "unknown" {
		fmt.Printf("Git Commit: %s\n", GitCommit)
	}
}
