// internal/repl/repl.go
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"mlang/internal/lexer"
)

const (
	prompt      = ">>> "
	historyFile = ".mlang_history"
)

// Session evaluates REPL input. Each line is tokenized on its own.
type Session struct {
	Strict bool
	// URI names the input in tracebacks.
	URI string
}

// Eval handles one line of input and returns the text to print. quit is
// true when the line asks to leave the REPL.
func (s *Session) Eval(line string) (out string, quit bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}
	if trimmed == "" {
		return "", false
	}

	var opts []lexer.Option
	if s.Strict {
		opts = append(opts, lexer.WithStrict())
	}
	res := lexer.Tokenize(line, opts...)

	var sb strings.Builder
	for _, tk := range res.Tokens {
		sb.WriteString(tk.String())
		sb.WriteByte('\n')
	}
	if res.Failed() {
		sb.WriteString(res.Err.Traceback(line, s.URI))
		sb.WriteByte('\n')
	} else if !res.ReachedEOF {
		sb.WriteString("(stopped before the end of input)\n")
	}
	return sb.String(), false
}

func (s *Session) command(cmd string) (string, bool) {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return "", true
	case ":lexicon":
		var sb strings.Builder
		for _, e := range lexer.Entries() {
			fmt.Fprintf(&sb, "%-8s %-12s %-8s interfix=%v\n", e.Characters, e.Kind, e.Precedence, e.Interfix)
		}
		return sb.String(), false
	case ":strict":
		s.Strict = !s.Strict
		return fmt.Sprintf("strict mode %v\n", s.Strict), false
	case ":help":
		return ":lexicon  show the lexicon\n:strict   toggle strict mode\n:quit     leave\n", false
	default:
		return "unknown command. Type :help for a list.\n", false
	}
}

// Start runs the interactive loop on the terminal until :quit or EOF.
func Start(s *Session, out io.Writer) error {
	fmt.Fprintln(out, "mlang REPL | type :quit to exit")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}

		text, quit := s.Eval(line)
		if quit {
			return nil
		}
		fmt.Fprint(out, text)
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
	}
}
