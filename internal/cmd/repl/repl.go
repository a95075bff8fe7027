// Package repl parses REPL command flags and runs an interactive calculator
// loop over stdin/stdout.
package repl

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/tenkey.space/internal/calc"
	"github.com/louisbranch/tenkey.space/internal/platform/config"
	"github.com/louisbranch/tenkey.space/internal/services/calc/app"
	"github.com/louisbranch/tenkey.space/internal/services/calc/storage"
	"github.com/louisbranch/tenkey.space/internal/services/calc/storage/memory"
	"github.com/louisbranch/tenkey.space/internal/services/calc/storage/sqlite"
)

// Config holds REPL command configuration.
type Config struct {
	DBPath  string `env:"TENKEY_DB_PATH"`
	Session string `env:"TENKEY_REPL_SESSION" envDefault:"repl"`
	Locale  string `env:"TENKEY_LOCALE"       envDefault:"en-US"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (empty for in-memory sessions)")
	fs.StringVar(&cfg.Session, "session", cfg.Session, "session name")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for user-facing error messages")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run reads key sequences line by line and prints the display after each.
// Characters map through the key table, so "12+3=" computes and "c" clears
// the current entry. The lines "ac", "quit" and "exit" are commands.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	store, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := app.NewService(store, app.WithLocale(cfg.Locale))
	session, err := svc.CreateSession(ctx, cfg.Session)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	printDisplay(out, session.State.Display())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "ac":
			display, err := svc.Reset(ctx, session.ID)
			if err != nil {
				return err
			}
			printDisplay(out, display)
			continue
		}

		tokens := make([]string, 0, len(line))
		for _, key := range line {
			if token, ok := calc.KeyToken(key); ok {
				tokens = append(tokens, token)
			}
		}
		display, err := svc.Press(ctx, session.ID, tokens...)
		if err != nil {
			return err
		}
		printDisplay(out, display)
	}
	return scanner.Err()
}

func printDisplay(out io.Writer, display calc.Display) {
	if display.HasError {
		fmt.Fprintf(out, "%s (%s)\n", display.Text, display.ErrorMessage)
		return
	}
	fmt.Fprintln(out, display.Text)
}

func openStore(path string) (storage.SessionStore, error) {
	if strings.TrimSpace(path) == "" {
		return memory.New(), nil
	}
	return sqlite.Open(path)
}
