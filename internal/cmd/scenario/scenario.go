// Package scenario parses scenario command flags and replays Lua scripts.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/louisbranch/tenkey.space/internal/platform/config"
	"github.com/louisbranch/tenkey.space/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario   string        `env:"TENKEY_SCENARIO_FILE"`
	Assertions bool          `env:"TENKEY_SCENARIO_ASSERT"  envDefault:"true"`
	Verbose    bool          `env:"TENKEY_SCENARIO_VERBOSE"`
	Timeout    time.Duration `env:"TENKEY_SCENARIO_TIMEOUT" envDefault:"5s"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, errOut io.Writer) error {
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	mode := scenario.AssertStrict
	if !cfg.Assertions {
		mode = scenario.AssertReport
	}

	runner := scenario.NewRunner(scenario.Config{
		Timeout:    cfg.Timeout,
		Assertions: mode,
		Verbose:    cfg.Verbose,
		Logger:     log.New(errOut, "", 0),
	})
	if err := runner.RunFile(ctx, cfg.Scenario); err != nil {
		return err
	}
	if runner.Failures() > 0 {
		return fmt.Errorf("%d expectation(s) failed", runner.Failures())
	}
	return nil
}
