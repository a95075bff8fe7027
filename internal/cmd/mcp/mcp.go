// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/tenkey.space/internal/platform/config"
	"github.com/louisbranch/tenkey.space/internal/platform/otel"
	"github.com/louisbranch/tenkey.space/internal/services/calc/app"
	"github.com/louisbranch/tenkey.space/internal/services/calc/storage"
	"github.com/louisbranch/tenkey.space/internal/services/calc/storage/memory"
	"github.com/louisbranch/tenkey.space/internal/services/calc/storage/sqlite"
	mcpservice "github.com/louisbranch/tenkey.space/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath       string `env:"TENKEY_DB_PATH"`
	Transport    string `env:"TENKEY_MCP_TRANSPORT"     envDefault:"stdio"`
	HTTPAddr     string `env:"TENKEY_MCP_HTTP_ADDR"     envDefault:"localhost:8081"`
	AllowedHosts string `env:"TENKEY_MCP_ALLOWED_HOSTS"`
	AuthSecret   string `env:"TENKEY_MCP_AUTH_SECRET"`
	Locale       string `env:"TENKEY_LOCALE"            envDefault:"en-US"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (empty for in-memory sessions)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.AllowedHosts, "allowed-hosts", cfg.AllowedHosts, "comma-separated non-loopback hosts for HTTP transport")
	fs.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "HS256 bearer secret for HTTP transport (empty disables auth)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for user-facing error messages")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "mcp")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := app.NewService(store, app.WithLocale(cfg.Locale))
	return mcpservice.Run(ctx, svc, mcpservice.Config{
		Transport:    mcpservice.TransportKind(cfg.Transport),
		HTTPAddr:     cfg.HTTPAddr,
		AllowedHosts: splitHosts(cfg.AllowedHosts),
		AuthSecret:   cfg.AuthSecret,
	})
}

func openStore(path string) (storage.SessionStore, error) {
	if strings.TrimSpace(path) == "" {
		return memory.New(), nil
	}
	return sqlite.Open(path)
}

func splitHosts(value string) []string {
	var hosts []string
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			hosts = append(hosts, entry)
		}
	}
	return hosts
}
