package config

import "testing"

type testEnvConfig struct {
	Addr    string `env:"TENKEY_TEST_ADDR"    envDefault:"localhost:9000"`
	Verbose bool   `env:"TENKEY_TEST_VERBOSE"`
}

func TestParseEnvAppliesDefaults(t *testing.T) {
	var cfg testEnvConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "localhost:9000" {
		t.Fatalf("addr = %q, want default", cfg.Addr)
	}
}

func TestParseEnvReadsVariables(t *testing.T) {
	t.Setenv("TENKEY_TEST_ADDR", "example.com:1234")
	t.Setenv("TENKEY_TEST_VERBOSE", "true")

	var cfg testEnvConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "example.com:1234" {
		t.Fatalf("addr = %q, want %q", cfg.Addr, "example.com:1234")
	}
	if !cfg.Verbose {
		t.Fatal("verbose flag not parsed")
	}
}
