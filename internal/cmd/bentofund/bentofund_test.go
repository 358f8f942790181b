package bentofund

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("bentofund", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Port != 8091 {
		t.Fatalf("port = %d, want 8091", cfg.Port)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("BENTOFUND_PORT", "9001")

	fs := flag.NewFlagSet("bentofund", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("port = %d, want 9001", cfg.Port)
	}

	fs = flag.NewFlagSet("bentofund", flag.ContinueOnError)
	cfg, err = ParseConfig(fs, []string{"-port", "9002"})
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Port != 9002 {
		t.Fatalf("port = %d, want 9002", cfg.Port)
	}
}
