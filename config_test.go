package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Fatalf("unexpected default port: got %q, want %q", cfg.Port, "8000")
	}
	if cfg.BearerToken != "" || cfg.ModelPath != "" || cfg.StorePath != "" {
		t.Fatalf("expected empty optional settings, got %+v", cfg)
	}
	if cfg.MinMax || cfg.HTMLInput || cfg.Stemming != "" {
		t.Fatalf("expected plain classifier defaults, got %+v", cfg)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configYAML := `
port: "9090"
model_path: /var/lib/simplebayes/model.gob
store_path: /var/lib/simplebayes/model.db
minmax_normalization: true
stemming: english
html_input: true
bearer_token: secret-token
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("unexpected port: got %q, want %q", cfg.Port, "9090")
	}
	if cfg.ModelPath != "/var/lib/simplebayes/model.gob" {
		t.Fatalf("unexpected model path: got %q", cfg.ModelPath)
	}
	if cfg.StorePath != "/var/lib/simplebayes/model.db" {
		t.Fatalf("unexpected store path: got %q", cfg.StorePath)
	}
	if !cfg.MinMax || !cfg.HTMLInput {
		t.Fatalf("expected normalization and HTML flags set, got %+v", cfg)
	}
	if cfg.Stemming != "english" {
		t.Fatalf("unexpected stemming language: got %q", cfg.Stemming)
	}
	if cfg.BearerToken != "secret-token" {
		t.Fatalf("unexpected bearer token: got %q", cfg.BearerToken)
	}
}

func TestLoadConfigEmptyPortFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("bearer_token: token\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Fatalf("expected default port fallback, got %q", cfg.Port)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: [not: closed\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestConfigTokenizerChain(t *testing.T) {
	plain := Config{}.Tokenizer()
	got := plain("Running QUICKLY!")
	if len(got) != 2 || got[0] != "running" || got[1] != "quickly" {
		t.Fatalf("unexpected plain tokens: %v", got)
	}

	stemming := Config{Stemming: "english"}.Tokenizer()
	got = stemming("Running QUICKLY!")
	if len(got) != 2 || got[0] != "run" || got[1] != "quick" {
		t.Fatalf("unexpected stemmed tokens: %v", got)
	}

	html := Config{HTMLInput: true}.Tokenizer()
	got = html("<p>Hello <b>World</b></p>")
	if len(got) != 2 || got[0] != "hello" || got[1] != "world" {
		t.Fatalf("unexpected HTML tokens: %v", got)
	}
}

func TestClassifierOptionsMinMax(t *testing.T) {
	if got := len(Config{}.classifierOptions()); got != 1 {
		t.Fatalf("unexpected option count for defaults: got %d, want 1", got)
	}
	if got := len(Config{MinMax: true}.classifierOptions()); got != 2 {
		t.Fatalf("unexpected option count with normalization: got %d, want 2", got)
	}
}
