package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/simplebayes/simplebayes/bayes"
	"github.com/simplebayes/simplebayes/bayes/tokenizer"
)

// Config controls the classifier service.
type Config struct {
	Port        string `yaml:"port"`
	ModelPath   string `yaml:"model_path"`
	StorePath   string `yaml:"store_path"`
	MinMax      bool   `yaml:"minmax_normalization"`
	Stemming    string `yaml:"stemming"`
	HTMLInput   bool   `yaml:"html_input"`
	BearerToken string `yaml:"bearer_token"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{Port: "8000"}
}

// LoadConfig reads a YAML config file. An empty path yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Port == "" {
		cfg.Port = DefaultConfig().Port
	}
	return cfg, nil
}

// Tokenizer assembles the tokenizer chain the config describes: plain words
// by default, optionally snowball-stemmed, optionally fed from HTML input.
func (cfg Config) Tokenizer() tokenizer.Tokenizer {
	t := tokenizer.Tokenizer(tokenizer.Words)
	if cfg.Stemming != "" {
		t = tokenizer.Stemmed(t, cfg.Stemming)
	}
	if cfg.HTMLInput {
		t = tokenizer.HTML(t)
	}
	return t
}

func (cfg Config) classifierOptions() []bayes.Option {
	opts := []bayes.Option{bayes.WithTokenizer(cfg.Tokenizer())}
	if cfg.MinMax {
		opts = append(opts, bayes.WithMinMaxNormalization())
	}
	return opts
}
