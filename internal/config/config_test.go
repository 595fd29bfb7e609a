package config

import (
	"strings"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("http:\n  port: 9000\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9000 {
		t.Errorf("HTTP.Port = %d", cfg.HTTP.Port)
	}
	if cfg.Backend.BaseURL != "http://localhost:8023" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Pricing.PromptPerMillion != 15 || cfg.Pricing.AnswerPerMillion != 60 {
		t.Errorf("Pricing = %+v", cfg.Pricing)
	}
	if cfg.Defaults.Action != "search" || cfg.Defaults.AtLeast != 5 ||
		cfg.Defaults.Threshold != 0.3 || cfg.Defaults.AtMost != 10 {
		t.Errorf("Defaults = %+v", cfg.Defaults)
	}
	if cfg.UI.LoadingTimeoutSec != 0 {
		t.Errorf("UI.LoadingTimeoutSec = %d, want 0 (wait for reply)", cfg.UI.LoadingTimeoutSec)
	}
}

func TestParse_ExplicitZeroThreshold(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		threshold float64
		atLeast   int
	}{
		{"zero kept", "defaults:\n  threshold: 0\n", 0, 5},
		{"section without threshold", "defaults:\n  at_least: 3\n", 0.3, 3},
		{"custom threshold", "defaults:\n  threshold: 0.75\n", 0.75, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Defaults.Threshold != tt.threshold {
				t.Errorf("Defaults.Threshold = %g, want %g", cfg.Defaults.Threshold, tt.threshold)
			}
			if cfg.Defaults.AtLeast != tt.atLeast {
				t.Errorf("Defaults.AtLeast = %d, want %d", cfg.Defaults.AtLeast, tt.atLeast)
			}
			if cfg.Defaults.AtMost != 10 {
				t.Errorf("Defaults.AtMost = %d, want 10", cfg.Defaults.AtMost)
			}
		})
	}
}

func TestApplyDefaults_LeavesZeroThreshold(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	if c.Defaults.Threshold != 0 {
		t.Errorf("Defaults.Threshold = %g, want 0", c.Defaults.Threshold)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("zero threshold must validate: %v", err)
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("SEGSCOPE_BACKEND", "http://search.internal:9999")

	data := []byte(`
backend:
  base_url: ${SEGSCOPE_BACKEND}
logging:
  level: ${SEGSCOPE_LOG_LEVEL:-warn}
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.BaseURL != "http://search.internal:9999" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want default warn", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	valid := Default

	tests := []struct {
		name     string
		mutate   func(c *Config)
		contains string
	}{
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"relative backend", func(c *Config) { c.Backend.BaseURL = "localhost:8023" }, "backend.base_url"},
		{"ftp backend", func(c *Config) { c.Backend.BaseURL = "ftp://host" }, "backend.base_url"},
		{"negative loading timeout", func(c *Config) { c.UI.LoadingTimeoutSec = -1 }, "loading_timeout_sec"},
		{"negative rate", func(c *Config) { c.Pricing.AnswerPerMillion = -1 }, "pricing"},
		{"unknown action", func(c *Config) { c.Defaults.Action = "article" }, "defaults.action"},
		{"zero bound", func(c *Config) { c.Defaults.AtMost = -3 }, "at_most"},
		{"threshold", func(c *Config) { c.Defaults.Threshold = 2 }, "threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error = %q, want it to mention %q", err, tt.contains)
			}
		})
	}

	c := valid()
	if err := c.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected parse error")
	}
}
