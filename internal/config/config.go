package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/segscope/internal/domain/search/action"
	"github.com/kailas-cloud/segscope/internal/domain/search/request"
	"github.com/kailas-cloud/segscope/internal/usecase/presenter"
	segscope "github.com/kailas-cloud/segscope/pkg/sdk"
)

// Config holds the segscope UI server configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Backend  BackendConfig  `yaml:"backend"`
	UI       UIConfig       `yaml:"ui"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// BackendConfig points at the combined search service.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
}

// UIConfig holds results page settings.
type UIConfig struct {
	// LoadingTimeoutSec is how long a submit waits before hiding the loading
	// indicator. The backend call keeps running. 0 waits for the reply.
	LoadingTimeoutSec int `yaml:"loading_timeout_sec"`
	PreviewChars      int `yaml:"preview_chars"`
}

// PricingConfig holds per-million-token rates for the cost estimate.
type PricingConfig struct {
	PromptPerMillion float64 `yaml:"prompt_per_million"`
	AnswerPerMillion float64 `yaml:"answer_per_million"`
}

// DefaultsConfig holds the values the search form starts with.
type DefaultsConfig struct {
	Action    string  `yaml:"action"`
	AtLeast   int     `yaml:"at_least"`
	Threshold float64 `yaml:"threshold"`
	AtMost    int     `yaml:"at_most"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates configuration bytes.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	// Keys missing from the file keep their defaults; explicit zeros are kept.
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// Default returns the configuration used for keys a file leaves out.
func Default() Config {
	var c Config
	c.Defaults.Threshold = request.DefaultThreshold
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills empty fields with default values. A zero threshold is
// a valid setting and is left alone.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = segscope.DefaultBaseURL
	}
	if c.UI.PreviewChars <= 0 {
		c.UI.PreviewChars = presenter.DefaultPreviewRunes
	}
	rates := presenter.DefaultRates()
	if c.Pricing.PromptPerMillion == 0 {
		c.Pricing.PromptPerMillion = rates.Prompt
	}
	if c.Pricing.AnswerPerMillion == 0 {
		c.Pricing.AnswerPerMillion = rates.Answer
	}
	if c.Defaults.Action == "" {
		c.Defaults.Action = string(action.Search)
	}
	if c.Defaults.AtLeast == 0 {
		c.Defaults.AtLeast = request.DefaultAtLeast
	}
	if c.Defaults.AtMost == 0 {
		c.Defaults.AtMost = request.DefaultAtMost
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an http(s) URL, got %q", c.Backend.BaseURL)
	}
	if c.UI.LoadingTimeoutSec < 0 {
		return fmt.Errorf("ui.loading_timeout_sec must not be negative, got %d", c.UI.LoadingTimeoutSec)
	}
	if c.Pricing.PromptPerMillion < 0 || c.Pricing.AnswerPerMillion < 0 {
		return fmt.Errorf("pricing rates must not be negative")
	}
	switch c.Defaults.Action {
	case "search", "rag":
		// ok
	default:
		return fmt.Errorf("defaults.action must be \"search\" or \"rag\", got %q", c.Defaults.Action)
	}
	if c.Defaults.AtLeast < 1 || c.Defaults.AtMost < 1 {
		return fmt.Errorf("defaults.at_least and defaults.at_most must be >= 1")
	}
	if c.Defaults.Threshold < 0 || c.Defaults.Threshold > 1 {
		return fmt.Errorf("defaults.threshold must be between 0 and 1, got %g", c.Defaults.Threshold)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
