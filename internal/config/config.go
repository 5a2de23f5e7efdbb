package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stellarlinkco/phys-eval/internal/units"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	LLM        LLMConfig          `yaml:"llm"`
	Evaluation EvaluationConfig   `yaml:"evaluation"`
	Units      []units.Conversion `yaml:"units,omitempty"`
	Storage    StorageConfig      `yaml:"storage"`
}

type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type EvaluationConfig struct {
	// SigFigs overrides the derived significant-figure tolerance when > 0.
	SigFigs int `yaml:"sig_figs,omitempty"`

	// SimilarityThreshold is the minimum passing score for the LLM-judge
	// text path. Zero keeps the comparator default.
	SimilarityThreshold float64 `yaml:"similarity_threshold,omitempty"`

	// UseSimilarity enables the LLM-judge collaborator for text pairs.
	UseSimilarity bool `yaml:"use_similarity,omitempty"`

	Concurrency int           `yaml:"concurrency,omitempty"`
	Timeout     time.Duration `yaml:"-"`
}

// UnmarshalYAML decodes the timeout from a duration string ("30s", "2m").
func (e *EvaluationConfig) UnmarshalYAML(value *yaml.Node) error {
	type alias EvaluationConfig
	var aux struct {
		Rest    alias  `yaml:",inline"`
		Timeout string `yaml:"timeout,omitempty"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	*e = EvaluationConfig(aux.Rest)
	if strings.TrimSpace(aux.Timeout) == "" {
		return nil
	}
	d, err := time.ParseDuration(aux.Timeout)
	if err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	e.Timeout = d
	return nil
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns a usable configuration when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}
	if strings.TrimSpace(cfg.LLM.DefaultProvider) == "" {
		cfg.LLM.DefaultProvider = "claude"
	}
	if cfg.Evaluation.Concurrency <= 0 {
		cfg.Evaluation.Concurrency = 4
	}

	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	} else if v := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	}

	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := cfg.LLM.Providers["openai"]
		p.APIKey = v
		cfg.LLM.Providers["openai"] = p
	}
}

// UnitTable builds the conversion table from the configured entries, falling
// back to the built-in defaults. A malformed table is a configuration error
// and propagates.
func (c *Config) UnitTable() (*units.Table, error) {
	if c == nil {
		return units.NewTable(nil)
	}
	return units.NewTable(c.Units)
}
