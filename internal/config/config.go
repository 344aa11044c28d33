package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the similarity engine configuration.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Store      StoreConfig      `yaml:"store"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Report     ReportConfig     `yaml:"report"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// StoreConfig holds the embedded document store settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// SimilarityConfig holds ensemble and scanner settings.
type SimilarityConfig struct {
	Threshold float64 `yaml:"threshold"` // default 0.7
	TopN      int     `yaml:"top_n"`     // find-similar result cap, default 5
	// Metrics selects the metric subset; empty means all registered.
	Metrics []string `yaml:"metrics"`
	// Weights overrides the built-in weight table per metric name.
	Weights map[string]float64 `yaml:"weights"`
	// Renormalize divides the weighted sum by the sum of selected
	// weights. Off by default: with a strict metric subset the overall
	// score then stays capped below 1.0 by the unused weights.
	Renormalize bool `yaml:"renormalize"`
	NGramSize   int  `yaml:"ngram_size"`   // default 3
	ShingleSize int  `yaml:"shingle_size"` // default 5
	Stemming    bool `yaml:"stemming"`     // English stemming in the lexical tokenizer
	Workers     int  `yaml:"workers"`      // pair comparison workers, default NumCPU
}

// EmbeddingConfig holds the embedding provider settings. An empty API
// key disables the provider; the semantic metric then scores 0.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	Cache      bool   `yaml:"cache"` // cache vectors in the store
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	OutputPath string `yaml:"output_path"`
}

// MetricsConfig holds the optional Prometheus exposition settings.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // e.g. ":9090"; empty disables the listener
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML file path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Substitute env variables of the form ${VAR} and ${VAR:-default}
	data = expandEnvVars(data)

	var cfg Config
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

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Store.Path == "" {
		c.Store.Path = "data/documents"
	}
	if c.Similarity.Threshold <= 0 {
		c.Similarity.Threshold = 0.7
	}
	if c.Similarity.TopN <= 0 {
		c.Similarity.TopN = 5
	}
	if c.Similarity.NGramSize <= 0 {
		c.Similarity.NGramSize = 3
	}
	if c.Similarity.ShingleSize <= 0 {
		c.Similarity.ShingleSize = 5
	}
	if c.Similarity.Workers <= 0 {
		c.Similarity.Workers = runtime.NumCPU()
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Report.OutputPath == "" {
		c.Report.OutputPath = "similarity_report.txt"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Similarity.Threshold > 1 {
		return fmt.Errorf("similarity.threshold must be in (0, 1], got %v", c.Similarity.Threshold)
	}
	for name, w := range c.Similarity.Weights {
		if w < 0 {
			return fmt.Errorf("similarity.weights.%s must be non-negative, got %v", name, w)
		}
	}
	if c.Embedding.APIKey != "" && c.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url is required when embedding.api_key is set")
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
