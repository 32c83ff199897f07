package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the document chat engine.
type Config struct {
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ChunkingConfig holds the word budgets for document splitting.
type ChunkingConfig struct {
	ChunkSize int `yaml:"chunk_size"` // soft word budget per chunk
	Overlap   int `yaml:"overlap"`    // words carried over between chunks
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK            int     `yaml:"top_k"`
	DiversityWeight float64 `yaml:"diversity_weight"` // lambda in the re-rank
	CacheSize       int     `yaml:"cache_size"`       // 0 disables the query cache
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "ollama", "mock"
	Model     string `yaml:"model"`       // e.g. "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // environment variable for the API key
	BaseURL   string `yaml:"base_url"`    // for self-hosted endpoints
	Dimension int    `yaml:"dimension"`   // only used by the mock provider
}

// LLMConfig holds completion configuration.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "openai", "groq"
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
}

// StorageConfig holds durable persistence configuration.
type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // BoltDB file, relative to the data dir
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			ChunkSize: 500,
			Overlap:   100,
		},
		Retrieve: RetrieveConfig{
			TopK:            5,
			DiversityWeight: 0.3,
			CacheSize:       100,
			CacheTTLSeconds: 300,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 384,
		},
		LLM: LLMConfig{
			Provider:  "groq",
			Model:     "llama-3.1-8b-instant",
			APIKeyEnv: "GROQ_API_KEY",
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    "chunks.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, filling gaps with defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for docchat.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docchat.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docchat", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DataDir returns the per-project data directory.
func DataDir(dir string) string {
	return filepath.Join(dir, ".docchat")
}

// StorePath resolves the BoltDB file path under the data directory.
func (c *Config) StorePath(dir string) string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(DataDir(dir), c.Storage.Path)
}

// EnsureDataDir ensures the data directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(DataDir(dir), 0755)
}
