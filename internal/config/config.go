// Package config handles service configuration and data paths.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DataDir is the directory holding the collection database.
	DataDir = "data"

	// DBFile is the collection database file name.
	DBFile = "papers.db"

	// CollectionName is the fixed name of the paper collection. The
	// ingestion command and the query service share it.
	CollectionName = "arxiv_papers"

	// DefaultSnapshotFile is the default arXiv metadata snapshot file.
	DefaultSnapshotFile = "arxiv-metadata-oai-snapshot.json"

	// ConfigFile is the optional YAML configuration file name.
	ConfigFile = "config.yml"

	// DefaultAddr is the default listen address for the query service.
	DefaultAddr = ":8000"

	// DefaultCORSOrigin is the single origin allowed when none are configured,
	// the local development frontend.
	DefaultCORSOrigin = "http://localhost:5173"
)

// Config holds the service configuration, read from config.yml with
// environment variable overrides.
type Config struct {
	Addr        string   `yaml:"addr,omitempty"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
	OllamaURL   string   `yaml:"ollama_url,omitempty"`
	Model       string   `yaml:"model,omitempty"`
	Dimensions  int      `yaml:"dimensions,omitempty"`
	DataFile    string   `yaml:"data_file,omitempty"`
	BatchSize   int      `yaml:"batch_size,omitempty"`
}

// DataPath returns the path to the data directory from a root path.
func DataPath(root string) string {
	return filepath.Join(root, DataDir)
}

// DBPath returns the path to the collection database from a root path.
func DBPath(root string) string {
	return filepath.Join(root, DataDir, DBFile)
}

// SnapshotPath returns the default snapshot file path from a root path.
func SnapshotPath(root string) string {
	return filepath.Join(root, DefaultSnapshotFile)
}

// Load reads configuration for the repository at the given root. A missing
// config.yml is not an error; defaults apply. Environment variables override
// file values.
func Load(root string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filepath.Join(root, ConfigFile))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults(root)
	return &cfg, nil
}

// applyEnv overrides file values from the environment.
func (c *Config) applyEnv() {
	if addr := os.Getenv("AXS_ADDR"); addr != "" {
		c.Addr = addr
	}
	if url := os.Getenv("OLLAMA_URL"); url != "" {
		c.OllamaURL = url
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = SplitOrigins(origins)
	}
}

func (c *Config) applyDefaults(root string) {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{DefaultCORSOrigin}
	}
	if c.DataFile == "" {
		c.DataFile = SnapshotPath(root)
	}
}

// SplitOrigins parses a comma-separated origin list.
func SplitOrigins(s string) []string {
	var origins []string
	for _, origin := range strings.Split(s, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
