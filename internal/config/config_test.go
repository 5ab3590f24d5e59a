package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Addr, DefaultAddr)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != DefaultCORSOrigin {
		t.Errorf("CORSOrigins = %v, want [%s]", cfg.CORSOrigins, DefaultCORSOrigin)
	}
	if cfg.DataFile != filepath.Join(root, DefaultSnapshotFile) {
		t.Errorf("DataFile = %q, want default snapshot path", cfg.DataFile)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	root := t.TempDir()
	content := `addr: ":9000"
cors_origins:
  - http://localhost:3000
  - https://papers.example.org
ollama_url: http://gpu-box:11434
model: nomic-embed-text
dimensions: 768
batch_size: 50
`
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Addr)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://papers.example.org" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.OllamaURL != "http://gpu-box:11434" {
		t.Errorf("OllamaURL = %q", cfg.OllamaURL)
	}
	if cfg.Model != "nomic-embed-text" || cfg.Dimensions != 768 {
		t.Errorf("model = %q dims = %d, want file values", cfg.Model, cfg.Dimensions)
	}
	if cfg.BatchSize != 50 {
		t.Errorf("BatchSize = %d, want 50", cfg.BatchSize)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte("addr: [not closed"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := Load(root); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	root := t.TempDir()
	content := `addr: ":9000"
ollama_url: http://from-file:11434
`
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("AXS_ADDR", ":8080")
	t.Setenv("OLLAMA_URL", "http://from-env:11434")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example ,")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want env override :8080", cfg.Addr)
	}
	if cfg.OllamaURL != "http://from-env:11434" {
		t.Errorf("OllamaURL = %q, want env override", cfg.OllamaURL)
	}
	want := []string{"http://a.example", "http://b.example"}
	if len(cfg.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
	for i := range want {
		if cfg.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.CORSOrigins[i], want[i])
		}
	}
}

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"single", "http://localhost:5173", []string{"http://localhost:5173"}},
		{"multiple with spaces", "http://a.example, http://b.example", []string{"http://a.example", "http://b.example"}},
		{"trailing comma", "http://a.example,", []string{"http://a.example"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitOrigins(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitOrigins(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("SplitOrigins(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPaths(t *testing.T) {
	if got := DBPath("/srv/axs"); got != filepath.Join("/srv/axs", "data", "papers.db") {
		t.Errorf("DBPath() = %q", got)
	}
	if got := DataPath("/srv/axs"); got != filepath.Join("/srv/axs", "data") {
		t.Errorf("DataPath() = %q", got)
	}
}
