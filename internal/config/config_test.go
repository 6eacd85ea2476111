package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "corpus:\n  dir: /srv/records\n")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Corpus.Dir != "/srv/records" {
		t.Errorf("corpus dir = %q", cfg.Corpus.Dir)
	}
	// Unset keys fall back to defaults.
	if cfg.Timeouts.Agent != 5*time.Minute {
		t.Errorf("agent timeout = %s, want default 5m", cfg.Timeouts.Agent)
	}
	if !cfg.History.Enabled {
		t.Error("history should default to enabled")
	}
	if cfg.Events.BufferSize != 256 {
		t.Errorf("buffer size = %d, want default 256", cfg.Events.BufferSize)
	}
}

func TestLoadFromPathOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
anthropic:
  model: claude-opus-4-20250514
timeouts:
  agent: 90s
  llm: 30s
history:
  enabled: false
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Anthropic.Model != "claude-opus-4-20250514" {
		t.Errorf("model = %q", cfg.Anthropic.Model)
	}
	if cfg.Timeouts.Agent != 90*time.Second || cfg.Timeouts.LLM != 30*time.Second {
		t.Errorf("timeouts = %+v", cfg.Timeouts)
	}
	if cfg.History.Enabled {
		t.Error("history should be disabled")
	}
}

func TestLoadFromPathExpandsAPIKey(t *testing.T) {
	t.Setenv("TEST_FOIA_KEY", "sk-ant-test")
	path := writeConfig(t, "anthropic:\n  api_key: ${TEST_FOIA_KEY}\n")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-ant-test" {
		t.Errorf("api key = %q, want expanded value", cfg.Anthropic.APIKey)
	}
}

func TestDefaultMatchesDefaults(t *testing.T) {
	path := writeConfig(t, "{}\n")
	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	def := Default()
	if loaded.Corpus != def.Corpus || loaded.Timeouts != def.Timeouts ||
		loaded.History != def.History || loaded.Events != def.Events {
		t.Errorf("Default() diverges from setDefaults: %+v vs %+v", def, loaded)
	}
}
