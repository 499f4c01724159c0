package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestManagerGetDefaults(t *testing.T) {
	m := NewManager()
	if got := m.GetInt("port", 9090); got != 9090 {
		t.Errorf("GetInt default: got %d, want 9090", got)
	}
	if got := m.GetString("env", "dev"); got != "dev" {
		t.Errorf("GetString default: got %q, want %q", got, "dev")
	}
}

func TestManagerLoadFromEnv(t *testing.T) {
	t.Setenv("HEADPARSE_READ_TIMEOUT", "5")
	t.Setenv("HEADPARSE_ENV", "production")
	t.Setenv("OTHER_PREFIX_PORT", "1234")

	m := NewManager()
	m.LoadFromEnv("HEADPARSE")

	if got := m.GetInt("read.timeout", 0); got != 5 {
		t.Errorf("read.timeout: got %d, want 5", got)
	}
	if got := m.GetString("env", ""); got != "production" {
		t.Errorf("env: got %q, want %q", got, "production")
	}
	if _, exists := m.Get("port"); exists {
		t.Error("unprefixed env var should not have been loaded")
	}
}

func TestManagerJSONRoundTripAndUnmarshal(t *testing.T) {
	m := NewManager()
	m.Set("port", 9999)
	m.Set("read.timeout", 7)
	m.Set("env", "staging")

	path := filepath.Join(t.TempDir(), "config.json")
	if err := m.SaveToJSON(path); err != nil {
		t.Fatalf("SaveToJSON: %v", err)
	}

	loaded := NewManager()
	if err := loaded.LoadFromJSON(path); err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}

	var cfg Config
	if err := loaded.Unmarshal("", &cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if cfg.Port != 9999 {
		t.Errorf("Port: got %d, want 9999", cfg.Port)
	}
	if cfg.ReadTimeout != 7 {
		t.Errorf("ReadTimeout: got %d, want 7", cfg.ReadTimeout)
	}
	if cfg.Env != "staging" {
		t.Errorf("Env: got %q, want %q", cfg.Env, "staging")
	}
}

func TestManagerLoadFromJSONMissingFile(t *testing.T) {
	m := NewManager()
	if err := m.LoadFromJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error loading a nonexistent config file")
	}
}

func TestManagerLoadFromJSONNestedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"read":{"timeout":3},"port":8081}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m := NewManager()
	if err := m.LoadFromJSON(path); err != nil {
		t.Fatalf("LoadFromJSON: %v", err)
	}

	if got := m.GetInt("read.timeout", 0); got != 3 {
		t.Errorf("nested read.timeout: got %d, want 3", got)
	}
	if got := m.GetInt("port", 0); got != 8081 {
		t.Errorf("port: got %d, want 8081", got)
	}
}
