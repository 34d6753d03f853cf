package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

var managedVars = []string{
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"CADQUOTE_BLENDER", "CADQUOTE_GMSH", "CADQUOTE_OPENSCAD",
	"CADQUOTE_RENDER_SIZE", "CADQUOTE_LOG_LEVEL", "CADQUOTE_LOG_FORMAT",
}

// clearEnv unsets every variable the config reads and restores them after
// the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAI.Model != "gpt-4.1" {
		t.Errorf("expected default model 'gpt-4.1', got %q", cfg.OpenAI.Model)
	}
	if cfg.Render.Size != 640 {
		t.Errorf("expected default render size 640, got %d", cfg.Render.Size)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Tools != (ToolsConfig{}) {
		t.Errorf("expected no tool paths, got %+v", cfg.Tools)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("CADQUOTE_BLENDER", "/opt/blender/blender")
	t.Setenv("CADQUOTE_RENDER_SIZE", "320")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("expected model 'gpt-4o', got %q", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("unexpected base URL %q", cfg.OpenAI.BaseURL)
	}
	if cfg.Tools.Blender != "/opt/blender/blender" {
		t.Errorf("unexpected blender path %q", cfg.Tools.Blender)
	}
	if cfg.Render.Size != 320 {
		t.Errorf("expected render size 320, got %d", cfg.Render.Size)
	}
}

func TestFromEnvInvalidSize(t *testing.T) {
	for _, val := range []string{"large", "0", "-5"} {
		clearEnv(t)
		t.Setenv("CADQUOTE_RENDER_SIZE", val)
		if _, err := FromEnv(); err == nil {
			t.Errorf("expected error for CADQUOTE_RENDER_SIZE=%q", val)
		}
	}

	clearEnv(t)
	t.Setenv("CADQUOTE_RENDER_SIZE", "large")
	_, err := FromEnv()
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Errorf("expected wrapped *strconv.NumError, got %v", err)
	}
}

func TestLoadDotenvFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	shared := filepath.Join(dir, ".env")
	if err := os.WriteFile(local, []byte("OPENAI_API_KEY=from-local\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(shared, []byte("OPENAI_API_KEY=from-shared\nOPENAI_MODEL=gpt-4o-mini\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("OPENAI_API_KEY")
		os.Unsetenv("OPENAI_MODEL")
	})

	cfg, err := Load(local, shared, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAI.APIKey != "from-local" {
		t.Errorf("expected .env.local to win, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("expected model from .env, got %q", cfg.OpenAI.Model)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{}).Validate(); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}
	cfg := Config{OpenAI: OpenAIConfig{APIKey: "test-key"}}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
