package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.ServerAddress != ":8080" || cfg.TextModelID != "gpt-4o" || cfg.ImageModelID != "dall-e-3" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.WriteTimeout() != 0 {
		t.Errorf("expected no write timeout by default, got %v", cfg.WriteTimeout())
	}
	if cfg.FetchTimeout() != 20*time.Second {
		t.Errorf("unexpected fetch timeout %v", cfg.FetchTimeout())
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := "TEXT_MODEL_ID: gemini-2.5-flash\nIMAGE_SIZE: 1024x1024\nTEMPERATURE: 0.2\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("IMAGE_SIZE", "1792x1024")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.TextModelID != "gemini-2.5-flash" {
		t.Errorf("expected model from file, got %q", cfg.TextModelID)
	}
	if cfg.ImageSize != "1792x1024" {
		t.Errorf("expected env to win, got %q", cfg.ImageSize)
	}

	s := cfg.AISettings()
	if s.APIKey != "sk-test" || s.Temperature != float32(0.2) {
		t.Errorf("unexpected AI settings: %+v", s)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("IMAGE_RESPONSE_FORMAT", "jpeg")
	if _, err := LoadConfig(t.TempDir()); err == nil {
		t.Error("expected an error for an unknown response format")
	}
}
