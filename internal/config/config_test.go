package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.AutoArrange {
		t.Error("default auto_arrange should be true")
	}
	if cfg.TranscriptionSetback != 2 {
		t.Errorf("transcription_setback = %d, want 2", cfg.TranscriptionSetback)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file not written: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "auto_arrange: false\ntranscription_setback: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AutoArrange {
		t.Error("auto_arrange should be overridden to false")
	}
	if cfg.SetbackMs() != 5000 {
		t.Errorf("SetbackMs = %d, want 5000", cfg.SetbackMs())
	}
	// Untouched fields keep their defaults.
	if !cfg.WordTracking {
		t.Error("word_tracking should keep its default")
	}
}

func TestValidateMultiUserRequiresUsername(t *testing.T) {
	cfg := Default()
	cfg.SingleUser = false
	cfg.Username = ""

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for missing username")
	}

	cfg.Username = "alice"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRejectsNegativeSetback(t *testing.T) {
	cfg := Default()
	cfg.TranscriptionSetback = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative setback")
	}
}
