package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.CardsDir != "cards" {
		t.Errorf("CardsDir = %q, want %q", cfg.CardsDir, "cards")
	}
	if cfg.DeckName != "AnkiLive" {
		t.Errorf("DeckName = %q, want %q", cfg.DeckName, "AnkiLive")
	}
	if cfg.CaptureBackend != "gnome-screenshot" {
		t.Errorf("CaptureBackend = %q, want %q", cfg.CaptureBackend, "gnome-screenshot")
	}
	if cfg.Hotkeys.Capture != "ctrl+shift+alt+s" {
		t.Errorf("Hotkeys.Capture = %q, want %q", cfg.Hotkeys.Capture, "ctrl+shift+alt+s")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Missing file falls back to defaults.
	if cfg.DeckName != "AnkiLive" {
		t.Errorf("DeckName = %q, want default", cfg.DeckName)
	}
}

func TestLoad_Overlay(t *testing.T) {
	tmpDir := t.TempDir()
	content := `{
		"deck_name": "CS101",
		"hotkeys": {"capture": "ctrl+shift+x"},
		"web": {"port": 9000}
	}`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DeckName != "CS101" {
		t.Errorf("DeckName = %q, want %q", cfg.DeckName, "CS101")
	}
	if cfg.Hotkeys.Capture != "ctrl+shift+x" {
		t.Errorf("Hotkeys.Capture = %q, want override", cfg.Hotkeys.Capture)
	}
	// Unset fields keep defaults.
	if cfg.Hotkeys.CreateCard != "ctrl+shift+alt+c" {
		t.Errorf("Hotkeys.CreateCard = %q, want default", cfg.Hotkeys.CreateCard)
	}
	if cfg.Web.Port != 9000 {
		t.Errorf("Web.Port = %d, want 9000", cfg.Web.Port)
	}
	if cfg.Web.Bind != "127.0.0.1" {
		t.Errorf("Web.Bind = %q, want default", cfg.Web.Bind)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Web.Port = 70000

	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject port > 65535")
	}
}

func TestValidate_MissingHotkey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hotkeys.Export = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject empty hotkey binding")
	}
}

func TestMerge_EmptyOverlay(t *testing.T) {
	merged := Merge(DefaultConfig(), &Config{})

	if merged.CardsDir != "cards" || merged.Web.Port != 8642 {
		t.Errorf("empty overlay should preserve defaults, got %+v", merged)
	}
}
