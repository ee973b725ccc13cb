package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds application configuration.
type Config struct {
	// CardsDir is the directory holding card records, media, and exports.
	// Relative paths are resolved against the base directory (~/.ankilive).
	CardsDir string `json:"cards_dir,omitempty"`

	// DeckName is the default deck name offered by the startup prompt.
	// It is metadata for the exported package, not a storage partition key.
	DeckName string `json:"deck_name,omitempty"`

	// CaptureBackend selects the screenshot implementation.
	// Known backends: "gnome-screenshot".
	CaptureBackend string `json:"capture_backend,omitempty"`

	// Hotkeys are the global key bindings for the capture daemon.
	Hotkeys HotkeyConfig `json:"hotkeys"`

	// Web configures the review UI server (ankilive web).
	Web WebConfig `json:"web"`
}

// HotkeyConfig holds the four global bindings, in "mod+mod+key" form.
type HotkeyConfig struct {
	Capture    string `json:"capture,omitempty"`
	CreateCard string `json:"create_card,omitempty"`
	Reset      string `json:"reset,omitempty"`
	Export     string `json:"export,omitempty"`
}

// WebConfig holds the review UI server settings.
type WebConfig struct {
	Bind string `json:"bind,omitempty"`
	Port int    `json:"port,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CardsDir:       "cards",
		DeckName:       "AnkiLive",
		CaptureBackend: "gnome-screenshot",
		Hotkeys: HotkeyConfig{
			Capture:    "ctrl+shift+alt+s",
			CreateCard: "ctrl+shift+alt+c",
			Reset:      "ctrl+shift+alt+r",
			Export:     "ctrl+shift+alt+e",
		},
		Web: WebConfig{
			Bind: "127.0.0.1",
			Port: 8642,
		},
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.CardsDir, validation.Required),
		validation.Field(&c.DeckName, validation.Required),
	); err != nil {
		return err
	}
	if err := validation.ValidateStruct(&c.Hotkeys,
		validation.Field(&c.Hotkeys.Capture, validation.Required),
		validation.Field(&c.Hotkeys.CreateCard, validation.Required),
		validation.Field(&c.Hotkeys.Reset, validation.Required),
		validation.Field(&c.Hotkeys.Export, validation.Required),
	); err != nil {
		return err
	}
	return validation.ValidateStruct(&c.Web,
		validation.Field(&c.Web.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.ankilive.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs. Overlay values win when non-zero.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.CardsDir = pick(overlay.CardsDir, base.CardsDir)
	result.DeckName = pick(overlay.DeckName, base.DeckName)
	result.CaptureBackend = pick(overlay.CaptureBackend, base.CaptureBackend)

	result.Hotkeys.Capture = pick(overlay.Hotkeys.Capture, base.Hotkeys.Capture)
	result.Hotkeys.CreateCard = pick(overlay.Hotkeys.CreateCard, base.Hotkeys.CreateCard)
	result.Hotkeys.Reset = pick(overlay.Hotkeys.Reset, base.Hotkeys.Reset)
	result.Hotkeys.Export = pick(overlay.Hotkeys.Export, base.Hotkeys.Export)

	result.Web.Bind = pick(overlay.Web.Bind, base.Web.Bind)
	result.Web.Port = overlay.Web.Port
	if result.Web.Port == 0 {
		result.Web.Port = base.Web.Port
	}

	return result
}

func pick(overlay, base string) string {
	if overlay != "" {
		return overlay
	}
	return base
}
