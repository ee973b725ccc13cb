// Package hotkey parses key-combination specs and registers them as
// process-wide hotkeys.
package hotkey

import (
	"context"
	"fmt"
	"strings"
)

// Action identifies one of the daemon's global bindings.
type Action string

const (
	ActionCapture    Action = "capture"
	ActionCreateCard Action = "create_card"
	ActionReset      Action = "reset"
	ActionExport     Action = "export"
)

// Binding is a parsed combination like ctrl+shift+alt+s: zero or more
// modifiers plus exactly one letter or digit key.
type Binding struct {
	Mods []string
	Key  rune
}

var knownMods = map[string]bool{
	"ctrl":  true,
	"shift": true,
	"alt":   true,
	"super": true,
}

// Parse parses a spec of the form "mod+mod+key". Case-insensitive;
// modifiers may appear in any order but not twice.
func Parse(spec string) (Binding, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(spec)), "+")
	if len(parts) == 0 || parts[len(parts)-1] == "" {
		return Binding{}, fmt.Errorf("empty hotkey spec %q", spec)
	}

	keyPart := parts[len(parts)-1]
	runes := []rune(keyPart)
	if len(runes) != 1 || !isKeyRune(runes[0]) {
		return Binding{}, fmt.Errorf("hotkey %q: key must be a single letter or digit, got %q", spec, keyPart)
	}

	b := Binding{Key: runes[0]}
	seen := make(map[string]bool)
	for _, mod := range parts[:len(parts)-1] {
		mod = strings.TrimSpace(mod)
		if !knownMods[mod] {
			return Binding{}, fmt.Errorf("hotkey %q: unknown modifier %q", spec, mod)
		}
		if seen[mod] {
			return Binding{}, fmt.Errorf("hotkey %q: duplicate modifier %q", spec, mod)
		}
		seen[mod] = true
		b.Mods = append(b.Mods, mod)
	}
	return b, nil
}

func isKeyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Listener registers bindings with the OS and fires the callback on
// each press. Delivery runs on listener goroutines; the callback must
// not block.
type Listener interface {
	Start(ctx context.Context, bindings map[Action]Binding, fire func(Action)) error
}
