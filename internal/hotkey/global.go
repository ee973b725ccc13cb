package hotkey

import (
	"context"
	"fmt"

	"golang.design/x/hotkey"
)

// Global registers bindings system-wide via the OS hotkey facility.
type Global struct{}

// NewGlobal returns the system-wide listener.
func NewGlobal() *Global { return &Global{} }

// Start registers every binding and spawns one goroutine per hotkey to
// forward keydown events. Registration is all-or-nothing: a failure
// unregisters anything already bound. Hotkeys are released when ctx is
// cancelled.
func (g *Global) Start(ctx context.Context, bindings map[Action]Binding, fire func(Action)) error {
	registered := make([]*hotkey.Hotkey, 0, len(bindings))
	for action, b := range bindings {
		mods, key, err := translate(b)
		if err != nil {
			unregisterAll(registered)
			return err
		}

		hk := hotkey.New(mods, key)
		if err := hk.Register(); err != nil {
			unregisterAll(registered)
			return fmt.Errorf("register hotkey for %s: %w", action, err)
		}
		registered = append(registered, hk)

		go func(action Action, hk *hotkey.Hotkey) {
			for {
				select {
				case <-ctx.Done():
					hk.Unregister()
					return
				case <-hk.Keydown():
					fire(action)
				}
			}
		}(action, hk)
	}
	return nil
}

func unregisterAll(hks []*hotkey.Hotkey) {
	for _, hk := range hks {
		hk.Unregister()
	}
}

func translate(b Binding) ([]hotkey.Modifier, hotkey.Key, error) {
	mods := make([]hotkey.Modifier, 0, len(b.Mods))
	for _, name := range b.Mods {
		mod, ok := platformModifier(name)
		if !ok {
			return nil, 0, fmt.Errorf("modifier %q is not supported on this platform", name)
		}
		mods = append(mods, mod)
	}

	key, ok := keyFor(b.Key)
	if !ok {
		return nil, 0, fmt.Errorf("key %q cannot be bound", b.Key)
	}
	return mods, key, nil
}

var keys = map[rune]hotkey.Key{
	'a': hotkey.KeyA, 'b': hotkey.KeyB, 'c': hotkey.KeyC, 'd': hotkey.KeyD,
	'e': hotkey.KeyE, 'f': hotkey.KeyF, 'g': hotkey.KeyG, 'h': hotkey.KeyH,
	'i': hotkey.KeyI, 'j': hotkey.KeyJ, 'k': hotkey.KeyK, 'l': hotkey.KeyL,
	'm': hotkey.KeyM, 'n': hotkey.KeyN, 'o': hotkey.KeyO, 'p': hotkey.KeyP,
	'q': hotkey.KeyQ, 'r': hotkey.KeyR, 's': hotkey.KeyS, 't': hotkey.KeyT,
	'u': hotkey.KeyU, 'v': hotkey.KeyV, 'w': hotkey.KeyW, 'x': hotkey.KeyX,
	'y': hotkey.KeyY, 'z': hotkey.KeyZ,
	'0': hotkey.Key0, '1': hotkey.Key1, '2': hotkey.Key2, '3': hotkey.Key3,
	'4': hotkey.Key4, '5': hotkey.Key5, '6': hotkey.Key6, '7': hotkey.Key7,
	'8': hotkey.Key8, '9': hotkey.Key9,
}

func keyFor(r rune) (hotkey.Key, bool) {
	key, ok := keys[r]
	return key, ok
}
