//go:build darwin

package hotkey

import "golang.design/x/hotkey"

// macOS maps alt to option and super to command.
func platformModifier(name string) (hotkey.Modifier, bool) {
	switch name {
	case "ctrl":
		return hotkey.ModCtrl, true
	case "shift":
		return hotkey.ModShift, true
	case "alt":
		return hotkey.ModOption, true
	case "super":
		return hotkey.ModCmd, true
	default:
		return 0, false
	}
}
