//go:build windows

package hotkey

import "golang.design/x/hotkey"

func platformModifier(name string) (hotkey.Modifier, bool) {
	switch name {
	case "ctrl":
		return hotkey.ModCtrl, true
	case "shift":
		return hotkey.ModShift, true
	case "alt":
		return hotkey.ModAlt, true
	case "super":
		return hotkey.ModWin, true
	default:
		return 0, false
	}
}
