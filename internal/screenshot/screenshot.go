// Package screenshot captures user-selected screen regions via an
// external OS tool. The Client interface is the seam the orchestrator
// depends on; concrete backends are selected at startup.
package screenshot

import (
	"context"
	"fmt"
)

// Client captures one screen region per call.
type Client interface {
	// Capture blocks while the user performs interactive region
	// selection and returns the path of the captured image file.
	// Ownership of the file passes to the caller. A user-aborted
	// selection returns a CAPTURE_CANCELLED error; an environment
	// problem (tool missing, permission denied, empty output) returns
	// CAPTURE_FAILED.
	Capture(ctx context.Context) (string, error)
}

// ForBackend returns the client for a configured backend name.
func ForBackend(name string) (Client, error) {
	switch name {
	case "gnome-screenshot":
		return NewGnomeClient(), nil
	default:
		return nil, fmt.Errorf("unknown capture backend %q", name)
	}
}
