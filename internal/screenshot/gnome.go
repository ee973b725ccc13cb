package screenshot

import (
	"context"
	"os"
	"os/exec"

	"github.com/ankilive/ankilive/internal/errors"
)

const installHint = "gnome-screenshot is not installed; install it with your " +
	"distribution's package manager (e.g. apt-get install gnome-screenshot)"

// GnomeClient shells out to gnome-screenshot with area selection.
type GnomeClient struct {
	// Seams for tests; production values exec the real tool.
	run      func(ctx context.Context, name string, args ...string) error
	lookPath func(file string) (string, error)
}

// NewGnomeClient returns a client backed by the gnome-screenshot binary.
func NewGnomeClient() *GnomeClient {
	return &GnomeClient{
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
		lookPath: exec.LookPath,
	}
}

// Capture prompts the user to select a screen area and writes the
// result to a temp file. gnome-screenshot exits zero even when the user
// aborts the selection, so cancellation is detected by an empty or
// missing output file.
func (c *GnomeClient) Capture(ctx context.Context) (string, error) {
	if _, err := c.lookPath("gnome-screenshot"); err != nil {
		return "", errors.NewCaptureFailed(installHint)
	}

	tmp, err := os.CreateTemp("", "ankilive-capture-*.png")
	if err != nil {
		return "", errors.NewCaptureFailed("create capture file: " + err.Error())
	}
	path := tmp.Name()
	tmp.Close()

	if err := c.run(ctx, "gnome-screenshot", "-a", "-f", path); err != nil {
		os.Remove(path)
		return "", errors.NewCaptureFailed("gnome-screenshot: " + err.Error())
	}

	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		os.Remove(path)
		return "", errors.NewCaptureCancelled()
	}
	return path, nil
}
