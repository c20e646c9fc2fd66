// Package evidence persists end-of-scenario screenshots.
package evidence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/thesyncim/swaglabs/pkg/internal"
)

// Pattern matches the file names Writer produces.
var Pattern = regexp.MustCompile(`^screenshot_\d+\.png$`)

// openFile is os.OpenFile; tests swap it to simulate a failing disk.
var openFile = os.OpenFile

// maxAttempts bounds how far a taken timestamp is bumped looking for a free name.
const maxAttempts = 1000

// Screenshotter is the part of a page Writer captures from.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// Writer writes screenshot_<unix>.png files into Dir.
type Writer struct {
	Dir   string
	Clock internal.Clock
}

// NewWriter returns a Writer on the system clock. An empty dir means the
// working directory.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, Clock: internal.MonotonicClock{}}
}

// Capture takes a screenshot of page and writes it.
func (w *Writer) Capture(ctx context.Context, page Screenshotter) (string, error) {
	png, err := page.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("capture screenshot: %w", err)
	}
	return w.Write(png)
}

// Write stores png under the current unix timestamp and returns its path.
// Files are never overwritten: when the name for this second is taken the
// timestamp is moved forward to the next free one.
func (w *Writer) Write(png []byte) (string, error) {
	dir := w.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}

	clk := w.Clock
	if clk == nil {
		clk = internal.MonotonicClock{}
	}
	stamp := clk.Now().Unix()

	for i := 0; i < maxAttempts; i++ {
		path := filepath.Join(dir, fmt.Sprintf("screenshot_%d.png", stamp+int64(i)))
		f, err := openFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create screenshot: %w", err)
		}
		_, err = f.Write(png)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			// A truncated file would still match Pattern.
			_ = os.Remove(path)
			return "", fmt.Errorf("write screenshot: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("no free screenshot name in %s after %d attempts", dir, maxAttempts)
}
