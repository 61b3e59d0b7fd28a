package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pji114/jusik/internal/model"
)

// ErrWrite wraps filesystem failures while persisting a report.
var ErrWrite = errors.New("report write failed")

// Saver writes rendered reports under a single directory. Files are
// append-only: names embed a timestamp and saves never overwrite.
type Saver struct {
	dir string
	now func() time.Time
}

func NewSaver(dir string) *Saver {
	return &Saver{dir: dir, now: time.Now}
}

// Save writes html to a new file and returns its path. Two saves within
// the same second get distinct names: creation uses O_EXCL and retries
// with a numeric suffix on collision.
func (s *Saver) Save(html string, direction model.Direction, style string, aiUsed bool) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	mode := "basic"
	if aiUsed {
		mode = "ai"
	}
	stamp := s.now().Format("20060102_150405")
	base := fmt.Sprintf("%s_%s_%s_%s", direction, style, mode, stamp)

	for attempt := 1; attempt <= 1000; attempt++ {
		name := base + ".html"
		if attempt > 1 {
			name = fmt.Sprintf("%s_%d.html", base, attempt)
		}
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrWrite, err)
		}

		if _, err := f.WriteString(html); err != nil {
			f.Close()
			return "", fmt.Errorf("%w: %v", ErrWrite, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrWrite, err)
		}
		return path, nil
	}

	return "", fmt.Errorf("%w: could not find a free filename for %s", ErrWrite, base)
}
