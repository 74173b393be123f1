// Package sink writes the backend's assembly text to disk the way
// spec.md §4.3 and §5 require: the whole buffer is written in one
// shot, with no partial output visible at the target path on any exit
// path. It strengthens the teacher's "just os.WriteFile it" approach
// (tinyrange-ccomp/cmd/ccomp/main.go) into a write-to-temp-then-rename
// so a write failure midway never leaves a truncated file sitting at
// the caller's requested path.
package sink

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Write atomically writes text to path. log receives an Info line
// reporting the number of bytes written in human-readable form.
func Write(path, text string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("sink: create scratch file: %w", err)
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sink: write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("sink: close scratch file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("sink: rename into place: %w", err)
	}

	log.Info("wrote assembly", slog.String("path", path), slog.String("size", humanize.Bytes(uint64(len(text)))))
	return nil
}
