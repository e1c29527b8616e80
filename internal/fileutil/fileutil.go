// Package fileutil names and writes pipeline artifacts on disk.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/phatcz/TiktokClipGenerator/internal/textutil"
)

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("ensure dir: empty path")
	}
	return os.MkdirAll(dir, 0o755)
}

// SegmentFileName returns the on-disk name for a staged segment render
// record, e.g. "segment_003_1f2e3d4c.json". The uuid fragment keeps re-runs
// of the same plan from clobbering earlier records.
func SegmentFileName(segmentID int) string {
	return fmt.Sprintf("segment_%03d_%s.json", segmentID, shortID())
}

// KeyframeFileName returns the on-disk name for a generated keyframe image.
func KeyframeFileName(keyframeID string) string {
	return textutil.SanitizeToken(keyframeID) + "_" + shortID() + ".png"
}

// FinalVideoName returns the name for an assembled video, derived from the
// brief's product so output directories stay human-navigable.
func FinalVideoName(product string, now time.Time) string {
	return fmt.Sprintf("%s_%s_final.mp4", textutil.SanitizeToken(product), now.UTC().Format("20060102-150405"))
}

// WriteFileAtomic writes data to path via a temporary file and rename so
// readers never observe a partially written artifact.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func shortID() string {
	return uuid.NewString()[:8]
}
