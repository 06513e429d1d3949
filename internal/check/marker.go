package check

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// MarkerFile is the name of the file that records the last full pass.
const MarkerFile = ".check-passed"

// lockFile guards marker writes against concurrent invocations.
const lockFile = ".marker.lock"

// DataDir returns the venvdoctor data directory for a project root.
func DataDir(root string) string {
	return filepath.Join(root, ".venvdoctor")
}

// NeedsCheck returns true if no successful check has been recorded.
func NeedsCheck(dataDir string) bool {
	_, err := os.Stat(filepath.Join(dataDir, MarkerFile))
	return os.IsNotExist(err)
}

// MarkPassed records a full pass. The write is serialized across
// processes with a file lock so concurrent invocations do not race.
func MarkPassed(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create marker directory: %w", err)
	}

	fl := flock.New(filepath.Join(dataDir, lockFile))
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("acquire marker lock: %w", err)
	}
	defer func() { _ = fl.Unlock() }()

	markerPath := filepath.Join(dataDir, MarkerFile)
	content := []byte(time.Now().Format(time.RFC3339))
	return os.WriteFile(markerPath, content, 0o644)
}

// ClearMarker removes the marker file, forcing a re-check on next run.
func ClearMarker(dataDir string) error {
	err := os.Remove(filepath.Join(dataDir, MarkerFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove marker file: %w", err)
	}
	return nil
}

// MarkerAge returns how long ago the last full pass was recorded.
// Returns zero if no marker exists.
func MarkerAge(dataDir string) time.Duration {
	content, err := os.ReadFile(filepath.Join(dataDir, MarkerFile))
	if err != nil {
		return 0
	}

	t, err := time.Parse(time.RFC3339, string(content))
	if err != nil {
		return 0
	}

	return time.Since(t)
}
