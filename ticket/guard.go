package ticket

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

// backupTimeFormat is the UTC timestamp embedded in corruption backup names.
const backupTimeFormat = "20060102T150405.000Z"

// GuardReport describes what an integrity check found and did.
type GuardReport struct {
	// Path is the store file that was checked.
	Path string

	// DirMissing is true when the store directory does not exist yet.
	DirMissing bool

	// Exists is true when the store file was present.
	Exists bool

	// Recovered is true when a corrupted file was replaced by an empty document.
	Recovered bool

	// BackupPath is where the corrupted bytes were copied, if the copy succeeded.
	BackupPath string

	// Warnings lists every problem encountered, in order.
	Warnings []string
}

// OK reports whether the store file was usable as found.
func (r GuardReport) OK() bool {
	return !r.Recovered && len(r.Warnings) == 0
}

func (r *GuardReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// guard checks the store file at path and, if it cannot be parsed as a store
// document, backs it up and replaces it with an empty document.
//
// guard never returns an error. Every failure, including a failed backup, is
// recorded in the report and logged at warn level.
func guard(path string, now func() time.Time, logger *slog.Logger) GuardReport {
	if logger == nil {
		logger = discardLogger
	}
	report := GuardReport{Path: path}

	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			report.DirMissing = true
			report.warn("storage directory %s does not exist", dir)
			logger.Warn("storage directory does not exist; skipping integrity check", "dir", dir)
			return report
		}
		report.warn("stat storage directory: %v", err)
		logger.Warn("stat storage directory", "dir", dir, "error", err)
		return report
	}

	err := withFileLock(path, true, func() error {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			report.warn("read store: %v", err)
			logger.Warn("read store", "path", path, "error", err)
			return nil
		}
		report.Exists = true

		if isBlank(data) {
			return nil
		}
		parseErr := checkDocumentShape(data)
		if parseErr == nil {
			return nil
		}
		report.warn("store is corrupted: %v", parseErr)
		logger.Warn("store is corrupted", "path", path, "error", parseErr)

		backup := backupPath(path, now())
		if err := atomic.WriteFile(backup, bytes.NewReader(data)); err != nil {
			report.warn("back up corrupted store: %v", err)
			logger.Warn("back up corrupted store", "path", path, "backup", backup, "error", err)
		} else {
			report.BackupPath = backup
			logger.Warn("backed up corrupted store", "path", path, "backup", backup)
		}

		if err := writeFile(path, EmptyDocument); err != nil {
			report.warn("reset store: %v", err)
			logger.Warn("reset store", "path", path, "error", err)
			return nil
		}
		report.Recovered = true
		logger.Warn("reset store to an empty document", "path", path)
		return nil
	})
	if err != nil {
		report.warn("lock store: %v", err)
		logger.Warn("lock store", "path", path, "error", err)
	}
	return report
}

// backupPath returns <dir>/<name>.corrupted-<UTC timestamp>.bak. The
// timestamp has millisecond precision so repeated recoveries rarely collide;
// if one does, a counter is appended.
func backupPath(path string, at time.Time) string {
	stamp := strings.ReplaceAll(at.UTC().Format(backupTimeFormat), ".", "")
	base := fmt.Sprintf("%s.corrupted-%s", path, stamp)
	candidate := base + ".bak"
	for i := 1; ; i++ {
		if _, err := os.Lstat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d.bak", base, i)
	}
}
