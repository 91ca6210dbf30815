package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Policy controls how freshly translated entries are combined with a
// language's existing content.
type Policy string

const (
	// PolicyForce replaces the language's content wholesale.
	PolicyForce Policy = "force"
	// PolicyIncremental shallow-merges per namespace: new keys are
	// added, colliding keys are overwritten, keys absent from the new
	// entries are left untouched.
	PolicyIncremental Policy = "incremental"
)

// ParsePolicy validates a policy string from the CLI.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyForce, PolicyIncremental:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown merge policy %q (valid: force, incremental)", s)
}

// Merge combines entries into the resource under the given policy.
// A language not yet present is inserted wholesale regardless of
// policy. Merge never mutates entries; it copies.
func (r *Resource) Merge(lang string, entries Table, policy Policy) {
	existing, ok := r.languages[lang]
	if !ok || policy == PolicyForce {
		r.SetLanguage(lang, entries.Clone())
		return
	}
	for ns, keys := range entries {
		target := existing[ns]
		if target == nil {
			target = make(map[string]string, len(keys))
			existing[ns] = target
		}
		for k, v := range keys {
			target[k] = v
		}
	}
}

// backupTimeFormat names backup files down to the nanosecond so two
// runs within the same second never clobber each other's backup.
const backupTimeFormat = "20060102-150405.000000000"

// BackupPath returns the backup file name for a resource path at a
// given moment.
func BackupPath(path string, at time.Time) string {
	return path + ".backup." + at.Format(backupTimeFormat)
}

// LatestBackup returns the most recent backup file for a resource
// path, or ErrNotFound when none exists.
func LatestBackup(path string) (string, error) {
	dir := filepath.Dir(path)
	prefix := filepath.Base(path) + ".backup."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}

	var backups []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			backups = append(backups, e.Name())
		}
	}
	if len(backups) == 0 {
		return "", fmt.Errorf("%w: no backups for %s", ErrNotFound, path)
	}
	// The timestamp format sorts lexicographically.
	sort.Strings(backups)
	return filepath.Join(dir, backups[len(backups)-1]), nil
}

// MergeAndPersist loads the resource at path (starting empty when the
// file does not exist yet), merges entries for the target language
// under the given policy, and writes the result back.
//
// One run moves through: NotFound -> Loaded -> Merged -> BackedUp ->
// Persisted. A parse failure aborts after Loaded; a write failure
// aborts after BackedUp, leaving the backup in place as the recovery
// mechanism — there is no automatic rollback, the operator restores
// from the backup by hand.
//
// The previous byte content is always backed up before the file is
// touched, and the new content is written to a temp file in the same
// directory then renamed over the original, so the resource is never
// left partially written. If the backup itself cannot be created, the
// resource is not modified at all.
func MergeAndPersist(path, lang string, entries Table, policy Policy) error {
	res, err := Load(path)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		res = New()
	}

	res.Merge(lang, entries, policy)

	data, err := res.Marshal()
	if err != nil {
		return fmt.Errorf("marshaling resource: %w", err)
	}

	if prev, err := os.ReadFile(path); err == nil {
		backup := BackupPath(path, time.Now())
		if err := os.WriteFile(backup, prev, 0644); err != nil {
			return fmt.Errorf("creating backup %s: %w", backup, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading %s for backup: %w", path, err)
	}

	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data to a temp file in the target directory
// and renames it over path. Rename within one directory is atomic on
// POSIX filesystems, so readers see either the old or the new content.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
