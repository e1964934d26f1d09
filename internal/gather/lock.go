package gather

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// staleLockAge is how old a lock file must be before a new acquirer is
// allowed to ignore it and take over — protects against a crashed process
// leaving a repo permanently unpushable.
const staleLockAge = 30 * time.Minute

// acquirePushLock takes an exclusive advisory lock on dir, guarding the
// one mutable shared resource in this pipeline: concurrent branch pushes
// to the same mirror repo (spec.md §5: "concurrent branch pushes must be
// serialized per repo"). Returns a release function and an error if the
// lock is already held by someone else and isn't stale.
func acquirePushLock(dir string) (release func(), err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	lockPath := filepath.Join(dir, ".gather.lock")

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock %s: %w", lockPath, err)
		}
		info, statErr := os.Stat(lockPath)
		if statErr != nil || time.Since(info.ModTime()) < staleLockAge {
			return nil, fmt.Errorf("gather: push lock held for %s", dir)
		}
		// Stale: take over.
		if err := os.Remove(lockPath); err != nil {
			return nil, fmt.Errorf("remove stale lock %s: %w", lockPath, err)
		}
		f, err = os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("create lock %s after stale removal: %w", lockPath, err)
		}
	}
	f.Close()

	return func() { os.Remove(lockPath) }, nil
}
