package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// lockFileName is the advisory lock shared by every writer under a base path,
// so the CLI and a running MCP server do not interleave writes.
const lockFileName = ".topt.lock"

// lockFile acquires an exclusive flock on path and returns the function that
// releases it.
func lockFile(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquiring file lock: %w", err)
	}

	return func() error {
		defer f.Close()
		return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	}, nil
}

// withLock runs fn while holding the base path lock. fn must not take the
// lock again: flock is per open file, so a nested call would block forever.
func withLock(basePath string, fn func() error) error {
	if err := os.MkdirAll(basePath, 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	unlock, err := lockFile(filepath.Join(basePath, lockFileName))
	if err != nil {
		return err
	}
	defer func() { _ = unlock() }()
	return fn()
}

// writeFileLocked writes data to path while holding the base path lock.
func writeFileLocked(basePath, path string, data []byte) error {
	return withLock(basePath, func() error { return writeFileAtomic(path, data) })
}

// writeFileAtomic writes to a temp file next to path and renames it into
// place, so readers never see a partial file. Callers hold the lock.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
