// Package closetfile implements the filesystem boundary a closet file lives
// behind: a full-file read on load, and a write-temp/fsync/rename atomic
// save on write, with restrictive permissions where the platform supports
// them.
package closetfile

import (
	"os"
	"path/filepath"

	"github.com/aeriskit/closet/internal/closeterr"
)

// filePermissions restricts a closet file to the owning user, matching the
// spirit (if not the letter, since Go has no umask-proof chmod) of "SHOULD
// restrict read access to the owning user" in the filesystem contract.
const filePermissions = 0o600

// Read loads the entire contents of path into memory. No partial reads are
// performed or tolerated; any I/O failure is KindIo.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, closeterr.New(closeterr.KindIo, "Read", err)
	}
	return data, nil
}

// Save writes data to path atomically: it writes to a sibling temporary
// file, fsyncs it, then renames it over path. A failure at any step leaves
// the file at path exactly as it was before the call.
func Save(path string, data []byte) error {
	const op = "Save"

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return closeterr.New(closeterr.KindIo, op, err)
	}
	tmpPath := tmp.Name()

	if err := writeAndSync(tmp, data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return closeterr.New(closeterr.KindIo, op, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return closeterr.New(closeterr.KindIo, op, err)
	}

	if err := os.Chmod(tmpPath, filePermissions); err != nil {
		os.Remove(tmpPath)
		return closeterr.New(closeterr.KindIo, op, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return closeterr.New(closeterr.KindIo, op, err)
	}

	return nil
}

func writeAndSync(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// Exists reports whether path refers to an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
