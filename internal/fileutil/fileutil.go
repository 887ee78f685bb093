// Package fileutil provides the atomic file writes the commands rely on:
// output goes to a temporary file in the target directory and is renamed
// into place only once it is complete.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// OwnerReadWrite is the mode of every file written, keys included.
	OwnerReadWrite os.FileMode = 0o600

	executableBits os.FileMode = 0o111
)

// TempContext holds state for an atomic file write operation.
type TempContext struct {
	SrcInfo os.FileInfo
	IsExec  bool
	TmpFile *os.File
	TmpName string
	outPath string
}

// NewTempContext stats the source file and creates a temp file next to outPath.
// Caller must defer CleanupOnError.
func NewTempContext(filename, outPath string) (*TempContext, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", filename, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%q is not a regular file", filename) //nolint:err113
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempContext{
		SrcInfo: info,
		IsExec:  info.Mode()&executableBits != 0,
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
		outPath: outPath,
	}, nil
}

// CleanupOnError closes the temp file and removes it if the write failed.
func (tc *TempContext) CleanupOnError(errp *error) {
	tc.TmpFile.Close() //nolint:errcheck,gosec // best-effort cleanup

	if *errp != nil {
		os.Remove(tc.TmpName) //nolint:errcheck,gosec // best-effort cleanup
	}
}

// Commit sets the permissions, closes the temp file and renames it to the output path.
// The output is executable if exec is set.
func (tc *TempContext) Commit(exec bool) error {
	perm := OwnerReadWrite
	if exec {
		perm |= executableBits
	}

	if err := tc.TmpFile.Chmod(perm); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tc.TmpFile.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tc.TmpName, tc.outPath); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	return nil
}

// FinalizeOutput optionally preserves timestamps and returns the output file size.
func FinalizeOutput(outPath string, preserveTimestamps bool, modTime time.Time) (int64, error) {
	if preserveTimestamps {
		if err := os.Chtimes(outPath, modTime, modTime); err != nil {
			return 0, fmt.Errorf("preserving timestamps: %w", err)
		}
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", outPath, err)
	}

	return outInfo.Size(), nil
}

// WriteFile atomically writes data to path with mode 0600.
func WriteFile(path string, data []byte) (err error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}

	tc := &TempContext{TmpFile: tmpFile, TmpName: tmpFile.Name(), outPath: path}

	defer tc.CleanupOnError(&err)

	if _, err = tmpFile.Write(data); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}

	return tc.Commit(false)
}
