package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"btc-price-history/internal/rates"
)

// ErrPersist indicates the final table could not be written. The previously
// persisted file is left intact when it occurs.
var ErrPersist = errors.New("output: persist table")

// WriteFile atomically replaces path with the encoded table. The data is
// written to a temporary file in the same directory and renamed into place,
// so a failed or interrupted run never leaves a partially written table.
func WriteFile(path string, rows []rates.Row) error {
	if err := ensureDir(path); err != nil {
		return persistErr(err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return persistErr(err)
	}
	tmpPath := tmp.Name()

	if err := Encode(tmp, rows); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return persistErr(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return persistErr(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return persistErr(err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return persistErr(err)
	}
	return nil
}

func persistErr(err error) error {
	return fmt.Errorf("%w: %v", ErrPersist, err)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
