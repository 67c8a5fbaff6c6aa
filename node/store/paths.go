package store

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// LedgerDir returns the on-disk directory for a given network under datadir:
//
//	datadir/ledgers/<network>/
func LedgerDir(datadir string, network string) string {
	return filepath.Join(datadir, "ledgers", network)
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", path)
	}
	return nil
}
