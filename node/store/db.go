package store

import (
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"pactum.dev/node/covenant"
)

var bucketCovenants = []byte("covenant_by_outpoint")

// DB persists live covenant UTXOs keyed by outpoint. Each covenant
// instance has at most one entry at any time; a state-preserving spend
// deletes the predecessor and writes the successor, a terminal spend only
// deletes.
type DB struct {
	ledgerDir string
	db        *bolt.DB
}

func Open(datadir string, network string) (*DB, error) {
	if datadir == "" {
		return nil, errors.New("datadir required")
	}
	if network == "" {
		return nil, errors.New("network required")
	}

	ledgerDir := LedgerDir(datadir, network)
	if err := ensureDir(ledgerDir); err != nil {
		return nil, err
	}

	path := filepath.Join(ledgerDir, "covenants.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open bbolt")
	}

	d := &DB{ledgerDir: ledgerDir, db: bdb}

	if err := d.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCovenants)
		return err
	}); err != nil {
		_ = bdb.Close()
		return nil, errors.Wrap(err, "create covenant bucket")
	}
	return d, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) LedgerDir() string { return d.ledgerDir }

func (d *DB) GetCovenant(point covenant.Outpoint) (CovenantEntry, bool, error) {
	var out CovenantEntry
	var ok bool
	key := encodeOutpointKey(point)
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketCovenants).Get(key)
		if v == nil {
			return nil
		}
		e, err := decodeCovenantEntry(v)
		if err != nil {
			return err
		}
		out = e
		ok = true
		return nil
	})
	return out, ok, err
}

func (d *DB) PutCovenant(point covenant.Outpoint, e CovenantEntry) error {
	key := encodeOutpointKey(point)
	val, err := encodeCovenantEntry(e)
	if err != nil {
		return err
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCovenants).Put(key, val)
	})
}

func (d *DB) DeleteCovenant(point covenant.Outpoint) error {
	key := encodeOutpointKey(point)
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCovenants).Delete(key)
	})
}

// ReplaceCovenant atomically deletes the spent predecessor and, when next
// is non-nil, writes the successor entry. Terminal spends pass next == nil.
func (d *DB) ReplaceCovenant(spent covenant.Outpoint, successor covenant.Outpoint, next *CovenantEntry) error {
	spentKey := encodeOutpointKey(spent)
	var nextKey, nextVal []byte
	if next != nil {
		var err error
		nextVal, err = encodeCovenantEntry(*next)
		if err != nil {
			return err
		}
		nextKey = encodeOutpointKey(successor)
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCovenants)
		if err := b.Delete(spentKey); err != nil {
			return err
		}
		if nextKey != nil {
			return b.Put(nextKey, nextVal)
		}
		return nil
	})
}

// ForEachCovenant iterates all live covenant entries in key order.
func (d *DB) ForEachCovenant(fn func(point covenant.Outpoint, e CovenantEntry) error) error {
	return d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCovenants).ForEach(func(k, v []byte) error {
			p, err := decodeOutpointKey(k)
			if err != nil {
				return err
			}
			e, err := decodeCovenantEntry(v)
			if err != nil {
				return err
			}
			return fn(p, e)
		})
	})
}
