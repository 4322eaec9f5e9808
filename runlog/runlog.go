// Package runlog persists completed distribution runs. The engine
// itself is not idempotent per day; the log is what lets the daemon
// answer "has today's run already happened" across restarts.
package runlog

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/aman-coder03/microyield-go/yield"
)

var bucketRuns = []byte("runs")

var (
	// ErrNoRuns indicates an empty log.
	ErrNoRuns = errors.New("runlog: no runs recorded")

	// ErrNilRun indicates a nil run passed to Record.
	ErrNilRun = errors.New("runlog: nil run")
)

// Store wraps a bbolt database of distribution runs, keyed by run
// timestamp so a cursor walks them in time order.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the run log at dbPath. The parent directory is
// created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("runlog: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("runlog: open db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("runlog: create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// timeKey encodes a timestamp as an 8-byte big-endian nanosecond key
// for sorted storage.
func timeKey(t time.Time) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(t.UnixNano()))
	return k
}

// Record appends a completed run to the log.
func (s *Store) Record(run *yield.DistributionRun) error {
	if run == nil {
		return ErrNilRun
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(run); err != nil {
		return fmt.Errorf("runlog: encode run: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketRuns).Put(timeKey(run.Timestamp), buf.Bytes()); err != nil {
			return fmt.Errorf("runlog: put run: %w", err)
		}
		return nil
	})
}

// Latest returns the most recent run, or ErrNoRuns on an empty log.
func (s *Store) Latest() (*yield.DistributionRun, error) {
	var run yield.DistributionRun
	err := s.db.View(func(tx *bbolt.Tx) error {
		_, v := tx.Bucket(bucketRuns).Cursor().Last()
		if v == nil {
			return ErrNoRuns
		}
		if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&run); err != nil {
			return fmt.Errorf("runlog: decode run: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// HasRunOn reports whether any run is recorded within the UTC calendar
// day containing t.
func (s *Store) HasRunOn(t time.Time) (bool, error) {
	day := t.UTC().Truncate(24 * time.Hour)
	next := day.Add(24 * time.Hour)

	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		k, _ := c.Seek(timeKey(day))
		if k != nil && bytes.Compare(k, timeKey(next)) < 0 {
			found = true
		}
		return nil
	})
	return found, err
}
