// Package store persists published market-by-price snapshots in a
// pebble keyspace, keyed by sequence number. The order book itself is
// never persisted; only derived snapshots land here.
package store

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/cockroachdb/pebble"

	"rainybook/domain/mbp"
)

type Store struct {
	db *pebble.DB
}

func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func key(seq uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], seq)
	return k[:]
}

// PutSnapshot writes one snapshot under its sequence number.
func (s *Store) PutSnapshot(seq uint64, takenAt time.Time, view *mbp.MarketByPrice) error {
	return s.db.Set(key(seq), encodeSnapshot(seq, takenAt.UnixNano(), view), pebble.Sync)
}

// Latest returns the newest stored snapshot, or ok=false when the
// store is empty.
func (s *Store) Latest() (seq uint64, takenAt time.Time, view *mbp.MarketByPrice, ok bool, err error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return 0, time.Time{}, nil, false, err
	}
	defer iter.Close()

	if !iter.Last() {
		return 0, time.Time{}, nil, false, iter.Error()
	}

	seq, nanos, view, err := decodeSnapshot(iter.Value())
	if err != nil {
		return 0, time.Time{}, nil, false, err
	}
	return seq, time.Unix(0, nanos), view, true, nil
}

// Get returns the snapshot stored under seq.
func (s *Store) Get(seq uint64) (*mbp.MarketByPrice, error) {
	val, closer, err := s.db.Get(key(seq))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	_, _, view, err := decodeSnapshot(val)
	return view, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
