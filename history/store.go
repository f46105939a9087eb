// Package history keeps a persistent log of visited locations in a bbolt
// database.
package history

import (
	"encoding/binary"
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketVisits = "visits"

var ErrNoVisit = errors.New("no such visit")

// Visit is one recorded load of a location.
type Visit struct {
	Seq      int
	Location string
	Time     time.Time
}

type Store struct {
	db *bolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketVisits))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Add records a visit and returns its sequence number.
func (s *Store) Add(location string, at time.Time) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketVisits))
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), marshalVisit(location, at))
	})
	return int(seq), err
}

func (s *Store) Get(seq int) (Visit, error) {
	var v Visit
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(bucketVisits)).Get(marshalSeq(uint64(seq)))
		if raw == nil {
			return ErrNoVisit
		}
		v = unmarshalVisit(uint64(seq), raw)
		return nil
	})
	return v, err
}

func (s *Store) Delete(seq int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketVisits)).Delete(marshalSeq(uint64(seq)))
	})
}

// Range returns visits with from <= seq < upto, oldest first.
func (s *Store) Range(from, upto int) ([]Visit, error) {
	var visits []Visit
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketVisits)).Cursor()
		for k, v := c.Seek(marshalSeq(uint64(max(from, 0)))); k != nil && unmarshalSeq(k) < uint64(upto); k, v = c.Next() {
			visits = append(visits, unmarshalVisit(unmarshalSeq(k), v))
		}
		return nil
	})
	return visits, err
}

// Recent returns up to n visits, newest first.
func (s *Store) Recent(n int) ([]Visit, error) {
	var visits []Visit
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketVisits)).Cursor()
		for k, v := c.Last(); k != nil && len(visits) < n; k, v = c.Prev() {
			visits = append(visits, unmarshalVisit(unmarshalSeq(k), v))
		}
		return nil
	})
	return visits, err
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}

// A visit is stored as its Unix nanosecond timestamp followed by the
// location bytes.
func marshalVisit(location string, at time.Time) []byte {
	b := make([]byte, 8, 8+len(location))
	binary.BigEndian.PutUint64(b, uint64(at.UnixNano()))
	return append(b, location...)
}

func unmarshalVisit(seq uint64, raw []byte) Visit {
	if len(raw) < 8 {
		return Visit{Seq: int(seq), Location: string(raw)}
	}
	return Visit{
		Seq:      int(seq),
		Location: string(raw[8:]),
		Time:     time.Unix(0, int64(binary.BigEndian.Uint64(raw))),
	}
}
