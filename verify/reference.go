package verify

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

// ReferenceSet is an ordered set of int64 keys, backed by an in-memory Pebble
// store. It is safe for concurrent use.
type ReferenceSet struct {
	db *pebble.DB
}

// NewReferenceSet opens an empty reference set. Clients have to call Close
// to release resources.
func NewReferenceSet() (*ReferenceSet, error) {
	db, err := pebble.Open("", &pebble.Options{
		FS:     vfs.NewMem(),
		Logger: pebbleLogger{},
	})
	if err != nil {
		return nil, fmt.Errorf("verify: cannot open reference store: %w", err)
	}
	return &ReferenceSet{db: db}, nil
}

// Add puts key into the set. Adding a key twice is a no-op.
func (rs *ReferenceSet) Add(key int64) error {
	return rs.db.Set(encodeKey(key), nil, pebble.NoSync)
}

// Keys returns the keys of the set in ascending order.
func (rs *ReferenceSet) Keys() ([]int64, error) {
	iter, err := rs.db.NewIter(nil)
	if err != nil {
		return nil, err
	}
	var keys []int64
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, decodeKey(iter.Key()))
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Close releases the underlying store.
func (rs *ReferenceSet) Close() error {
	return rs.db.Close()
}

// encodeKey maps key to 8 bytes whose byte order matches the integer order,
// negative keys included.
func encodeKey(key int64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(key)^(1<<63))
	return b[:]
}

func decodeKey(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b) ^ (1 << 63))
}

// pebbleLogger routes Pebble's log output to the core tracer.
type pebbleLogger struct{}

func (pebbleLogger) Infof(format string, args ...interface{}) {
	tracer().Debugf("pebble: "+format, args...)
}

func (pebbleLogger) Errorf(format string, args ...interface{}) {
	tracer().Errorf("pebble: "+format, args...)
}

func (pebbleLogger) Fatalf(format string, args ...interface{}) {
	tracer().Errorf("pebble: "+format, args...)
	panic(fmt.Sprintf("pebble: "+format, args...))
}
