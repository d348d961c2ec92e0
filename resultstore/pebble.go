package resultstore

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
)

type pebbleBackend struct {
	db *pebble.DB
}

func openPebble(dir string, readOnly bool) (*pebbleBackend, error) {
	db, err := pebble.Open(dir, &pebble.Options{ReadOnly: readOnly, Logger: quietPebbleLogger{}})
	if err != nil {
		return nil, err
	}
	return &pebbleBackend{db: db}, nil
}

func (b *pebbleBackend) put(key, val []byte) error {
	return b.db.Set(key, val, pebble.Sync)
}

func (b *pebbleBackend) get(key []byte) ([]byte, bool, error) {
	val, closer, err := b.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()
	return bytes.Clone(val), true, nil
}

func (b *pebbleBackend) scan(prefix []byte, fn func(key, val []byte) error) error {
	it, err := b.db.NewIter(&pebble.IterOptions{LowerBound: prefix, UpperBound: prefixEnd(prefix)})
	if err != nil {
		return err
	}
	for it.First(); it.Valid(); it.Next() {
		if err := fn(it.Key(), it.Value()); err != nil {
			_ = it.Close()
			return err
		}
	}
	return it.Close()
}

func (b *pebbleBackend) close() error {
	return b.db.Close()
}

// quietPebbleLogger 정보 로그는 버리고 치명적 오류만 패닉으로 남김
type quietPebbleLogger struct{}

func (quietPebbleLogger) Infof(string, ...interface{})  {}
func (quietPebbleLogger) Errorf(string, ...interface{}) {}
func (quietPebbleLogger) Fatalf(format string, args ...interface{}) {
	panic(errors.Newf(format, args...))
}
