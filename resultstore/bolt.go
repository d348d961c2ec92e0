package resultstore

import (
	"bytes"
	"time"

	"github.com/cockroachdb/errors"
	"go.etcd.io/bbolt"
)

var bucketName = []byte("results")

type boltBackend struct {
	db *bbolt.DB
}

func openBolt(path string, readOnly bool) (*boltBackend, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: readOnly, Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if !readOnly {
		if err := db.Update(func(tx *bbolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucketName)
			return err
		}); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "create bucket")
		}
	}
	return &boltBackend{db: db}, nil
}

func (b *boltBackend) put(key, val []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put(key, val)
	})
}

func (b *boltBackend) get(key []byte) ([]byte, bool, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bk := tx.Bucket(bucketName)
		if bk == nil {
			return nil
		}
		// 트랜잭션 밖에서는 무효라서 복사
		if v := bk.Get(key); v != nil {
			out = bytes.Clone(v)
		}
		return nil
	})
	return out, out != nil, err
}

func (b *boltBackend) scan(prefix []byte, fn func(key, val []byte) error) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		bk := tx.Bucket(bucketName)
		if bk == nil {
			return nil
		}
		c := bk.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if err := fn(k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *boltBackend) close() error {
	return b.db.Close()
}
