// Package bolt persists the recordings document in a local bbolt file, the
// default backend for the CLI.
package bolt

import (
	"context"
	"time"

	"go.etcd.io/bbolt"
)

// StorageKey is the well-known key the recordings document lives under.
const StorageKey = "bpData"

var bucketName = []byte("bloodpressure")

type Storage struct {
	db *bbolt.DB
}

func Open(path string) (*Storage, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Load(_ context.Context) (string, error) {
	var document string
	err := s.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketName).Get([]byte(StorageKey)); data != nil {
			document = string(data)
		}
		return nil
	})
	return document, err
}

func (s *Storage) Save(_ context.Context, document string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(StorageKey), []byte(document))
	})
}

func (s *Storage) Close() error {
	return s.db.Close()
}
