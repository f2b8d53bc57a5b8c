package store

import (
	"time"

	"go.etcd.io/bbolt"
)

const boltBucketLocal = "local_storage" // key: storage key -> value

type Bolt struct {
	storage *bbolt.DB
}

// NewBolt opens (or creates) a Bolt database at the specified path.
func NewBolt(path string) (*Bolt, error) {
	instance, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketLocal))

		return err
	}); err != nil {
		_ = instance.Close()

		return nil, err
	}

	return &Bolt{storage: instance}, nil
}

func (b *Bolt) Get(key string) (string, error) {
	var (
		value string
		found bool
	)

	err := b.storage.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(boltBucketLocal)).Get([]byte(key))
		if data == nil {
			return nil
		}

		found = true
		value = string(data)

		return nil
	})
	if err != nil {
		return "", err
	}

	if !found {
		return "", ErrNotFound
	}

	return value, nil
}

func (b *Bolt) Set(key, value string) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketLocal)).Put([]byte(key), []byte(value))
	})
}

func (b *Bolt) Delete(key string) error {
	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketLocal)).Delete([]byte(key))
	})
}

func (b *Bolt) Keys() ([]string, error) {
	var keys []string

	err := b.storage.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketLocal)).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))

			return nil
		})
	})

	return keys, err
}

func (b *Bolt) Close() error {
	return b.storage.Close()
}
