package cache

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v3"
)

// BadgerCache persists entries in an embedded badger database.
type BadgerCache struct {
	Provider

	directory string
	db        *badger.DB
}

// NewBadgerCache opens (or creates) a badger database in directory.
func NewBadgerCache(directory string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(directory).WithLogger(nil)
	if directory == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &BadgerCache{directory: directory, db: db}, nil
}

// Directory returns the database directory.
func (c *BadgerCache) Directory() string {
	return c.directory
}

func (c *BadgerCache) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		it, err := txn.Get([]byte(c.Key(key)))
		if err != nil {
			return err
		}
		value, err = it.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (c *BadgerCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(c.Key(key)), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (c *BadgerCache) Delete(_ context.Context, key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(c.Key(key)))
	})
}

func (c *BadgerCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Clear drops every key in the current namespace.
func (c *BadgerCache) Clear(_ context.Context) error {
	if ns := c.Namespace(); ns != "" {
		return c.db.DropPrefix([]byte(ns + namespaceSeparator))
	}
	return c.db.DropAll()
}

// Close releases the database files.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
