// Package bolt persists analysis results in a local bbolt database, so a
// restarted service keeps its warm cache.
package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/aretw0/hfstol/pkg/domain"
	"github.com/aretw0/hfstol/pkg/ports"
)

var (
	_ ports.AnalysisCache = (*Cache)(nil)
	_ ports.CachePurger   = (*Cache)(nil)
)

var bucketName = []byte("analyses")

// Cache implements ports.AnalysisCache on a bbolt file.
type Cache struct {
	filename string
	db       *bbolt.DB
}

// Open opens (or creates) the cache database at filename.
func Open(filename string) (*Cache, error) {
	db, err := bbolt.Open(filename, 0o644, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt cache %s: %w", filename, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &Cache{filename: filename, db: db}, nil
}

// Close releases the database file lock.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get retrieves a cached result.
func (c *Cache) Get(ctx context.Context, key string) (domain.Result, bool, error) {
	var (
		res domain.Result
		ok  bool
	)
	err := c.db.View(func(tx *bbolt.Tx) error {
		bs := tx.Bucket(bucketName).Get([]byte(key))
		if bs == nil {
			return nil
		}
		ok = true
		// bs is only valid inside the transaction; Unmarshal copies.
		return json.Unmarshal(bs, &res)
	})
	if err != nil {
		return nil, false, fmt.Errorf("bolt get failed: %w", err)
	}
	if ok && res == nil {
		res = domain.Result{}
	}
	return res, ok, nil
}

// Set stores a result.
func (c *Cache) Set(ctx context.Context, key string, result domain.Result) error {
	if result == nil {
		result = domain.Result{}
	}
	js, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), js)
	})
}

// Purge removes every entry whose key was produced for checksum.
func (c *Cache) Purge(ctx context.Context, checksum string) (int, error) {
	prefix := []byte(ports.CacheKey(checksum, ""))
	n := 0
	err := c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		// Deleting under a live cursor skips entries, so collect first.
		var keys [][]byte
		cur := b.Cursor()
		for k, _ := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = cur.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		n = len(keys)
		return nil
	})
	return n, err
}
