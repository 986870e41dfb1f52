package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	jsoniter "github.com/json-iterator/go"
)

const fileSuffix = ".cache"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type fileRecord struct {
	Key       string `json:"key"`
	Value     []byte `json:"value"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

func (r fileRecord) expired() bool {
	return r.ExpiresAt != 0 && time.Now().UnixNano() > r.ExpiresAt
}

// FilesystemCache stores one file per key under a directory.
type FilesystemCache struct {
	Provider

	directory string
	fs        billy.Filesystem
	mu        sync.RWMutex
}

// NewFilesystemCache creates a cache rooted at directory on the local disk.
// The directory is created on first write.
func NewFilesystemCache(directory string) *FilesystemCache {
	return &FilesystemCache{
		directory: directory,
		fs:        osfs.New(directory),
	}
}

// NewFilesystemCacheFS creates a cache over an existing filesystem.
func NewFilesystemCacheFS(fs billy.Filesystem) *FilesystemCache {
	return &FilesystemCache{
		directory: fs.Root(),
		fs:        fs,
	}
}

// Directory returns the directory the cache was built with.
func (c *FilesystemCache) Directory() string {
	return c.directory
}

func (c *FilesystemCache) filename(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]) + fileSuffix
}

func (c *FilesystemCache) read(name string) (fileRecord, error) {
	var rec fileRecord

	data, err := util.ReadFile(c.fs, name)
	if err != nil {
		if os.IsNotExist(err) {
			return rec, ErrNotFound
		}
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}

func (c *FilesystemCache) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	key = c.Key(key)
	name := c.filename(key)

	c.mu.RLock()
	rec, err := c.read(name)
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if rec.Key != key {
		return nil, ErrNotFound
	}
	if rec.expired() {
		c.mu.Lock()
		_ = c.fs.Remove(name)
		c.mu.Unlock()
		return nil, ErrNotFound
	}
	return rec.Value, nil
}

func (c *FilesystemCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	key = c.Key(key)

	rec := fileRecord{Key: key, Value: value}
	if ttl > 0 {
		rec.ExpiresAt = time.Now().Add(ttl).UnixNano()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return util.WriteFile(c.fs, c.filename(key), data, 0o644)
}

func (c *FilesystemCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.fs.Remove(c.filename(c.Key(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *FilesystemCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

// Clear removes every entry in the current namespace.
func (c *FilesystemCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	infos, err := c.fs.ReadDir(".")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), fileSuffix) {
			continue
		}
		rec, err := c.read(info.Name())
		if err != nil {
			continue
		}
		if c.Owns(rec.Key) {
			if err := c.fs.Remove(info.Name()); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}
	return nil
}
