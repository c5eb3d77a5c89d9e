package progress

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
)

const lockFileName = "store.lock"

// FileKV stores each key as <dir>/<key>.json. Writes are atomic renames
// taken under an inter-process file lock.
type FileKV struct {
	dir  string
	lock LockConfig
	mu   sync.RWMutex
}

func NewFileKV(dir string, lock LockConfig) (*FileKV, error) {
	if dir == "" {
		return nil, fmt.Errorf("store data dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create dir %s: %w", dir, err)
	}
	if lock.MaxRetry <= 0 || lock.Timeout <= 0 {
		lock = DefaultLockConfig()
	}
	return &FileKV{dir: dir, lock: lock}, nil
}

func (f *FileKV) Dir() string { return f.dir }

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileKV) Get(key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (f *FileKV) Set(key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return withFileLock(filepath.Join(f.dir, lockFileName), f.lock, func() error {
		return atomic.WriteFile(f.path(key), bytes.NewReader(value))
	})
}

func (f *FileKV) Remove(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return withFileLock(filepath.Join(f.dir, lockFileName), f.lock, func() error {
		if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	})
}
