package progress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harunnryd/verblume/internal/config"

	"github.com/gofrs/flock"
)

type LockConfig struct {
	Timeout  time.Duration
	Retry    time.Duration
	MaxRetry int
}

func DefaultLockConfig() LockConfig {
	timeout, _ := config.DurationOrDefault(config.DefaultStoreLockTimeout, config.DefaultStoreLockTimeout)
	retry, _ := config.DurationOrDefault(config.DefaultStoreLockRetry, config.DefaultStoreLockRetry)

	return LockConfig{
		Timeout:  timeout,
		Retry:    retry,
		MaxRetry: config.DefaultStoreLockMaxRetry,
	}
}

// LockConfigFrom reads lock settings from the store section of the config.
func LockConfigFrom(cfg config.StoreConfig) (LockConfig, error) {
	timeout, err := config.DurationOrDefault(cfg.LockTimeout, config.DefaultStoreLockTimeout)
	if err != nil {
		return LockConfig{}, fmt.Errorf("store.lock_timeout: %w", err)
	}
	retry, err := config.DurationOrDefault(cfg.LockRetry, config.DefaultStoreLockRetry)
	if err != nil {
		return LockConfig{}, fmt.Errorf("store.lock_retry: %w", err)
	}
	maxRetry := cfg.LockMaxRetry
	if maxRetry <= 0 {
		maxRetry = config.DefaultStoreLockMaxRetry
	}
	return LockConfig{Timeout: timeout, Retry: retry, MaxRetry: maxRetry}, nil
}

// withFileLock holds an exclusive lock on lockPath while fn runs, so a CLI
// and a running server never interleave writes to the same data dir.
func withFileLock(lockPath string, cfg LockConfig, fn func() error) error {
	lock := flock.New(lockPath)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	acquired := time.Now()
	if err := acquireWithRetry(ctx, lock, cfg); err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			slog.Error("Failed to release store lock", "path", lockPath, "error", err)
		}
	}()

	if waited := time.Since(acquired); waited > cfg.Retry {
		slog.Debug("Store lock acquired after waiting", "path", lockPath, "waited", waited)
	}
	return fn()
}

func acquireWithRetry(ctx context.Context, lock *flock.Flock, cfg LockConfig) error {
	for i := 0; i < cfg.MaxRetry; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("store lock acquisition cancelled: %w", ctx.Err())
		default:
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("failed to attempt store lock: %w", err)
			}
			if locked {
				return nil
			}

			if i < cfg.MaxRetry-1 {
				time.Sleep(cfg.Retry)
			}
		}
	}

	return fmt.Errorf("store %s is locked by another process (timeout after %v)", lock.Path(), cfg.Timeout)
}
