// Package progress keeps learner state: streaks, points, scores, saved
// lessons, the daily activity log, topic categories and custom languages.
package progress

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/harunnryd/verblume/internal/config"

	"github.com/oklog/ulid/v2"
)

const (
	keyStreak      = "streak-log"
	keyPoints      = "points"
	keyPerformance = "performance"
	keySaved       = "saved-lessons"
	keyActivity    = "daily-activity-log"
	keyCategories  = "categories"
	keyLanguages   = "custom-languages"
)

const dayLayout = "2006-01-02"

type Store struct {
	kv    KV
	now   func() time.Time
	newID func() string
	mu    sync.Mutex
}

type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		now: time.Now,
		newID: func() string {
			return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open builds a file-backed store from the store config section.
func Open(cfg config.StoreConfig, opts ...Option) (*Store, error) {
	lock, err := LockConfigFrom(cfg)
	if err != nil {
		return nil, err
	}
	kv, err := NewFileKV(cfg.DataDir, lock)
	if err != nil {
		return nil, fmt.Errorf("open progress store: %w", err)
	}
	return New(kv, opts...), nil
}

func (s *Store) today() string {
	return s.now().Format(dayLayout)
}
