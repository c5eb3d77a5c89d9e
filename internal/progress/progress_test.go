package progress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harunnryd/verblume/internal/config"
	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/lesson"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(days int) { c.t = c.t.AddDate(0, 0, days) }

func newTestStore(t *testing.T) (*Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	seq := 0
	s := New(NewMemoryKV(), WithClock(c.now), WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("id-%02d", seq)
	}))
	return s, c
}

func TestStreakCountsConsecutiveDays(t *testing.T) {
	s, c := newTestStore(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordActivity())
		require.NoError(t, s.RecordActivity())
		c.advance(1)
	}

	streak, err := s.Streak()
	require.NoError(t, err)
	assert.Equal(t, 3, streak, "last activity was yesterday")

	c.advance(1)
	streak, err = s.Streak()
	require.NoError(t, err)
	assert.Zero(t, streak)

	require.NoError(t, s.RecordActivity())
	streak, err = s.Streak()
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestStreakDropsDaysOlderThanAYear(t *testing.T) {
	s, c := newTestStore(t)

	require.NoError(t, s.RecordActivity())
	c.advance(400)
	require.NoError(t, s.RecordActivity())

	var days []string
	_, err := load(s.kv, keyStreak, &days)
	require.NoError(t, err)
	assert.Equal(t, []string{c.t.Format(dayLayout)}, days)
}

func TestStreakOfIgnoresDuplicatesAndGaps(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	days := []string{"2026-03-05", "2026-03-10", "2026-03-09", "2026-03-10", "2026-03-08", "garbage"}
	assert.Equal(t, 3, streakOf(days, now))
	assert.Zero(t, streakOf(nil, now))
}

func TestPointsOnlyGrow(t *testing.T) {
	s, _ := newTestStore(t)

	total, err := s.AddPoints(10)
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	total, err = s.AddPoints(-5)
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	_, err = s.AddPoints(0)
	require.NoError(t, err)

	total, err = s.Points()
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}

func TestPerformanceAndMastery(t *testing.T) {
	s, _ := newTestStore(t)

	require.NoError(t, s.RecordScore("Spanish", "Travel", 1))
	require.NoError(t, s.RecordScore("Spanish", "Travel", 0.5))
	require.NoError(t, s.RecordScore("Spanish", "Food", 0.25))
	require.NoError(t, s.RecordScore("Hindi", "Food", 1))
	assert.ErrorIs(t, s.RecordScore("Spanish", "Travel", 1.5), apperrors.ErrInvalidInput)
	assert.ErrorIs(t, s.RecordScore("Spanish", "Travel", -0.1), apperrors.ErrInvalidInput)

	perf, err := s.Performance()
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.5}, perf["Spanish:Travel"].Scores)
	assert.InDelta(t, 0.75, perf["Spanish:Travel"].Average, 1e-9)

	mastery, err := s.Mastery("Spanish")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mastery, 1e-9)

	require.NoError(t, s.RemoveLanguagePerformance("Spanish"))
	mastery, err = s.Mastery("Spanish")
	require.NoError(t, err)
	assert.Zero(t, mastery)

	mastery, err = s.Mastery("Hindi")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mastery, 1e-9)
}

func savedSpeaking(t *testing.T, id string) SavedLesson {
	t.Helper()
	l := SavedLesson{ID: id, Language: "Spanish", BaseLanguage: "English", Mode: "Speaking"}
	require.NoError(t, l.SetPayload(&lesson.SpeakingContent{
		Instruction:         "Say hello.",
		Phrase:              "Hola",
		PronunciationEn:     "OH-lah",
		PronunciationInBase: "OH-lah",
		Meaning:             "Hello",
		WordByWord:          []lesson.WordByWord{{Word: "Hola", Translation: "Hello"}},
	}))
	return l
}

func TestSavedLessons(t *testing.T) {
	s, _ := newTestStore(t)

	first, err := s.SaveLesson(savedSpeaking(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "id-01", first.ID)
	assert.False(t, first.Timestamp.IsZero())

	_, err = s.SaveLesson(savedSpeaking(t, "second"))
	require.NoError(t, err)
	_, err = s.SaveLesson(savedSpeaking(t, "second"))
	require.NoError(t, err)

	saved, err := s.SavedLessons()
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "second", saved[0].ID, "newest first")

	p, err := saved[0].Payload()
	require.NoError(t, err)
	speaking, ok := p.(*lesson.SpeakingContent)
	require.True(t, ok)
	assert.Equal(t, "Hola", speaking.Phrase)

	ok, err = s.IsLessonSaved("id-01")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.RemoveLesson("id-01"))
	assert.ErrorIs(t, s.RemoveLesson("id-01"), apperrors.ErrNotFound)

	ok, err = s.IsLessonSaved("id-01")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.SaveLesson(SavedLesson{ID: "empty"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestSavedLessonsAreCapped(t *testing.T) {
	s, _ := newTestStore(t)

	for i := 0; i < MaxSavedLessons; i++ {
		_, err := s.SaveLesson(savedSpeaking(t, ""))
		require.NoError(t, err)
	}
	_, err := s.SaveLesson(savedSpeaking(t, ""))
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	saved, err := s.SavedLessons()
	require.NoError(t, err)
	assert.Len(t, saved, MaxSavedLessons)
}

func TestActivityLogResetsDaily(t *testing.T) {
	s, c := newTestStore(t)

	require.NoError(t, s.MarkCompleted("quiz-1"))
	require.NoError(t, s.MarkCompleted("quiz-1"))
	require.NoError(t, s.MarkCompleted("speaking-2"))

	done, err := s.CompletedToday()
	require.NoError(t, err)
	assert.Equal(t, []string{"quiz-1", "speaking-2"}, done)

	c.advance(1)
	done, err = s.CompletedToday()
	require.NoError(t, err)
	assert.Empty(t, done)
}

type fixedTopics []string

func (f fixedTopics) SubCategories(context.Context, string) []string { return f }

func TestCategories(t *testing.T) {
	s, _ := newTestStore(t)

	cats, err := s.Categories()
	require.NoError(t, err)
	require.Len(t, cats, 13)
	assert.Equal(t, "Core Grammar", cats[0].Name)
	assert.NotEmpty(t, cats[0].SubCategories)

	require.NoError(t, s.AddTopic("travel & history", "  Ancient Ports  "))
	assert.ErrorIs(t, s.AddTopic("Travel & History", "ancient ports"), apperrors.ErrInvalidInput)
	assert.ErrorIs(t, s.AddTopic("Nope", "x"), apperrors.ErrNotFound)
	assert.ErrorIs(t, s.AddTopic("Travel & History", " "), apperrors.ErrInvalidInput)

	cat, err := s.AddCategory(context.Background(), "Cooking", "🍳", fixedTopics{"Knife Skills", "Baking"})
	require.NoError(t, err)
	assert.True(t, cat.IsCustom)

	_, err = s.AddCategory(context.Background(), "cooking", "🍳", fixedTopics{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = s.AddCategory(context.Background(), "Gardening", "", fixedTopics{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	cats, err = s.Categories()
	require.NoError(t, err)
	require.Len(t, cats, 14)
	assert.Equal(t, []string{"Knife Skills", "Baking"}, cats[13].SubCategories)

	require.NoError(t, s.RemoveTopic("Cooking", "Baking"))
	assert.ErrorIs(t, s.RemoveTopic("Cooking", "Baking"), apperrors.ErrNotFound)
	require.NoError(t, s.RemoveCategory("Cooking"))
	assert.ErrorIs(t, s.RemoveCategory("Cooking"), apperrors.ErrNotFound)

	cats, err = s.Categories()
	require.NoError(t, err)
	assert.Len(t, cats, 13)
}

type describer struct {
	calls int
	err   error
}

func (d *describer) LanguageDetails(_ context.Context, name, _ string) (*lesson.LanguageDetails, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return &lesson.LanguageDetails{NativeName: "日本語", Emoji: "🇯🇵", TTSCode: "ja-JP"}, nil
}

func TestLanguages(t *testing.T) {
	s, _ := newTestStore(t)
	d := &describer{}

	langs, err := s.Languages()
	require.NoError(t, err)
	assert.Len(t, langs, len(defaultLanguages))

	_, err = s.AddLanguage(context.Background(), "hindi", "English", d)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Zero(t, d.calls)

	added, err := s.AddLanguage(context.Background(), " Japanese ", "English", d)
	require.NoError(t, err)
	assert.Equal(t, "Japanese", added.Name)
	assert.True(t, added.IsCustom)

	require.NoError(t, s.RecordScore("Japanese", "Travel", 1))

	langs, err = s.Languages()
	require.NoError(t, err)
	require.Len(t, langs, len(defaultLanguages)+1)
	assert.Equal(t, "ja-JP", langs[len(langs)-1].TTSCode)

	assert.ErrorIs(t, s.RemoveLanguage("English"), apperrors.ErrInvalidInput)
	require.NoError(t, s.RemoveLanguage("japanese"))
	assert.ErrorIs(t, s.RemoveLanguage("Japanese"), apperrors.ErrNotFound)

	perf, err := s.Performance()
	require.NoError(t, err)
	assert.Empty(t, perf)

	d.err = errors.New("boom")
	_, err = s.AddLanguage(context.Background(), "Korean", "English", d)
	assert.Error(t, err)
}

func TestFileStorePersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	cfg := config.StoreConfig{DataDir: dir, LockTimeout: "1s", LockRetry: "5ms", LockMaxRetry: 10}

	s, err := Open(cfg)
	require.NoError(t, err)
	_, err = s.AddPoints(7)
	require.NoError(t, err)
	require.NoError(t, s.RecordScore("Spanish", "Travel", 0.5))

	assert.FileExists(t, filepath.Join(dir, keyPoints+".json"))

	reopened, err := Open(cfg)
	require.NoError(t, err)
	total, err := reopened.Points()
	require.NoError(t, err)
	assert.Equal(t, 7, total)
}

func TestFileKVRemoveAndMissingKeys(t *testing.T) {
	kv, err := NewFileKV(t.TempDir(), DefaultLockConfig())
	require.NoError(t, err)

	_, ok, err := kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("points", []byte("3")))
	require.NoError(t, kv.Remove("points"))
	require.NoError(t, kv.Remove("points"))

	_, ok, err = kv.Get("points")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, kv.Set("../escape", []byte("x")), apperrors.ErrInvalidInput)
}

func TestFileKVTimesOutWhileLocked(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir, LockConfig{Timeout: 200 * time.Millisecond, Retry: 10 * time.Millisecond, MaxRetry: 3})
	require.NoError(t, err)

	held := flock.New(filepath.Join(dir, lockFileName))
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer held.Unlock()

	err = kv.Set("points", []byte("1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked by another process")

	_, statErr := os.Stat(filepath.Join(dir, "points.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLockConfigFrom(t *testing.T) {
	cfg, err := LockConfigFrom(config.StoreConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLockConfig(), cfg)

	_, err = LockConfigFrom(config.StoreConfig{LockTimeout: "soon"})
	assert.Error(t, err)
}
