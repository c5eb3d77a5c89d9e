package progress

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/lesson"
)

const MaxSavedLessons = 15

// SavedLesson is a generated payload bookmarked with the request that
// produced it.
type SavedLesson struct {
	ID           string          `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	Language     string          `json:"language"`
	BaseLanguage string          `json:"baseLanguage"`
	Category     string          `json:"category"`
	SubCategory  string          `json:"subCategory"`
	Mode         string          `json:"mode"`
	Content      json.RawMessage `json:"content"`
	QuizType     string          `json:"quizType,omitempty"`
	Tone         string          `json:"tone,omitempty"`
	Difficulty   string          `json:"difficulty,omitempty"`
}

// SetPayload stores p as the lesson content.
func (l *SavedLesson) SetPayload(p lesson.Payload) error {
	raw, err := lesson.Encode(p)
	if err != nil {
		return err
	}
	l.Content = raw
	return nil
}

// Payload decodes the stored content back into its variant.
func (l *SavedLesson) Payload() (lesson.Payload, error) {
	return lesson.Decode("", l.Content)
}

// SaveLesson bookmarks l, newest first. An empty ID gets a ULID and a
// lesson whose ID is already saved is left as is.
func (s *Store) SaveLesson(l SavedLesson) (SavedLesson, error) {
	if len(l.Content) == 0 {
		return SavedLesson{}, apperrors.InvalidInput("saved lesson has no content")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var saved []SavedLesson
	if _, err := load(s.kv, keySaved, &saved); err != nil {
		return SavedLesson{}, err
	}

	if l.ID = strings.TrimSpace(l.ID); l.ID == "" {
		l.ID = s.newID()
	}
	for _, existing := range saved {
		if existing.ID == l.ID {
			return existing, nil
		}
	}
	if len(saved) >= MaxSavedLessons {
		return SavedLesson{}, apperrors.InvalidInput(fmt.Sprintf("you can only save up to %d lessons", MaxSavedLessons))
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = s.now()
	}

	saved = append([]SavedLesson{l}, saved...)
	if err := save(s.kv, keySaved, saved); err != nil {
		return SavedLesson{}, err
	}
	return l, nil
}

func (s *Store) RemoveLesson(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var saved []SavedLesson
	if _, err := load(s.kv, keySaved, &saved); err != nil {
		return err
	}

	kept := saved[:0]
	for _, l := range saved {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(saved) {
		return apperrors.NotFound(fmt.Sprintf("saved lesson %q not found", id))
	}
	return save(s.kv, keySaved, kept)
}

func (s *Store) SavedLessons() ([]SavedLesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := []SavedLesson{}
	if _, err := load(s.kv, keySaved, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Store) SavedLesson(id string) (SavedLesson, error) {
	saved, err := s.SavedLessons()
	if err != nil {
		return SavedLesson{}, err
	}
	for _, l := range saved {
		if l.ID == id {
			return l, nil
		}
	}
	return SavedLesson{}, apperrors.NotFound(fmt.Sprintf("saved lesson %q not found", id))
}

func (s *Store) IsLessonSaved(id string) (bool, error) {
	_, err := s.SavedLesson(id)
	if err == nil {
		return true, nil
	}
	if apperrors.IsCategory(err, apperrors.ErrNotFound) {
		return false, nil
	}
	return false, err
}
