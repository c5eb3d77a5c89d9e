package progress

import (
	"fmt"
	"strings"

	apperrors "github.com/harunnryd/verblume/internal/errors"
)

// Score is the history of one language/sub-category pair.
type Score struct {
	Scores  []float64 `json:"scores"`
	Average float64   `json:"average"`
}

func performanceKey(language, subCategory string) string {
	return language + ":" + subCategory
}

// RecordScore appends a score in [0, 1] and refreshes the average.
func (s *Store) RecordScore(language, subCategory string, score float64) error {
	if score < 0 || score > 1 {
		return apperrors.InvalidInput(fmt.Sprintf("score %v is outside [0, 1]", score))
	}
	if strings.TrimSpace(language) == "" || strings.TrimSpace(subCategory) == "" {
		return apperrors.InvalidInput("language and sub-category are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	perf := map[string]Score{}
	if _, err := load(s.kv, keyPerformance, &perf); err != nil {
		return err
	}

	key := performanceKey(language, subCategory)
	entry := perf[key]
	entry.Scores = append(entry.Scores, score)
	var sum float64
	for _, v := range entry.Scores {
		sum += v
	}
	entry.Average = sum / float64(len(entry.Scores))
	perf[key] = entry

	return save(s.kv, keyPerformance, perf)
}

// Performance returns every tracked pair, keyed "language:subCategory".
func (s *Store) Performance() (map[string]Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	perf := map[string]Score{}
	if _, err := load(s.kv, keyPerformance, &perf); err != nil {
		return nil, err
	}
	return perf, nil
}

// Mastery is the mean of the averages recorded for a language, 0 when none.
func (s *Store) Mastery(language string) (float64, error) {
	perf, err := s.Performance()
	if err != nil {
		return 0, err
	}

	prefix := language + ":"
	var sum float64
	var n int
	for key, entry := range perf {
		if strings.HasPrefix(key, prefix) {
			sum += entry.Average
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (s *Store) RemoveLanguagePerformance(language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLanguagePerformance(language)
}

func (s *Store) removeLanguagePerformance(language string) error {
	perf := map[string]Score{}
	found, err := load(s.kv, keyPerformance, &perf)
	if err != nil || !found {
		return err
	}

	prefix := language + ":"
	for key := range perf {
		if strings.HasPrefix(key, prefix) {
			delete(perf, key)
		}
	}
	return save(s.kv, keyPerformance, perf)
}
