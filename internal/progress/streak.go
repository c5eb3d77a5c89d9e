package progress

import (
	"sort"
	"time"
)

// RecordActivity marks today as active. Repeated calls on one day are
// no-ops and days older than a year are dropped.
func (s *Store) RecordActivity() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var days []string
	if _, err := load(s.kv, keyStreak, &days); err != nil {
		return err
	}

	now := s.now()
	today := now.Format(dayLayout)
	for _, d := range days {
		if d == today {
			return nil
		}
	}

	cutoff := now.AddDate(-1, 0, 0).Format(dayLayout)
	kept := make([]string, 0, len(days)+1)
	for _, d := range days {
		if d >= cutoff {
			kept = append(kept, d)
		}
	}
	kept = append(kept, today)
	return save(s.kv, keyStreak, kept)
}

// Streak counts consecutive active days ending today or yesterday.
func (s *Store) Streak() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var days []string
	if _, err := load(s.kv, keyStreak, &days); err != nil {
		return 0, err
	}
	return streakOf(days, s.now()), nil
}

func streakOf(days []string, now time.Time) int {
	seen := make(map[string]struct{}, len(days))
	unique := make([]time.Time, 0, len(days))
	for _, d := range days {
		if _, dup := seen[d]; dup {
			continue
		}
		t, err := time.ParseInLocation(dayLayout, d, now.Location())
		if err != nil {
			continue
		}
		seen[d] = struct{}{}
		unique = append(unique, t)
	}
	if len(unique) == 0 {
		return 0
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].After(unique[j]) })

	today := now.Format(dayLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dayLayout)
	if latest := unique[0].Format(dayLayout); latest != today && latest != yesterday {
		return 0
	}

	streak := 1
	for i := 1; i < len(unique); i++ {
		if unique[i-1].AddDate(0, 0, -1).Format(dayLayout) != unique[i].Format(dayLayout) {
			break
		}
		streak++
	}
	return streak
}

// AddPoints adds a positive amount and returns the new total.
func (s *Store) AddPoints(amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int
	if _, err := load(s.kv, keyPoints, &total); err != nil {
		return 0, err
	}
	if amount <= 0 {
		return total, nil
	}
	total += amount
	if err := save(s.kv, keyPoints, total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) Points() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int
	_, err := load(s.kv, keyPoints, &total)
	return total, err
}
