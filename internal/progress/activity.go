package progress

import "strings"

type activityLog struct {
	Date         string   `json:"date"`
	CompletedIDs []string `json:"completedIds"`
}

// todayLog returns the stored log, or a fresh one when it belongs to
// another day.
func (s *Store) todayLog() (activityLog, error) {
	var log activityLog
	if _, err := load(s.kv, keyActivity, &log); err != nil {
		return activityLog{}, err
	}
	if today := s.today(); log.Date != today {
		return activityLog{Date: today, CompletedIDs: []string{}}, nil
	}
	return log, nil
}

// MarkCompleted records an activity ID as done today.
func (s *Store) MarkCompleted(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.todayLog()
	if err != nil {
		return err
	}
	for _, done := range log.CompletedIDs {
		if done == id {
			return nil
		}
	}
	log.CompletedIDs = append(log.CompletedIDs, id)
	return save(s.kv, keyActivity, log)
}

func (s *Store) CompletedToday() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.todayLog()
	if err != nil {
		return nil, err
	}
	return log.CompletedIDs, nil
}
