package progress

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/lesson"
)

// LanguageDescriber fills in native name, flag and TTS code for a language.
type LanguageDescriber interface {
	LanguageDetails(ctx context.Context, name, base string) (*lesson.LanguageDetails, error)
}

var defaultLanguages = []lesson.LanguageDetails{
	{Name: "English", NativeName: "English", Emoji: "🇬🇧", TTSCode: "en-US"},
	{Name: "Hindi", NativeName: "हिन्दी", Emoji: "🇮🇳", TTSCode: "hi-IN"},
	{Name: "Kannada", NativeName: "ಕನ್ನಡ", Emoji: "🌸", TTSCode: "kn-IN"},
	{Name: "Tamil", NativeName: "தமிழ்", Emoji: "☀️", TTSCode: "ta-IN"},
	{Name: "Malayalam", NativeName: "മലയാളം", Emoji: "🌴", TTSCode: "ml-IN"},
	{Name: "Telugu", NativeName: "తెలుగు", Emoji: "🛕", TTSCode: "te-IN"},
}

func DefaultLanguages() []lesson.LanguageDetails {
	return append([]lesson.LanguageDetails(nil), defaultLanguages...)
}

// Languages returns the built-in languages followed by custom ones.
func (s *Store) Languages() ([]lesson.LanguageDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	custom, err := s.customLanguages()
	if err != nil {
		return nil, err
	}
	return append(DefaultLanguages(), custom...), nil
}

func (s *Store) customLanguages() ([]lesson.LanguageDetails, error) {
	custom := []lesson.LanguageDetails{}
	if _, err := load(s.kv, keyLanguages, &custom); err != nil {
		return nil, err
	}
	return custom, nil
}

func findLanguage(langs []lesson.LanguageDetails, name string) int {
	for i, l := range langs {
		if strings.EqualFold(l.Name, name) {
			return i
		}
	}
	return -1
}

// AddLanguage describes a new language through d and stores it as custom.
func (s *Store) AddLanguage(ctx context.Context, name, base string, d LanguageDescriber) (*lesson.LanguageDetails, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.InvalidInput("language name is required")
	}

	all, err := s.Languages()
	if err != nil {
		return nil, err
	}
	if findLanguage(all, name) >= 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("language %q already exists", name))
	}

	details, err := d.LanguageDetails(ctx, name, base)
	if err != nil {
		return nil, fmt.Errorf("describe language %s: %w", name, err)
	}
	details.Name = name
	details.IsCustom = true

	s.mu.Lock()
	defer s.mu.Unlock()

	custom, err := s.customLanguages()
	if err != nil {
		return nil, err
	}
	if findLanguage(custom, name) >= 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("language %q already exists", name))
	}
	custom = append(custom, *details)
	if err := save(s.kv, keyLanguages, custom); err != nil {
		return nil, err
	}
	return details, nil
}

// RemoveLanguage drops a custom language together with its scores.
func (s *Store) RemoveLanguage(name string) error {
	if findLanguage(defaultLanguages, name) >= 0 {
		return apperrors.InvalidInput(fmt.Sprintf("built-in language %q cannot be removed", name))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	custom, err := s.customLanguages()
	if err != nil {
		return err
	}
	i := findLanguage(custom, name)
	if i < 0 {
		return apperrors.NotFound(fmt.Sprintf("language %q not found", name))
	}
	removed := custom[i].Name
	custom = append(custom[:i], custom[i+1:]...)
	if err := save(s.kv, keyLanguages, custom); err != nil {
		return err
	}
	return s.removeLanguagePerformance(removed)
}
