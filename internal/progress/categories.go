package progress

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	apperrors "github.com/harunnryd/verblume/internal/errors"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Category struct {
	Name          string   `json:"name" yaml:"name"`
	Icon          string   `json:"icon" yaml:"icon"`
	SubCategories []string `json:"subCategories" yaml:"subCategories"`
	IsCustom      bool     `json:"isCustom,omitempty" yaml:"isCustom,omitempty"`
}

// SubCategoryGenerator proposes topics for a new custom category.
type SubCategoryGenerator interface {
	SubCategories(ctx context.Context, category string) []string
}

// DefaultCategories parses the embedded catalog.
func DefaultCategories() ([]Category, error) {
	var cats []Category
	if err := yaml.Unmarshal(catalogYAML, &cats); err != nil {
		return nil, fmt.Errorf("parse default catalog: %w", err)
	}
	return cats, nil
}

// Categories returns the stored catalog, seeded with the defaults.
func (s *Store) Categories() ([]Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categories()
}

func (s *Store) categories() ([]Category, error) {
	var cats []Category
	found, err := load(s.kv, keyCategories, &cats)
	if err != nil {
		return nil, err
	}
	if found {
		return cats, nil
	}
	return DefaultCategories()
}

func findCategory(cats []Category, name string) int {
	for i, c := range cats {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

// AddTopic appends a trimmed topic to a category. Duplicates are rejected
// regardless of case.
func (s *Store) AddTopic(category, topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return apperrors.InvalidInput("topic name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cats, err := s.categories()
	if err != nil {
		return err
	}
	i := findCategory(cats, category)
	if i < 0 {
		return apperrors.NotFound(fmt.Sprintf("category %q not found", category))
	}
	if containsFold(cats[i].SubCategories, topic) {
		return apperrors.InvalidInput(fmt.Sprintf("topic %q already exists in %s", topic, cats[i].Name))
	}
	cats[i].SubCategories = append(cats[i].SubCategories, topic)
	return save(s.kv, keyCategories, cats)
}

func (s *Store) RemoveTopic(category, topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats, err := s.categories()
	if err != nil {
		return err
	}
	i := findCategory(cats, category)
	if i < 0 {
		return apperrors.NotFound(fmt.Sprintf("category %q not found", category))
	}

	kept := make([]string, 0, len(cats[i].SubCategories))
	for _, sub := range cats[i].SubCategories {
		if sub != topic {
			kept = append(kept, sub)
		}
	}
	if len(kept) == len(cats[i].SubCategories) {
		return apperrors.NotFound(fmt.Sprintf("topic %q not found in %s", topic, cats[i].Name))
	}
	cats[i].SubCategories = kept
	return save(s.kv, keyCategories, cats)
}

// AddCategory creates a custom category whose topics come from gen.
func (s *Store) AddCategory(ctx context.Context, name, icon string, gen SubCategoryGenerator) (Category, error) {
	name = strings.TrimSpace(name)
	icon = strings.TrimSpace(icon)
	if name == "" || icon == "" {
		return Category{}, apperrors.InvalidInput("category name and icon are required")
	}

	s.mu.Lock()
	cats, err := s.categories()
	s.mu.Unlock()
	if err != nil {
		return Category{}, err
	}
	if findCategory(cats, name) >= 0 {
		return Category{}, apperrors.InvalidInput(fmt.Sprintf("category %q already exists", name))
	}

	subs := gen.SubCategories(ctx, name)
	if subs == nil {
		subs = []string{}
	}
	cat := Category{Name: name, Icon: icon, SubCategories: subs, IsCustom: true}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-read: the catalog may have changed while topics were generated.
	cats, err = s.categories()
	if err != nil {
		return Category{}, err
	}
	if findCategory(cats, name) >= 0 {
		return Category{}, apperrors.InvalidInput(fmt.Sprintf("category %q already exists", name))
	}
	cats = append(cats, cat)
	if err := save(s.kv, keyCategories, cats); err != nil {
		return Category{}, err
	}
	return cat, nil
}

func (s *Store) RemoveCategory(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats, err := s.categories()
	if err != nil {
		return err
	}
	i := findCategory(cats, name)
	if i < 0 {
		return apperrors.NotFound(fmt.Sprintf("category %q not found", name))
	}
	cats = append(cats[:i], cats[i+1:]...)
	return save(s.kv, keyCategories, cats)
}
