package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/planner"
	"github.com/harunnryd/verblume/internal/progress"
	"github.com/harunnryd/verblume/internal/render"

	"github.com/spf13/cobra"
)

// lessonFlags are shared by every command that builds a RequestSpec.
type lessonFlags struct {
	language    string
	base        string
	category    string
	subCategory string
	mode        string
	quizType    string
	tone        string
	difficulty  string
}

func (f *lessonFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "language to learn")
	cmd.Flags().StringVarP(&f.base, "base", "b", "English", "language the explanations are written in")
	cmd.Flags().StringVar(&f.category, "category", "", "topic category")
	cmd.Flags().StringVarP(&f.subCategory, "topic", "t", "", "topic (sub-category) to practice")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", string(planner.ModeNewVocabulary), "learning mode")
	cmd.Flags().StringVar(&f.quizType, "quiz-type", "", "quiz subtype, required for Quiz mode")
	cmd.Flags().StringVar(&f.tone, "tone", "", "tone for Speaking lessons")
	cmd.Flags().StringVar(&f.difficulty, "difficulty", "", "Beginner, Intermediate or Advanced")
}

func (f *lessonFlags) spec() planner.RequestSpec {
	return planner.RequestSpec{
		Language:     strings.TrimSpace(f.language),
		BaseLanguage: strings.TrimSpace(f.base),
		Category:     strings.TrimSpace(f.category),
		SubCategory:  strings.TrimSpace(f.subCategory),
		Mode:         planner.Mode(f.mode),
		Options: planner.Options{
			QuizType:   planner.QuizType(f.quizType),
			Tone:       planner.Tone(f.tone),
			Difficulty: planner.Difficulty(f.difficulty),
		},
	}
}

var (
	lessonOpts       lessonFlags
	lessonSave       bool
	lessonJSON       bool
	lessonAvoidSaved bool
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Generate one lesson",
	Long: `Generate one lesson payload for a language, topic and learning mode.

Modes: ` + joinModes() + `
Quiz types: ` + joinQuizTypes(),
	Example: `  verblume lesson -l Spanish -t "At the Airport" -m "Storyboard Scenario"
  verblume lesson -l Hindi -t "Simple Past Tense" -m Quiz --quiz-type "Grammar Usage" --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if lessonJSON {
			a.renderer = render.NewJSONRenderer()
		}

		sig := NewSignalHandler(context.Background())
		sig.Start()
		defer sig.Stop()
		ctx := sig.Context()

		spec := lessonOpts.spec()
		if lessonAvoidSaved {
			spec.History = savedHistory(a.store, spec)
		}

		payload, err := a.planner.Generate(ctx, spec)
		if err != nil {
			return err
		}

		if err := a.store.RecordActivity(); err != nil {
			slog.Warn("Could not record activity", "error", err)
		}

		if err := printOut(a.renderer.Lesson(payload)); err != nil {
			return err
		}

		if lessonSave {
			saved, err := saveLesson(a.store, spec, payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "✓ Saved lesson %s\n", saved.ID)
		}
		return nil
	},
}

// savedHistory returns the saved payloads for the same language, topic and
// mode, so a new lesson does not repeat them.
func savedHistory(store *progress.Store, spec planner.RequestSpec) []lesson.Payload {
	saved, err := store.SavedLessons()
	if err != nil {
		slog.Warn("Could not read saved lessons", "error", err)
		return nil
	}
	var history []lesson.Payload
	for _, l := range saved {
		if l.Language != spec.Language || l.SubCategory != spec.SubCategory || l.Mode != string(spec.Mode) {
			continue
		}
		p, err := l.Payload()
		if err != nil {
			slog.Warn("Skipping unreadable saved lesson", "id", l.ID, "error", err)
			continue
		}
		history = append(history, p)
	}
	return history
}

func saveLesson(store *progress.Store, spec planner.RequestSpec, payload lesson.Payload) (progress.SavedLesson, error) {
	l := progress.SavedLesson{
		Language:     spec.Language,
		BaseLanguage: spec.BaseLanguage,
		Category:     spec.Category,
		SubCategory:  spec.SubCategory,
		Mode:         string(spec.Mode),
		QuizType:     string(spec.Options.QuizType),
		Tone:         string(spec.Options.Tone),
		Difficulty:   string(spec.Options.Difficulty),
	}
	if err := l.SetPayload(payload); err != nil {
		return progress.SavedLesson{}, err
	}
	return store.SaveLesson(l)
}

func joinModes() string {
	names := make([]string, 0, len(planner.Modes))
	for _, m := range planner.Modes {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

func joinQuizTypes() string {
	names := make([]string, 0, len(planner.QuizTypes))
	for _, q := range planner.QuizTypes {
		names = append(names, string(q))
	}
	return strings.Join(names, ", ")
}

func init() {
	lessonOpts.bind(lessonCmd)
	lessonCmd.Flags().BoolVar(&lessonSave, "save", false, "bookmark the generated lesson")
	lessonCmd.Flags().BoolVar(&lessonJSON, "json", false, "print the raw payload JSON")
	lessonCmd.Flags().BoolVar(&lessonAvoidSaved, "avoid-saved", false, "avoid repeating saved lessons for the same topic and mode")
	rootCmd.AddCommand(lessonCmd)
}
