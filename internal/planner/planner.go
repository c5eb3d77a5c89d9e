package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/harunnryd/verblume/internal/config"
	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/gateway"
	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/logger"
	"github.com/harunnryd/verblume/internal/model/contract"
)

const (
	situationalTitle       = "Situational Practice"
	situationalInstruction = `Describe a real-world situation you're facing. For example, "How do I prepare for a job interview?" or "How do I order politely at a restaurant?"`

	visualQuizIntro        = "Look at the image and choose the correct word."
	visualQuestionText     = "Which word best describes the image?"
	visualDistractorsCount = 3
)

// Service is the generation capability the planner depends on.
// model.ModelRouter satisfies it.
type Service interface {
	Route(ctx context.Context, model string, req contract.CompletionRequest) (*contract.CompletionResponse, error)
	RouteImage(ctx context.Context, model string, req contract.ImageRequest) (*contract.ImageResponse, error)
}

type Config struct {
	TextModel              string
	ImageModel             string
	Temperature            float32
	ExplanationTemperature float32
	TopicBatchSize         int
	ImageAspectRatio       string
}

// ConfigFrom builds planner settings from the loaded application config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{
		TextModel:              cfg.Models.Default,
		ImageModel:             cfg.Models.Image,
		Temperature:            float32(cfg.Planner.Temperature),
		ExplanationTemperature: float32(cfg.Planner.ExplanationTemperature),
		TopicBatchSize:         cfg.Planner.TopicBatchSize,
		ImageAspectRatio:       cfg.Planner.ImageAspectRatio,
	}
}

// Planner turns a learning-mode selection into generation calls and
// normalizes the result into a lesson payload. It holds no per-request state.
type Planner struct {
	service Service
	gateway *gateway.Gateway
	cfg     Config
	shuffle func(n int, swap func(i, j int))
}

type Option func(*Planner)

// WithShuffle replaces the option shuffler used by visual quizzes.
func WithShuffle(f func(n int, swap func(i, j int))) Option {
	return func(p *Planner) {
		if f != nil {
			p.shuffle = f
		}
	}
}

func New(service Service, gw *gateway.Gateway, cfg Config, opts ...Option) *Planner {
	if cfg.TopicBatchSize < 1 {
		cfg.TopicBatchSize = config.DefaultPlannerTopicBatchSize
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = config.DefaultPlannerTemperature
	}
	if cfg.ExplanationTemperature == 0 {
		cfg.ExplanationTemperature = config.DefaultPlannerExplanationTemp
	}
	if cfg.ImageAspectRatio == "" {
		cfg.ImageAspectRatio = config.DefaultPlannerImageAspectRatio
	}
	if gw == nil {
		gw = gateway.New(gateway.DefaultPolicy())
	}

	p := &Planner{
		service: service,
		gateway: gw,
		cfg:     cfg,
		shuffle: rand.Shuffle,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate produces one payload for spec.
func (p *Planner) Generate(ctx context.Context, spec RequestSpec) (lesson.Payload, error) {
	kind, err := ContractFor(spec.Mode, spec.Options.QuizType)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ctx = logger.WithLanguage(ctx, spec.Language)
	slog.Debug("Planning lesson",
		"mode", spec.Mode,
		"kind", kind,
		"language", spec.Language,
		"sub_category", spec.SubCategory,
		"trace_id", logger.GetTraceID(ctx))

	switch {
	case spec.Mode == ModeSituationalPractice:
		return &lesson.SituationalPracticeInitContent{
			Type:        lesson.KindSituationalPracticeInit,
			Title:       situationalTitle,
			Instruction: situationalInstruction,
		}, nil
	case spec.Mode == ModeQuiz && spec.Options.QuizType == QuizVisualAssociation:
		return p.visualQuiz(ctx, spec)
	}

	prompt, err := buildPrompt(spec)
	if err != nil {
		return nil, err
	}

	temperature := p.cfg.Temperature
	req := contract.CompletionRequest{
		Messages:    contract.UserPrompt(prompt),
		Temperature: &temperature,
		Schema:      schemaFor(kind, spec),
		SchemaName:  kind.String(),
	}

	raw, err := p.complete(ctx, "generate."+kind.String(), req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	payload, err := lesson.Decode(kind, []byte(raw))
	if err != nil {
		return nil, invalidFormat(err)
	}
	if quiz, ok := payload.(*lesson.QuizContent); ok {
		if err := checkQuizFormats(quiz, spec.Options.QuizType); err != nil {
			return nil, invalidFormat(err)
		}
	}

	p.attachImages(ctx, payload, spec)
	return payload, nil
}

// complete runs one text call through the gateway and returns the raw body.
func (p *Planner) complete(ctx context.Context, op string, req contract.CompletionRequest) (string, error) {
	resp, err := gateway.Do(ctx, p.gateway, op, func(ctx context.Context) (*contract.CompletionResponse, error) {
		return p.service.Route(ctx, p.cfg.TextModel, req)
	})
	if err != nil {
		return "", err
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", apperrors.InvalidModelOutput("empty response body")
	}
	return resp.Content, nil
}

// image draws prompt and returns base64 data. Failures degrade to "".
func (p *Planner) image(ctx context.Context, prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return ""
	}

	req := contract.ImageRequest{
		Prompt:      prompt,
		AspectRatio: p.cfg.ImageAspectRatio,
		MIMEType:    contract.MIMETypeJPEG,
	}
	resp, err := gateway.Do(ctx, p.gateway, "generate.image", func(ctx context.Context) (*contract.ImageResponse, error) {
		return p.service.RouteImage(ctx, p.cfg.ImageModel, req)
	})
	if err != nil {
		slog.Warn("Could not generate image from prompt",
			"error", err,
			"trace_id", logger.GetTraceID(ctx))
		return ""
	}
	return resp.Base64()
}

func (p *Planner) imageForTerm(ctx context.Context, term, scene string) string {
	return p.image(ctx, imagePromptForTerm(term, scene))
}

// attachImages fills image fields from the prompts the service returned.
// Calls run one after another so a rate-limited service sees bounded pressure.
func (p *Planner) attachImages(ctx context.Context, payload lesson.Payload, spec RequestSpec) {
	switch v := payload.(type) {
	case *lesson.StoryboardContent:
		for i := range v.Scenes {
			scene := &v.Scenes[i]
			if scene.ImagePrompt != "" {
				scene.ImageBytes = p.image(ctx, scene.ImagePrompt)
			}
		}
	case *lesson.VisualContextContent:
		if v.ImagePrompt != "" {
			v.ImageBytes = p.image(ctx, v.ImagePrompt)
		}
	case *lesson.VocabularyContent:
		for i := range v.Words {
			word := &v.Words[i]
			if word.IsVisualizable {
				word.ImageBytes = p.imageForTerm(ctx, word.Word, spec.SubCategory)
			}
		}
	case *lesson.GrammarContent:
		for i := range v.Examples {
			ex := &v.Examples[i]
			if ex.VisualizableNoun != nil && strings.TrimSpace(*ex.VisualizableNoun) != "" {
				ex.ImageBytes = p.imageForTerm(ctx, *ex.VisualizableNoun, ex.Sentence)
			}
		}
	case *lesson.QuizContent:
		for i := range v.Questions {
			q := &v.Questions[i]
			if q.QuestionType == lesson.FormatPictureMCQ && q.ImagePrompt != "" {
				q.SetImage(p.image(ctx, q.ImagePrompt))
			}
		}
	}
}

type visualConcept struct {
	CorrectTerm string   `json:"correctTerm" validate:"required"`
	Distractors []string `json:"distractors" validate:"required"`
}

// visualQuiz asks for a term and distractors, draws the term, then builds a
// single picture question with shuffled options.
func (p *Planner) visualQuiz(ctx context.Context, spec RequestSpec) (lesson.Payload, error) {
	req := contract.CompletionRequest{
		Messages:   contract.UserPrompt(conceptPrompt(spec.Language, spec.SubCategory)),
		Schema:     conceptSchema(spec.Language, spec.SubCategory),
		SchemaName: "visual_concept",
	}

	raw, err := p.complete(ctx, "generate.visual_concept", req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate visual quiz: %w", err)
	}

	var concept visualConcept
	if err := lesson.DecodeInto([]byte(raw), &concept); err != nil {
		return nil, fmt.Errorf("failed to generate visual quiz: %w", err)
	}

	correct := strings.TrimSpace(concept.CorrectTerm)
	seen := map[string]struct{}{strings.ToLower(correct): {}}
	distractors := make([]string, 0, visualDistractorsCount)
	for _, d := range concept.Distractors {
		d = strings.TrimSpace(d)
		key := strings.ToLower(d)
		if _, dup := seen[key]; dup || d == "" {
			continue
		}
		seen[key] = struct{}{}
		distractors = append(distractors, d)
		if len(distractors) == visualDistractorsCount {
			break
		}
	}
	if len(distractors) < visualDistractorsCount {
		return nil, fmt.Errorf("failed to generate visual quiz: %w",
			apperrors.InvalidModelOutput(fmt.Sprintf("expected %d distractors, got %d", visualDistractorsCount, len(distractors))))
	}

	imageBytes := p.imageForTerm(ctx, correct, spec.SubCategory)

	terms := append([]string{correct}, distractors...)
	p.shuffle(len(terms), func(i, j int) { terms[i], terms[j] = terms[j], terms[i] })

	question := lesson.Question{
		QuestionType:       lesson.FormatPictureMCQ,
		QuestionText:       visualQuestionText,
		QuestionTextInBase: fmt.Sprintf("Which word in %s best describes the image?", spec.Language),
		Options:            make([]lesson.Option, 0, len(terms)),
	}
	for i, term := range terms {
		id := string(rune('A' + i))
		question.Options = append(question.Options, lesson.Option{ID: id, Text: term})
		if term == correct {
			question.CorrectAnswerID = id
		}
	}
	question.SetImage(imageBytes)

	quiz := &lesson.QuizContent{
		Type:      lesson.KindQuiz,
		Intro:     visualQuizIntro,
		Questions: []lesson.Question{question},
	}
	if err := lesson.Validate(quiz); err != nil {
		return nil, fmt.Errorf("failed to generate visual quiz: %w", err)
	}
	return quiz, nil
}

func invalidFormat(err error) error {
	if errors.Is(err, apperrors.ErrInvalidModelOutput) {
		return fmt.Errorf("the AI returned an invalid format, please try again: %w", err)
	}
	return fmt.Errorf("failed to generate content: %w", err)
}
