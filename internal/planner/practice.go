package planner

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/model/contract"
)

// SituationalResponse gives advice, key phrases and a sample dialogue for a
// situation the learner describes. The situation is echoed in the payload.
func (p *Planner) SituationalResponse(ctx context.Context, language, base, situation string) (*lesson.SituationalPracticeResponseContent, error) {
	situation = strings.TrimSpace(situation)
	switch {
	case situation == "":
		return nil, invalidInput("situation is required")
	case strings.TrimSpace(language) == "" || strings.TrimSpace(base) == "":
		return nil, invalidInput("language and baseLanguage are required")
	}

	req := contract.CompletionRequest{
		Messages:   contract.UserPrompt(situationalPrompt(language, base, situation)),
		Schema:     situationalSchema(language, base),
		SchemaName: lesson.KindSituationalPracticeResponse.String(),
	}
	raw, err := p.complete(ctx, "generate.situation", req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	payload, err := lesson.Decode(lesson.KindSituationalPracticeResponse, []byte(raw))
	if err != nil {
		return nil, invalidFormat(err)
	}
	resp := payload.(*lesson.SituationalPracticeResponseContent)
	resp.Situation = situation
	return resp, nil
}

// QuizExplanation explains in the base language why userAnswer is wrong.
// When correctAnswer is nil the question's own correct answer is used.
func (p *Planner) QuizExplanation(ctx context.Context, language, base string, q lesson.Question, userAnswer, correctAnswer any) (string, error) {
	if strings.TrimSpace(q.QuestionText) == "" {
		return "", invalidInput("question text is required")
	}
	if correctAnswer == nil {
		correctAnswer = q.CorrectText()
	}

	temperature := p.cfg.ExplanationTemperature
	req := contract.CompletionRequest{
		Messages:    contract.UserPrompt(explanationPrompt(language, base, q.QuestionText, userAnswer, correctAnswer)),
		Temperature: &temperature,
	}
	raw, err := p.complete(ctx, "generate.explanation", req)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func invalidInput(msg string) error {
	return apperrors.InvalidInput(msg)
}
