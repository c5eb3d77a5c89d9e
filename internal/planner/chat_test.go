package planner

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/model/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var airportScenario = lesson.RolePlayScenario{
	Title:       "Check-in",
	Description: "You are checking in for a flight.",
	UserPersona: "A traveller",
	AIPersona:   "An airline agent",
	OpeningLine: "¡Buenos días! ¿Su pasaporte, por favor?",
}

func TestRolePlayConversation(t *testing.T) {
	svc := &fakeService{
		text: func(call int, _ contract.CompletionRequest) (string, error) {
			if call == 1 {
				return `{"response": "Gracias. ¿Cuántas maletas?", "feedback": {"hasError": true, "correctedSentence": "Aquí está.", "explanation": "Use 'está' for location."}}`, nil
			}
			return "```json\n{\"response\": \"Perfecto.\", \"feedback\": {\"hasError\": false, \"correctedSentence\": \"\", \"explanation\": \"\"}}\n```", nil
		},
	}
	p := newTestPlanner(svc)

	conv, err := p.StartRolePlay(airportScenario, "Spanish", "English")
	require.NoError(t, err)
	assert.Equal(t, airportScenario.OpeningLine, conv.Opening())
	assert.Equal(t, ConversationRolePlay, conv.Kind())

	text, _ := svc.counts()
	assert.Zero(t, text)

	turn, err := conv.Send(context.Background(), "Aquí es.")
	require.NoError(t, err)
	assert.Equal(t, "Gracias. ¿Cuántas maletas?", turn.Text)
	require.NotNil(t, turn.Feedback)
	assert.True(t, turn.Feedback.HasError)

	turn, err = conv.Send(context.Background(), "Una maleta.")
	require.NoError(t, err)
	assert.Equal(t, "Perfecto.", turn.Text)
	assert.Equal(t, 4, conv.Len())

	second := svc.requests[1]
	assert.True(t, second.JSON)
	assert.Contains(t, second.System, "You are playing the role of: An airline agent.")
	assert.Contains(t, second.System, "The feedback explanation MUST be in English.")
	require.Len(t, second.Messages, 3)
	assert.Equal(t, contract.RoleUser, second.Messages[0].Role)
	assert.Equal(t, contract.RoleAssistant, second.Messages[1].Role)
	assert.Equal(t, "Una maleta.", second.Messages[2].Content)
}

func TestConversationFailedTurnKeepsHistory(t *testing.T) {
	svc := &fakeService{
		text: func(call int, _ contract.CompletionRequest) (string, error) {
			if call == 1 {
				return "", errors.New("401 unauthorized")
			}
			return `{"response": "not json at all"`, nil
		},
	}
	p := newTestPlanner(svc)

	conv, err := p.StartRolePlay(airportScenario, "Spanish", "English")
	require.NoError(t, err)

	_, err = conv.Send(context.Background(), "Hola")
	require.Error(t, err)
	assert.Zero(t, conv.Len())

	_, err = conv.Send(context.Background(), "Hola")
	require.ErrorIs(t, err, apperrors.ErrInvalidModelOutput)
	assert.Zero(t, conv.Len())

	_, err = conv.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestTutorConversationReturnsPlainText(t *testing.T) {
	svc := &fakeService{
		text: func(int, contract.CompletionRequest) (string, error) {
			return "¡Muy bien! ¿Y adónde viajas?\n", nil
		},
	}
	p := newTestPlanner(svc)

	conv, err := p.StartTutor(lesson.AITutorInitContent{
		InitialMessage: "¿Has viajado en avión?",
		TutorPersona:   "Friendly & Patient",
	}, "At the Airport", "Spanish", "English")
	require.NoError(t, err)

	turn, err := conv.Send(context.Background(), "Sí, muchas veces.")
	require.NoError(t, err)
	assert.Equal(t, "¡Muy bien! ¿Y adónde viajas?", turn.Text)
	assert.Nil(t, turn.Feedback)

	req := svc.requests[0]
	assert.False(t, req.JSON)
	assert.Contains(t, req.System, "Friendly & Patient")
	assert.Contains(t, req.System, "'At the Airport'")

	_, err = p.StartTutor(lesson.AITutorInitContent{}, "x", "Spanish", "English")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
