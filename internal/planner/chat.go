package planner

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/model/contract"
)

type ConversationKind string

const (
	ConversationRolePlay ConversationKind = "role_play"
	ConversationTutor    ConversationKind = "tutor"
)

// Turn is one assistant reply. Feedback is only set in role-play.
type Turn struct {
	Text     string           `json:"text"`
	Feedback *lesson.Feedback `json:"feedback,omitempty"`
}

// Conversation is a multi-turn session kept locally so any provider can
// serve it. Each Send is one gateway-wrapped call.
type Conversation struct {
	planner *Planner
	kind    ConversationKind
	system  string
	opening string

	mu       sync.Mutex
	messages []contract.Message
}

// StartRolePlay opens a role-play session for scenario. No call is made until
// the first Send; the scenario's opening line is the assistant's first turn.
func (p *Planner) StartRolePlay(scenario lesson.RolePlayScenario, language, base string) (*Conversation, error) {
	if strings.TrimSpace(scenario.AIPersona) == "" || strings.TrimSpace(scenario.UserPersona) == "" {
		return nil, invalidInput("scenario personas are required")
	}
	return &Conversation{
		planner: p,
		kind:    ConversationRolePlay,
		system:  rolePlayInstruction(scenario, language, base),
		opening: scenario.OpeningLine,
	}, nil
}

// StartTutor opens a free conversation with the tutor described by its init payload.
func (p *Planner) StartTutor(tutor lesson.AITutorInitContent, subCategory, language, base string) (*Conversation, error) {
	if strings.TrimSpace(tutor.InitialMessage) == "" {
		return nil, invalidInput("tutor initial message is required")
	}
	return &Conversation{
		planner: p,
		kind:    ConversationTutor,
		system:  tutorInstruction(tutor, subCategory, language, base),
		opening: tutor.InitialMessage,
	}, nil
}

func (c *Conversation) Kind() ConversationKind { return c.kind }

// Opening is the assistant's first line, shown before any user input.
func (c *Conversation) Opening() string { return c.opening }

// Len returns the number of exchanged messages, excluding the opening line.
func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

// Send delivers text and returns the reply. A failed turn leaves the history
// unchanged so the user can send it again.
func (c *Conversation) Send(ctx context.Context, text string) (*Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidInput("message is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	messages := make([]contract.Message, 0, len(c.messages)+1)
	messages = append(messages, c.messages...)
	messages = append(messages, contract.Message{Role: contract.RoleUser, Content: text})

	req := contract.CompletionRequest{
		System:   c.system,
		Messages: messages,
		JSON:     c.kind == ConversationRolePlay,
	}
	raw, err := c.planner.complete(ctx, "chat."+string(c.kind), req)
	if err != nil {
		return nil, err
	}

	turn := &Turn{Text: strings.TrimSpace(raw)}
	if c.kind == ConversationRolePlay {
		var reply lesson.RolePlayReply
		if err := lesson.DecodeInto([]byte(raw), &reply); err != nil {
			return nil, fmt.Errorf("role-play reply: %w", err)
		}
		turn = &Turn{Text: reply.Response, Feedback: reply.Feedback}
	}

	c.messages = append(messages, contract.Message{Role: contract.RoleAssistant, Content: raw})
	return turn, nil
}
