package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	apperrors "github.com/harunnryd/verblume/internal/errors"
	"github.com/harunnryd/verblume/internal/lesson"
	"github.com/harunnryd/verblume/internal/planner"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

// chatSession is the part of a planner conversation the REPL drives.
type chatSession interface {
	Opening() string
	Send(ctx context.Context, text string) (*planner.Turn, error)
}

// REPL reads learner turns line by line. Lines starting with "/" are
// commands.
type REPL struct {
	start   func() (chatSession, error)
	session chatSession
	in      *bufio.Reader
	out     io.Writer
}

func NewREPL(start func() (chatSession, error), in io.Reader, out io.Writer) *REPL {
	return &REPL{start: start, in: bufio.NewReader(in), out: out}
}

func (r *REPL) Run(ctx context.Context) error {
	if err := r.restart(); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Type '/help' for commands, '/exit' to quit.")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		for {
			text, err := r.in.ReadString('\n')
			if text != "" {
				select {
				case lines <- text:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	for {
		fmt.Fprint(r.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(r.out)
			return nil
		case text, ok := <-lines:
			if !ok {
				fmt.Fprintln(r.out)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			if quit := r.handle(ctx, text); quit {
				return nil
			}
		}
	}
}

func (r *REPL) restart() error {
	s, err := r.start()
	if err != nil {
		return err
	}
	r.session = s
	fmt.Fprintf(r.out, "AI: %s\n", s.Opening())
	return nil
}

func (r *REPL) handle(ctx context.Context, text string) bool {
	if !strings.HasPrefix(text, "/") {
		turn, err := r.session.Send(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return true
			}
			fmt.Fprintf(r.out, "Could not get a reply: %v\n", err)
			return false
		}
		r.printTurn(turn)
		return false
	}

	parts, err := shlex.Split(text)
	if err != nil {
		parts = strings.Fields(text)
	}
	switch parts[0] {
	case "/exit", "/quit":
		return true
	case "/new":
		if err := r.restart(); err != nil {
			fmt.Fprintf(r.out, "Could not start over: %v\n", err)
		}
	case "/help":
		fmt.Fprintln(r.out, "Commands:\n  /new   start the conversation over\n  /exit  leave the chat\n  /help  show this help")
	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", parts[0])
	}
	return false
}

func (r *REPL) printTurn(turn *planner.Turn) {
	fmt.Fprintf(r.out, "AI: %s\n", turn.Text)
	fb := turn.Feedback
	if fb == nil {
		return
	}
	if fb.HasError {
		fmt.Fprintf(r.out, "  ✗ Better: %s\n", fb.CorrectedSentence)
	} else {
		fmt.Fprintln(r.out, "  ✓ Looks good")
	}
	if fb.Explanation != "" {
		fmt.Fprintf(r.out, "  %s\n", fb.Explanation)
	}
	if fb.PronunciationTip != "" {
		fmt.Fprintf(r.out, "  Pronunciation: %s\n", fb.PronunciationTip)
	}
}

var (
	chatOpts     lessonFlags
	chatTutor    bool
	chatScenario int
)

var chatCmd = &cobra.Command{
	Use:     "chat",
	Short:   "Practice a conversation with an AI role-play partner or tutor",
	Example: `  verblume chat -l Spanish -t "Ordering Food"
  verblume chat -l Tamil -t "Past Tense" --tutor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}

		sig := NewSignalHandler(context.Background())
		sig.Start()
		defer sig.Stop()
		ctx := sig.Context()

		spec := chatOpts.spec()
		spec.Mode = planner.ModeRolePlay
		if chatTutor {
			spec.Mode = planner.ModeTutor
		}

		start := func() (chatSession, error) {
			payload, err := a.planner.Generate(ctx, spec)
			if err != nil {
				return nil, err
			}
			switch p := payload.(type) {
			case *lesson.RolePlaySetupContent:
				if chatScenario < 0 || chatScenario >= len(p.Scenarios) {
					return nil, apperrors.InvalidInput(fmt.Sprintf("--scenario must be between 0 and %d", len(p.Scenarios)-1))
				}
				sc := p.Scenarios[chatScenario]
				fmt.Fprintf(os.Stdout, "\n%s\n%s\nYou: %s | AI: %s\n\n", sc.Title, sc.Description, sc.UserPersona, sc.AIPersona)
				return a.planner.StartRolePlay(sc, spec.Language, spec.BaseLanguage)
			case *lesson.AITutorInitContent:
				return a.planner.StartTutor(*p, spec.SubCategory, spec.Language, spec.BaseLanguage)
			default:
				return nil, apperrors.InvalidModelOutput(fmt.Sprintf("unexpected payload %q for chat", payload.Kind()))
			}
		}

		if err := a.store.RecordActivity(); err != nil {
			slog.Warn("Could not record activity", "error", err)
		}
		return NewREPL(start, os.Stdin, os.Stdout).Run(ctx)
	},
}

func init() {
	chatOpts.bind(chatCmd)
	_ = chatCmd.Flags().MarkHidden("mode")
	_ = chatCmd.Flags().MarkHidden("quiz-type")
	chatCmd.Flags().BoolVar(&chatTutor, "tutor", false, "talk to a tutor instead of a role-play partner")
	chatCmd.Flags().IntVar(&chatScenario, "scenario", 0, "index of the generated role-play scenario to play")
	rootCmd.AddCommand(chatCmd)
}
