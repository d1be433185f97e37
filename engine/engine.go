// Package engine orchestrates interview sessions: creation with a seeded
// instruction, answer submission, the question-count policy, and
// classification of dialogue-backend failures.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hireloop/interview"
)

// Result is the outcome of a Start or Continue call.
type Result struct {
	ConversationID string
	Message        string
	State          interview.State
}

// Engine owns the session lifecycle. All session mutation happens inside
// Store.Mutate, so concurrent submissions for one conversation serialize and
// the turn counter advances without gaps or duplicates.
type Engine struct {
	store  interview.Store
	gen    interview.Generator
	logger zerolog.Logger
	newID  func() string
	now    func() time.Time
}

// Option configures an [Engine].
type Option func(*Engine)

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithIDFunc overrides conversation id generation. For tests.
func WithIDFunc(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// New creates an Engine backed by the given store and dialogue backend.
func New(store interview.Store, gen interview.Generator, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		gen:    gen,
		logger: zerolog.Nop(),
		newID:  func() string { return uuid.Must(uuid.NewV7()).String() },
		now:    time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Start creates a session for the given job title and produces the opening
// question. The stored transcript holds the seed instruction and the opening
// question, which is exactly what later turns resend to the backend.
func (e *Engine) Start(ctx context.Context, jobTitle string) (*Result, error) {
	title, err := interview.ValidateJobTitle(jobTitle)
	if err != nil {
		return nil, err
	}

	seed := interview.Turn{Role: interview.RoleCandidate, Text: interview.SeedPrompt(title)}
	trigger := interview.Turn{Role: interview.RoleCandidate, Text: interview.SeedTrigger}

	opening, err := e.gen.Generate(ctx, []interview.Turn{seed, trigger})
	if err != nil {
		var blocked *interview.BlockedError
		if errors.As(err, &blocked) {
			e.logger.Warn().Str("job_title", title).Str("reason", blocked.Reason).
				Msg("opening prompt blocked by safety settings")
			return nil, err
		}
		return nil, fmt.Errorf("generate opening question: %v: %w", err, interview.ErrUpstream)
	}

	now := e.now()
	sess := &interview.Session{
		ID:        e.newID(),
		JobTitle:  title,
		TurnCount: 1,
		Transcript: []interview.Turn{
			seed,
			{Role: interview.RoleInterviewer, Text: opening},
		},
		State:     interview.StateOngoing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.Create(sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	e.logger.Info().Str("conversation_id", sess.ID).Str("job_title", title).
		Msg("interview session started")
	return &Result{ConversationID: sess.ID, Message: opening, State: sess.State}, nil
}

// Continue records a candidate answer and produces the next interviewer turn.
//
// On a safety block the answer stays recorded but the interviewer turn is not
// appended and the counter does not move, so the candidate can rephrase and
// resubmit. The finished transition is decided by the counter alone, never by
// parsing generated text: the answer submitted while the counter already
// reads [interview.MaxQuestions] is the seventh and final one.
func (e *Engine) Continue(ctx context.Context, conversationID, answer string) (*Result, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("conversation id is required: %w", interview.ErrValidation)
	}
	text, err := interview.ValidateAnswer(answer)
	if err != nil {
		return nil, err
	}

	var res *Result
	err = e.store.Mutate(conversationID, func(s *interview.Session) error {
		if s.State == interview.StateFinished {
			return fmt.Errorf("conversation %s: %w", s.ID, interview.ErrInterviewFinished)
		}

		logger := e.logger.With().Str("conversation_id", s.ID).Logger()
		logger.Debug().Int("answer", s.TurnCount).Str("text", truncate(text, 50)).
			Msg("candidate answer received")

		s.Transcript = append(s.Transcript, interview.Turn{Role: interview.RoleCandidate, Text: text})

		reply, err := e.gen.Generate(ctx, s.Transcript)
		if err != nil {
			var blocked *interview.BlockedError
			if errors.As(err, &blocked) {
				logger.Warn().Str("reason", blocked.Reason).
					Msg("response blocked by safety settings")
				return err
			}
			return fmt.Errorf("generate interviewer turn: %v: %w", err, interview.ErrUpstream)
		}

		s.Transcript = append(s.Transcript, interview.Turn{Role: interview.RoleInterviewer, Text: reply})
		finished := s.TurnCount >= interview.MaxQuestions
		s.TurnCount++
		s.UpdatedAt = e.now()

		if finished {
			s.State = interview.StateFinished
			logger.Info().Int("answers", s.TurnCount-1).
				Msg("interview finished, feedback delivered")
		} else {
			logger.Debug().Int("question", s.TurnCount).Str("text", truncate(reply, 50)).
				Msg("interviewer question generated")
		}

		res = &Result{ConversationID: s.ID, Message: reply, State: s.State}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// truncate shortens s for log output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
