// Package chat routes user messages and uploaded files through the
// intent classifier and the analysis pipeline, tracking per-session
// conversation state.
package chat

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/phishguard/phishbot/internal/analyzer"
	"github.com/phishguard/phishbot/internal/core"
	"github.com/phishguard/phishbot/internal/eml"
	"github.com/phishguard/phishbot/internal/nlu"
)

// ErrConversationEnded signals input arriving after a farewell. The
// hosting UI decides whether to re-open a session.
var ErrConversationEnded = errors.New("conversation ended")

// Reply is the outbound result for a text message
type Reply struct {
	Text      string
	Intent    core.Intent
	IsGoodbye bool
}

// FileReply is the outbound result for an uploaded file. A failed
// analysis carries a user-facing error text instead of a payload.
type FileReply struct {
	OK      bool
	Payload core.PresentationPayload
	Error   string
}

// Dispatcher orchestrates the conversation state machine
type Dispatcher struct {
	classifier *nlu.Classifier
	service    *analyzer.AnalysisService
	sessions   *SessionStore
	logger     *zap.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(
	classifier *nlu.Classifier,
	service *analyzer.AnalysisService,
	sessions *SessionStore,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		classifier: classifier,
		service:    service,
		sessions:   sessions,
		logger:     logger,
	}
}

// HandleMessage classifies a text message and advances the session
// state machine. An ended session rejects further input with
// ErrConversationEnded.
func (d *Dispatcher) HandleMessage(ctx context.Context, sessionKey, text string) (Reply, error) {
	session := d.sessions.Get(sessionKey)
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.state == StateEnded {
		return Reply{Text: nlu.ConversationEnded(), Intent: core.IntentUnknown}, ErrConversationEnded
	}

	cls := d.classifier.Classify(text)
	d.logger.Debug("Classified message",
		zap.String("session", sessionKey),
		zap.String("intent", string(cls.Intent)),
		zap.String("topic", string(cls.Topic)))

	switch cls.Intent {
	case core.IntentGoodbye:
		session.state = StateEnded
		return Reply{Text: nlu.Farewell(), Intent: core.IntentGoodbye, IsGoodbye: true}, nil

	case core.IntentAnalysisRequest:
		session.state = StateAwaitingFile
		return Reply{Text: nlu.AnalysisPrompt(), Intent: core.IntentAnalysisRequest}, nil

	case core.IntentQuestion:
		return Reply{Text: questionReply(cls), Intent: core.IntentQuestion}, nil

	default:
		// Unrecognized input gets a clarifying reply, not an error
		return Reply{Text: nlu.OutOfScope(), Intent: core.IntentUnknown}, nil
	}
}

// HandleFile runs the analysis pipeline for an uploaded .eml. Parse
// and size failures become user-facing replies without changing state;
// a successful analysis returns the session to ACTIVE.
func (d *Dispatcher) HandleFile(ctx context.Context, sessionKey string, raw []byte) (FileReply, error) {
	session := d.sessions.Get(sessionKey)
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.state == StateEnded {
		return FileReply{Error: nlu.ConversationEnded()}, ErrConversationEnded
	}

	result, err := d.service.AnalyzeMessage(ctx, raw)
	if err != nil {
		var parseErr *eml.ParseError
		switch {
		case errors.Is(err, core.ErrOversizeMessage):
			d.logger.Warn("Rejected oversize message", zap.String("session", sessionKey), zap.Error(err))
			return FileReply{Error: nlu.OversizeFailure()}, nil
		case errors.As(err, &parseErr):
			d.logger.Warn("Could not parse uploaded file", zap.String("session", sessionKey), zap.Error(err))
			return FileReply{Error: nlu.ParseFailure()}, nil
		default:
			return FileReply{}, err
		}
	}

	session.state = StateActive
	return FileReply{OK: true, Payload: result.Payload}, nil
}

func questionReply(cls nlu.Classification) string {
	switch cls.Topic {
	case nlu.TopicGreeting:
		return nlu.GreetingMenu()
	case nlu.TopicSignals:
		return nlu.Signals()
	case nlu.TopicBestPractice:
		return nlu.BestPractices(cls.Subtopic)
	case nlu.TopicTerminology:
		return nlu.Terminology(cls.Term)
	case nlu.TopicDefinition:
		return nlu.Definition(cls.Term)
	default:
		return nlu.OutOfScope()
	}
}
