package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/phishguard/phishbot/internal/analyzer"
	"github.com/phishguard/phishbot/internal/core"
	"github.com/phishguard/phishbot/internal/nlu"
	"github.com/phishguard/phishbot/internal/scoring"
	"github.com/phishguard/phishbot/internal/utils"
)

func newDispatcher(maxMessageBytes int) *Dispatcher {
	logger := zap.NewNop()
	tp := utils.NewTextProcessor(logger)
	service := analyzer.NewAnalysisService(
		scoring.NewScorer(tp, logger),
		nil,
		logger,
		false,
		time.Duration(0),
		maxMessageBytes,
	)
	return NewDispatcher(nlu.NewClassifier(tp), service, NewSessionStore(), logger)
}

func TestHandleMessageGoodbyeEndsSession(t *testing.T) {
	d := newDispatcher(0)
	ctx := context.Background()

	reply, err := d.HandleMessage(ctx, "s1", "gracias, adiós")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !reply.IsGoodbye || reply.Intent != core.IntentGoodbye {
		t.Errorf("reply = %+v, want goodbye", reply)
	}

	// Any further input on the ended session is rejected
	if _, err := d.HandleMessage(ctx, "s1", "hola"); !errors.Is(err, ErrConversationEnded) {
		t.Errorf("second HandleMessage() error = %v, want ErrConversationEnded", err)
	}
	if _, err := d.HandleFile(ctx, "s1", []byte("From: a@b.com\r\n\r\nhola")); !errors.Is(err, ErrConversationEnded) {
		t.Errorf("HandleFile() after goodbye error = %v, want ErrConversationEnded", err)
	}

	// Other sessions are unaffected
	if _, err := d.HandleMessage(ctx, "s2", "hola"); err != nil {
		t.Errorf("HandleMessage() on fresh session error = %v", err)
	}
}

func TestHandleMessageQuestionKeepsSessionActive(t *testing.T) {
	d := newDispatcher(0)
	ctx := context.Background()

	reply, err := d.HandleMessage(ctx, "s1", "¿qué es dkim?")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Intent != core.IntentQuestion || reply.Text == "" {
		t.Errorf("reply = %+v, want a question answer", reply)
	}
	if _, err := d.HandleMessage(ctx, "s1", "hola"); err != nil {
		t.Errorf("follow-up HandleMessage() error = %v", err)
	}
}

func TestHandleMessageAnalysisRequestThenFile(t *testing.T) {
	d := newDispatcher(0)
	ctx := context.Background()

	reply, err := d.HandleMessage(ctx, "s1", "analiza este correo por favor")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply.Intent != core.IntentAnalysisRequest {
		t.Fatalf("Intent = %s, want analysis_request", reply.Intent)
	}

	raw := []byte("From: Ana <ana@example.com>\r\n" +
		"Subject: hola\r\n" +
		"Authentication-Results: mx.example.com; spf=pass; dkim=pass; dmarc=pass\r\n" +
		"\r\n" +
		"Nos vemos a las 10.\r\n")
	result, err := d.HandleFile(ctx, "s1", raw)
	if err != nil {
		t.Fatalf("HandleFile() error = %v", err)
	}
	if !result.OK {
		t.Fatalf("result = %+v, want OK", result)
	}
	if result.Payload.Risk != core.RiskLow.String() {
		t.Errorf("Payload.Risk = %q, want low", result.Payload.Risk)
	}
	if result.Payload.Headline == "" || len(result.Payload.Tips) == 0 {
		t.Errorf("Payload = %+v, want headline and tips", result.Payload)
	}
}

func TestHandleFileParseFailureIsAReply(t *testing.T) {
	d := newDispatcher(0)
	ctx := context.Background()

	result, err := d.HandleFile(ctx, "s1", []byte("esto no es un correo"))
	if err != nil {
		t.Fatalf("HandleFile() error = %v, parse failures should become replies", err)
	}
	if result.OK {
		t.Fatal("result.OK = true for unparseable input")
	}
	if result.Error != nlu.ParseFailure() {
		t.Errorf("result.Error = %q, want parse failure reply", result.Error)
	}

	// The session still accepts messages afterwards
	if _, err := d.HandleMessage(ctx, "s1", "hola"); err != nil {
		t.Errorf("HandleMessage() after parse failure error = %v", err)
	}
}

func TestHandleFileOversizeIsAReply(t *testing.T) {
	d := newDispatcher(16)
	ctx := context.Background()

	result, err := d.HandleFile(ctx, "s1", []byte("From: a@b.com\r\n\r\nmuy largo para el limite"))
	if err != nil {
		t.Fatalf("HandleFile() error = %v, oversize should become a reply", err)
	}
	if result.OK || result.Error != nlu.OversizeFailure() {
		t.Errorf("result = %+v, want oversize reply", result)
	}
}
