package frontend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/phishguard/phishbot/internal/analyzer"
	"github.com/phishguard/phishbot/internal/config"
	"github.com/phishguard/phishbot/internal/core"
)

// SMTPFrontend runs as a Postfix content filter: it receives messages
// over SMTP, stamps phishing verdict headers and optionally relays the
// annotated message back to Postfix.
type SMTPFrontend struct {
	service        *analyzer.AnalysisService
	logger         *zap.Logger
	listenAddr     string
	hostname       string
	server         *smtp.Server
	blockHighRisk  bool
	riskHeader     string
	scoreHeader    string
	findingsHeader string
	relayEnabled   bool
	relayAddr      string
	relayPort      int
	done           chan struct{}
}

// NewSMTPFrontend creates a new SMTP content filter frontend
func NewSMTPFrontend(service *analyzer.AnalysisService, logger *zap.Logger, cfg config.ServerConfig) *SMTPFrontend {
	return &SMTPFrontend{
		service:        service,
		logger:         logger,
		listenAddr:     cfg.ListenAddress,
		hostname:       cfg.Hostname,
		blockHighRisk:  cfg.BlockHighRisk,
		riskHeader:     cfg.RiskHeader,
		scoreHeader:    cfg.ScoreHeader,
		findingsHeader: cfg.FindingsHeader,
		relayEnabled:   cfg.RelayEnabled,
		relayAddr:      cfg.RelayAddress,
		relayPort:      cfg.RelayPort,
		done:           make(chan struct{}),
	}
}

// Start starts the SMTP server
func (f *SMTPFrontend) Start() error {
	f.server = smtp.NewServer(&smtpBackend{frontend: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = f.hostname
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP frontend starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP server
func (f *SMTPFrontend) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// Done never fires for the SMTP frontend; it serves until stopped
func (f *SMTPFrontend) Done() <-chan struct{} {
	return f.done
}

// relay sends the annotated message back to Postfix on the re-injection port
func (f *SMTPFrontend) relay(sender string, recipients []string, data []byte) error {
	addr := fmt.Sprintf("%s:%d", f.relayAddr, f.relayPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	frontend *SMTPFrontend
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		frontend:   b.frontend,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	frontend   *SMTPFrontend
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed for the filter)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data analyzes the message, stamps verdict headers and relays the result
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		s.frontend.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := s.frontend.service.AnalyzeMessage(ctx, raw)
	if err != nil {
		// An unparseable or oversize message passes through unscored
		// rather than bouncing legitimate traffic
		s.frontend.logger.Warn("Analysis failed, passing message through",
			zap.Error(err),
			zap.String("sender", s.sender))
		return s.deliver(raw)
	}

	verdict := result.Verdict
	if verdict.Risk == core.RiskHigh && s.frontend.blockHighRisk {
		s.frontend.logger.Info("Rejecting high risk message",
			zap.String("sender", s.sender),
			zap.Int("score", verdict.Score))
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Rejected as likely phishing (score: %d)", verdict.Score),
		}
	}

	var annotated bytes.Buffer
	fmt.Fprintf(&annotated, "%s: %s\r\n", s.frontend.riskHeader, verdict.Risk)
	fmt.Fprintf(&annotated, "%s: %d\r\n", s.frontend.scoreHeader, verdict.Score)
	if len(verdict.Findings) > 0 {
		fmt.Fprintf(&annotated, "%s: %s\r\n", s.frontend.findingsHeader, findingSummary(verdict.Findings))
	}
	annotated.Write(raw)

	s.frontend.logger.Info("Processed message",
		zap.String("sender", s.sender),
		zap.String("risk", verdict.Risk.String()),
		zap.Int("score", verdict.Score),
		zap.Int("findings", len(verdict.Findings)),
		zap.Bool("from_cache", result.FromCache))

	return s.deliver(annotated.Bytes())
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}

func (s *smtpSession) deliver(data []byte) error {
	if !s.frontend.relayEnabled {
		s.frontend.logger.Warn("Relay disabled, dropping message after analysis")
		return nil
	}
	if err := s.frontend.relay(s.sender, s.recipients, data); err != nil {
		s.frontend.logger.Error("Failed to relay message",
			zap.Error(err),
			zap.String("sender", s.sender))
		return err
	}
	return nil
}

func findingSummary(findings []core.Finding) string {
	kinds := make([]string, 0, len(findings))
	for _, f := range findings {
		kinds = append(kinds, string(f.Kind))
	}
	return strings.Join(kinds, ", ")
}
