// Package analyzer orchestrates the analysis pipeline: header
// extraction, authentication evaluation, risk scoring and verdict
// composition, with an optional verdict cache in front.
package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/phishguard/phishbot/internal/authcheck"
	"github.com/phishguard/phishbot/internal/core"
	"github.com/phishguard/phishbot/internal/eml"
	"github.com/phishguard/phishbot/internal/scoring"
)

// AnalysisService runs the phishing analysis for raw .eml bytes
type AnalysisService struct {
	scorer          *scoring.Scorer
	cache           core.VerdictCache
	logger          *zap.Logger
	cacheEnabled    bool
	cacheTTL        time.Duration
	maxMessageBytes int
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	scorer *scoring.Scorer,
	cache core.VerdictCache,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	maxMessageBytes int,
) *AnalysisService {
	return &AnalysisService{
		scorer:          scorer,
		cache:           cache,
		logger:          logger,
		cacheEnabled:    cacheEnabled,
		cacheTTL:        cacheTTL,
		maxMessageBytes: maxMessageBytes,
	}
}

// AnalyzeMessage analyzes a raw email. The size cap is enforced before
// any parsing. Parse failures surface as *eml.ParseError so callers can
// turn them into a user-facing reply.
func (s *AnalysisService) AnalyzeMessage(ctx context.Context, raw []byte) (*core.AnalysisResult, error) {
	if s.maxMessageBytes > 0 && len(raw) > s.maxMessageBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", core.ErrOversizeMessage, len(raw), s.maxMessageBytes)
	}

	sum := sha256.Sum256(raw)
	hash := hex.EncodeToString(sum[:])

	// Analysis is deterministic over the input, so a cached verdict is
	// as good as a fresh one
	if s.cacheEnabled && s.cache != nil {
		if entry, err := s.cache.Get(ctx, hash); err == nil {
			s.logger.Debug("Verdict cache hit", zap.String("message_hash", hash))
			verdict := core.Verdict{Risk: entry.Risk, Score: entry.Score, Findings: entry.Findings}
			return &core.AnalysisResult{
				Verdict:    verdict,
				Payload:    scoring.ComposeCached(verdict),
				AnalyzedAt: entry.AnalyzedAt,
				FromCache:  true,
			}, nil
		}
	}

	msg, err := eml.Extract(raw)
	if err != nil {
		return nil, err
	}

	auth := authcheck.Evaluate(msg.Headers)
	verdict := s.scorer.Score(auth, msg)
	payload := scoring.Compose(verdict, msg)
	analyzedAt := time.Now()

	s.logger.Info("Message analyzed",
		zap.String("message_hash", hash),
		zap.String("risk", verdict.Risk.String()),
		zap.Int("score", verdict.Score),
		zap.String("spf", auth.SPF.String()),
		zap.String("dkim", auth.DKIM.String()),
		zap.String("dmarc", auth.DMARC.String()))

	if s.cacheEnabled && s.cache != nil {
		entry := &core.VerdictEntry{
			MessageHash: hash,
			Risk:        verdict.Risk,
			Score:       verdict.Score,
			Findings:    verdict.Findings,
			AnalyzedAt:  analyzedAt,
			ExpiresAt:   analyzedAt.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update verdict cache", zap.Error(err))
		}
	}

	return &core.AnalysisResult{
		Verdict:    verdict,
		Payload:    payload,
		AnalyzedAt: analyzedAt,
	}, nil
}
