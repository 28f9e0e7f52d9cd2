package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/phishguard/phishbot/internal/core"
)

func entry(hash string, ttl time.Duration) *core.VerdictEntry {
	now := time.Now()
	return &core.VerdictEntry{
		MessageHash: hash,
		Risk:        core.RiskMedium,
		Score:       4,
		Findings:    []core.Finding{{Kind: core.FindingAuthFail, Weight: 4, Title: "t", Detail: "d"}},
		AnalyzedAt:  now,
		ExpiresAt:   now.Add(ttl),
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := c.Set(ctx, entry("h1", time.Hour)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := c.Get(ctx, "h1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Risk != core.RiskMedium || got.Score != 4 || len(got.Findings) != 1 {
		t.Errorf("Get() = %+v", got)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	if err := c.Set(ctx, entry("h1", -time.Minute)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := c.Get(ctx, "h1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on expired entry error = %v, want ErrNotFound", err)
	}

	// Cleanup drops the expired entry for good
	if err := c.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()
	ctx := context.Background()

	if err := c.Set(ctx, entry("h1", time.Hour)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete(ctx, "h1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get(ctx, "h1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}
