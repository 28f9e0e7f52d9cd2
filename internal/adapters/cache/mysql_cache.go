package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/phishguard/phishbot/internal/core"
	"go.uber.org/zap"
)

const mysqlTimeLayout = "2006-01-02 15:04:05"

// MySQLCache is a MySQL implementation of the VerdictCache interface
type MySQLCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS verdict_cache (
			message_hash VARCHAR(64) PRIMARY KEY,
			risk VARCHAR(16),
			score INT,
			findings TEXT,
			analyzed_at DATETIME,
			expires_at DATETIME,
			INDEX idx_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves a cached verdict by message hash
func (c *MySQLCache) Get(ctx context.Context, messageHash string) (*core.VerdictEntry, error) {
	var risk, findingsJSON, analyzedAt, expiresAt string
	var score int

	err := c.db.QueryRowContext(ctx, `
		SELECT risk, score, findings, analyzed_at, expires_at
		FROM verdict_cache
		WHERE message_hash = ? AND expires_at > NOW()
	`, messageHash).Scan(&risk, &score, &findingsJSON, &analyzedAt, &expiresAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	entry := &core.VerdictEntry{
		MessageHash: messageHash,
		Risk:        core.ParseRiskLevel(risk),
		Score:       score,
	}
	if err := json.Unmarshal([]byte(findingsJSON), &entry.Findings); err != nil {
		c.logger.Error("Failed to decode cached findings", zap.Error(err))
		return nil, ErrNotFound
	}
	if entry.AnalyzedAt, err = time.Parse(mysqlTimeLayout, analyzedAt); err != nil {
		return nil, fmt.Errorf("failed to parse analyzed_at timestamp: %w", err)
	}
	if entry.ExpiresAt, err = time.Parse(mysqlTimeLayout, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to parse expires_at timestamp: %w", err)
	}
	return entry, nil
}

// Set stores a verdict entry
func (c *MySQLCache) Set(ctx context.Context, entry *core.VerdictEntry) error {
	findingsJSON, err := json.Marshal(entry.Findings)
	if err != nil {
		return fmt.Errorf("failed to encode findings: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO verdict_cache (message_hash, risk, score, findings, analyzed_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			risk = VALUES(risk),
			score = VALUES(score),
			findings = VALUES(findings),
			analyzed_at = VALUES(analyzed_at),
			expires_at = VALUES(expires_at)
	`, entry.MessageHash, entry.Risk.String(), entry.Score, string(findingsJSON),
		entry.AnalyzedAt.Format(mysqlTimeLayout), entry.ExpiresAt.Format(mysqlTimeLayout))

	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a verdict entry
func (c *MySQLCache) Delete(ctx context.Context, messageHash string) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM verdict_cache WHERE message_hash = ?
	`, messageHash)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM verdict_cache WHERE expires_at <= NOW()
	`)
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *MySQLCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database
func (c *MySQLCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
