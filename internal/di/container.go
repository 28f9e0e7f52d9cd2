package di

import (
	"time"

	"go.uber.org/dig"

	"github.com/phishguard/phishbot/internal/analyzer"
	"github.com/phishguard/phishbot/internal/chat"
	"github.com/phishguard/phishbot/internal/config"
	"github.com/phishguard/phishbot/internal/core"
	"github.com/phishguard/phishbot/internal/factory"
	"github.com/phishguard/phishbot/internal/logging"
	"github.com/phishguard/phishbot/internal/nlu"
	"github.com/phishguard/phishbot/internal/ports"
	"github.com/phishguard/phishbot/internal/scoring"
	"github.com/phishguard/phishbot/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register verdict cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.VerdictCache, error) {
		return f.CreateVerdictCache()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register message size cap
	if err := container.Provide(func(cfg *config.Config) int {
		return cfg.GetAnalysis().MaxMessageBytes
	}); err != nil {
		return nil, err
	}

	// Register scorer and analysis service
	if err := container.Provide(scoring.NewScorer); err != nil {
		return nil, err
	}
	if err := container.Provide(analyzer.NewAnalysisService); err != nil {
		return nil, err
	}

	// Register conversation components
	if err := container.Provide(nlu.NewClassifier); err != nil {
		return nil, err
	}
	if err := container.Provide(chat.NewSessionStore); err != nil {
		return nil, err
	}
	if err := container.Provide(chat.NewDispatcher); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.Frontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
