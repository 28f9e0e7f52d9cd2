package factory

import (
	"fmt"

	"github.com/phishguard/phishbot/internal/adapters/frontend"
	"github.com/phishguard/phishbot/internal/analyzer"
	"github.com/phishguard/phishbot/internal/chat"
	"github.com/phishguard/phishbot/internal/config"
	"github.com/phishguard/phishbot/internal/ports"
	"go.uber.org/zap"
)

// FrontendFactory creates serving frontends based on configuration
type FrontendFactory struct {
	cfg        *config.Config
	logger     *zap.Logger
	dispatcher *chat.Dispatcher
	service    *analyzer.AnalysisService
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(
	cfg *config.Config,
	logger *zap.Logger,
	dispatcher *chat.Dispatcher,
	service *analyzer.AnalysisService,
) *FrontendFactory {
	return &FrontendFactory{
		cfg:        cfg,
		logger:     logger,
		dispatcher: dispatcher,
		service:    service,
	}
}

// CreateFrontend creates a frontend based on the configuration
func (f *FrontendFactory) CreateFrontend() (ports.Frontend, error) {
	frontendType := f.cfg.GetString("server.frontend")

	switch frontendType {
	case "cli":
		return frontend.NewCLIFrontend(f.dispatcher, f.logger), nil
	case "smtp":
		return frontend.NewSMTPFrontend(f.service, f.logger, f.cfg.GetServer()), nil
	default:
		return nil, fmt.Errorf("unsupported frontend type: %s", frontendType)
	}
}
