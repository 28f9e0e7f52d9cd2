package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/phishguard/phishbot/internal/analyzer"
	"github.com/phishguard/phishbot/internal/config"
	"github.com/phishguard/phishbot/internal/logging"
	"github.com/phishguard/phishbot/internal/scoring"
	"github.com/phishguard/phishbot/internal/utils"
	"go.uber.org/zap"
)

var (
	// Analysis flags
	maxMessageBytes = flag.Int("max-message-bytes", 10*1024*1024, "Maximum message size to accept")

	// Input flags
	inputFile  = flag.String("file", "", "Input .eml file (use stdin if not specified)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Wire the analysis pipeline with no cache
	tp := utils.NewTextProcessor(logger)
	scorer := scoring.NewScorer(tp, logger)
	service := analyzer.NewAnalysisService(
		scorer,
		nil,
		logger,
		false,
		time.Duration(0),
		cfg.GetAnalysis().MaxMessageBytes,
	)

	// Read message from file or stdin
	var raw []byte
	if *inputFile != "" {
		raw, err = os.ReadFile(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		logger.Info("Reading message from file", zap.String("file", *inputFile))
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			logger.Fatal("Failed to read stdin", zap.Error(err))
		}
		logger.Info("Reading message from stdin")
	}

	fmt.Printf("\n=== Message Summary ===\n")
	fmt.Printf("Size: %d bytes\n", len(raw))
	fmt.Printf("\n")

	startTime := time.Now()
	result, err := service.AnalyzeMessage(context.Background(), raw)
	if err != nil {
		logger.Fatal("Failed to analyze message", zap.Error(err))
	}
	duration := time.Since(startTime)

	verdict := result.Verdict
	fmt.Printf("=== Results ===\n")
	fmt.Printf("Risk: %s\n", verdict.Risk)
	fmt.Printf("Score: %d\n", verdict.Score)
	if len(verdict.Findings) > 0 {
		fmt.Printf("Findings:\n")
		for _, f := range verdict.Findings {
			fmt.Printf("  - [%s] %s: %s\n", f.Kind, f.Title, f.Detail)
		}
	} else {
		fmt.Printf("Findings: none\n")
	}
	if len(result.Payload.LinkDomains) > 0 {
		fmt.Printf("Link domains: %s\n", strings.Join(result.Payload.LinkDomains, ", "))
	}
	fmt.Printf("Processing time: %v\n", duration)
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("analysis.max_message_bytes", *maxMessageBytes)

	return config.NewFromViper(v)
}
