package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/finance-calculators/internal/analytics"
	"github.com/iwvelando/finance-calculators/internal/calculator"
	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/internal/storage"
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

// app holds the dependencies shared by every subcommand.
type app struct {
	configPath string
	logLevel   string

	conf     *config.Configuration
	logger   *zap.Logger
	backend  storage.Backend
	registry *prometheus.Registry
	calc     *calculator.Orchestrator
}

func (a *app) setup() error {
	conf, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	backend, err := storage.Open(conf.Storage.Backend, conf.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", conf.Storage.Backend, err)
	}
	a.backend = backend

	var sink analytics.Sink = analytics.Nop{}
	if conf.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		promSink, err := analytics.NewPrometheus(a.registry)
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		sink = promSink
	}

	a.calc = calculator.New(backend,
		calculator.WithLogger(logger),
		calculator.WithSink(sink),
		calculator.WithHistoryCapacity(conf.History.Capacity),
		calculator.WithDefaultPrecision(conf.Format.Precision),
	)

	logger.Debug("initialized",
		zap.String("op", "main.setup"),
		zap.String("storage", conf.Storage.Backend),
		zap.String("path", conf.Storage.Path),
	)
	return nil
}

func (a *app) close() {
	if a.backend != nil {
		if err := a.backend.Close(); err != nil && a.logger != nil {
			a.logger.Warn("failed to close storage",
				zap.String("op", "main.close"),
				zap.Error(err),
			)
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           constants.AppName,
		Short:         "Financial and grade calculators with per-family history",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(a),
		newMCPCmd(a),
		newCalcCmd(a),
		newHistoryCmd(a),
		newKindsCmd(a),
		newConfigCmd(a),
	)
	return root
}

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}
