// Package logging holds the process-wide logger. User-facing output of
// the interactive menu goes to its own writer; the logger only carries
// diagnostics.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

// Config controls the global logger.
type Config struct {
	// log level - can be DEBUG, INFO, WARN or ERROR
	Level string `yaml:"level" json:"level"`
	// emit structured json instead of console output
	JSON bool `yaml:"json" json:"json"`
}

// Make sure a logger exists even if Configure is never called.
func init() {
	conf := zap.NewDevelopmentConfig()
	conf.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	l, _ := conf.Build()
	sugar = l.Sugar()
}

// Configure applies the given configuration to the global logger.
func Configure(cfg Config) {
	var conf zap.Config
	if cfg.JSON {
		conf = zap.NewProductionConfig()
	} else {
		conf = zap.NewDevelopmentConfig()
		conf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var level zapcore.Level
	levelErr := level.Set(cfg.Level)
	if levelErr != nil {
		level = zapcore.WarnLevel
	}
	conf.Level = zap.NewAtomicLevelAt(level)

	logger, _ := conf.Build()
	sugar = logger.Sugar()

	if levelErr != nil {
		sugar.Warnf("Invalid log level %v, defaulting to WARN", cfg.Level)
	}
}

// Log gives global access to the singleton logger.
func Log() *zap.SugaredLogger {
	return sugar
}
