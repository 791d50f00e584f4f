// Package obslog is the structured logging interface used across
// crystalforge. Every component takes a Logger via constructor
// injection rather than importing go.uber.org/zap directly, so the
// backing library stays swappable.
package obslog

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger is the logging contract. Rank and worker code hold one of
// these rather than a *zap.Logger.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	Sync() error
}

type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
func (l *zapLogger) Sync() error                           { return l.z.Sync() }
func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{z: l.z.With(fields...)}
}

// New builds a production-profile zap logger writing JSON to stderr,
// named so every emitted record can be traced to crystalforge.
func New() (Logger, error) {
	z, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("obslog: %w", err)
	}
	return &zapLogger{z: z.Named("crystalforge")}, nil
}

// NewDevelopment builds a console-profile logger suitable for local runs.
func NewDevelopment() (Logger, error) {
	z, err := zap.NewDevelopment(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("obslog: %w", err)
	}
	return &zapLogger{z: z.Named("crystalforge")}, nil
}

// NewNop returns a Logger that discards everything, for tests.
func NewNop() Logger { return &zapLogger{z: zap.NewNop()} }

// Rank, Sample, Composition, and Attempt are the field constructors the
// producer pool uses most often; named here so call sites read
// obslog.Rank(r) instead of a raw zap.Int everywhere.
func Rank(r int) zap.Field            { return zap.Int("rank", r) }
func Sample(id string) zap.Field      { return zap.String("sample_id", id) }
func Composition(c string) zap.Field  { return zap.String("composition", c) }
func Attempt(n int) zap.Field         { return zap.Int("attempt", n) }
