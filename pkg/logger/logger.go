// Package logger builds the zap loggers used across Daily Warden and holds
// the field helpers shared by all packages.
package logger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format selects the log encoding.
type Format string

const (
	// FormatJSON is the production encoding.
	FormatJSON Format = "json"
	// FormatConsole is the human-readable development encoding.
	FormatConsole Format = "console"
)

// Options configures the logger.
type Options struct {
	Level  string
	Format Format

	// OutputPaths overrides the sinks (default: stdout).
	OutputPaths []string
}

// DefaultOptions returns sensible defaults for the logger.
func DefaultOptions() Options {
	return Options{
		Level:       "info",
		Format:      FormatJSON,
		OutputPaths: []string{"stdout"},
	}
}

// ParseLevel parses a string into a zap level. Unknown values fall back to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a zap logger with the given options.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	switch opts.Format {
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
	case FormatJSON, "":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	default:
		return nil, fmt.Errorf("logger: unknown format %q", opts.Format)
	}

	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(opts.Level))
	if len(opts.OutputPaths) > 0 {
		cfg.OutputPaths = opts.OutputPaths
	}

	return cfg.Build()
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTEXT PROPAGATION
// ══════════════════════════════════════════════════════════════════════════════

type ctxKey struct{}

// WithContext returns a new context with the logger attached.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// ══════════════════════════════════════════════════════════════════════════════
// FIELDS
// ══════════════════════════════════════════════════════════════════════════════

// RequestIDKey is the field key for request tracing.
const RequestIDKey = "request_id"

func RequestID(id string) zap.Field       { return zap.String(RequestIDKey, id) }
func Participant(id string) zap.Field     { return zap.String("participant_id", id) }
func Day(key string) zap.Field            { return zap.String("day_key", key) }
func Component(name string) zap.Field     { return zap.String("component", name) }
func Operation(name string) zap.Field     { return zap.String("operation", name) }
func Job(name string) zap.Field           { return zap.String("job", name) }
func Latency(d time.Duration) zap.Field   { return zap.Duration("latency", d) }
func Recipients(n int) zap.Field          { return zap.Int("recipients", n) }
func StoreDriver(driver string) zap.Field { return zap.String("store_driver", driver) }
