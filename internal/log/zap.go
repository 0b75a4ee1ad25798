package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewProcessLogger builds the process-wide structured logger. level is one of
// debug, info, warn, error.
func NewProcessLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// ZapLogger keeps the event log in memory and mirrors each event to zap.
type ZapLogger struct {
	MemoryLogger
	z *zap.Logger
}

func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z.Named("events")}
}

func (l *ZapLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fields := []zap.Field{
		zap.Int("seq", l.seq),
		zap.Int("turn", event.Turn),
		zap.String("phase", event.Phase),
		zap.String("type", event.Type.String()),
		zap.String("player", event.Player),
		zap.Bool("success", event.Success),
	}
	if event.Card != "" {
		fields = append(fields, zap.String("card", event.Card))
	}
	if event.Target != "" {
		fields = append(fields, zap.String("target", event.Target))
	}
	if event.Organ != "" {
		fields = append(fields, zap.String("organ", event.Organ))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}
	l.z.Info(event.Message, fields...)
}

// Close flushes the underlying zap core.
func (l *ZapLogger) Close() error {
	// Sync on stdout/stderr returns EINVAL on some platforms; ignore it.
	_ = l.z.Sync()
	return nil
}
