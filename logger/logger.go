package logger

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	formIDKey    ctxKey = "form_id"
	sessionIDKey ctxKey = "session_id"
)

type Logger struct {
	*zap.SugaredLogger
}

func Init(component, env string) *Logger {
	l, err := New(component, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	return l
}

func New(component, env string) (*Logger, error) {
	cfg, withCaller := buildConfig(env)

	z, err := cfg.Build(
		zap.WithCaller(withCaller),
		zap.AddCallerSkip(1),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init zap logger: %w", err)
	}

	return &Logger{SugaredLogger: z.Named(component).Sugar()}, nil
}

// Nop discards everything. Used as the default when no logger is injected.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// preset describes one logging environment.
type preset struct {
	level      zapcore.Level
	json       bool
	stacktrace bool
	caller     bool
}

var presets = map[string]preset{
	"development": {level: zap.DebugLevel},
	"debug":       {level: zap.DebugLevel, stacktrace: true, caller: true},
	"production":  {level: zap.InfoLevel, json: true},
}

// неизвестное окружение: консольный вывод, уровень info
var fallbackPreset = preset{level: zap.InfoLevel}

func buildConfig(env string) (zap.Config, bool) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(env))]
	if !ok {
		p = fallbackPreset
	}

	cfg := zap.NewDevelopmentConfig()
	if p.json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(p.level)
	cfg.DisableStacktrace = !p.stacktrace

	enc := &cfg.EncoderConfig
	enc.TimeKey, enc.LevelKey, enc.MessageKey, enc.NameKey = "timestamp", "level", "msg", "logger"
	enc.CallerKey = zapcore.OmitKey
	if p.caller {
		enc.CallerKey = "caller"
	}
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	// stdout carries the demo's state output, so logs go to stderr.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg, p.caller
}

func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{SugaredLogger: l.SugaredLogger.With(args...)}
}

// FromContext returns a child logger carrying form_id/session_id found in ctx.
func (l *Logger) FromContext(ctx context.Context) LoggerInterface {
	kv := contextFields(ctx)
	if len(kv) == 0 {
		return l
	}
	return l.With(kv...)
}

func (l *Logger) SafeSync() {
	if l == nil {
		return
	}
	if err := l.Desugar().Sync(); err != nil {
		if !isIgnorableSyncError(err) {
			l.Errorf("log sync error: %v", err)
		}
	}
}

func isIgnorableSyncError(err error) bool {
	if err == nil {
		return false
	}

	s := strings.ToLower(err.Error())
	return strings.Contains(s, "invalid argument") ||
		strings.Contains(s, "inappropriate ioctl for device") ||
		strings.Contains(s, "bad file descriptor")
}

func contextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}

	var kv []any
	if s, ok := ctx.Value(formIDKey).(string); ok && s != "" {
		kv = append(kv, "form_id", s)
	}
	if s, ok := ctx.Value(sessionIDKey).(string); ok && s != "" {
		kv = append(kv, "session_id", s)
	}
	return kv
}

func ContextWithFormID(ctx context.Context, formID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, formIDKey, formID)
}

func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionIDKey, sessionID)
}
