package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildConfigByEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		env              string
		wantLevel        zapcore.Level
		wantDisableStack bool
		wantCaller       bool
	}{
		{name: "development", env: "development", wantLevel: zap.DebugLevel, wantDisableStack: true},
		{name: "debug", env: " DEBUG ", wantLevel: zap.DebugLevel, wantDisableStack: false, wantCaller: true},
		{name: "production", env: "production", wantLevel: zap.InfoLevel, wantDisableStack: true},
		{name: "fallback", env: "unknown", wantLevel: zap.InfoLevel, wantDisableStack: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, withCaller := buildConfig(tc.env)

			require.Equal(t, tc.wantLevel, cfg.Level.Level())
			require.Equal(t, tc.wantDisableStack, cfg.DisableStacktrace)
			require.Equal(t, tc.wantCaller, withCaller)
			require.Equal(t, "timestamp", cfg.EncoderConfig.TimeKey)
			require.Equal(t, "msg", cfg.EncoderConfig.MessageKey)
			require.Equal(t, []string{"stderr"}, cfg.OutputPaths)
			if tc.wantCaller {
				require.Equal(t, "caller", cfg.EncoderConfig.CallerKey)
			} else {
				require.Equal(t, zapcore.OmitKey, cfg.EncoderConfig.CallerKey)
			}
		})
	}
}

func TestNewAndNop(t *testing.T) {
	t.Parallel()

	l, err := New("contactform", "production")
	require.NoError(t, err)
	l.Infow("startup", "component", "logger")
	l.SafeSync()

	n := Nop()
	n.Warnw("dropped")
	n.With("k", "v").Infow("dropped too")
	n.SafeSync()

	var nilLogger *Logger
	nilLogger.SafeSync()
}

func TestIsIgnorableSyncError(t *testing.T) {
	t.Parallel()

	require.False(t, isIgnorableSyncError(nil))
	require.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: invalid argument")))
	require.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: inappropriate ioctl for device")))
	require.False(t, isIgnorableSyncError(errors.New("disk write failed")))
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	ctx := ContextWithFormID(nil, "form-1")
	ctx = ContextWithSessionID(ctx, "sess-1")

	l.FromContext(ctx).Infow("edited", "field", "phone")
	l.FromContext(context.Background()).Infow("plain")

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	require.Equal(t, "form-1", fields["form_id"])
	require.Equal(t, "sess-1", fields["session_id"])
	require.Equal(t, "phone", fields["field"])

	require.NotContains(t, entries[1].ContextMap(), "form_id")
}

func TestLoggerInterface_Compliance(t *testing.T) {
	t.Parallel()

	var _ LoggerInterface = Nop()
	var _ LoggerInterface = Nop().With("key", "value")
}
