package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":  zapcore.DebugLevel,
		"info":   zapcore.InfoLevel,
		" WARN ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
		"dpanic": zapcore.DPanicLevel,
		"panic":  zapcore.PanicLevel,
		"fatal":  zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestContextHelpers ensures scoped loggers travel through the context with name and fields.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := ToContext(context.Background(), New(&buf, zapcore.DebugLevel))
	ctx = WithName(ctx, "guard")
	ctx = WithKV(ctx, "pin", "GPIO13")

	InfoKV(ctx, "System armed", "state", "armed")
	Debugf(ctx, "reading %d", 7)
	Infof(ctx, "settings in %s", "settings.yaml")

	out := buf.String()
	require.Contains(t, out, "guard")
	require.Contains(t, out, "System armed")
	require.Contains(t, out, `"pin": "GPIO13"`)
	require.Contains(t, out, `"state": "armed"`)
	require.Contains(t, out, "reading 7")
	require.Contains(t, out, "settings in settings.yaml")
}

// TestFromContext_FallsBackToGlobal verifies an empty context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, global, FromContext(context.Background()))
}
