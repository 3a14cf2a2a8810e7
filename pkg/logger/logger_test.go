package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFormattedLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core)

	l.DebugF("sent %s %s", "GET", "items")
	l.WarnF("status %d", 503)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "sent GET items", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestCtxLoggingCarriesRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewWithCore(core)

	ctx := WithRequestID(context.Background(), "req-42")
	l.InfoFCtx(ctx, "request done")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "req-42", RequestIDFrom(ctx))
	assert.Equal(t, "", RequestIDFrom(context.Background()))
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewWithCore(core).With("component", "transport")

	l.Info("ready")

	entries := logs.FilterField(zapcore.Field{Key: "component", Type: zapcore.StringType, String: "transport"}).AllUntimed()
	assert.Len(t, entries, 1)
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(LoggerOptions{Level: "not-a-level", Encoding: "json"})
	require.NoError(t, err)
	require.NoError(t, l.SetLogLevel("debug"))
	assert.Error(t, l.SetLogLevel("loud"))

	NewNop().ErrorF("discarded %d", 1)
}
