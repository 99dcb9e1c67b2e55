package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("ERROR"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
	assert.Equal(t, "warn", LevelWarn.String())
}

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.With(String("stage", "Draw")).Error("system failed",
		Int("index", 2),
		Duration("took", time.Millisecond),
		Error(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "system failed", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "Draw", ctx["stage"])
	assert.Equal(t, int64(2), ctx["index"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestNewBuildsConsoleLogger(t *testing.T) {
	l, err := New(Config{Level: "debug", Output: []string{"stderr"}})
	require.NoError(t, err)
	assert.NotNil(t, Provide())
	l.Debug("hello")
}

func TestNopDiscards(t *testing.T) {
	l := NewNop()
	l.Error("nothing")
	assert.NotNil(t, l.With(Bool("k", true)))
}
