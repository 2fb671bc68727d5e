package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "warn", want: LevelWarn},
		{in: "warning", want: LevelWarn},
		{in: "Error", want: LevelError},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", LevelDebug.String())
	assert.Equal(t, "error", LevelError.String())
	assert.Equal(t, "unknown", Level(42).String())
}

func TestNopLoggerIsSafe(t *testing.T) {
	logger := NewNop()

	logger.Log(context.Background(), LevelError, "ignored", String("k", "v"))
	assert.False(t, logger.Enabled(LevelError))
	assert.NoError(t, logger.Sync(context.Background()))
	assert.NotNil(t, logger.With(Int("n", 1)))
}

func TestZapLoggerNilReceiverIsSafe(t *testing.T) {
	var logger *ZapLogger

	// A nil receiver must degrade to no-op rather than panic.
	logger.Log(context.Background(), LevelInfo, "ignored")
	assert.NotNil(t, logger.With(String("k", "v")))
	assert.NoError(t, logger.Sync(context.Background()))
}

func TestZapLoggerLevels(t *testing.T) {
	logger, err := NewZap(LevelWarn)
	require.NoError(t, err)

	assert.True(t, logger.Enabled(LevelError))
	assert.True(t, logger.Enabled(LevelWarn))
	assert.False(t, logger.Enabled(LevelInfo))
	assert.False(t, logger.Enabled(LevelDebug))
}
