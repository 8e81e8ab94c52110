package logging

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _ asynq.Logger = (*AsynqLogger)(nil)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":       zapcore.InfoLevel,
		"debug":  zapcore.DebugLevel,
		" WARN ": zapcore.WarnLevel,
		"error":  zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("api", "loud")
	require.Error(t, err)

	logger, err := New("api", "debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestAsynqLoggerForwards(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewAsynqLogger(zap.New(core))

	l.Info("server ", "started")
	l.Warn("slow")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "server started", entries[0].Message)
	assert.Equal(t, "asynq", entries[0].LoggerName)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
