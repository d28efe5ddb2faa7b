package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_ProfileUnlocked(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewWithZap(zap.New(core), "board-champions", "test")

	l.ProfileUnlocked(context.Background(), "user_co", 7, "cand-1", 1, 4)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "profile_unlocked", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "board-champions", fields["service"])
	assert.Equal(t, "cand-1", fields["subject_value"])
	assert.Contains(t, fields["details"], `"credits_spent":1`)
}

func TestLogger_UnlockRejectedIsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewWithZap(zap.New(core), "svc", "test")

	l.UnlockRejected(context.Background(), "user_co", "cand-1", "insufficient_credits")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}

func TestLogger_NilIsNoop(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.ProfileUnlocked(context.Background(), "a", 1, "b", 1, 0)
		_ = l.Sync()
	})
}

func TestMasking(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "***@example.com", MaskEmail("j@example.com"))
	assert.Equal(t, "***", MaskEmail("no-at-sign"))
	assert.Len(t, HashValue("user_123"), 16)
	assert.Equal(t, HashValue("user_123"), maskValue("user", "user_123"))
	assert.Equal(t, "cand-1", maskValue("candidate", "cand-1"))
}
