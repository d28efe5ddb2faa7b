package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	defer func() { _ = SetLevel("info") }()

	assert.NoError(t, SetLevel("DEBUG"))
	assert.True(t, Log.Enabled(context.Background(), slog.LevelDebug))

	assert.NoError(t, SetLevel("warning"))
	assert.False(t, Log.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, Log.Enabled(context.Background(), slog.LevelWarn))

	assert.Error(t, SetLevel("verbose"))
}
