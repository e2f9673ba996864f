package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewWithCore(core)

	log.Info("booking created: id=%d", 42)
	log.Warn("slot taken: staff=%d", 7)
	log.Error("capture failed: %v", "declined")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "booking created: id=42", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "capture failed: declined", entries[2].Message)
}

func TestNew(t *testing.T) {
	t.Run("writes to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(path, "debug")
		require.NoError(t, err)
		log.Info("hello")
		assert.NoError(t, log.Close())
		assert.FileExists(t, path)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := New("", "loud")
		assert.Error(t, err)
	})
}
