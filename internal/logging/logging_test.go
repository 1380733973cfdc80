package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForVerbosity(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, LevelForVerbosity(0))
	assert.Equal(t, slog.LevelDebug, LevelForVerbosity(1))
	assert.Equal(t, LevelTrace, LevelForVerbosity(2))
	assert.Equal(t, LevelTrace, LevelForVerbosity(5))
}

func TestNewRespectsVerbosity(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, 0, false)

	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestTraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, 2, false)

	Trace(logger, "line parsed", "line", 3)

	assert.Contains(t, buf.String(), "level=TRACE")
	assert.Contains(t, buf.String(), "line=3")
}

func TestQuietDiscardsEverything(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, 3, true)

	logger.Error("boom")
	Trace(logger, "nothing")

	assert.Empty(t, buf.String())
}
