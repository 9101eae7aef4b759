package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/autojoin/pkg/join"
	"github.com/entrhq/autojoin/pkg/logging"
)

func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestEventLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, eventLevel(join.LevelDebug))
	assert.Equal(t, logrus.InfoLevel, eventLevel(join.LevelInfo))
	assert.Equal(t, logrus.ErrorLevel, eventLevel(join.LevelError))
	assert.Equal(t, logrus.InfoLevel, eventLevel("unknown"))
}

func TestLogSink(t *testing.T) {
	logger, err := logging.NewLogger("join", logging.Options{
		Dir:    t.TempDir(),
		Level:  "info",
		Format: logging.FormatJSON,
	})
	require.NoError(t, err)
	defer logger.Close()

	sink := newLogSink(logger)
	sink.Emit(join.Event{
		Level:     join.LevelDebug,
		Component: join.ComponentExecutor,
		Message:   "filtered by level",
	})
	sink.Emit(join.Event{
		Time:      time.Now(),
		Level:     join.LevelError,
		Component: join.ComponentExecutor,
		Message:   "Join button not found",
		Step:      join.StepClickJoin,
		State:     join.StateJoining,
		Result: &join.StepResult{
			Step:     join.StepClickJoin,
			Status:   join.StatusFailed,
			Policy:   join.PolicyFatal,
			Kind:     join.KindTimeout,
			Duration: 1500 * time.Millisecond,
		},
	})
	sink.Emit(join.Event{
		Level:     join.LevelInfo,
		Component: join.ComponentHeartbeat,
		Message:   "Heartbeat 3",
		State:     join.StateActive,
		Tick:      &join.Tick{N: 3, Path: "screenshot.png"},
	})
	sink.Emit(join.Event{
		Level:     join.LevelError,
		Component: join.ComponentHeartbeat,
		Message:   "Screenshot failed",
		State:     join.StateActive,
		Tick:      &join.Tick{N: 4, Path: "screenshot.png", Err: errors.New("page closed")},
	})

	entries := readEntries(t, logger.LogPath())
	require.Len(t, entries, 3)

	step := entries[0]
	assert.Equal(t, "error", step["level"])
	assert.Equal(t, join.ComponentExecutor, step["component"])
	assert.Equal(t, string(join.StepClickJoin), step["step"])
	assert.Equal(t, join.StateJoining.String(), step["state"])
	assert.Equal(t, "failed", step["status"])
	assert.Equal(t, "timeout", step["kind"])
	assert.Equal(t, float64(1500), step["duration_ms"])
	assert.Equal(t, logger.SessionID(), step["session_id"])

	tick := entries[1]
	assert.Equal(t, float64(3), tick["tick"])
	assert.Equal(t, "screenshot.png", tick["screenshot"])
	assert.NotContains(t, tick, "step")

	failedTick := entries[2]
	assert.Equal(t, float64(4), failedTick["tick"])
	assert.NotContains(t, failedTick, "screenshot")
}
