package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiHandler_FansOutByLevel(t *testing.T) {
	var info, errs bytes.Buffer
	h := NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(h).With("backend", "local")

	logger.Info("selected backend")
	logger.Error("save failed", "collection", "workouts")

	assert.Equal(t, 2, bytes.Count(info.Bytes(), []byte("\n")))
	assert.Equal(t, 1, bytes.Count(errs.Bytes(), []byte("\n")))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(errs.Bytes(), &rec))
	assert.Equal(t, "local", rec["backend"])
	assert.Equal(t, "workouts", rec["collection"])
}

func TestDBHandler_MapsAttributes(t *testing.T) {
	h := &DBHandler{core: &dbCore{}}
	logger := slog.New(h).With("backend", "supabase", "request_id", "req-1")

	logger.Info("ignored")
	logger.Error("storage operation failed",
		"user_id", "u-1",
		"collection", "workouts",
		"op", "save",
		"error", "connection reset",
		"attempt", 2,
	)

	require.Equal(t, 1, h.pending())
	entry := h.core.buffer[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "storage operation failed", entry.Message)
	assert.Equal(t, "supabase", entry.Backend)
	assert.Equal(t, "req-1", entry.RequestID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-1", *entry.UserID)
	assert.Equal(t, "workouts", entry.Collection)
	assert.Equal(t, "save", entry.Op)
	assert.Equal(t, "connection reset", entry.Error)
	assert.JSONEq(t, `{"attempt":2}`, string(entry.Extra))
}

func TestDBHandler_Enabled(t *testing.T) {
	h := &DBHandler{core: &dbCore{}}
	assert.False(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("sink down") }

func TestMultiHandler_FailingHandlerDoesNotStopOthers(t *testing.T) {
	var out bytes.Buffer
	ok := slog.NewJSONHandler(&out, nil)
	h := NewMultiHandler(failingHandler{ok}, ok)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0))
	assert.EqualError(t, err, "sink down")
	assert.Contains(t, out.String(), `"msg":"hello"`)
}
