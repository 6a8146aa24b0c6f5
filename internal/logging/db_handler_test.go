package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/testutil"
)

func TestDBHandlerStoresErrors(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewDBHandler(db, time.Hour)
	defer h.Stop()

	logger := slog.New(h).With("request_id", "req-1")
	logger.Info("ignored")
	logger.Error("request failed",
		"method", "POST",
		"path", "/api/tasks",
		"user_id", "user-1",
		"latency_ms", 12.6,
		"error", "boom",
		"attempt", 2,
	)
	h.Flush()

	var rows []models.SystemLog
	if err := db.Find(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want only the ERROR record", len(rows))
	}
	got := rows[0]
	if got.RequestID != "req-1" || got.Method != "POST" || got.Path != "/api/tasks" || got.Error != "boom" {
		t.Errorf("row = %+v", got)
	}
	if got.UserID == nil || *got.UserID != "user-1" {
		t.Errorf("user id = %v", got.UserID)
	}
	if got.LatencyMs != 13 {
		t.Errorf("latency = %d, want 13", got.LatencyMs)
	}

	var extra map[string]any
	if err := json.Unmarshal(got.Extra, &extra); err != nil {
		t.Fatal(err)
	}
	if extra["attempt"] != float64(2) {
		t.Errorf("extra = %v", extra)
	}
}

func TestMultiHandlerFansOut(t *testing.T) {
	db := testutil.NewDB(t)
	h := NewDBHandler(db, time.Hour)
	defer h.Stop()

	var seen int
	counter := &countingHandler{n: &seen}
	slog.New(NewMultiHandler(counter, h)).Error("both")
	h.Flush()

	if seen != 1 {
		t.Errorf("first handler saw %d records", seen)
	}
	if n := testutil.Count(t, db, &models.SystemLog{}, ""); n != 1 {
		t.Errorf("system logs = %d", n)
	}
}

type countingHandler struct {
	slog.Handler
	n *int
}

func (c *countingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (c *countingHandler) Handle(context.Context, slog.Record) error {
	*c.n++
	return nil
}
