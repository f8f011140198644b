package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	dbBatchSize     = 50
	dbFlushInterval = 5 * time.Second
)

// DBHandler is an slog.Handler that batches ERROR+ records into system_logs.
type DBHandler struct {
	db       *gorm.DB
	fallback slog.Handler
	attrs    []slog.Attr
	state    *dbState
}

// dbState is shared by a handler and every handler derived via WithAttrs.
type dbState struct {
	mu       sync.Mutex
	buffer   []models.SystemLog
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewDBHandler(db *gorm.DB) *DBHandler {
	h := &DBHandler{
		db:       db,
		fallback: NewStdoutHandler(),
		state: &dbState{
			buffer: make([]models.SystemLog, 0, dbBatchSize),
			ticker: time.NewTicker(dbFlushInterval),
			done:   make(chan struct{}),
		},
	}
	h.state.wg.Add(1)
	go h.flushLoop()
	return h
}

func (h *DBHandler) flushLoop() {
	defer h.state.wg.Done()
	for {
		select {
		case <-h.state.ticker.C:
			h.flush()
		case <-h.state.done:
			h.flush()
			return
		}
	}
}

func (h *DBHandler) flush() {
	h.state.mu.Lock()
	if len(h.state.buffer) == 0 {
		h.state.mu.Unlock()
		return
	}
	batch := h.state.buffer
	h.state.buffer = make([]models.SystemLog, 0, dbBatchSize)
	h.state.mu.Unlock()

	if err := h.db.CreateInBatches(batch, dbBatchSize).Error; err != nil {
		// Straight to stdout: the default logger routes back into this handler.
		r := slog.NewRecord(time.Now(), slog.LevelError, "failed to flush system logs to DB", 0)
		r.AddAttrs(slog.String("error", err.Error()), slog.Int("count", len(batch)))
		_ = h.fallback.Handle(context.Background(), r)
	}
}

// Stop flushes what is buffered and stops the background loop.
func (h *DBHandler) Stop() {
	h.state.stopOnce.Do(func() {
		h.state.ticker.Stop()
		close(h.state.done)
	})
	h.state.wg.Wait()
}

// Enabled only handles ERROR and above.
func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "method":
			entry.Method = a.Value.String()
		case "path":
			entry.Path = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.state.mu.Lock()
	h.state.buffer = append(h.state.buffer, entry)
	needFlush := len(h.state.buffer) >= dbBatchSize
	h.state.mu.Unlock()

	if needFlush {
		go h.flush()
	}
	return nil
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DBHandler{db: h.db, fallback: h.fallback, attrs: merged, state: h.state}
}

// WithGroup is a no-op: system_logs has a flat shape.
func (h *DBHandler) WithGroup(string) slog.Handler {
	return h
}
