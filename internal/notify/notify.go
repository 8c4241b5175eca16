// Package notify delivers correction messages to the customer.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/packfinderz-variations/pkg/logger"
)

// Sink shows a warning that closes itself after autoCloseAfter.
type Sink interface {
	Warn(ctx context.Context, message string, autoCloseAfter time.Duration)
}

// LogSink writes warnings to the structured logger.
type LogSink struct {
	logg *logger.Logger
}

func NewLogSink(logg *logger.Logger) *LogSink {
	if logg == nil {
		logg = logger.Nop()
	}
	return &LogSink{logg: logg}
}

func (s *LogSink) Warn(ctx context.Context, message string, autoCloseAfter time.Duration) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"notification":     message,
		"auto_close_after": autoCloseAfter.String(),
	})
	s.logg.Info(ctx, "selection corrected")
}

// Notification is one recorded warning.
type Notification struct {
	Message        string        `json:"message"`
	AutoCloseAfter time.Duration `json:"autoCloseAfter"`
}

// Recorder keeps warnings in memory; the CLI prints them and tests inspect them.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Warn(_ context.Context, message string, autoCloseAfter time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Message: message, AutoCloseAfter: autoCloseAfter})
}

// Notifications returns a copy of the recorded warnings.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Reset drops every recorded warning.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

// Fanout delivers every warning to each sink.
type Fanout []Sink

func (f Fanout) Warn(ctx context.Context, message string, autoCloseAfter time.Duration) {
	for _, sink := range f {
		if sink != nil {
			sink.Warn(ctx, message, autoCloseAfter)
		}
	}
}
