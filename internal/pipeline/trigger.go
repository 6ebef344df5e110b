package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Trigger drives the pipeline according to its mode: an immediate run
// at startup, then for daily mode a polling loop that fires a run as
// soon as the calendar day changes. Schedule mode does the startup run
// only and leaves further runs to an external scheduler.
type Trigger struct {
	pipe     *Pipeline
	interval time.Duration
}

func NewTrigger(pipe *Pipeline) *Trigger {
	return &Trigger{pipe: pipe, interval: time.Hour}
}

// Start blocks until ctx is cancelled. The caller usually runs it in
// its own goroutine next to the HTTP server.
func (t *Trigger) Start(ctx context.Context) {
	t.fire(ctx)

	if t.pipe.cfg.Mode != ModeDaily {
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fire(ctx)
		}
	}
}

func (t *Trigger) fire(ctx context.Context) {
	err := t.pipe.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrRanToday), errors.Is(err, ErrCompleted), errors.Is(err, ErrRunInProgress):
		// not due yet
	default:
		slog.Error("scheduled pipeline run failed", "error", err)
	}
}
