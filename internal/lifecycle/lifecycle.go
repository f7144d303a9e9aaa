// Package lifecycle moves trips whose scheduled end has passed into the
// completed state.
package lifecycle

import (
	"context"
	"fmt"
	"log"
	"time"

	"busops/internal/domain/models"
	"busops/internal/store"
	"busops/internal/utils"
)

// AllowedTransitions is the trip state machine as the engine understands
// it. Completed and cancelled are terminal. Manual updates through the
// generic update endpoint are not checked against this table.
var AllowedTransitions = map[models.TripStatus][]models.TripStatus{
	models.TripScheduled: {models.TripActive, models.TripCompleted, models.TripCancelled},
	models.TripActive:    {models.TripCompleted, models.TripCancelled},
}

func CanTransition(from, to models.TripStatus) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Due reports whether the trip should be auto-completed at now.
func Due(t models.Trip, now time.Time) bool {
	if !CanTransition(t.Status, models.TripCompleted) {
		return false
	}
	end, ok := t.EndInstant()
	return ok && end.Before(now)
}

// Apply completes every due trip in doc and returns how many changed.
func Apply(doc *models.Document, now time.Time) int {
	changed := 0
	for i := range doc.Trips {
		if Due(doc.Trips[i], now) {
			doc.Trips[i].Status = models.TripCompleted
			doc.Trips[i].UpdatedAt = now
			changed++
		}
	}
	return changed
}

type Engine struct {
	store *store.Store
	now   func() time.Time
}

func NewEngine(s *store.Store) *Engine {
	return &Engine{store: s, now: time.Now}
}

// WithClock replaces the time source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Sweep commits all pending auto-completions in a single write. It reports
// whether anything changed so callers can re-read the store. Running it
// again without the clock moving writes nothing.
func (e *Engine) Sweep(ctx context.Context) (bool, error) {
	now := e.now()
	doc, err := e.store.Read(ctx)
	if err != nil {
		return false, err
	}
	if !anyDue(doc, now) {
		return false, nil
	}

	changed := 0
	_, err = e.store.Mutate(ctx, func(doc *models.Document) error {
		changed = Apply(doc, now)
		if changed == 0 {
			return store.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if changed > 0 {
		utils.LogEvent("", "lifecycle", "sweep", fmt.Sprintf("completed=%d", changed))
	}
	return changed > 0, nil
}

// Run sweeps on every tick until ctx is done.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := e.Sweep(ctx); err != nil {
				log.Printf("lifecycle sweep error: %v", err)
			}
		}
	}
}

func anyDue(doc *models.Document, now time.Time) bool {
	for _, t := range doc.Trips {
		if Due(t, now) {
			return true
		}
	}
	return false
}
