package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/haasonsaas/agrisense/pkg/models"
)

// ReadingSource is the subset of sensorstore.Store the evaluator needs.
type ReadingSource interface {
	LatestReading(ctx context.Context, sensorType string) (models.Reading, bool, error)
	AverageOverWindow(ctx context.Context, sensorType string, windowMinutes int, now time.Time) (avg float64, count int, err error)
}

// DefaultSuppressWindow is the minimum spacing between two triggered
// events for the same (session, alert) pair.
const DefaultSuppressWindow = 5 * time.Minute

// Evaluator runs one evaluation tick across every active AlertSpec.
type Evaluator struct {
	store      *Store
	readings   ReadingSource
	suppressor *Suppressor
	now        func() time.Time
}

// NewEvaluator builds an Evaluator. now defaults to time.Now.
func NewEvaluator(store *Store, readings ReadingSource, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		store:      store,
		readings:   readings,
		suppressor: NewSuppressor(DefaultSuppressWindow),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithNow overrides the evaluator's clock, for deterministic tests.
func WithNow(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) { e.now = now }
}

// WithSuppressWindow overrides the suppression window.
func WithSuppressWindow(d time.Duration) EvaluatorOption {
	return func(e *Evaluator) { e.suppressor = NewSuppressor(d) }
}

// Tick evaluates every active alert for sessionID against its current
// reading and returns the ones that triggered and were not suppressed.
// A tick observes a stable snapshot of active alerts: it lists them once
// up front.
func (e *Evaluator) Tick(ctx context.Context, sessionID string) ([]models.TriggeredAlert, error) {
	specs, err := e.store.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("alerts: tick: %w", err)
	}

	now := e.now()
	var triggered []models.TriggeredAlert
	for _, spec := range specs {
		if !spec.Active {
			continue
		}
		value, ok, err := e.currentValue(ctx, spec, now)
		if err != nil {
			return nil, fmt.Errorf("alerts: evaluating %s: %w", spec.ID, err)
		}
		if !ok || !spec.Operator.Apply(value, spec.Threshold) {
			continue
		}
		if !e.suppressor.Allow(spec.SessionID, spec.ID, now) {
			continue
		}
		triggered = append(triggered, models.TriggeredAlert{Alert: spec, Value: value, Timestamp: now})
	}
	return triggered, nil
}

// Sweep evaluates every active alert across all sessions, for the external
// scheduler's periodic tick. It observes a stable snapshot: alerts created
// or deactivated after the snapshot is taken are not part of this sweep.
func (e *Evaluator) Sweep(ctx context.Context) ([]models.TriggeredAlert, error) {
	specs, err := e.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("alerts: sweep: %w", err)
	}

	now := e.now()
	var triggered []models.TriggeredAlert
	for _, spec := range specs {
		value, ok, err := e.currentValue(ctx, spec, now)
		if err != nil {
			return nil, fmt.Errorf("alerts: evaluating %s: %w", spec.ID, err)
		}
		if !ok || !spec.Operator.Apply(value, spec.Threshold) {
			continue
		}
		if !e.suppressor.Allow(spec.SessionID, spec.ID, now) {
			continue
		}
		triggered = append(triggered, models.TriggeredAlert{Alert: spec, Value: value, Timestamp: now})
	}
	return triggered, nil
}

func (e *Evaluator) currentValue(ctx context.Context, spec models.AlertSpec, now time.Time) (float64, bool, error) {
	if spec.TimeWindowMinutes > 0 {
		avg, count, err := e.readings.AverageOverWindow(ctx, spec.SensorType, spec.TimeWindowMinutes, now)
		if err != nil {
			return 0, false, err
		}
		return avg, count > 0, nil
	}
	reading, ok, err := e.readings.LatestReading(ctx, spec.SensorType)
	if err != nil {
		return 0, false, err
	}
	return reading.Value, ok, nil
}
