// Package ingest is the Ingestion Pipeline (C2): validates and normalizes
// raw sensor readings and commits them to the Sensor Store through a
// single-writer bounded queue.
package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/haasonsaas/agrisense/internal/backoff"
	"github.com/haasonsaas/agrisense/internal/ontology"
	"github.com/haasonsaas/agrisense/internal/sensorstore"
	"github.com/haasonsaas/agrisense/pkg/models"
)

// DefaultBatchSize is the flush trigger on queue length.
const DefaultBatchSize = 100

// DefaultFlushInterval is the flush trigger on elapsed time.
const DefaultFlushInterval = 2 * time.Second

// MaxCommitAttempts bounds the transactional retry per batch.
const MaxCommitAttempts = 3

// Stats is a snapshot of ingestion counters.
type Stats struct {
	Accepted  int64
	Rejected  int64
	Committed int64
	Failed    int64
}

// Pipeline is the single-writer Ingestion Pipeline. Producers call Enqueue;
// exactly one background worker drains the queue and commits batches.
type Pipeline struct {
	registry *ontology.Registry
	store    *sensorstore.Store
	logger   *slog.Logger
	now      func() time.Time
	policy   backoff.BackoffPolicy

	batchSize     int
	flushInterval time.Duration

	queue chan models.Reading

	mu    sync.Mutex
	stats Stats

	wg   sync.WaitGroup
	done chan struct{}
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBatchSize overrides the flush batch size.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) { p.batchSize = n }
}

// WithFlushInterval overrides the flush interval.
func WithFlushInterval(d time.Duration) Option {
	return func(p *Pipeline) { p.flushInterval = d }
}

// WithQueueCapacity overrides the bounded queue capacity. Defaults to 10x
// the batch size.
func WithQueueCapacity(n int) Option {
	return func(p *Pipeline) { p.queue = make(chan models.Reading, n) }
}

// WithLogger attaches a logger; defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithNow overrides the clock, for deterministic tests.
func WithNow(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithBackoffPolicy overrides the retry policy for transactional failures.
func WithBackoffPolicy(policy backoff.BackoffPolicy) Option {
	return func(p *Pipeline) { p.policy = policy }
}

// New constructs a Pipeline over store and registry. Start must be called
// to launch the writer goroutine.
func New(store *sensorstore.Store, registry *ontology.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry:      registry,
		store:         store,
		logger:        slog.Default(),
		now:           func() time.Time { return time.Now().UTC() },
		policy:        backoff.DefaultPolicy(),
		batchSize:     DefaultBatchSize,
		flushInterval: DefaultFlushInterval,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue == nil {
		p.queue = make(chan models.Reading, p.batchSize*10)
	}
	return p
}

// Enqueue validates raw and, if accepted, places it on the bounded queue.
// Enqueue blocks when the queue is full (explicit backpressure). It never
// blocks on the commit itself, which happens asynchronously on the writer.
func (p *Pipeline) Enqueue(ctx context.Context, raw models.RawReading) (*Rejection, error) {
	reading, rejection := Validate(raw, p.registry, p.now())
	if rejection != nil {
		p.mu.Lock()
		p.stats.Rejected++
		p.mu.Unlock()
		p.logger.Warn("ingest: rejected reading", "sensor", raw.Sensor, "kind", rejection.Kind, "reason", rejection.Reason)
		return rejection, nil
	}

	p.mu.Lock()
	p.stats.Accepted++
	p.mu.Unlock()

	select {
	case p.queue <- reading:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Start launches the single writer goroutine. Call Stop to drain the
// remaining queue and shut down cleanly.
func (p *Pipeline) Start(ctx context.Context) {
	p.wg.Add(1)
	go p.run(ctx)
}

// Stop signals shutdown and waits for the writer to drain the queue and exit.
func (p *Pipeline) Stop() {
	close(p.done)
	p.wg.Wait()
}

func (p *Pipeline) run(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	batch := make([]models.Reading, 0, p.batchSize)

	// Batch commits use an independent context: the writer must drain and
	// commit whatever is already queued on shutdown even though ctx itself
	// may already be cancelled.
	flush := func() {
		if len(batch) == 0 {
			return
		}
		p.commitWithRetry(context.Background(), batch)
		batch = batch[:0]
	}

	for {
		select {
		case reading, ok := <-p.queue:
			if !ok {
				flush()
				return
			}
			batch = append(batch, reading)
			if len(batch) >= p.batchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.done:
			p.drainRemaining(&batch)
			flush()
			return

		case <-ctx.Done():
			p.drainRemaining(&batch)
			flush()
			return
		}
	}
}

// drainRemaining consumes whatever is already queued, non-blocking, so
// shutdown commits every accepted reading before exiting.
func (p *Pipeline) drainRemaining(batch *[]models.Reading) {
	for {
		select {
		case reading, ok := <-p.queue:
			if !ok {
				return
			}
			*batch = append(*batch, reading)
		default:
			return
		}
	}
}

// commitWithRetry commits a batch as a single transaction, retrying with
// exponential backoff (base 100ms, cap 3 tries) on transactional failure.
// Partial flush on error is never permitted.
func (p *Pipeline) commitWithRetry(ctx context.Context, batch []models.Reading) {
	committed := make([]models.Reading, len(batch))
	copy(committed, batch)

	result, err := backoff.RetryWithBackoff(ctx, p.policy, MaxCommitAttempts, func(attempt int) (struct{}, error) {
		return struct{}{}, p.store.InsertBatch(ctx, committed)
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.stats.Failed += int64(len(committed))
		p.logger.Error("ingest: batch commit failed after retries", "attempts", result.Attempts, "size", len(committed), "error", err)
		return
	}
	p.stats.Committed += int64(len(committed))
}

// Stats returns a snapshot of ingestion counters.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}
