package detect

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/phase3/internal/adapters/mq/queue"
	"github.com/okian/phase3/internal/adapters/sink"
	"github.com/okian/phase3/internal/domain/model"
	"github.com/okian/phase3/pkg/logger"
	"github.com/okian/phase3/pkg/metrics"
)

// RejectionSummary counts malformed input records skipped during a run.
// Skipping is per-record; it never aborts the run.
type RejectionSummary struct {
	Awards    int            `json:"awards" yaml:"awards"`
	Contracts int            `json:"contracts" yaml:"contracts"`
	Reasons   map[string]int `json:"reasons,omitempty" yaml:"reasons,omitempty"`
}

func (r *RejectionSummary) add(reason string) {
	if r.Reasons == nil {
		r.Reasons = make(map[string]int)
	}
	r.Reasons[reason]++
}

// Summary describes one detection run for the operator.
type Summary struct {
	RunID         string           `json:"run_id" yaml:"run_id"`
	ConfigVersion string           `json:"config_version" yaml:"config_version"`
	TotalAwards   int              `json:"total_awards" yaml:"total_awards"`
	Contracts     int              `json:"contracts" yaml:"contracts"`
	Batches       int              `json:"batches" yaml:"batches"`
	ResumedAfter  int              `json:"resumed_after_batch" yaml:"resumed_after_batch"`
	Transitions   int              `json:"transitions" yaml:"transitions"`
	ByConfidence  map[string]int   `json:"by_confidence" yaml:"by_confidence"`
	Rejections    RejectionSummary `json:"rejections" yaml:"rejections"`
	Checkpoint    int              `json:"checkpoint" yaml:"checkpoint"`
	Elapsed       time.Duration    `json:"elapsed" yaml:"elapsed"`
}

// RunnerOption applies a configuration option to the Runner.
type RunnerOption func(*Runner)

// WithWorkerCount bounds concurrent batch workers.
func WithWorkerCount(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithBatchSize sets how many awards form one checkpoint batch.
func WithBatchSize(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithQueue replaces the default batch queue.
func WithQueue(q queue.Queue) RunnerOption {
	return func(r *Runner) {
		if q != nil {
			r.queue = q
		}
	}
}

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(log logger.Logger) RunnerOption {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// Runner fans detection out over award batches. Inputs are read-only, so
// workers share nothing mutable but the sink; batch completion order is
// irrelevant to correctness.
type Runner struct {
	detector  *Detector
	store     sink.Store
	queue     queue.Queue
	workers   int
	batchSize int
	log       logger.Logger
}

// NewRunner wires a Runner around a detector and an output store.
func NewRunner(detector *Detector, store sink.Store, opts ...RunnerOption) *Runner {
	r := &Runner{
		detector:  detector,
		store:     store,
		workers:   4,
		batchSize: 500,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.queue == nil {
		r.queue = queue.NewInMemoryQueue()
	}
	if r.log == nil {
		r.log = logger.Get().Named("runner")
	}
	return r
}

// Run detects transitions for every valid award against every valid
// contract. Batches at or below the store's checkpoint are skipped, which
// is what makes interrupted runs resumable without reprocessing.
func (r *Runner) Run(ctx context.Context, awards []model.Award, contracts []model.Contract) (Summary, error) {
	start := time.Now()
	summary := Summary{
		RunID:         r.detector.RunID(),
		ConfigVersion: r.detector.configVersion,
		ByConfidence:  make(map[string]int),
	}

	validAwards := r.filterAwards(awards, &summary.Rejections)
	validContracts := r.filterContracts(contracts, &summary.Rejections)
	summary.TotalAwards = len(validAwards)
	summary.Contracts = len(validContracts)

	batches := partition(validAwards, r.batchSize)
	summary.Batches = len(batches)
	summary.ResumedAfter = r.store.Checkpoint(ctx)

	metrics.UpdateWorkerCount(r.workers)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer func() { _ = r.queue.Close() }()
		for _, b := range batches {
			if b.Index <= summary.ResumedAfter {
				continue
			}
			for !r.queue.Enqueue(gctx, b) {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case <-time.After(10 * time.Millisecond):
					// queue full; detection workers will drain it
				}
			}
		}
		return nil
	})

	for i := 0; i < r.workers; i++ {
		g.Go(func() error {
			for b := range r.queue.Dequeue(gctx) {
				if err := r.processBatch(gctx, b, validContracts); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Completed batches stay in the store; the checkpoint is the
		// explicit resume point.
		summary.Checkpoint = r.store.Checkpoint(ctx)
		summary.Elapsed = time.Since(start)
		return summary, fmt.Errorf("detection interrupted: %w", err)
	}

	for _, t := range r.store.Transitions(ctx) {
		summary.ByConfidence[string(t.Confidence)]++
	}
	summary.Transitions = r.store.Count(ctx)
	summary.Checkpoint = r.store.Checkpoint(ctx)
	summary.Elapsed = time.Since(start)

	r.log.Info(ctx, "detection run complete",
		logger.String("run_id", summary.RunID),
		logger.Int("awards", summary.TotalAwards),
		logger.Int("transitions", summary.Transitions),
		logger.Int("batches", summary.Batches),
	)
	return summary, nil
}

func (r *Runner) processBatch(ctx context.Context, b queue.Batch, contracts []model.Contract) error {
	start := time.Now()
	var out []model.Transition
	for _, award := range b.Awards {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		out = append(out, r.detector.DetectAward(award, contracts)...)
		metrics.RecordAwardProcessed()
	}
	if err := r.store.AppendBatch(ctx, b.Index, out); err != nil {
		return fmt.Errorf("append batch %d: %w", b.Index, err)
	}
	metrics.RecordBatchLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

func (r *Runner) filterAwards(awards []model.Award, rej *RejectionSummary) []model.Award {
	valid := make([]model.Award, 0, len(awards))
	for _, a := range awards {
		if !a.Valid() {
			rej.Awards++
			rej.add(awardRejectReason(a))
			metrics.RecordAwardRejected()
			continue
		}
		valid = append(valid, a)
	}
	return valid
}

func (r *Runner) filterContracts(contracts []model.Contract, rej *RejectionSummary) []model.Contract {
	valid := make([]model.Contract, 0, len(contracts))
	for _, c := range contracts {
		if !c.Valid() {
			rej.Contracts++
			rej.add(contractRejectReason(c))
			metrics.RecordContractRejected()
			continue
		}
		valid = append(valid, c)
	}
	return valid
}

func awardRejectReason(a model.Award) string {
	switch {
	case a.AwardID == "":
		return "award_missing_id"
	case a.RecipientName == "":
		return "award_missing_recipient"
	default:
		return "award_missing_completion_date"
	}
}

func contractRejectReason(c model.Contract) string {
	switch {
	case c.PIID == "":
		return "contract_missing_piid"
	case c.RecipientName == "":
		return "contract_missing_recipient"
	default:
		return "contract_missing_start_date"
	}
}

// partition splits awards into fixed-size batches preserving input order.
func partition(awards []model.Award, size int) []queue.Batch {
	if len(awards) == 0 {
		return nil
	}
	batches := make([]queue.Batch, 0, (len(awards)+size-1)/size)
	for i := 0; i < len(awards); i += size {
		end := i + size
		if end > len(awards) {
			end = len(awards)
		}
		batches = append(batches, queue.Batch{Index: len(batches), Awards: awards[i:end]})
	}
	return batches
}
