package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/veiltext/internal/model"
	"golang.org/x/sync/errgroup"
)

// Item is one document in a batch: the already-extracted text together
// with its source label.
type Item struct {
	// Source is the path or label of the input document.
	Source string

	// Text is the extracted text to transform.
	Text string
}

// BatchProcessor handles concurrent processing of multiple documents.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Pipeline because:
// 1. It keeps the Pipeline focused on single-document execution
// 2. It allows different batch strategies (e.g., rate limiting for the oracle)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// pipelineFactory creates a new pipeline for each document.
	// A factory is required, not a convenience: the engines inside a
	// pipeline carry their own random sources and must not be shared
	// across concurrent runs.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of concurrent transforms.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed reports.
	// Access is synchronized via mutex.
	results []*model.TransformReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent transforms.
// Default is 10 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called for each document to create a
// fresh pipeline instance, so state never leaks between runs.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     10,
		results:         make([]*model.TransformReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch transforms multiple documents concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each document gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns all reports collected, in input order, even for documents that
// failed; a failed run carries its error in the report. The error return
// indicates that the batch as a whole was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, items []Item) ([]*model.TransformReport, error) {
	bp.logger.Info("starting batch processing",
		"total_documents", len(items),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate to keep results in input order
	bp.results = make([]*model.TransformReport, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, item := range items {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("transforming document",
				"source", item.Source,
				"index", i+1,
				"total", len(items),
			)

			report := model.NewTransformReport(item.Source, item.Text)

			pipeline := bp.pipelineFactory()
			err := pipeline.Execute(ctx, report)

			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if err != nil {
				bp.logger.Warn("transform failed",
					"source", item.Source,
					"error", err,
				)
				// The error is recorded in the report; other documents
				// in the batch still run.
				return nil
			}

			bp.logger.Info("transform completed",
				"source", item.Source,
				"changes", report.Stats.TotalChanges(),
			)

			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch processing complete",
		"total_documents", len(items),
		"elapsed", elapsed,
	)

	return bp.results, err
}

// ProcessBatchWithCallback transforms multiple documents and calls a
// callback for each completed run. This is useful for streaming results.
//
// The callback receives the report and the index of the document in the
// original slice. The callback is called from the goroutine that completed
// the run, so it should be thread-safe if it accesses shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	items []Item,
	callback func(report *model.TransformReport, index int),
) error {
	bp.logger.Info("starting batch processing with callback",
		"total_documents", len(items),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, item := range items {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := model.NewTransformReport(item.Source, item.Text)
			pipeline := bp.pipelineFactory()
			_ = pipeline.Execute(ctx, report) //nolint:errcheck // Error is stored in report

			callback(report, i)

			return nil
		})
	}

	return g.Wait()
}
