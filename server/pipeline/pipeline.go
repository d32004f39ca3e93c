// Copyright (C) 2024 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Package pipeline drives the batch assessment of a corpus and is the
// primary customer of the telemetry engine. Items are split into numbered
// batches; batches run concurrently, items within a batch run concurrently
// again, and every lifecycle event is reported into the run's recorder.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/evalsuite/batchmeter/server/assessor"
	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/definitions"
	"github.com/evalsuite/batchmeter/server/log/level"
	"github.com/evalsuite/batchmeter/server/registry"
	"github.com/evalsuite/batchmeter/server/stats"
	"github.com/evalsuite/batchmeter/server/telemetry"
	"github.com/evalsuite/batchmeter/server/util"
	"golang.org/x/sync/errgroup"
)

// Options are the per-run knobs. Zero values fall back to the configured
// pipeline defaults.
type Options struct {
	BatchSize         int
	ConcurrentBatches int
	Workers           int
	ItemTimeout       time.Duration
}

// Pipeline assesses corpora in concurrent batches.
type Pipeline struct {
	cfg      *config.File
	backend  assessor.Assessor
	registry *registry.Registry
	logger   *slog.Logger
}

// New creates a pipeline over the given assessment backend and run
// registry.
func New(cfg *config.File, backend assessor.Assessor, reg *registry.Registry, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		backend:  backend,
		registry: reg,
		logger:   logger,
	}
}

// Execute processes all items of a run and completes it in the registry.
// It blocks until the run is done; callers that want an asynchronous run
// start it on its own goroutine. The run is completed as failed when the
// context is canceled mid-run, otherwise as completed with its detailed
// report.
func (p *Pipeline) Execute(ctx context.Context, run *registry.Run, items []assessor.Item, opts Options) {
	opts = p.withDefaults(opts)

	metrics := stats.GetMetrics()

	metrics.GetRunsStarted().Inc()
	metrics.GetActiveRuns().Inc()

	defer metrics.GetActiveRuns().Dec()

	stopTimer := stats.PrometheusTimer(p.cfg, definitions.PromPipeline, "run_total")

	level.Info(p.logger).Log(
		definitions.LogKeyMsg, "Run started",
		definitions.LogKeyRun, run.GUID,
		definitions.LogKeyItems, len(items),
		definitions.LogKeyBatch, opts.BatchSize,
	)

	batches := splitBatches(items, opts.BatchSize)

	successes := p.processBatches(ctx, run.Recorder, batches, opts)

	if stopTimer != nil {
		stopTimer()
	}

	if ctx.Err() != nil {
		level.Warn(p.logger).Log(
			definitions.LogKeyMsg, "Run aborted",
			definitions.LogKeyRun, run.GUID,
			definitions.LogKeyError, ctx.Err(),
		)

		metrics.GetRunsCompleted().WithLabelValues(definitions.RunStateFailedName).Inc()
		p.registry.Complete(run.GUID, definitions.RunStateFailedName, nil)

		return
	}

	// The pipeline knows its real success count, so it finalizes through
	// the two-argument report variant. The conflating one-argument path
	// stays reserved for callers that only know their total.
	report := run.Recorder.DetailedReportWithSuccesses(len(items), successes)

	metrics.GetRunsCompleted().WithLabelValues(definitions.RunStateCompletedName).Inc()
	p.registry.Complete(run.GUID, definitions.RunStateCompletedName, report)

	level.Info(p.logger).Log(
		definitions.LogKeyMsg, "Run completed",
		definitions.LogKeyRun, run.GUID,
		definitions.LogKeyItems, len(items),
		"successful_items", successes,
		"throughput", report.Summary.Throughput,
		"error_rate", report.Summary.ErrorRate,
	)
}

// processBatches runs every batch under a bounded outer group and returns
// the number of successful items.
func (p *Pipeline) processBatches(ctx context.Context, recorder *telemetry.Recorder, batches [][]assessor.Item, opts Options) int {
	successCounts := make([]int, len(batches))

	group, groupCtx := errgroup.WithContext(ctx)

	group.SetLimit(opts.ConcurrentBatches)

	for batchIndex, batchItems := range batches {
		group.Go(func() error {
			// Batch numbers are 1-based on the API surface.
			successCounts[batchIndex] = p.processBatch(groupCtx, recorder, batchIndex+1, batchItems, opts)

			return nil
		})
	}

	// Worker errors never abort the run; they are recorded as outcomes.
	_ = group.Wait()

	var successes int

	for _, count := range successCounts {
		successes += count
	}

	return successes
}

// processBatch assesses the items of one batch with bounded concurrency and
// reports the batch lifecycle into the recorder.
func (p *Pipeline) processBatch(ctx context.Context, recorder *telemetry.Recorder, batchNumber int, items []assessor.Item, opts Options) int {
	recorder.StartBatch(batchNumber, len(items))

	batchStart := time.Now()
	outcomes := make([]telemetry.ItemOutcome, len(items))

	group, groupCtx := errgroup.WithContext(ctx)

	group.SetLimit(opts.Workers)

	for itemIndex, item := range items {
		group.Go(func() error {
			outcomes[itemIndex] = p.assessItem(groupCtx, item, opts.ItemTimeout)

			return nil
		})
	}

	_ = group.Wait()

	recorder.EndBatch(batchNumber, outcomes)

	stats.GetMetrics().GetBatchDurationSeconds().Observe(time.Since(batchStart).Seconds())

	var successes int

	for _, outcome := range outcomes {
		if outcome.Succeeded {
			successes++
		}
	}

	level.Debug(p.logger).Log(
		definitions.LogKeyMsg, "Batch finished",
		definitions.LogKeyBatch, batchNumber,
		definitions.LogKeyItems, len(items),
		"successful_items", successes,
	)

	return successes
}

// assessItem calls the backend under the per-item deadline and classifies
// the result. The measured latency is attached to every outcome that
// actually ran, including failures.
func (p *Pipeline) assessItem(ctx context.Context, item assessor.Item, timeout time.Duration) telemetry.ItemOutcome {
	itemCtx, cancel := util.GetCtxWithDeadlineItem(ctx, timeout)

	defer cancel()

	start := time.Now()

	_, err := p.backend.Assess(itemCtx, item)

	elapsed := time.Since(start)

	stats.GetMetrics().GetItemProcessingSeconds().Observe(elapsed.Seconds())

	outcome := telemetry.ItemOutcome{
		ProcessingTimeMs: telemetry.Latency(float64(elapsed) / float64(time.Millisecond)),
	}

	switch {
	case err == nil:
		outcome.Succeeded = true
	case errors.Is(err, context.DeadlineExceeded):
		outcome.TimedOut = true
	default:
		level.Debug(p.logger).Log(
			definitions.LogKeyMsg, "Item assessment failed",
			definitions.LogKeyOutcome, definitions.OutcomeErrorName,
			definitions.LogKeyError, err,
		)
	}

	stats.GetMetrics().GetItemsProcessed().WithLabelValues(outcomeLabel(outcome)).Inc()

	return outcome
}

func outcomeLabel(outcome telemetry.ItemOutcome) string {
	switch {
	case outcome.Succeeded:
		return definitions.OutcomeSuccessName
	case outcome.TimedOut:
		return definitions.OutcomeTimeoutName
	default:
		return definitions.OutcomeErrorName
	}
}

// splitBatches cuts the item list into chunks of at most batchSize.
func splitBatches(items []assessor.Item, batchSize int) [][]assessor.Item {
	if len(items) == 0 {
		return nil
	}

	batches := make([][]assessor.Item, 0, (len(items)+batchSize-1)/batchSize)

	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))

		batches = append(batches, items[start:end])
	}

	return batches
}

func (p *Pipeline) withDefaults(opts Options) Options {
	pipelineCfg := p.cfg.GetPipeline()

	if opts.BatchSize < 1 {
		opts.BatchSize = pipelineCfg.GetBatchSize()
	}

	if opts.ConcurrentBatches < 1 {
		opts.ConcurrentBatches = pipelineCfg.GetConcurrentBatches()
	}

	if opts.Workers < 1 {
		opts.Workers = pipelineCfg.GetWorkers()
	}

	if opts.ItemTimeout <= 0 {
		opts.ItemTimeout = pipelineCfg.GetItemTimeout()
	}

	return opts
}
