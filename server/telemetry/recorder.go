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

// Package telemetry is the in-memory metrics engine of one processing run.
//
// A Recorder captures batch lifecycle timestamps, per-item outcomes and
// per-item latencies as workers report them, with no derived computation on
// the hot path. The statistics layer (statistics.go) turns that raw state
// into throughput, error-rate, percentile and batch-ranking figures, either
// as a live snapshot while the run is in flight or as a final detailed
// report. One Recorder belongs to exactly one run: construct, share with the
// workers, discard.
//
// The engine is best-effort telemetry. It never returns errors to its
// callers and never panics on empty or inconsistent input; a batch number
// that was never started is silently ignored on EndBatch.
package telemetry

import (
	"sync"
	"time"

	"github.com/evalsuite/batchmeter/server/util"
)

// Recorder holds all metrics state of one run. A single mutex guards the
// batch list and the latency series; every operation is short and purely
// in-memory, so coarse locking is not a bottleneck even with many workers
// reporting concurrently.
type Recorder struct {
	mu        sync.Mutex
	metrics   RunMetrics
	batches   []BatchRecord
	latencies []float64
}

// NewRecorder starts a new run. The run's start time is captured here and
// never changes afterwards.
func NewRecorder() *Recorder {
	return &Recorder{
		metrics: RunMetrics{StartTime: time.Now()},
	}
}

// StartTime returns the instant the run was created.
func (r *Recorder) StartTime() time.Time {
	return r.metrics.StartTime
}

// StartBatch appends a new batch record with its start timestamp and zeroed
// counters. Batch numbers are not checked for collisions; a duplicate number
// yields a second record that EndBatch will never reach (first match wins).
func (r *Recorder) StartBatch(batchNumber int, batchSize int) {
	record := BatchRecord{
		BatchNumber: batchNumber,
		BatchSize:   batchSize,
		StartTime:   time.Now(),
	}

	r.mu.Lock()

	defer r.mu.Unlock()

	r.batches = append(r.batches, record)
}

// EndBatch closes the first batch record carrying the given number: it sets
// the end timestamp, classifies the outcomes into success/error/timeout
// counts, computes the batch mean over the outcomes that carried a latency
// and appends those latencies to the run's latency series. An unknown batch
// number is a no-op, as is a batch that already ended; the engine tolerates
// the caller's bookkeeping mistakes rather than propagating them into the
// pipeline.
func (r *Recorder) EndBatch(batchNumber int, outcomes []ItemOutcome) {
	endTime := time.Now()

	r.mu.Lock()

	defer r.mu.Unlock()

	record := r.lookupBatch(batchNumber)
	if record == nil || record.EndTime != nil {
		return
	}

	record.EndTime = &endTime
	record.DurationMs = util.DurationToMs(endTime.Sub(record.StartTime))

	var latencySum float64

	var latencyCount int

	for _, outcome := range outcomes {
		switch {
		case outcome.Succeeded:
			record.SuccessCount++
		case outcome.TimedOut:
			record.TimeoutCount++
		default:
			record.ErrorCount++
		}

		if outcome.ProcessingTimeMs != nil {
			latencySum += *outcome.ProcessingTimeMs
			latencyCount++

			r.latencies = append(r.latencies, *outcome.ProcessingTimeMs)
		}
	}

	if latencyCount > 0 {
		record.AverageProcessingTimeMs = roundTwoDecimals(latencySum / float64(latencyCount))
	}
}

// RecordLatency appends a single processing time to the latency series,
// bypassing batch bookkeeping. Used for items that are not organized into
// the batch model.
func (r *Recorder) RecordLatency(ms float64) {
	r.mu.Lock()

	defer r.mu.Unlock()

	r.latencies = append(r.latencies, ms)
}

// Snapshot returns a consistent point-in-time deep copy of the recorder
// state. The run duration is recomputed against now, so a snapshot taken
// mid-run reports how long the run has been going so far. Snapshot has no
// side effects and may be called arbitrarily often, concurrently with any
// mutating operation.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()

	defer r.mu.Unlock()

	metrics := r.metrics
	metrics.DurationMs = util.DurationToMs(time.Since(r.metrics.StartTime))

	if r.metrics.MemorySample != nil {
		sample := *r.metrics.MemorySample
		metrics.MemorySample = &sample
	}

	batches := make([]BatchRecord, len(r.batches))

	for i := range r.batches {
		batches[i] = r.batches[i]

		if r.batches[i].EndTime != nil {
			endTime := *r.batches[i].EndTime
			batches[i].EndTime = &endTime
		}
	}

	latencies := make([]float64, len(r.latencies))

	copy(latencies, r.latencies)

	return Snapshot{
		Metrics:   metrics,
		Batches:   batches,
		Latencies: latencies,
	}
}

// lookupBatch returns the first record with the given number. Callers must
// hold the recorder lock.
func (r *Recorder) lookupBatch(batchNumber int) *BatchRecord {
	for i := range r.batches {
		if r.batches[i].BatchNumber == batchNumber {
			return &r.batches[i]
		}
	}

	return nil
}
