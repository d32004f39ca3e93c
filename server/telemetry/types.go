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

package telemetry

import (
	"time"
)

// RunMetrics describes one processing run. StartTime is set at construction
// and never changes; EndTime and all derived fields are written by Finalize.
// All durations and latencies are fractional milliseconds.
type RunMetrics struct {
	StartTime             time.Time     `json:"start_time"`
	EndTime               *time.Time    `json:"end_time,omitempty"`
	DurationMs            float64       `json:"duration_ms"`
	Throughput            float64       `json:"throughput"`
	ErrorRate             float64       `json:"error_rate"`
	AverageResponseTimeMs float64       `json:"average_response_time_ms"`
	MemorySample          *MemorySample `json:"memory_sample,omitempty"`
}

// MemorySample is a best-effort snapshot of host memory usage. It is nil on
// platforms where host introspection is unavailable.
type MemorySample struct {
	UsedBytes   uint64  `json:"used_bytes"`
	TotalBytes  uint64  `json:"total_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// BatchRecord describes one batch of a run. The batch number is the
// caller-supplied identity; the recorder does not enforce uniqueness, so
// duplicate numbers shadow each other in lookups. BatchSize is the declared
// item count and is never validated against the number of outcomes reported
// to EndBatch.
type BatchRecord struct {
	BatchNumber             int        `json:"batch_number"`
	BatchSize               int        `json:"batch_size"`
	StartTime               time.Time  `json:"start_time"`
	EndTime                 *time.Time `json:"end_time,omitempty"`
	DurationMs              float64    `json:"duration_ms"`
	SuccessCount            int        `json:"success_count"`
	ErrorCount              int        `json:"error_count"`
	TimeoutCount            int        `json:"timeout_count"`
	AverageProcessingTimeMs float64    `json:"average_processing_time_ms"`
}

// Completed reports whether EndBatch has recorded an end for this batch.
func (b *BatchRecord) Completed() bool {
	return b != nil && b.EndTime != nil
}

// ItemOutcome classifies a single processed item. Succeeded and TimedOut are
// never both true; an outcome with neither set counts as a non-timeout
// failure. ProcessingTimeMs is optional; only outcomes carrying a latency
// contribute to the latency series and to the batch mean.
type ItemOutcome struct {
	Succeeded        bool     `json:"succeeded"`
	TimedOut         bool     `json:"timed_out"`
	ProcessingTimeMs *float64 `json:"processing_time_ms,omitempty"`
}

// Snapshot is a consistent point-in-time copy of recorder state. It shares no
// memory with the recorder, so callers may hold or serialize it freely while
// the run continues.
type Snapshot struct {
	Metrics   RunMetrics    `json:"metrics"`
	Batches   []BatchRecord `json:"batch_records"`
	Latencies []float64     `json:"latency_series"`
}

// BatchAnalysis ranks the completed batches of a run. The pointers are nil
// when no batch has completed yet.
type BatchAnalysis struct {
	Fastest            *BatchRecord `json:"fastest,omitempty"`
	Slowest            *BatchRecord `json:"slowest,omitempty"`
	MostEfficient      *BatchRecord `json:"most_efficient,omitempty"`
	AverageBatchTimeMs float64      `json:"average_batch_time_ms"`
}

// TimingAnalysis summarizes the distribution of the run's latency series.
// Every field is 0 for an empty series.
type TimingAnalysis struct {
	MedianMs            float64 `json:"median_ms"`
	Percentile95Ms      float64 `json:"percentile_95_ms"`
	FastestMs           float64 `json:"fastest_ms"`
	SlowestMs           float64 `json:"slowest_ms"`
	StandardDeviationMs float64 `json:"standard_deviation_ms"`
}

// DetailedReport is the final report of a run: the finalized run metrics plus
// batch rankings and latency distribution statistics.
type DetailedReport struct {
	Summary RunMetrics     `json:"summary"`
	Batches BatchAnalysis  `json:"batch_analysis"`
	Timing  TimingAnalysis `json:"timing_analysis"`
}

// Latency wraps a fractional-millisecond value for use as an ItemOutcome
// processing time.
func Latency(ms float64) *float64 {
	return &ms
}
