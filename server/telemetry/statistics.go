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
	"math"
	"sort"
	"time"

	"github.com/evalsuite/batchmeter/server/objpool"
	"github.com/evalsuite/batchmeter/server/util"
)

// Finalize derives the run-level figures from the recorded data and writes
// them into the run metrics: duration against now, throughput in items per
// second, error rate in percent and the mean recorded latency. The memory
// sample is best-effort host introspection and stays nil when the host does
// not provide it. Finalize may be called more than once; repeated calls with
// identical arguments and no intervening recorded events yield identical
// results. A finalized run stays queryable, Snapshot and further reports
// simply recompute against current data.
func (r *Recorder) Finalize(totalItems int, successfulItems int) RunMetrics {
	endTime := time.Now()

	r.mu.Lock()

	defer r.mu.Unlock()

	return r.finalizeLocked(endTime, totalItems, successfulItems)
}

func (r *Recorder) finalizeLocked(endTime time.Time, totalItems int, successfulItems int) RunMetrics {
	r.metrics.EndTime = &endTime
	r.metrics.DurationMs = util.DurationToMs(endTime.Sub(r.metrics.StartTime))

	if totalItems > 0 && r.metrics.DurationMs > 0 {
		r.metrics.Throughput = roundTwoDecimals(float64(totalItems) / r.metrics.DurationMs * 1000)
	} else {
		r.metrics.Throughput = 0
	}

	if totalItems > 0 {
		r.metrics.ErrorRate = roundTwoDecimals(float64(totalItems-successfulItems) / float64(totalItems) * 100)
	} else {
		r.metrics.ErrorRate = 0
	}

	if len(r.latencies) > 0 {
		r.metrics.AverageResponseTimeMs = roundTwoDecimals(mean(r.latencies))
	} else {
		r.metrics.AverageResponseTimeMs = 0
	}

	r.metrics.MemorySample = readMemorySample()

	metrics := r.metrics

	if r.metrics.MemorySample != nil {
		sample := *r.metrics.MemorySample
		metrics.MemorySample = &sample
	}

	return metrics
}

// DetailedReport finalizes the run and adds batch rankings and latency
// distribution statistics. The report request itself is the finalize
// trigger: totalItems is used both as the total and as the successful count,
// so the summary error rate is always zero on this path. That conflation is
// inherited source behavior and deliberately kept; callers that know their
// real success count use DetailedReportWithSuccesses instead.
func (r *Recorder) DetailedReport(totalItems int) *DetailedReport {
	return r.DetailedReportWithSuccesses(totalItems, totalItems)
}

// DetailedReportWithSuccesses is the corrected two-argument variant of
// DetailedReport: the summary is finalized with the caller's separate
// success count. Everything else is identical.
func (r *Recorder) DetailedReportWithSuccesses(totalItems int, successfulItems int) *DetailedReport {
	endTime := time.Now()

	r.mu.Lock()

	defer r.mu.Unlock()

	return &DetailedReport{
		Summary: r.finalizeLocked(endTime, totalItems, successfulItems),
		Batches: analyzeBatches(r.batches),
		Timing:  analyzeTiming(r.latencies),
	}
}

// analyzeBatches ranks the batches that have a recorded end: minimum
// duration ("fastest"), maximum duration ("slowest") and maximum
// successes-per-millisecond ("most efficient"). Ties go to the first batch
// encountered. With no completed batch the pointers are nil and the average
// is 0.
func analyzeBatches(batches []BatchRecord) BatchAnalysis {
	var analysis BatchAnalysis

	var durationSum float64

	var completed int

	var bestRatio float64

	for i := range batches {
		record := batches[i]
		if !record.Completed() {
			continue
		}

		completed++
		durationSum += record.DurationMs

		if analysis.Fastest == nil || record.DurationMs < analysis.Fastest.DurationMs {
			fastest := record
			analysis.Fastest = &fastest
		}

		if analysis.Slowest == nil || record.DurationMs > analysis.Slowest.DurationMs {
			slowest := record
			analysis.Slowest = &slowest
		}

		var ratio float64
		if record.DurationMs > 0 {
			ratio = float64(record.SuccessCount) / record.DurationMs
		}

		if analysis.MostEfficient == nil || ratio > bestRatio {
			efficient := record
			analysis.MostEfficient = &efficient
			bestRatio = ratio
		}
	}

	if completed > 0 {
		analysis.AverageBatchTimeMs = math.Round(durationSum / float64(completed))
	}

	return analysis
}

// analyzeTiming summarizes the latency distribution. The median is the value
// at index floor(n/2) of the sorted series, the upper median for even n.
// That index convention comes from the source and is kept as-is. The 95th
// percentile uses index floor(n*0.95); the standard deviation is the
// population form (divide by n). Every field is 0 for an empty series.
func analyzeTiming(latencies []float64) TimingAnalysis {
	if len(latencies) == 0 {
		return TimingAnalysis{}
	}

	scratch := scratchPool.Get().(*sortScratch)

	defer scratchPool.Put(scratch)

	scratch.values = append(scratch.values, latencies...)

	sort.Float64s(scratch.values)

	sorted := scratch.values
	n := len(sorted)

	return TimingAnalysis{
		MedianMs:            sorted[n/2],
		Percentile95Ms:      sorted[min(int(float64(n)*0.95), n-1)],
		FastestMs:           sorted[0],
		SlowestMs:           sorted[n-1],
		StandardDeviationMs: roundTwoDecimals(populationStdDev(sorted)),
	}
}

// mean returns the arithmetic mean of a non-empty series.
func mean(values []float64) float64 {
	var sum float64

	for _, value := range values {
		sum += value
	}

	return sum / float64(len(values))
}

// populationStdDev divides by n, not n-1. A single-element series therefore
// has a standard deviation of exactly 0.
func populationStdDev(values []float64) float64 {
	avg := mean(values)

	var sum float64

	for _, value := range values {
		diff := value - avg
		sum += diff * diff
	}

	return math.Sqrt(sum / float64(len(values)))
}

// roundTwoDecimals rounds half away from zero at two decimal places.
func roundTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// sortScratch is a pooled buffer for the sorted copy of the latency series,
// so frequent report and snapshot statistics do not allocate a fresh slice
// each time.
type sortScratch struct {
	values []float64
}

// Reset implements objpool.Resettable.
func (s *sortScratch) Reset() {
	s.values = s.values[:0]
}

var scratchPool = objpool.NewPool(func() any {
	return &sortScratch{}
})
