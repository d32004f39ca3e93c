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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeDerivesRates(t *testing.T) {
	recorder := NewRecorder()

	recorder.RecordLatency(100)
	recorder.RecordLatency(200)

	metrics := recorder.Finalize(100, 90)

	assert.NotNil(t, metrics.EndTime)
	assert.Greater(t, metrics.DurationMs, float64(0))
	assert.InDelta(t, 10, metrics.ErrorRate, 0.001)
	assert.InDelta(t, 150, metrics.AverageResponseTimeMs, 0.001)
	assert.Greater(t, metrics.Throughput, float64(0))
}

func TestFinalizeZeroTotals(t *testing.T) {
	recorder := NewRecorder()

	metrics := recorder.Finalize(0, 0)

	assert.Zero(t, metrics.Throughput)
	assert.Zero(t, metrics.ErrorRate)
	assert.Zero(t, metrics.AverageResponseTimeMs)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	recorder := NewRecorder()

	recorder.RecordLatency(10)
	recorder.RecordLatency(30)

	// Pin the end instant so both calls compute over the exact same data.
	endTime := time.Now()

	recorder.mu.Lock()

	first := recorder.finalizeLocked(endTime, 50, 45)
	second := recorder.finalizeLocked(endTime, 50, 45)

	recorder.mu.Unlock()

	assert.Equal(t, first.Throughput, second.Throughput)
	assert.Equal(t, first.ErrorRate, second.ErrorRate)
	assert.Equal(t, first.AverageResponseTimeMs, second.AverageResponseTimeMs)
	assert.Equal(t, first.DurationMs, second.DurationMs)
}

func TestDetailedReportEmptyRun(t *testing.T) {
	recorder := NewRecorder()

	var report *DetailedReport

	assert.NotPanics(t, func() {
		report = recorder.DetailedReport(0)
	})

	require.NotNil(t, report)

	assert.Zero(t, report.Summary.Throughput)
	assert.Zero(t, report.Summary.ErrorRate)
	assert.Zero(t, report.Summary.AverageResponseTimeMs)

	assert.Nil(t, report.Batches.Fastest)
	assert.Nil(t, report.Batches.Slowest)
	assert.Nil(t, report.Batches.MostEfficient)
	assert.Zero(t, report.Batches.AverageBatchTimeMs)

	assert.Zero(t, report.Timing.MedianMs)
	assert.Zero(t, report.Timing.Percentile95Ms)
	assert.Zero(t, report.Timing.FastestMs)
	assert.Zero(t, report.Timing.SlowestMs)
	assert.Zero(t, report.Timing.StandardDeviationMs)
}

func TestDetailedReportConflatesSuccesses(t *testing.T) {
	recorder := NewRecorder()

	recorder.StartBatch(1, 4)
	recorder.EndBatch(1, []ItemOutcome{
		{Succeeded: true, ProcessingTimeMs: Latency(10)},
		{},
	})

	// The one-argument path treats every item as successful, so the error
	// rate is always zero here no matter what was recorded.
	report := recorder.DetailedReport(4)

	assert.Zero(t, report.Summary.ErrorRate)

	corrected := recorder.DetailedReportWithSuccesses(4, 3)

	assert.InDelta(t, 25, corrected.Summary.ErrorRate, 0.001)
}

func TestDetailedReportRemainsQueryable(t *testing.T) {
	recorder := NewRecorder()

	recorder.StartBatch(1, 1)
	recorder.EndBatch(1, []ItemOutcome{{Succeeded: true, ProcessingTimeMs: Latency(5)}})

	first := recorder.DetailedReport(1)

	// A finalized run still accepts events and recomputes on the next report.
	recorder.RecordLatency(25)

	second := recorder.DetailedReport(2)

	assert.Len(t, recorder.Snapshot().Latencies, 2)
	assert.InDelta(t, 5, first.Summary.AverageResponseTimeMs, 0.001)
	assert.InDelta(t, 15, second.Summary.AverageResponseTimeMs, 0.001)
}

func TestAnalyzeBatchesRankings(t *testing.T) {
	end := func(start time.Time, durationMs float64) *time.Time {
		endTime := start.Add(time.Duration(durationMs * float64(time.Millisecond)))

		return &endTime
	}

	start := time.Now()

	batches := []BatchRecord{
		{BatchNumber: 1, StartTime: start, EndTime: end(start, 100), DurationMs: 100, SuccessCount: 5},
		{BatchNumber: 2, StartTime: start, EndTime: end(start, 50), DurationMs: 50, SuccessCount: 1},
		{BatchNumber: 3, StartTime: start, EndTime: end(start, 200), DurationMs: 200, SuccessCount: 20},
		{BatchNumber: 4, StartTime: start}, // still open, ignored
	}

	analysis := analyzeBatches(batches)

	require.NotNil(t, analysis.Fastest)
	require.NotNil(t, analysis.Slowest)
	require.NotNil(t, analysis.MostEfficient)

	assert.Equal(t, 2, analysis.Fastest.BatchNumber)
	assert.Equal(t, 3, analysis.Slowest.BatchNumber)
	assert.Equal(t, 3, analysis.MostEfficient.BatchNumber)
	assert.InDelta(t, 117, analysis.AverageBatchTimeMs, 0.001)
}

func TestAnalyzeBatchesTiesFirstEncounteredWins(t *testing.T) {
	start := time.Now()
	endTime := start.Add(80 * time.Millisecond)

	batches := []BatchRecord{
		{BatchNumber: 1, StartTime: start, EndTime: &endTime, DurationMs: 80, SuccessCount: 4},
		{BatchNumber: 2, StartTime: start, EndTime: &endTime, DurationMs: 80, SuccessCount: 4},
	}

	analysis := analyzeBatches(batches)

	assert.Equal(t, 1, analysis.Fastest.BatchNumber)
	assert.Equal(t, 1, analysis.Slowest.BatchNumber)
	assert.Equal(t, 1, analysis.MostEfficient.BatchNumber)
}

func TestAnalyzeTiming(t *testing.T) {
	tests := []struct {
		name      string
		latencies []float64
		want      TimingAnalysis
	}{
		{
			name:      "empty series is all zero",
			latencies: nil,
			want:      TimingAnalysis{},
		},
		{
			name:      "single element has zero deviation",
			latencies: []float64{42},
			want: TimingAnalysis{
				MedianMs:            42,
				Percentile95Ms:      42,
				FastestMs:           42,
				SlowestMs:           42,
				StandardDeviationMs: 0,
			},
		},
		{
			name:      "even length takes the upper median",
			latencies: []float64{10, 20, 30, 40},
			want: TimingAnalysis{
				MedianMs:            30,
				Percentile95Ms:      40,
				FastestMs:           10,
				SlowestMs:           40,
				StandardDeviationMs: 11.18,
			},
		},
		{
			name:      "unsorted input is sorted first",
			latencies: []float64{30, 10, 20},
			want: TimingAnalysis{
				MedianMs:            20,
				Percentile95Ms:      30,
				FastestMs:           10,
				SlowestMs:           30,
				StandardDeviationMs: 8.16,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyzeTiming(tt.latencies))
		})
	}
}

func TestAnalyzeTimingPercentileNeverBelowMedian(t *testing.T) {
	series := make([]float64, 0, 100)

	for i := range 100 {
		series = append(series, float64(i))
	}

	for n := 1; n <= len(series); n++ {
		timing := analyzeTiming(series[:n])

		assert.GreaterOrEqual(t, timing.Percentile95Ms, timing.MedianMs, "series length %d", n)
	}
}

func TestPopulationStdDev(t *testing.T) {
	assert.Zero(t, populationStdDev([]float64{7}))
	assert.InDelta(t, 2, populationStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.0001)
}

func TestRoundTwoDecimals(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.236, 1.24},
		{1.234, 1.23},
		{-1.236, -1.24},
		{0, 0},
		{99.999, 100},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, roundTwoDecimals(tt.in), 0.0000001)
	}
}
