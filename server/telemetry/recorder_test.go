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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndBatchClassifiesOutcomes(t *testing.T) {
	recorder := NewRecorder()

	recorder.StartBatch(1, 10)
	recorder.EndBatch(1, []ItemOutcome{
		{Succeeded: true, ProcessingTimeMs: Latency(100)},
		{TimedOut: true},
	})

	snapshot := recorder.Snapshot()

	require.Len(t, snapshot.Batches, 1)

	record := snapshot.Batches[0]

	assert.Equal(t, 1, record.BatchNumber)
	assert.Equal(t, 10, record.BatchSize)
	assert.Equal(t, 1, record.SuccessCount)
	assert.Equal(t, 0, record.ErrorCount)
	assert.Equal(t, 1, record.TimeoutCount)
	assert.InDelta(t, 100, record.AverageProcessingTimeMs, 0.001)
	assert.NotNil(t, record.EndTime)
	assert.Equal(t, []float64{100}, snapshot.Latencies)
}

func TestEndBatchOutcomeClassification(t *testing.T) {
	tests := []struct {
		name          string
		outcomes      []ItemOutcome
		wantSuccesses int
		wantErrors    int
		wantTimeouts  int
		wantAverage   float64
	}{
		{
			name:          "empty outcome list",
			outcomes:      []ItemOutcome{},
			wantSuccesses: 0,
			wantErrors:    0,
			wantTimeouts:  0,
			wantAverage:   0,
		},
		{
			name: "neither flag counts as error",
			outcomes: []ItemOutcome{
				{},
				{},
			},
			wantSuccesses: 0,
			wantErrors:    2,
			wantTimeouts:  0,
			wantAverage:   0,
		},
		{
			name: "mean over latency carrying outcomes only",
			outcomes: []ItemOutcome{
				{Succeeded: true, ProcessingTimeMs: Latency(50)},
				{Succeeded: true},
				{Succeeded: true, ProcessingTimeMs: Latency(150)},
			},
			wantSuccesses: 3,
			wantErrors:    0,
			wantTimeouts:  0,
			wantAverage:   100,
		},
		{
			name: "more outcomes than declared size",
			outcomes: []ItemOutcome{
				{Succeeded: true},
				{TimedOut: true},
				{},
				{Succeeded: true},
			},
			wantSuccesses: 2,
			wantErrors:    1,
			wantTimeouts:  1,
			wantAverage:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := NewRecorder()

			recorder.StartBatch(7, 3)
			recorder.EndBatch(7, tt.outcomes)

			record := recorder.Snapshot().Batches[0]

			assert.Equal(t, tt.wantSuccesses, record.SuccessCount)
			assert.Equal(t, tt.wantErrors, record.ErrorCount)
			assert.Equal(t, tt.wantTimeouts, record.TimeoutCount)
			assert.InDelta(t, tt.wantAverage, record.AverageProcessingTimeMs, 0.001)
			assert.Equal(t, tt.wantSuccesses+tt.wantErrors+tt.wantTimeouts,
				record.SuccessCount+record.ErrorCount+record.TimeoutCount)
		})
	}
}

func TestEndBatchUnknownNumberIsNoOp(t *testing.T) {
	recorder := NewRecorder()

	recorder.StartBatch(1, 5)
	recorder.EndBatch(1, []ItemOutcome{{Succeeded: true, ProcessingTimeMs: Latency(42)}})

	before := recorder.Snapshot()

	assert.NotPanics(t, func() {
		recorder.EndBatch(99, []ItemOutcome{{Succeeded: true, ProcessingTimeMs: Latency(1)}})
	})

	after := recorder.Snapshot()

	assert.Equal(t, before.Batches, after.Batches)
	assert.Equal(t, before.Latencies, after.Latencies)
}

func TestEndBatchRepeatedCallIsNoOp(t *testing.T) {
	recorder := NewRecorder()

	recorder.StartBatch(1, 2)
	recorder.EndBatch(1, []ItemOutcome{
		{Succeeded: true, ProcessingTimeMs: Latency(100)},
		{ProcessingTimeMs: Latency(200)},
	})

	before := recorder.Snapshot()

	// An ended batch stays as recorded; a repeated end must not double the
	// counters or re-append its latencies.
	recorder.EndBatch(1, []ItemOutcome{{Succeeded: true, ProcessingTimeMs: Latency(1)}})

	after := recorder.Snapshot()

	assert.Equal(t, before.Batches, after.Batches)
	assert.Equal(t, before.Latencies, after.Latencies)
	assert.Equal(t, 1, after.Batches[0].SuccessCount)
	assert.Len(t, after.Latencies, 2)
}

func TestStartBatchDuplicateNumbersShadow(t *testing.T) {
	recorder := NewRecorder()

	recorder.StartBatch(3, 2)
	recorder.StartBatch(3, 8)

	recorder.EndBatch(3, []ItemOutcome{{Succeeded: true}})

	snapshot := recorder.Snapshot()

	require.Len(t, snapshot.Batches, 2)

	// The first record wins; the duplicate stays permanently open.
	assert.NotNil(t, snapshot.Batches[0].EndTime)
	assert.Equal(t, 1, snapshot.Batches[0].SuccessCount)
	assert.Nil(t, snapshot.Batches[1].EndTime)
	assert.Equal(t, 0, snapshot.Batches[1].SuccessCount)
}

func TestRecordLatencyBypassesBatches(t *testing.T) {
	recorder := NewRecorder()

	recorder.RecordLatency(12.5)
	recorder.RecordLatency(7.25)

	snapshot := recorder.Snapshot()

	assert.Empty(t, snapshot.Batches)
	assert.Equal(t, []float64{12.5, 7.25}, snapshot.Latencies)
}

func TestSnapshotIsConsistentAndRepeatable(t *testing.T) {
	recorder := NewRecorder()

	recorder.StartBatch(1, 2)
	recorder.EndBatch(1, []ItemOutcome{
		{Succeeded: true, ProcessingTimeMs: Latency(10)},
		{Succeeded: true, ProcessingTimeMs: Latency(20)},
	})

	first := recorder.Snapshot()
	second := recorder.Snapshot()

	assert.Equal(t, first.Batches, second.Batches)
	assert.Equal(t, first.Latencies, second.Latencies)
	assert.GreaterOrEqual(t, second.Metrics.DurationMs, first.Metrics.DurationMs)
}

func TestSnapshotSharesNoMemoryWithRecorder(t *testing.T) {
	recorder := NewRecorder()

	recorder.StartBatch(1, 1)

	snapshot := recorder.Snapshot()

	snapshot.Batches[0].SuccessCount = 1000
	snapshot.Latencies = append(snapshot.Latencies, 1)

	fresh := recorder.Snapshot()

	assert.Equal(t, 0, fresh.Batches[0].SuccessCount)
	assert.Empty(t, fresh.Latencies)
}

func TestConcurrentBatchesAreAllRecorded(t *testing.T) {
	const batchCount = 64

	recorder := NewRecorder()

	var wg sync.WaitGroup

	for batchNumber := range batchCount {
		wg.Add(1)

		go func() {
			defer wg.Done()

			recorder.StartBatch(batchNumber, 2)
			recorder.EndBatch(batchNumber, []ItemOutcome{
				{Succeeded: true, ProcessingTimeMs: Latency(float64(batchNumber))},
				{TimedOut: true},
			})
		}()
	}

	wg.Wait()

	snapshot := recorder.Snapshot()

	require.Len(t, snapshot.Batches, batchCount)
	require.Len(t, snapshot.Latencies, batchCount)

	seen := make(map[int]bool, batchCount)

	for _, record := range snapshot.Batches {
		assert.NotNil(t, record.EndTime)
		assert.Equal(t, 1, record.SuccessCount)
		assert.Equal(t, 1, record.TimeoutCount)

		seen[record.BatchNumber] = true
	}

	assert.Len(t, seen, batchCount)
}

func TestConcurrentLatenciesAndSnapshots(t *testing.T) {
	const writers = 8

	const perWriter = 100

	recorder := NewRecorder()

	var wg sync.WaitGroup

	for range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range perWriter {
				recorder.RecordLatency(float64(i))
			}
		}()
	}

	// Readers run alongside the writers; every observed state must be a
	// complete copy.
	for range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 50 {
				snapshot := recorder.Snapshot()

				assert.LessOrEqual(t, len(snapshot.Latencies), writers*perWriter)
			}
		}()
	}

	wg.Wait()

	assert.Len(t, recorder.Snapshot().Latencies, writers*perWriter)
}
