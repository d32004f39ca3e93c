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

// Package stats owns the prometheus instrumentation of the service and the
// periodic runtime statistics printer.
package stats

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/definitions"
	"github.com/evalsuite/batchmeter/server/log"
	"github.com/evalsuite/batchmeter/server/log/level"
	"github.com/evalsuite/batchmeter/server/util"
	"github.com/mackerelio/go-osstat/cpu"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every prometheus collector of the service. Collectors are
// reached through getters so call sites never touch a nil field when a test
// replaces the instance.
type Metrics struct {
	runsStarted             prometheus.Counter
	runsCompleted           *prometheus.CounterVec
	activeRuns              prometheus.Gauge
	itemsProcessed          *prometheus.CounterVec
	itemProcessingSeconds   prometheus.Histogram
	batchDurationSeconds    prometheus.Histogram
	httpRequestsTotal       *prometheus.CounterVec
	httpResponseTimeSeconds *prometheus.HistogramVec
	functionDuration        *prometheus.SummaryVec
}

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
)

// GetMetrics returns the process-wide metrics registry, creating it on first
// use.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = newMetrics()
	})

	return metricsInstance
}

func newMetrics() *Metrics {
	return &Metrics{
		runsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: definitions.PrometheusNamespace,
			Name:      "runs_started_total",
			Help:      "Number of processing runs started.",
		}),
		runsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: definitions.PrometheusNamespace,
			Name:      "runs_completed_total",
			Help:      "Number of processing runs finished, by final state.",
		}, []string{"state"}),
		activeRuns: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: definitions.PrometheusNamespace,
			Name:      "active_runs",
			Help:      "Number of processing runs currently in flight.",
		}),
		itemsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: definitions.PrometheusNamespace,
			Name:      "items_processed_total",
			Help:      "Number of processed items, by outcome.",
		}, []string{"outcome"}),
		itemProcessingSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: definitions.PrometheusNamespace,
			Name:      "item_processing_seconds",
			Help:      "Duration of single item assessments.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}),
		batchDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: definitions.PrometheusNamespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of whole batches.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		httpRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests.",
		}, []string{"path"}),
		httpResponseTimeSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name: "http_response_time_seconds",
			Help: "Duration of HTTP requests.",
		}, []string{"path"}),
		functionDuration: promauto.NewSummaryVec(prometheus.SummaryOpts{
			Name: "function_duration_seconds",
			Help: "Time spent in function",
		}, []string{"service", "task"}),
	}
}

// GetRunsStarted returns the counter of started runs.
func (m *Metrics) GetRunsStarted() prometheus.Counter {
	return m.runsStarted
}

// GetRunsCompleted returns the counter of finished runs by final state.
func (m *Metrics) GetRunsCompleted() *prometheus.CounterVec {
	return m.runsCompleted
}

// GetActiveRuns returns the gauge of in-flight runs.
func (m *Metrics) GetActiveRuns() prometheus.Gauge {
	return m.activeRuns
}

// GetItemsProcessed returns the counter of processed items by outcome.
func (m *Metrics) GetItemsProcessed() *prometheus.CounterVec {
	return m.itemsProcessed
}

// GetItemProcessingSeconds returns the per-item latency histogram.
func (m *Metrics) GetItemProcessingSeconds() prometheus.Histogram {
	return m.itemProcessingSeconds
}

// GetBatchDurationSeconds returns the batch duration histogram.
func (m *Metrics) GetBatchDurationSeconds() prometheus.Histogram {
	return m.batchDurationSeconds
}

// GetHttpRequestsTotal returns the HTTP request counter.
func (m *Metrics) GetHttpRequestsTotal() *prometheus.CounterVec {
	return m.httpRequestsTotal
}

// GetHttpResponseTimeSeconds returns the HTTP response time histogram.
func (m *Metrics) GetHttpResponseTimeSeconds() *prometheus.HistogramVec {
	return m.httpResponseTimeSeconds
}

// GetFunctionDuration returns the per-function duration summary.
func (m *Metrics) GetFunctionDuration() *prometheus.SummaryVec {
	return m.functionDuration
}

// PrometheusTimer starts a duration summary observation for the given
// service/task pair and returns the stop function, or nil when the
// prometheus timer is disabled in the configuration.
func PrometheusTimer(cfg *config.File, service string, task string) func() {
	if cfg == nil || !cfg.GetServer().GetPrometheusTimer().IsEnabled() {
		return nil
	}

	timer := prometheus.NewTimer(GetMetrics().GetFunctionDuration().WithLabelValues(service, task))

	return func() {
		timer.ObserveDuration()
	}
}

var (
	cpuUserUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cpu_user_usage_percent",
		Help: "CPU user usage in percent",
	})

	cpuSystemUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cpu_system_usage_percent",
		Help: "CPU system usage in percent",
	})

	cpuIdleUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cpu_idle_usage_percent",
		Help: "CPU idle usage in percent",
	})
)

var oldCpu cpu.Stats

// MeasureCPU continuously measures CPU utilization and exposes it through
// the CPU gauges until the context is canceled. Deltas are computed against
// the previous sample; the very first iteration therefore establishes the
// baseline.
func MeasureCPU(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)

	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			newCpu, err := cpu.Get()
			if err != nil {
				level.Error(log.Logger).Log(definitions.LogKeyError, err)

				return
			}

			total := float64(newCpu.Total - oldCpu.Total)
			if total > 0 {
				setNewStats(&oldCpu, newCpu, total)
			}

			oldCpu = *newCpu
		}
	}
}

// PrintStats logs the current Go runtime memory statistics in humanized
// form.
func PrintStats() {
	var memStats runtime.MemStats

	runtime.ReadMemStats(&memStats)

	level.Info(log.Logger).Log(
		definitions.LogKeyMsg, "Runtime statistics",

		// Heap stats
		definitions.LogKeyStatsHeapAlloc, util.ByteSize(memStats.HeapAlloc),
		definitions.LogKeyStatsHeapInUse, util.ByteSize(memStats.HeapInuse),
		definitions.LogKeyStatsHeapIdle, util.ByteSize(memStats.HeapIdle),
		definitions.LogKeyStatsHeapSys, util.ByteSize(memStats.HeapSys),
		definitions.LogKeyStatsHeapReleased, util.ByteSize(memStats.HeapReleased),
		definitions.LogKeyStatsMallocs, memStats.Mallocs,
		definitions.LogKeyStatsFrees, memStats.Frees,

		// Stack stats
		definitions.LogKeyStatsStackInUse, util.ByteSize(memStats.StackInuse),
		definitions.LogKeyStatsStackSys, util.ByteSize(memStats.StackSys),

		// GC stats
		definitions.LogKeyStatsGCSys, util.ByteSize(memStats.GCSys),
		definitions.LogKeyStatsNumGC, memStats.NumGC,

		// General stats
		definitions.LogKeyStatsAlloc, util.ByteSize(memStats.Alloc),
		definitions.LogKeyStatsSys, util.ByteSize(memStats.Sys),
		definitions.LogKeyStatsTotalAlloc, util.ByteSize(memStats.TotalAlloc),
	)
}
