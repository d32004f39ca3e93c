package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RunSummary mirrors one run entry of the server's run list.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	State      string    `json:"state"`
	StartedAt  time.Time `json:"started_at"`
	TotalItems int       `json:"total_items"`
	BatchSize  int       `json:"batch_size"`
	Report     *Report   `json:"report,omitempty"`
}

// RunMetrics mirrors the server's run-level figures.
type RunMetrics struct {
	StartTime             time.Time     `json:"start_time"`
	EndTime               *time.Time    `json:"end_time,omitempty"`
	DurationMs            float64       `json:"duration_ms"`
	Throughput            float64       `json:"throughput"`
	ErrorRate             float64       `json:"error_rate"`
	AverageResponseTimeMs float64       `json:"average_response_time_ms"`
	MemorySample          *MemorySample `json:"memory_sample,omitempty"`
}

// MemorySample mirrors the server's memory usage sample.
type MemorySample struct {
	UsedBytes   uint64  `json:"used_bytes"`
	TotalBytes  uint64  `json:"total_bytes"`
	UsedPercent float64 `json:"used_percent"`
}

// BatchRecord mirrors the per-batch record of a run.
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

// Snapshot mirrors the live view of an in-flight run.
type Snapshot struct {
	Metrics   RunMetrics    `json:"metrics"`
	Batches   []BatchRecord `json:"batch_records"`
	Latencies []float64     `json:"latency_series"`
}

// BatchAnalysis mirrors the batch ranking section of a report.
type BatchAnalysis struct {
	Fastest            *BatchRecord `json:"fastest,omitempty"`
	Slowest            *BatchRecord `json:"slowest,omitempty"`
	MostEfficient      *BatchRecord `json:"most_efficient,omitempty"`
	AverageBatchTimeMs float64      `json:"average_batch_time_ms"`
}

// TimingAnalysis mirrors the latency distribution section of a report.
type TimingAnalysis struct {
	MedianMs            float64 `json:"median_ms"`
	Percentile95Ms      float64 `json:"percentile_95_ms"`
	FastestMs           float64 `json:"fastest_ms"`
	SlowestMs           float64 `json:"slowest_ms"`
	StandardDeviationMs float64 `json:"standard_deviation_ms"`
}

// Report mirrors the server's final run report.
type Report struct {
	Summary RunMetrics     `json:"summary"`
	Batches BatchAnalysis  `json:"batch_analysis"`
	Timing  TimingAnalysis `json:"timing_analysis"`
}

type runListResponse struct {
	Runs []RunSummary `json:"runs"`
}

// MonitorClient talks to the run management API.
type MonitorClient struct {
	config     *Config
	httpClient *http.Client
}

func NewMonitorClient(cfg *Config) *MonitorClient {
	return &MonitorClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		},
	}
}

func (c *MonitorClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return err
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	return json.Unmarshal(body, out)
}

// ListRuns fetches all tracked runs.
func (c *MonitorClient) ListRuns(ctx context.Context) ([]RunSummary, error) {
	var list runListResponse

	if err := c.getJSON(ctx, "/api/v1/runs", &list); err != nil {
		return nil, err
	}

	return list.Runs, nil
}

// GetRun fetches one run.
func (c *MonitorClient) GetRun(ctx context.Context, runID string) (*RunSummary, error) {
	run := &RunSummary{}

	if err := c.getJSON(ctx, "/api/v1/runs/"+url.PathEscape(runID), run); err != nil {
		return nil, err
	}

	return run, nil
}

// GetSnapshot fetches the live snapshot of a run.
func (c *MonitorClient) GetSnapshot(ctx context.Context, runID string) (*Snapshot, error) {
	snapshot := &Snapshot{}

	if err := c.getJSON(ctx, "/api/v1/runs/"+url.PathEscape(runID)+"/snapshot", snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// GetReport fetches the detailed report of a run. A non-negative
// successfulItems selects the corrected success accounting.
func (c *MonitorClient) GetReport(ctx context.Context, runID string, successfulItems int) (*Report, error) {
	path := "/api/v1/runs/" + url.PathEscape(runID) + "/report"
	if successfulItems >= 0 {
		path += "?successful_items=" + strconv.Itoa(successfulItems)
	}

	report := &Report{}

	if err := c.getJSON(ctx, path, report); err != nil {
		return nil, err
	}

	return report, nil
}
