package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.Handler) (*MonitorClient, *httptest.Server) {
	server := httptest.NewServer(handler)

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL

	return NewMonitorClient(cfg), server
}

func TestListRuns(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/runs" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"runs":[{"run_id":"abc","state":"running","total_items":42,"batch_size":10}]}`))
	}))
	defer server.Close()

	runs, err := client.ListRuns(context.Background())
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}

	if len(runs) != 1 || runs[0].RunID != "abc" || runs[0].TotalItems != 42 {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestGetSnapshot(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/runs/abc/snapshot" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"metrics":{"duration_ms":125.5,"error_rate":20},"batch_records":[{"batch_number":1}],"latency_series":[10.5,20.25]}`))
	}))
	defer server.Close()

	snapshot, err := client.GetSnapshot(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}

	if snapshot.Metrics.ErrorRate != 20 || len(snapshot.Batches) != 1 || len(snapshot.Latencies) != 2 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestGetReportSelectsCorrectedAccounting(t *testing.T) {
	var gotQuery string

	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"summary":{"throughput":9.5}}`))
	}))
	defer server.Close()

	report, err := client.GetReport(context.Background(), "abc", 7)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}

	if gotQuery != "successful_items=7" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}

	if report.Summary.Throughput != 9.5 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestGetRunNon200Fails(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"run not found"}`))
	}))
	defer server.Close()

	if _, err := client.GetRun(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
