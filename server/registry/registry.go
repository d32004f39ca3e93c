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

// Package registry keeps track of processing runs. Active runs live in a
// mutex-guarded map for as long as their pipeline works; completed runs move
// into a TTL cache so reports stay queryable for a while and then age out.
package registry

import (
	"sync"
	"time"

	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/definitions"
	"github.com/evalsuite/batchmeter/server/errors"
	"github.com/evalsuite/batchmeter/server/telemetry"
	"github.com/patrickmn/go-cache"
	"github.com/segmentio/ksuid"
)

// Run is one tracked processing run. The recorder is shared with the
// pipeline workers; everything else is bookkeeping for the API surface.
type Run struct {
	GUID       string                    `json:"run_id"`
	State      string                    `json:"state"`
	StartedAt  time.Time                 `json:"started_at"`
	TotalItems int                       `json:"total_items"`
	BatchSize  int                       `json:"batch_size"`
	Recorder   *telemetry.Recorder       `json:"-"`
	Report     *telemetry.DetailedReport `json:"report,omitempty"`
}

// Registry tracks active and completed runs of this process.
type Registry struct {
	mu      sync.RWMutex
	active  map[string]*Run
	reports *cache.Cache
}

// NewRegistry creates a registry whose completed reports expire after the
// configured TTL.
func NewRegistry(cfg *config.File) *Registry {
	ttl := cfg.GetTelemetry().GetReportTTL()

	return &Registry{
		active:  make(map[string]*Run),
		reports: cache.New(ttl, 2*ttl),
	}
}

// StartRun mints a GUID, creates the run's recorder and tracks the run as
// active.
func (r *Registry) StartRun(totalItems int, batchSize int) *Run {
	run := &Run{
		GUID:       ksuid.New().String(),
		State:      definitions.RunStateRunningName,
		StartedAt:  time.Now(),
		TotalItems: totalItems,
		BatchSize:  batchSize,
		Recorder:   telemetry.NewRecorder(),
	}

	r.mu.Lock()

	defer r.mu.Unlock()

	r.active[run.GUID] = run

	return run
}

// Get returns the run with the given GUID, active or completed.
func (r *Registry) Get(guid string) (*Run, bool) {
	r.mu.RLock()

	run, ok := r.active[guid]

	r.mu.RUnlock()

	if ok {
		return run, true
	}

	if entry, found := r.reports.Get(guid); found {
		if run, ok := entry.(*Run); ok {
			return run, true
		}
	}

	return nil, false
}

// Complete moves a run from the active map into the report cache. The
// pipeline calls it exactly once per run with the final state and the
// detailed report (nil when the run failed before producing one).
//
// The active *Run has escaped to concurrent readers through Get and List, so
// it is never mutated here; the cache receives a completed copy instead.
// Holders of the old pointer keep seeing the running state until they fetch
// the run again.
func (r *Registry) Complete(guid string, state string, report *telemetry.DetailedReport) {
	r.mu.Lock()

	run, ok := r.active[guid]
	if ok {
		delete(r.active, guid)
	}

	r.mu.Unlock()

	if !ok {
		return
	}

	completed := *run
	completed.State = state
	completed.Report = report

	r.reports.SetDefault(guid, &completed)
}

// List returns all known runs, active first, then completed in cache order.
func (r *Registry) List() []*Run {
	r.mu.RLock()

	runs := make([]*Run, 0, len(r.active))

	for _, run := range r.active {
		runs = append(runs, run)
	}

	r.mu.RUnlock()

	for _, item := range r.reports.Items() {
		if run, ok := item.Object.(*Run); ok {
			runs = append(runs, run)
		}
	}

	return runs
}

// EvictReport removes a completed run. An active run cannot be evicted; an
// unknown GUID reports not-found.
func (r *Registry) EvictReport(guid string) error {
	r.mu.RLock()

	_, isActive := r.active[guid]

	r.mu.RUnlock()

	if isActive {
		return errors.ErrRunStillActive
	}

	if _, found := r.reports.Get(guid); !found {
		return errors.ErrRunNotFound
	}

	r.reports.Delete(guid)

	return nil
}

// ActiveCount returns the number of runs currently in flight.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()

	defer r.mu.RUnlock()

	return len(r.active)
}
