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

package signalsfx

import (
	"context"
	"log/slog"

	"github.com/evalsuite/batchmeter/server/definitions"
	"github.com/evalsuite/batchmeter/server/log/level"
	"github.com/evalsuite/batchmeter/server/registry"
	"github.com/evalsuite/batchmeter/server/stats"
)

// RunStateDumper logs the state of every tracked run on demand.
type RunStateDumper struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// NewRunStateDumper constructs the StateDumper backed by the run registry.
func NewRunStateDumper(reg *registry.Registry, logger *slog.Logger) StateDumper {
	return &RunStateDumper{registry: reg, logger: logger}
}

// Dump writes one log line per run plus the process statistics.
func (d *RunStateDumper) Dump(_ context.Context) {
	stats.PrintStats()

	if d.registry == nil {
		return
	}

	for _, run := range d.registry.List() {
		level.Info(d.logger).Log(
			definitions.LogKeyMsg, "Run state",
			definitions.LogKeyGUID, run.GUID,
			"state", run.State,
			"total_items", run.TotalItems,
			"started_at", run.StartedAt,
		)
	}
}
