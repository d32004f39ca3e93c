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

/*
Batchmeter is a telemetry service for concurrent batch assessment runs. It
drives configurable batches of items through an assessment backend, records
per-item outcomes and latencies while the run is in flight, and derives
throughput, latency distribution and per-batch statistics once a run is
finalized. Runs are managed over an HTTP API and live metrics are exported
for prometheus.
*/

package main
