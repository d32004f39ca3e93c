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

package definitions

const (
	// LogKeyGUID represents the request or run correlation identifier used in log entries.
	LogKeyGUID = "session"

	// LogKeyMsg represents the message content in log entries.
	LogKeyMsg = "msg"

	// LogKeyError represents error information in log entries.
	LogKeyError = "error"

	// LogKeyErrorDetails represents additional error details in log entries.
	LogKeyErrorDetails = "error_details"

	// LogKeyWarning represents warning information in log entries.
	LogKeyWarning = "warn"

	// LogKeyInstance represents instance identification in log entries.
	LogKeyInstance = "instance"

	// LogKeyClientIP represents the IP address of the client.
	LogKeyClientIP = "client_ip"

	// LogKeyMethod represents the HTTP method for request logging.
	LogKeyMethod = "http_method"

	// LogKeyProtocol represents the protocol version used by a request.
	LogKeyProtocol = "protocol"

	// LogKeyHTTPStatus represents the HTTP status code for logging.
	LogKeyHTTPStatus = "http_status"

	// LogKeyLatency represents the latency of an operation for performance logging.
	LogKeyLatency = "latency"

	// LogKeyUserAgent represents the user-agent string of the client.
	LogKeyUserAgent = "user_agent"

	// LogKeyUriPath represents the URI path of a request.
	LogKeyUriPath = "uri_path"

	// LogKeyRun represents the run identifier a log entry belongs to.
	LogKeyRun = "run"

	// LogKeyBatch represents the batch number a log entry belongs to.
	LogKeyBatch = "batch"

	// LogKeyItems represents an item count in log entries.
	LogKeyItems = "items"

	// LogKeyOutcome represents the classification of a processed item.
	LogKeyOutcome = "outcome"

	// LogKeyMode represents an operating mode, e.g. the selected assessor.
	LogKeyMode = "mode"
)

const (
	// NotAvailable is used where a value is not present.
	NotAvailable = "N/A"

	// InstanceName is the default name of the server instance.
	InstanceName = "batchmeter"

	// Localhost is the hostname for the local machine.
	Localhost = "localhost"

	// Localhost4 is a shorthand for the IPv4 localhost address.
	Localhost4 = "127.0.0.1"

	// HTTPAddress is the default listen address of the HTTP server.
	HTTPAddress = "127.0.0.1:8080"

	// APIPrefix is the URL prefix of the run management API.
	APIPrefix = "/api/v1"
)

const (
	// CtxGUIDKey is used as a key to store the request's unique identifier in the gin context.
	CtxGUIDKey = "guid"

	// CtxRunKey is used as a key to store the run identifier a request resolved to.
	CtxRunKey = "run"
)

const (
	// DefaultBatchSize is the number of items grouped into one batch when the caller does not choose one.
	DefaultBatchSize = 10

	// DefaultConcurrentBatches is the number of batches processed in flight at once.
	DefaultConcurrentBatches = 2

	// DefaultWorkers is the per-batch item concurrency.
	DefaultWorkers = 8

	// MaxWorkers caps the per-batch item concurrency a run request may ask for.
	MaxWorkers = 64

	// MaxBatchSize caps the batch size a run request may ask for.
	MaxBatchSize = 1000
)

const (
	// PrometheusNamespace is the metric namespace of this service.
	PrometheusNamespace = "batchmeter"

	// PromRequest is the service label of HTTP request duration summaries.
	PromRequest = "request"

	// PromPipeline is the service label of pipeline duration summaries.
	PromPipeline = "pipeline"

	// PromAssessor is the service label of assessor duration summaries.
	PromAssessor = "assessor"
)

// Log keys of the periodic runtime statistics printer.
const (
	LogKeyStatsAlloc        = "alloc"
	LogKeyStatsHeapAlloc    = "heap_alloc"
	LogKeyStatsHeapInUse    = "heap_in_use"
	LogKeyStatsHeapIdle     = "heap_idle"
	LogKeyStatsHeapSys      = "heap_sys"
	LogKeyStatsHeapReleased = "heap_released"
	LogKeyStatsMallocs      = "mallocs"
	LogKeyStatsFrees        = "frees"
	LogKeyStatsStackInUse   = "stack_in_use"
	LogKeyStatsStackSys     = "stack_sys"
	LogKeyStatsGCSys        = "gc_sys"
	LogKeyStatsNumGC        = "num_gc"
	LogKeyStatsSys          = "sys"
	LogKeyStatsTotalAlloc   = "total_alloc"
)
