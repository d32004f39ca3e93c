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

package util

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/definitions"
	"github.com/evalsuite/batchmeter/server/svcctx"
)

// FormatDurationMs formats a time.Duration as milliseconds with a fixed precision.
// The output is always in milliseconds using three fractional digits, e.g., "12.345ms".
// This ensures consistent latency units across logs regardless of the duration magnitude.
func FormatDurationMs(d time.Duration) string {
	ms := float64(d) / float64(time.Millisecond)

	return fmt.Sprintf("%.3fms", ms)
}

// DurationToMs converts a time.Duration to fractional milliseconds.
func DurationToMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// ByteSize formats a given number of bytes into a human-readable string representation.
// If the number is less than 1024, it will be displayed in bytes (e.g., "256B").
// Otherwise, the number will be converted into a larger unit (e.g., 1.5KB, 20MB, etc.).
func ByteSize(bytes uint64) string {
	const unit = 1024

	if bytes < unit {
		return fmt.Sprintf("%dB", bytes)
	}

	div, exp := uint64(unit), 0

	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f%cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// WithNotAvailable returns a default "not available" string if the given value is an empty string.
func WithNotAvailable(value string) string {
	if value == "" {
		return definitions.NotAvailable
	}

	return value
}

// NewHTTPClient creates and returns a new http.Client tuned from the assessor
// configuration. The overall request timeout comes from the same section.
func NewHTTPClient() *http.Client {
	assessorCfg := config.GetFile().GetAssessor()
	clientCfg := assessorCfg.GetHTTPClient()

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxConnsPerHost:     clientCfg.GetMaxConnsPerHost(),
		MaxIdleConns:        clientCfg.GetMaxIdleConns(),
		MaxIdleConnsPerHost: clientCfg.GetMaxIdleConnsPerHost(),
		IdleConnTimeout:     clientCfg.GetIdleConnTimeout(),
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: clientCfg.GetTLSSkipVerify(),
		},
	}

	return &http.Client{
		Timeout:   assessorCfg.GetRequestTimeout(),
		Transport: transport,
	}
}

// GetCtxWithDeadlineItem creates a context with the per-item assessment
// deadline. A positive override wins over the configured pipeline timeout;
// run requests carry such an override. If the provided context is nil, the
// service context is used as the parent. When configuration is not loaded
// (e.g., in unit tests), it falls back to a sane default timeout.
func GetCtxWithDeadlineItem(ctx context.Context, override time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = svcctx.Get()
	}

	timeout := override

	if timeout <= 0 {
		if config.IsFileLoaded() {
			timeout = config.GetFile().GetPipeline().GetItemTimeout()
		} else {
			// Default for tests or when config is not initialized
			timeout = 30 * time.Second
		}
	}

	return context.WithTimeout(ctx, timeout)
}
