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

package config

import (
	"time"
)

// AssessorSection represents the configuration of the assessment backend.
// With an empty endpoint the built-in simulated assessor is used.
type AssessorSection struct {
	Endpoint       string             `mapstructure:"endpoint" validate:"omitempty,http_url"`
	RequestTimeout time.Duration      `mapstructure:"request_timeout" validate:"omitempty,gt=0,max=10m"`
	HTTPClient     HTTPClientSettings `mapstructure:"http_client"`
	Simulation     Simulation         `mapstructure:"simulation"`
}

// HTTPClientSettings represents transport tuning for the assessor HTTP client.
type HTTPClientSettings struct {
	MaxConnsPerHost     int           `mapstructure:"max_conns_per_host" validate:"omitempty,min=1"`
	MaxIdleConns        int           `mapstructure:"max_idle_conns" validate:"omitempty,min=1"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host" validate:"omitempty,min=1"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout" validate:"omitempty,gt=0"`
	TLSSkipVerify       bool          `mapstructure:"tls_skip_verify"`
}

// Simulation represents the behavior of the simulated assessor.
type Simulation struct {
	MinLatency  time.Duration `mapstructure:"min_latency" validate:"omitempty,gte=0"`
	MaxLatency  time.Duration `mapstructure:"max_latency" validate:"omitempty,gt=0"`
	ErrorRate   float64       `mapstructure:"error_rate" validate:"omitempty,min=0,max=1"`
	TimeoutRate float64       `mapstructure:"timeout_rate" validate:"omitempty,min=0,max=1"`
}

// GetEndpoint returns the assessment backend URL. Empty selects the simulated
// assessor.
func (a *AssessorSection) GetEndpoint() string {
	if a == nil {
		return ""
	}

	return a.Endpoint
}

// GetRequestTimeout returns the overall timeout of one backend request.
func (a *AssessorSection) GetRequestTimeout() time.Duration {
	if a == nil || a.RequestTimeout <= 0 {
		return 60 * time.Second
	}

	return a.RequestTimeout
}

// GetHTTPClient returns the transport tuning settings.
func (a *AssessorSection) GetHTTPClient() *HTTPClientSettings {
	if a == nil {
		return &HTTPClientSettings{}
	}

	return &a.HTTPClient
}

// GetSimulation returns the simulated assessor settings.
func (a *AssessorSection) GetSimulation() *Simulation {
	if a == nil {
		return &Simulation{}
	}

	return &a.Simulation
}

// GetMaxConnsPerHost returns the connection cap per backend host.
func (h *HTTPClientSettings) GetMaxConnsPerHost() int {
	if h == nil || h.MaxConnsPerHost < 1 {
		return 16
	}

	return h.MaxConnsPerHost
}

// GetMaxIdleConns returns the idle connection pool size.
func (h *HTTPClientSettings) GetMaxIdleConns() int {
	if h == nil || h.MaxIdleConns < 1 {
		return 16
	}

	return h.MaxIdleConns
}

// GetMaxIdleConnsPerHost returns the idle connection cap per backend host.
func (h *HTTPClientSettings) GetMaxIdleConnsPerHost() int {
	if h == nil || h.MaxIdleConnsPerHost < 1 {
		return 4
	}

	return h.MaxIdleConnsPerHost
}

// GetIdleConnTimeout returns how long idle connections are kept.
func (h *HTTPClientSettings) GetIdleConnTimeout() time.Duration {
	if h == nil || h.IdleConnTimeout <= 0 {
		return 90 * time.Second
	}

	return h.IdleConnTimeout
}

// GetTLSSkipVerify reports whether backend certificates are accepted unverified.
func (h *HTTPClientSettings) GetTLSSkipVerify() bool {
	if h == nil {
		return false
	}

	return h.TLSSkipVerify
}

// GetMinLatency returns the lower bound of simulated processing time.
func (s *Simulation) GetMinLatency() time.Duration {
	if s == nil || s.MinLatency < 0 {
		return 0
	}

	return s.MinLatency
}

// GetMaxLatency returns the upper bound of simulated processing time.
func (s *Simulation) GetMaxLatency() time.Duration {
	if s == nil || s.MaxLatency <= 0 {
		return 450 * time.Millisecond
	}

	return s.MaxLatency
}

// GetErrorRate returns the fraction of simulated assessments that fail.
// The documented default comes from the loader, not from this getter, so an
// explicitly configured zero stays zero.
func (s *Simulation) GetErrorRate() float64 {
	if s == nil || s.ErrorRate < 0 {
		return 0
	}

	return s.ErrorRate
}

// GetTimeoutRate returns the fraction of simulated assessments that time out.
func (s *Simulation) GetTimeoutRate() float64 {
	if s == nil || s.TimeoutRate < 0 {
		return 0
	}

	return s.TimeoutRate
}
