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

	"github.com/evalsuite/batchmeter/server/definitions"
)

// ServerSection represents the configuration for the HTTP server, including
// network settings, logging, timeouts, and instrumentation switches.
type ServerSection struct {
	Address         string          `mapstructure:"address" validate:"omitempty,hostname_port"`
	InstanceName    string          `mapstructure:"instance_name" validate:"omitempty,max=64"`
	Log             Log             `mapstructure:"log"`
	Insights        Insights        `mapstructure:"insights"`
	Timeouts        Timeouts        `mapstructure:"timeouts"`
	PrometheusTimer PrometheusTimer `mapstructure:"prometheus_timer"`
}

// Log represents the configuration for logging.
type Log struct {
	JSON      bool   `mapstructure:"json"`
	Level     string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	AddSource bool   `mapstructure:"add_source"`
}

// Insights is a configuration structure for enabling profiling capabilities.
type Insights struct {
	EnablePprof bool `mapstructure:"enable_pprof"`
}

// Timeouts represents the HTTP server timeout settings.
type Timeouts struct {
	Read  time.Duration `mapstructure:"read" validate:"omitempty,gt=0"`
	Write time.Duration `mapstructure:"write" validate:"omitempty,gt=0"`
	Idle  time.Duration `mapstructure:"idle" validate:"omitempty,gt=0"`
}

// PrometheusTimer enables per-function duration summaries.
type PrometheusTimer struct {
	Enabled bool `mapstructure:"enabled"`
}

// GetAddress returns the configured listen address or the built-in default.
func (s *ServerSection) GetAddress() string {
	if s == nil || s.Address == "" {
		return definitions.HTTPAddress
	}

	return s.Address
}

// GetInstanceName returns the configured instance name or the built-in default.
func (s *ServerSection) GetInstanceName() string {
	if s == nil || s.InstanceName == "" {
		return definitions.InstanceName
	}

	return s.InstanceName
}

// GetLog returns the logging settings.
func (s *ServerSection) GetLog() *Log {
	if s == nil {
		return &Log{}
	}

	return &s.Log
}

// GetInsights returns the instrumentation switches.
func (s *ServerSection) GetInsights() *Insights {
	if s == nil {
		return &Insights{}
	}

	return &s.Insights
}

// GetTimeouts returns the HTTP server timeout settings.
func (s *ServerSection) GetTimeouts() *Timeouts {
	if s == nil {
		return &Timeouts{}
	}

	return &s.Timeouts
}

// GetPrometheusTimer returns the prometheus timer settings.
func (s *ServerSection) GetPrometheusTimer() *PrometheusTimer {
	if s == nil {
		return &PrometheusTimer{}
	}

	return &s.PrometheusTimer
}

// IsJSON reports whether log lines are emitted as JSON.
func (l *Log) IsJSON() bool {
	if l == nil {
		return false
	}

	return l.JSON
}

// GetLevel returns the configured log level name.
func (l *Log) GetLevel() string {
	if l == nil || l.Level == "" {
		return "info"
	}

	return l.Level
}

// IsDebugEnabled reports whether the debug log level is selected.
func (l *Log) IsDebugEnabled() bool {
	return l.GetLevel() == "debug"
}

// IsAddSourceEnabled reports whether source locations are added to log lines.
func (l *Log) IsAddSourceEnabled() bool {
	if l == nil {
		return false
	}

	return l.AddSource
}

// IsPprofEnabled reports whether the pprof debug routes are registered.
func (i *Insights) IsPprofEnabled() bool {
	if i == nil {
		return false
	}

	return i.EnablePprof
}

// GetRead returns the HTTP read timeout.
func (t *Timeouts) GetRead() time.Duration {
	if t == nil || t.Read <= 0 {
		return 30 * time.Second
	}

	return t.Read
}

// GetWrite returns the HTTP write timeout.
func (t *Timeouts) GetWrite() time.Duration {
	if t == nil || t.Write <= 0 {
		return 30 * time.Second
	}

	return t.Write
}

// GetIdle returns the HTTP idle timeout.
func (t *Timeouts) GetIdle() time.Duration {
	if t == nil || t.Idle <= 0 {
		return 60 * time.Second
	}

	return t.Idle
}

// IsEnabled reports whether function duration summaries are recorded.
func (p *PrometheusTimer) IsEnabled() bool {
	if p == nil {
		return false
	}

	return p.Enabled
}
