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

// TelemetrySection represents retention and reporting settings of the
// metrics engine surface.
type TelemetrySection struct {
	ReportTTL     time.Duration `mapstructure:"report_ttl" validate:"omitempty,gt=0,max=168h"`
	StatsInterval time.Duration `mapstructure:"stats_interval" validate:"omitempty,gte=1s,max=1h"`
}

// GetReportTTL returns how long completed run reports are retained.
func (t *TelemetrySection) GetReportTTL() time.Duration {
	if t == nil || t.ReportTTL <= 0 {
		return time.Hour
	}

	return t.ReportTTL
}

// GetStatsInterval returns the period of the statistics log loop.
func (t *TelemetrySection) GetStatsInterval() time.Duration {
	if t == nil || t.StatsInterval <= 0 {
		return 30 * time.Second
	}

	return t.StatsInterval
}
