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

package health

import (
	"log/slog"
	"net/http"

	"github.com/evalsuite/batchmeter/server/app/opsfx"
	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/registry"
	"github.com/gin-gonic/gin"
)

const (
	healthzStatusUp      = "up"
	healthzStatusDown    = "down"
	healthzStatusSkipped = "skipped"
)

// HealthzDeps carries the dependencies of the readiness check.
type HealthzDeps struct {
	Cfg      *config.File
	Logger   *slog.Logger
	Gate     *opsfx.Gate
	Registry *registry.Registry
}

// HealthzCheck is the result of one subsystem check.
type HealthzCheck struct {
	Status string         `json:"status"`
	Error  string         `json:"error,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// HealthzResult is the aggregate readiness result.
type HealthzResult struct {
	Status string                   `json:"status"`
	Checks map[string]*HealthzCheck `json:"checks"`
}

// ReadinessCheckWithDeps reports whether the process accepts work. The
// result is down while the readiness gate is closed (startup, shutdown) and
// up otherwise, with per-subsystem detail.
func ReadinessCheckWithDeps(ctx *gin.Context, deps HealthzDeps) {
	result := &HealthzResult{
		Status: healthzStatusUp,
		Checks: map[string]*HealthzCheck{},
	}

	checkGate(deps, result)
	checkRegistry(deps, result)
	checkAssessor(deps, result)

	statusCode := http.StatusOK
	if result.Status == healthzStatusDown {
		statusCode = http.StatusServiceUnavailable
	}

	ctx.JSON(statusCode, result)
}

func checkGate(deps HealthzDeps, result *HealthzResult) {
	if deps.Gate == nil || !deps.Gate.IsReady() {
		result.Checks["gate"] = &HealthzCheck{
			Status: healthzStatusDown,
			Error:  "process is not ready",
		}
		result.Status = healthzStatusDown

		return
	}

	result.Checks["gate"] = &HealthzCheck{Status: healthzStatusUp}
}

func checkRegistry(deps HealthzDeps, result *HealthzResult) {
	if deps.Registry == nil {
		result.Checks["registry"] = &HealthzCheck{
			Status: healthzStatusDown,
			Error:  "run registry not initialized",
		}
		result.Status = healthzStatusDown

		return
	}

	result.Checks["registry"] = &HealthzCheck{
		Status: healthzStatusUp,
		Meta:   map[string]any{"active_runs": deps.Registry.ActiveCount()},
	}
}

// checkAssessor only reports which backend is configured. Probing a real
// backend from the readiness path would make this service's health depend
// on a collaborator it merely observes.
func checkAssessor(deps HealthzDeps, result *HealthzResult) {
	endpoint := deps.Cfg.GetAssessor().GetEndpoint()

	if endpoint == "" {
		result.Checks["assessor"] = &HealthzCheck{
			Status: healthzStatusSkipped,
			Meta:   map[string]any{"mode": "simulated"},
		}

		return
	}

	result.Checks["assessor"] = &HealthzCheck{
		Status: healthzStatusUp,
		Meta:   map[string]any{"mode": "http", "endpoint": endpoint},
	}
}
