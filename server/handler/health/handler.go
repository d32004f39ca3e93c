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

// Package health serves the liveness and readiness endpoints.
package health

import (
	"log/slog"

	"github.com/evalsuite/batchmeter/server/app/opsfx"
	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/registry"
	"github.com/evalsuite/batchmeter/server/router"
	"github.com/gin-gonic/gin"
)

// Handler registers the health endpoints.
type Handler struct {
	deps HealthzDeps
}

// NewWithDeps constructs the handler with injected dependencies.
func NewWithDeps(cfg *config.File, logger *slog.Logger, gate *opsfx.Gate, reg *registry.Registry) *Handler {
	return &Handler{deps: HealthzDeps{
		Cfg:      cfg,
		Logger:   logger,
		Gate:     gate,
		Registry: reg,
	}}
}

// Register wires /ping and /healthz into the given router.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/ping", router.HealthCheck)
	r.GET("/healthz", func(ctx *gin.Context) {
		ReadinessCheckWithDeps(ctx, h.deps)
	})
}
