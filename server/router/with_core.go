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

package router

import (
	"log/slog"

	mdlog "github.com/evalsuite/batchmeter/server/middleware/logging"
	mdmet "github.com/evalsuite/batchmeter/server/middleware/metrics"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

// WithRecovery adds gin.Recovery middleware to recover from panics.
func (r *Router) WithRecovery() *Router {
	r.Engine.Use(gin.Recovery())

	return r
}

// WithRequestLogging installs the GUID and latency logging middleware.
func (r *Router) WithRequestLogging(logger *slog.Logger) *Router {
	r.Engine.Use(mdlog.LoggerMiddlewareWithLogger(logger))

	return r
}

// WithMetricsMiddleware enables prometheus request metrics.
func (r *Router) WithMetricsMiddleware() *Router {
	r.Engine.Use(mdmet.PrometheusMiddlewareWithCfg(r.Cfg))

	return r
}

// WithResponseCompression applies gzip response compression.
func (r *Router) WithResponseCompression() *Router {
	r.Engine.Use(gzip.Gzip(gzip.DefaultCompression))

	return r
}

// WithPprof registers the pprof debug routes when enabled in the
// configuration.
func (r *Router) WithPprof() *Router {
	if r.Cfg.GetServer().GetInsights().IsPprofEnabled() {
		pprof.Register(r.Engine)
	}

	return r
}

// WithRoutes lets every registrar wire its routes into the engine root.
func (r *Router) WithRoutes(registrars ...Registrar) *Router {
	for _, registrar := range registrars {
		if registrar != nil {
			registrar.Register(r.Engine)
		}
	}

	return r
}

// WithAPI mounts the given registrars under a common prefix group.
func (r *Router) WithAPI(prefix string, registrars ...Registrar) *Router {
	group := r.Engine.Group(prefix)

	for _, registrar := range registrars {
		if registrar != nil {
			registrar.Register(group)
		}
	}

	return r
}
