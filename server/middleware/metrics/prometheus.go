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

package metrics

import (
	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/definitions"
	"github.com/evalsuite/batchmeter/server/stats"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMiddleware tracks HTTP request counts and response times per
// route. Response-time histograms are only observed when the prometheus
// timer is enabled in the configuration.
func PrometheusMiddleware() gin.HandlerFunc {
	return PrometheusMiddlewareWithCfg(nil)
}

// PrometheusMiddlewareWithCfg is the deps-based variant of
// PrometheusMiddleware.
func PrometheusMiddlewareWithCfg(cfg *config.File) gin.HandlerFunc {
	enableTimer := cfg.GetServer().GetPrometheusTimer().IsEnabled()

	return func(ctx *gin.Context) {
		var timer *prometheus.Timer

		stopTimer := stats.PrometheusTimer(cfg, definitions.PromRequest, "request_total")
		path := ctx.FullPath()

		if enableTimer {
			timer = prometheus.NewTimer(stats.GetMetrics().GetHttpResponseTimeSeconds().WithLabelValues(path))
		}

		ctx.Next()

		stats.GetMetrics().GetHttpRequestsTotal().WithLabelValues(path).Inc()

		if enableTimer && timer != nil {
			timer.ObserveDuration()
		}

		if stopTimer != nil {
			stopTimer()
		}
	}
}
