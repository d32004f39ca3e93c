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

package main

import (
	"context"
	stdlog "log"
	"log/slog"

	"github.com/evalsuite/batchmeter/server/app/loopsfx"
	"github.com/evalsuite/batchmeter/server/app/opsfx"
	"github.com/evalsuite/batchmeter/server/assessor"
	"github.com/evalsuite/batchmeter/server/config"
	handlerhealth "github.com/evalsuite/batchmeter/server/handler/health"
	handlermetrics "github.com/evalsuite/batchmeter/server/handler/metrics"
	handlerruns "github.com/evalsuite/batchmeter/server/handler/runs"
	"github.com/evalsuite/batchmeter/server/pipeline"
	"github.com/evalsuite/batchmeter/server/registry"
	"github.com/evalsuite/batchmeter/server/router"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// newAssessor selects the assessment backend from the configuration.
func newAssessor(cfg *config.File) assessor.Assessor {
	return assessor.New(cfg)
}

// newRegistry constructs the run registry.
func newRegistry(cfg *config.File) *registry.Registry {
	return registry.NewRegistry(cfg)
}

// newPipeline constructs the batch pipeline.
func newPipeline(cfg *config.File, backend assessor.Assessor, reg *registry.Registry, logger *slog.Logger) *pipeline.Pipeline {
	return pipeline.New(cfg, backend, reg, logger)
}

// newRunsHandler constructs the run management handler. Runs launched by it
// outlive the originating request and are bound to the root context instead.
func newRunsHandler(ctx context.Context, cfg *config.File, logger *slog.Logger, reg *registry.Registry, p *pipeline.Pipeline) *handlerruns.Handler {
	return handlerruns.NewWithDeps(cfg, logger, reg, p, ctx)
}

// newHealthHandler constructs the liveness/readiness handler.
func newHealthHandler(cfg *config.File, logger *slog.Logger, gate *opsfx.Gate, reg *registry.Registry) *handlerhealth.Handler {
	return handlerhealth.NewWithDeps(cfg, logger, gate, reg)
}

// newMetricsHandler constructs the prometheus scrape handler.
func newMetricsHandler() *handlermetrics.Handler {
	return handlermetrics.New()
}

// newEngine assembles the gin engine from the handlers. Operational routes
// live at the root, run management under the API prefix.
func newEngine(cfg *config.File, logger *slog.Logger, runsHandler *handlerruns.Handler, healthHandler *handlerhealth.Handler, metricsHandler *handlermetrics.Handler) *gin.Engine {
	ops := []router.Registrar{healthHandler, metricsHandler}
	api := []router.Registrar{runsHandler}

	return buildEngine(cfg, logger, ops, api)
}

type runtimeLifecycleParams struct {
	fx.In

	Ctx    context.Context
	Cancel context.CancelFunc

	Server   *httpServer
	StatsSvc *loopsfx.StatsService
}

// registerRuntimeLifecycle wires the startup/shutdown sequence into
// fx.Lifecycle.
//
// Shutdown cancels the root context first so in-flight runs observe the
// cancellation before the listener drains.
func registerRuntimeLifecycle(lc fx.Lifecycle, p runtimeLifecycleParams) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := p.Server.Start(p.Ctx, p.Cancel); err != nil {
				return err
			}

			return p.StatsSvc.Start(p.Ctx)
		},
		OnStop: func(stopCtx context.Context) error {
			p.Cancel()

			if err := p.StatsSvc.Stop(stopCtx); err != nil {
				stdlog.Printf("Unable to stop stats service. Error: %v", err)
			}

			return p.Server.Stop(stopCtx)
		},
	})
}
