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
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/evalsuite/batchmeter/server/app/opsfx"
	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/definitions"
	"github.com/evalsuite/batchmeter/server/log/level"
	"github.com/evalsuite/batchmeter/server/router"

	"github.com/gin-gonic/gin"
)

// httpServer owns the HTTP listener lifecycle. It builds the gin engine from
// the injected handlers, serves in the background and opens the readiness
// gate once the listener is up.
type httpServer struct {
	cfg    *config.File
	logger *slog.Logger
	gate   *opsfx.Gate

	mu  sync.Mutex
	srv *http.Server

	serveErr chan error
}

func newHTTPServer(cfg *config.File, logger *slog.Logger, gate *opsfx.Gate, engine *gin.Engine) *httpServer {
	return &httpServer{
		cfg:    cfg,
		logger: logger,
		gate:   gate,
		srv: &http.Server{
			Addr:         cfg.GetServer().GetAddress(),
			Handler:      engine,
			ReadTimeout:  cfg.GetServer().GetTimeouts().GetRead(),
			WriteTimeout: cfg.GetServer().GetTimeouts().GetWrite(),
			IdleTimeout:  cfg.GetServer().GetTimeouts().GetIdle(),
		},
		serveErr: make(chan error, 1),
	}
}

// buildEngine assembles the gin engine from middlewares and route registrars.
func buildEngine(cfg *config.File, logger *slog.Logger, ops []router.Registrar, api []router.Registrar) *gin.Engine {
	if !cfg.GetServer().GetLog().IsDebugEnabled() {
		gin.SetMode(gin.ReleaseMode)
	}

	return router.NewRouter(cfg).
		WithRecovery().
		WithRequestLogging(logger).
		WithMetricsMiddleware().
		WithResponseCompression().
		WithPprof().
		WithRoutes(ops...).
		WithAPI(definitions.APIPrefix, api...).
		Build()
}

// Start begins serving in the background. It returns immediately; a failing
// listener cancels the process through the provided cancel function.
func (s *httpServer) Start(_ context.Context, cancel context.CancelFunc) error {
	level.Info(s.logger).Log(
		definitions.LogKeyMsg, "Starting HTTP server",
		"address", s.srv.Addr,
		"version", version,
	)

	go func() {
		err := s.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			level.Error(s.logger).Log(definitions.LogKeyMsg, "HTTP server failed", definitions.LogKeyError, err)

			s.serveErr <- err

			cancel()
		}
	}()

	s.gate.SetReady(true)

	return nil
}

// Stop closes the readiness gate and drains in-flight requests within the
// stop deadline.
func (s *httpServer) Stop(stopCtx context.Context) error {
	s.gate.SetReady(false)

	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(stopCtx); err != nil {
		return err
	}

	select {
	case err := <-s.serveErr:
		return err
	default:
		return nil
	}
}
