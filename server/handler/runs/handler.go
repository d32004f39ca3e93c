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

// Package runs is the REST surface of the batch processing pipeline: it
// starts runs, serves live snapshots of in-flight runs and hands out final
// reports.
package runs

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/evalsuite/batchmeter/server/assessor"
	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/definitions"
	"github.com/evalsuite/batchmeter/server/errors"
	"github.com/evalsuite/batchmeter/server/log/level"
	"github.com/evalsuite/batchmeter/server/pipeline"
	"github.com/evalsuite/batchmeter/server/registry"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler serves the /api/v1/runs endpoints.
type Handler struct {
	cfg      *config.File
	logger   *slog.Logger
	registry *registry.Registry
	pipeline *pipeline.Pipeline

	// runCtx is the parent context of every pipeline execution; canceling
	// it aborts all in-flight runs during shutdown.
	runCtx context.Context
}

// NewWithDeps constructs the handler with injected dependencies.
func NewWithDeps(cfg *config.File, logger *slog.Logger, reg *registry.Registry, p *pipeline.Pipeline, runCtx context.Context) *Handler {
	return &Handler{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		pipeline: p,
		runCtx:   runCtx,
	}
}

// Register wires the runs endpoints into the given router.
func (h *Handler) Register(router gin.IRouter) {
	group := router.Group("/runs")

	group.POST("", h.createRun)
	group.GET("", h.listRuns)
	group.GET("/:run", h.getRun)
	group.GET("/:run/snapshot", h.getSnapshot)
	group.POST("/:run/finalize", h.finalizeRun)
	group.GET("/:run/report", h.getReport)
	group.DELETE("/:run", h.deleteRun)
}

// runDocument is one document of a run request. Content is base64, exactly
// as it is forwarded to the assessment backend.
type runDocument struct {
	ID        string   `json:"id"`
	Content   string   `json:"content" binding:"required,base64"`
	Questions []string `json:"questions"`
}

// runRequest is the body of POST /runs.
type runRequest struct {
	Documents         []runDocument `json:"documents" binding:"required,min=1,dive"`
	BatchSize         int           `json:"batch_size" binding:"omitempty,min=1,max=1000"`
	ConcurrentBatches int           `json:"concurrent_batches" binding:"omitempty,min=1,max=64"`
	Workers           int           `json:"workers" binding:"omitempty,min=1,max=64"`
	ItemTimeoutMs     int           `json:"item_timeout_ms" binding:"omitempty,min=1"`
}

// finalizeRequest is the body of POST /runs/:run/finalize.
type finalizeRequest struct {
	TotalItems      int `json:"total_items" binding:"min=0"`
	SuccessfulItems int `json:"successful_items" binding:"min=0"`
}

type errorResponse struct {
	GUID  string `json:"session"`
	Error string `json:"error"`
}

func (h *Handler) createRun(ctx *gin.Context) {
	var request runRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.fail(ctx, http.StatusBadRequest, err)

		return
	}

	items := flattenItems(request.Documents)

	batchSize := request.BatchSize
	if batchSize < 1 {
		batchSize = h.cfg.GetPipeline().GetBatchSize()
	}

	run := h.registry.StartRun(len(items), batchSize)

	opts := pipeline.Options{
		BatchSize:         batchSize,
		ConcurrentBatches: request.ConcurrentBatches,
		Workers:           request.Workers,
		ItemTimeout:       time.Duration(request.ItemTimeoutMs) * time.Millisecond,
	}

	level.Info(h.logger).Log(
		definitions.LogKeyGUID, ctx.GetString(definitions.CtxGUIDKey),
		definitions.LogKeyRun, run.GUID,
		definitions.LogKeyItems, len(items),
		definitions.LogKeyMsg, "Run accepted",
	)

	go h.pipeline.Execute(h.runCtx, run, items, opts)

	h.renderJSON(ctx, http.StatusAccepted, gin.H{
		"run_id":      run.GUID,
		"total_items": len(items),
		"batch_size":  batchSize,
	})
}

func (h *Handler) listRuns(ctx *gin.Context) {
	h.renderJSON(ctx, http.StatusOK, gin.H{"runs": h.registry.List()})
}

func (h *Handler) getRun(ctx *gin.Context) {
	run, ok := h.registry.Get(ctx.Param("run"))
	if !ok {
		h.fail(ctx, http.StatusNotFound, errors.ErrRunNotFound)

		return
	}

	h.renderJSON(ctx, http.StatusOK, run)
}

func (h *Handler) getSnapshot(ctx *gin.Context) {
	run, ok := h.registry.Get(ctx.Param("run"))
	if !ok {
		h.fail(ctx, http.StatusNotFound, errors.ErrRunNotFound)

		return
	}

	h.renderJSON(ctx, http.StatusOK, run.Recorder.Snapshot())
}

func (h *Handler) finalizeRun(ctx *gin.Context) {
	run, ok := h.registry.Get(ctx.Param("run"))
	if !ok {
		h.fail(ctx, http.StatusNotFound, errors.ErrRunNotFound)

		return
	}

	var request finalizeRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.fail(ctx, http.StatusBadRequest, err)

		return
	}

	h.renderJSON(ctx, http.StatusOK, run.Recorder.Finalize(request.TotalItems, request.SuccessfulItems))
}

// getReport computes a detailed report on demand. Without a successful_items
// query parameter the legacy conflating path is used: total_items counts as
// the success count too.
func (h *Handler) getReport(ctx *gin.Context) {
	run, ok := h.registry.Get(ctx.Param("run"))
	if !ok {
		h.fail(ctx, http.StatusNotFound, errors.ErrRunNotFound)

		return
	}

	totalItems := run.TotalItems

	if raw, found := ctx.GetQuery("total_items"); found {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.fail(ctx, http.StatusBadRequest, errors.ErrInvalidTotalItems)

			return
		}

		totalItems = parsed
	}

	if raw, found := ctx.GetQuery("successful_items"); found {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.fail(ctx, http.StatusBadRequest, errors.ErrInvalidTotalItems)

			return
		}

		h.renderJSON(ctx, http.StatusOK, run.Recorder.DetailedReportWithSuccesses(totalItems, parsed))

		return
	}

	h.renderJSON(ctx, http.StatusOK, run.Recorder.DetailedReport(totalItems))
}

func (h *Handler) deleteRun(ctx *gin.Context) {
	err := h.registry.EvictReport(ctx.Param("run"))

	switch err {
	case nil:
		ctx.Status(http.StatusNoContent)
	case errors.ErrRunStillActive:
		h.fail(ctx, http.StatusConflict, err)
	default:
		h.fail(ctx, http.StatusNotFound, err)
	}
}

// flattenItems turns documents and their questions into the flat item list
// the pipeline consumes: one item per document without questions, otherwise
// one item per question.
func flattenItems(documents []runDocument) []assessor.Item {
	var items []assessor.Item

	for docIndex, document := range documents {
		id := document.ID
		if id == "" {
			id = "doc-" + strconv.Itoa(docIndex+1)
		}

		if len(document.Questions) == 0 {
			items = append(items, assessor.Item{ID: id, Content: document.Content})

			continue
		}

		for questionIndex, question := range document.Questions {
			items = append(items, assessor.Item{
				ID:       id + "-q" + strconv.Itoa(questionIndex+1),
				Content:  document.Content,
				Question: question,
			})
		}
	}

	return items
}

// renderJSON marshals with jsoniter and writes the response body directly.
func (h *Handler) renderJSON(ctx *gin.Context, statusCode int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		ctx.AbortWithStatus(http.StatusInternalServerError)

		return
	}

	ctx.Data(statusCode, "application/json; charset=utf-8", body)
}

func (h *Handler) fail(ctx *gin.Context, statusCode int, err error) {
	guid := ctx.GetString(definitions.CtxGUIDKey)

	_ = ctx.Error(err)

	h.renderJSON(ctx, statusCode, errorResponse{GUID: guid, Error: err.Error()})
}
