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

package logging

import (
	"log/slog"
	"time"

	"github.com/evalsuite/batchmeter/server/definitions"
	"github.com/evalsuite/batchmeter/server/log"
	"github.com/evalsuite/batchmeter/server/log/level"
	"github.com/evalsuite/batchmeter/server/util"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
)

// LoggerMiddleware creates a middleware logging HTTP requests and responses
// with latency and client details. Every request gets a unique GUID that is
// stored in the gin context for downstream handlers and carried in the log
// line.
func LoggerMiddleware() gin.HandlerFunc {
	return LoggerMiddlewareWithLogger(log.Logger)
}

// LoggerMiddlewareWithLogger is the deps-based variant of LoggerMiddleware.
// Call sites that are already DI-based pass an injected *slog.Logger.
func LoggerMiddlewareWithLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var logWrapper func(logger *slog.Logger) level.Logger

		guid := ksuid.New().String()
		ctx.Set(definitions.CtxGUIDKey, guid)

		start := time.Now()

		ctx.Next()

		err := ctx.Errors.Last()

		if err != nil {
			logWrapper = level.Error
		} else {
			logWrapper = level.Info
		}

		latency := time.Since(start)

		// Fall back to the global logger if the caller passed nil.
		if logger == nil {
			logger = log.Logger
		}

		logWrapper(logger).Log(
			definitions.LogKeyGUID, guid,
			definitions.LogKeyClientIP, ctx.ClientIP(),
			definitions.LogKeyMethod, ctx.Request.Method,
			definitions.LogKeyProtocol, ctx.Request.Proto,
			definitions.LogKeyHTTPStatus, ctx.Writer.Status(),
			definitions.LogKeyLatency, util.FormatDurationMs(latency),
			definitions.LogKeyUserAgent, util.WithNotAvailable(ctx.Request.UserAgent()),
			definitions.LogKeyUriPath, ctx.Request.URL.Path,
			definitions.LogKeyMsg, func() string {
				if err != nil {
					return err.Error()
				}

				return "HTTP request"
			}(),
		)
	}
}
