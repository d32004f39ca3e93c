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

// Package assessor calls the document assessment backend. The backend is an
// external OCR/assessment service; when no endpoint is configured a
// simulated assessor stands in so the service runs standalone.
package assessor

import (
	"context"

	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/definitions"
	"github.com/evalsuite/batchmeter/server/log"
	"github.com/evalsuite/batchmeter/server/log/level"
)

// Item is one unit of work: a document, or a question asked about a
// document. Content is the base64 encoded document payload as it goes over
// the wire to the backend.
type Item struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Question string `json:"question,omitempty"`
}

// Assessment is the backend's answer for one item.
type Assessment struct {
	Result    string `json:"result"`
	Timestamp string `json:"timestamp"`
}

// Assessor assesses a single item. Implementations must honor the context
// deadline; the pipeline classifies a deadline overrun as a timeout outcome
// and any other error as a failure.
type Assessor interface {
	Assess(ctx context.Context, item Item) (*Assessment, error)
}

// New selects the backend implementation from the configuration: the HTTP
// assessor when an endpoint is set, the simulated one otherwise.
func New(cfg *config.File) Assessor {
	if cfg.GetAssessor().GetEndpoint() != "" {
		level.Info(log.Logger).Log(
			definitions.LogKeyMsg, "Using HTTP assessor",
			definitions.LogKeyMode, "http",
		)

		return NewHTTPAssessor(cfg)
	}

	level.Info(log.Logger).Log(
		definitions.LogKeyMsg, "No assessor endpoint configured, using simulation",
		definitions.LogKeyMode, "simulated",
	)

	return NewSimulatedAssessor(cfg.GetAssessor().GetSimulation())
}
