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

package assessor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/errors"
	"github.com/evalsuite/batchmeter/server/util"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// assessRequest is the wire format the assessment backend expects.
type assessRequest struct {
	File     string `json:"file"`
	Question string `json:"question,omitempty"`
}

// HTTPAssessor talks to a real assessment backend over HTTP.
type HTTPAssessor struct {
	endpoint   string
	httpClient *http.Client
}

var _ Assessor = (*HTTPAssessor)(nil)

// NewHTTPAssessor creates an assessor for the configured endpoint using the
// tuned HTTP client.
func NewHTTPAssessor(cfg *config.File) *HTTPAssessor {
	return &HTTPAssessor{
		endpoint:   cfg.GetAssessor().GetEndpoint(),
		httpClient: util.NewHTTPClient(),
	}
}

// Assess posts the item to the backend and decodes the assessment. A context
// deadline overrun surfaces as the wrapped context error so callers can
// classify it as a timeout.
func (a *HTTPAssessor) Assess(ctx context.Context, item Item) (*Assessment, error) {
	body, err := json.Marshal(assessRequest{File: item.Content, Question: item.Question})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrAssessorRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrAssessorRequest, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, fmt.Errorf("%w: %v", errors.ErrAssessorRequest, err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrAssessorRequest, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", errors.ErrAssessorStatus, resp.StatusCode)
	}

	assessment := &Assessment{}

	if err := json.Unmarshal(respBody, assessment); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrAssessorDecode, err)
	}

	return assessment, nil
}
