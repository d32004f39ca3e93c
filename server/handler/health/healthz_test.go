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
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evalsuite/batchmeter/server/app/opsfx"
	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/registry"
	"github.com/gin-gonic/gin"
)

func newTestDeps(ready bool) HealthzDeps {
	gate := opsfx.NewGate()
	gate.SetReady(ready)

	return HealthzDeps{
		Cfg:      &config.File{},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Gate:     gate,
		Registry: registry.NewRegistry(&config.File{}),
	}
}

func runReadinessCheck(t *testing.T, deps HealthzDeps) (*httptest.ResponseRecorder, *HealthzResult) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(recorder)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/healthz", nil)

	ReadinessCheckWithDeps(ctx, deps)

	result := &HealthzResult{}
	if err := json.Unmarshal(recorder.Body.Bytes(), result); err != nil {
		t.Fatalf("unexpected response body: %v", err)
	}

	return recorder, result
}

func TestReadinessCheckReportsUp(t *testing.T) {
	recorder, result := runReadinessCheck(t, newTestDeps(true))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}

	if result.Status != healthzStatusUp {
		t.Fatalf("expected status up, got %q", result.Status)
	}

	if result.Checks["registry"].Status != healthzStatusUp {
		t.Fatalf("expected registry check up, got %q", result.Checks["registry"].Status)
	}

	if result.Checks["assessor"].Status != healthzStatusSkipped {
		t.Fatalf("expected assessor check skipped without endpoint, got %q", result.Checks["assessor"].Status)
	}
}

func TestReadinessCheckReportsDownWhileGateClosed(t *testing.T) {
	recorder, result := runReadinessCheck(t, newTestDeps(false))

	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", recorder.Code)
	}

	if result.Status != healthzStatusDown {
		t.Fatalf("expected status down, got %q", result.Status)
	}
}

func TestReadinessCheckReportsHTTPAssessor(t *testing.T) {
	deps := newTestDeps(true)
	deps.Cfg = &config.File{Assessor: &config.AssessorSection{Endpoint: "http://assessor.local/v1"}}

	_, result := runReadinessCheck(t, deps)

	check := result.Checks["assessor"]
	if check.Status != healthzStatusUp {
		t.Fatalf("expected assessor check up, got %q", check.Status)
	}

	if check.Meta["mode"] != "http" {
		t.Fatalf("expected http mode, got %v", check.Meta["mode"])
	}
}
