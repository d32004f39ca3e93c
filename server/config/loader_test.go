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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()

	viper.Reset()

	t.Cleanup(viper.Reset)
}

func TestNewConfigFileDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := NewConfigFile("")

	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, IsFileLoaded())
	assert.Equal(t, "127.0.0.1:8080", cfg.GetServer().GetAddress())
	assert.Equal(t, "batchmeter", cfg.GetServer().GetInstanceName())
	assert.Equal(t, "info", cfg.GetServer().GetLog().GetLevel())
	assert.Equal(t, 10, cfg.GetPipeline().GetBatchSize())
	assert.Equal(t, 2, cfg.GetPipeline().GetConcurrentBatches())
	assert.Equal(t, 8, cfg.GetPipeline().GetWorkers())
	assert.Equal(t, 30*time.Second, cfg.GetPipeline().GetItemTimeout())
	assert.Empty(t, cfg.GetAssessor().GetEndpoint())
	assert.Equal(t, time.Hour, cfg.GetTelemetry().GetReportTTL())
}

func TestNewConfigFileReadsYAML(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "batchmeter.yml")
	content := []byte(`
server:
  address: "0.0.0.0:9090"
  instance_name: metering-1
  log:
    json: true
    level: debug
pipeline:
  batch_size: 50
  workers: 16
assessor:
  endpoint: "http://127.0.0.1:8000/ocr"
  request_timeout: 90s
telemetry:
  report_ttl: 2h
`)

	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := NewConfigFile(path)

	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.GetServer().GetAddress())
	assert.Equal(t, "metering-1", cfg.GetServer().GetInstanceName())
	assert.True(t, cfg.GetServer().GetLog().IsJSON())
	assert.Equal(t, "debug", cfg.GetServer().GetLog().GetLevel())
	assert.Equal(t, 50, cfg.GetPipeline().GetBatchSize())
	assert.Equal(t, 16, cfg.GetPipeline().GetWorkers())
	assert.Equal(t, "http://127.0.0.1:8000/ocr", cfg.GetAssessor().GetEndpoint())
	assert.Equal(t, 90*time.Second, cfg.GetAssessor().GetRequestTimeout())
	assert.Equal(t, 2*time.Hour, cfg.GetTelemetry().GetReportTTL())
}

func TestNewConfigFileEnvironmentOverride(t *testing.T) {
	resetViper(t)

	t.Setenv("BATCHMETER_PIPELINE_BATCH_SIZE", "25")
	t.Setenv("BATCHMETER_SERVER_LOG_LEVEL", "warn")

	cfg, err := NewConfigFile("")

	require.NoError(t, err)

	assert.Equal(t, 25, cfg.GetPipeline().GetBatchSize())
	assert.Equal(t, "warn", cfg.GetServer().GetLog().GetLevel())
}

func TestNewConfigFileValidationFailure(t *testing.T) {
	resetViper(t)

	viper.Set("pipeline.workers", 9999)

	cfg, err := NewConfigFile("")

	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestNewConfigFileExplicitPathMissing(t *testing.T) {
	resetViper(t)

	cfg, err := NewConfigFile(filepath.Join(t.TempDir(), "missing.yml"))

	require.Error(t, err)
	assert.Nil(t, cfg)
}

func TestGettersTolerateNilSections(t *testing.T) {
	var f *File

	assert.Equal(t, "127.0.0.1:8080", f.GetServer().GetAddress())
	assert.Equal(t, 10, f.GetPipeline().GetBatchSize())
	assert.Equal(t, 60*time.Second, f.GetAssessor().GetRequestTimeout())
	assert.Equal(t, 30*time.Second, f.GetTelemetry().GetStatsInterval())

	empty := &File{}

	assert.Equal(t, "batchmeter", empty.GetServer().GetInstanceName())
	assert.Equal(t, 2, empty.GetPipeline().GetConcurrentBatches())
	assert.Zero(t, empty.GetAssessor().GetSimulation().GetErrorRate())
	assert.Equal(t, 450*time.Millisecond, empty.GetAssessor().GetSimulation().GetMaxLatency())
}
