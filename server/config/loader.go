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
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// NewConfigFile loads the configuration from the given path, the default
// search locations, and BATCHMETER_* environment variables, in that order of
// precedence (environment wins). A missing file is not an error when no
// explicit path was requested; the service then runs on defaults.
func NewConfigFile(configPath string) (*File, error) {
	viper.SetConfigName("batchmeter")
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath("/etc/batchmeter/")
		viper.AddConfigPath("$HOME/.batchmeter")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("batchmeter")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError

		if !errors.As(err, &notFound) || configPath != "" {
			return nil, err
		}
	}

	newCfg := &File{}

	if err := newCfg.handleFile(); err != nil {
		return nil, err
	}

	SetFile(newCfg)

	return newCfg, nil
}

// handleFile applies the settings known to viper to the File struct and does
// sanity checks to make sure the service has a working configuration.
func (f *File) handleFile() error {
	decodeHooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))

	if err := viper.Unmarshal(f, decodeHooks); err != nil {
		return err
	}

	if err := f.validate(); err != nil {
		return err
	}

	// Throw away unsupported keys.
	f.Other = nil

	return nil
}

func (f *File) validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("server.address", "127.0.0.1:8080")
	viper.SetDefault("server.instance_name", "batchmeter")
	viper.SetDefault("server.log.json", false)
	viper.SetDefault("server.log.level", "info")
	viper.SetDefault("server.timeouts.read", "30s")
	viper.SetDefault("server.timeouts.write", "30s")
	viper.SetDefault("server.timeouts.idle", "60s")

	viper.SetDefault("pipeline.batch_size", 10)
	viper.SetDefault("pipeline.concurrent_batches", 2)
	viper.SetDefault("pipeline.workers", 8)
	viper.SetDefault("pipeline.item_timeout", "30s")

	viper.SetDefault("assessor.request_timeout", "60s")
	viper.SetDefault("assessor.simulation.min_latency", "40ms")
	viper.SetDefault("assessor.simulation.max_latency", "450ms")
	viper.SetDefault("assessor.simulation.error_rate", 0.05)
	viper.SetDefault("assessor.simulation.timeout_rate", 0.02)

	viper.SetDefault("telemetry.report_ttl", "1h")
	viper.SetDefault("telemetry.stats_interval", "30s")
}
