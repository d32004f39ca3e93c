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

// Package configfx loads the configuration file and provides it to the
// dependency graph.
package configfx

import (
	"fmt"

	"github.com/evalsuite/batchmeter/server/config"

	"go.uber.org/fx"
)

// Params carries the command-line inputs the configuration loader needs.
// It is supplied from the flag parsing in main.
type Params struct {
	ConfigPath string
}

// Module defines the configfx module for UberFX.
var Module = fx.Module("configfx",
	fx.Provide(NewFile),
)

// NewFile loads the configuration, installs it as the process-wide config,
// and provides it to the dependency graph.
func NewFile(params Params) (*config.File, error) {
	file, err := config.NewConfigFile(params.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return file, nil
}
