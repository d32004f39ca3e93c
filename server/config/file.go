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
	"sync/atomic"
)

// currentFile holds the process-wide configuration. It is replaced atomically
// on load so readers never see a partially initialized File.
var currentFile atomic.Pointer[File]

// File is the root of the configuration file.
type File struct {
	Server    *ServerSection    `mapstructure:"server" validate:"omitempty"`
	Pipeline  *PipelineSection  `mapstructure:"pipeline" validate:"omitempty"`
	Assessor  *AssessorSection  `mapstructure:"assessor" validate:"omitempty"`
	Telemetry *TelemetrySection `mapstructure:"telemetry" validate:"omitempty"`

	// Other collects unknown keys so they can be reported and dropped.
	Other map[string]any `mapstructure:",remain"`
}

// GetFile returns the current configuration. It never returns nil; before the
// first load an empty File is returned and every getter falls back to its
// default.
func GetFile() *File {
	if f := currentFile.Load(); f != nil {
		return f
	}

	return &File{}
}

// IsFileLoaded reports whether a configuration has been loaded.
func IsFileLoaded() bool {
	return currentFile.Load() != nil
}

// SetFile replaces the current configuration. Used by the loader and by unit
// tests that need a specific configuration in place.
func SetFile(f *File) {
	currentFile.Store(f)
}

// GetServer returns the server section of the File struct.
func (f *File) GetServer() *ServerSection {
	if f == nil || f.Server == nil {
		return &ServerSection{}
	}

	return f.Server
}

// GetPipeline returns the pipeline section of the File struct.
func (f *File) GetPipeline() *PipelineSection {
	if f == nil || f.Pipeline == nil {
		return &PipelineSection{}
	}

	return f.Pipeline
}

// GetAssessor returns the assessor section of the File struct.
func (f *File) GetAssessor() *AssessorSection {
	if f == nil || f.Assessor == nil {
		return &AssessorSection{}
	}

	return f.Assessor
}

// GetTelemetry returns the telemetry section of the File struct.
func (f *File) GetTelemetry() *TelemetrySection {
	if f == nil || f.Telemetry == nil {
		return &TelemetrySection{}
	}

	return f.Telemetry
}
