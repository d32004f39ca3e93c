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

package errors

import (
	"errors"
)

type DetailedError struct {
	err      error
	guid     string
	details  string
	instance string
}

func (d *DetailedError) Error() string {
	return d.err.Error()
}

func (d *DetailedError) WithGUID(guid string) *DetailedError {
	if d == nil {
		return nil
	}

	d.guid = guid

	return d
}

func (d *DetailedError) WithDetail(detail string) *DetailedError {
	if d == nil {
		return nil
	}

	d.details = detail

	return d
}

func (d *DetailedError) WithInstance(instance string) *DetailedError {
	if d == nil {
		return nil
	}

	d.instance = instance

	return d
}

func (d *DetailedError) GetGUID() string {
	return d.guid
}

func (d *DetailedError) GetDetails() string {
	return d.details
}

func (d *DetailedError) GetInstance() string {
	return d.instance
}

func NewDetailedError(err string) *DetailedError {
	return &DetailedError{err: errors.New(err)}
}

// runs.

var (
	ErrRunNotFound     = errors.New("run not found")
	ErrRunNotCompleted = errors.New("run has not completed")
	ErrRunStillActive  = errors.New("run is still active")
	ErrEmptyCorpus     = errors.New("run request contains no documents")
)

// assessor.

var (
	ErrAssessorStatus   = NewDetailedError("assessor_unexpected_status")
	ErrAssessorDecode   = NewDetailedError("assessor_response_decode_error")
	ErrAssessorTimeout  = NewDetailedError("assessor_request_timeout")
	ErrAssessorRequest  = NewDetailedError("assessor_request_error")
	ErrAssessorSimFault = errors.New("simulated assessment fault")
)

// config.

var (
	ErrWrongLogLevel     = errors.New("wrong log level: <%s>")
	ErrConfigFileMissing = errors.New("configuration file not found")
	ErrConfigValidation  = errors.New("configuration validation failed")
)

// http.

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidRunRequest    = errors.New("invalid run request")
	ErrInvalidTotalItems    = errors.New("total_items must not be negative")
)
