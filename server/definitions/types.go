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

package definitions

// Outcome is the numeric classification of a processed item.
type Outcome uint8

const (
	// OutcomeSuccess marks an item that was assessed without error.
	OutcomeSuccess Outcome = iota

	// OutcomeError marks an item that failed for a reason other than a timeout.
	OutcomeError

	// OutcomeTimeout marks an item whose assessment exceeded its deadline.
	OutcomeTimeout
)

const (
	// OutcomeSuccessName is the string form of OutcomeSuccess.
	OutcomeSuccessName = "success"

	// OutcomeErrorName is the string form of OutcomeError.
	OutcomeErrorName = "error"

	// OutcomeTimeoutName is the string form of OutcomeTimeout.
	OutcomeTimeoutName = "timeout"

	// OutcomeUnknownName is the string form of an out-of-range Outcome.
	OutcomeUnknownName = "unknown"
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return OutcomeSuccessName
	case OutcomeError:
		return OutcomeErrorName
	case OutcomeTimeout:
		return OutcomeTimeoutName
	default:
		return OutcomeUnknownName
	}
}

// RunState describes where a processing run currently is in its lifecycle.
type RunState uint8

const (
	// RunStateRunning marks a run whose pipeline is still processing batches.
	RunStateRunning RunState = iota

	// RunStateCompleted marks a run whose pipeline finished and produced a report.
	RunStateCompleted

	// RunStateFailed marks a run whose pipeline aborted before producing a report.
	RunStateFailed
)

const (
	// RunStateRunningName is the string form of RunStateRunning.
	RunStateRunningName = "running"

	// RunStateCompletedName is the string form of RunStateCompleted.
	RunStateCompletedName = "completed"

	// RunStateFailedName is the string form of RunStateFailed.
	RunStateFailedName = "failed"
)

func (s RunState) String() string {
	switch s {
	case RunStateRunning:
		return RunStateRunningName
	case RunStateCompleted:
		return RunStateCompletedName
	case RunStateFailed:
		return RunStateFailedName
	default:
		return OutcomeUnknownName
	}
}
