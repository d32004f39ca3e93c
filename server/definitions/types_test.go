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

import "testing"

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		name string
		o    Outcome
		want string
	}{
		{name: "success", o: OutcomeSuccess, want: OutcomeSuccessName},
		{name: "error", o: OutcomeError, want: OutcomeErrorName},
		{name: "timeout", o: OutcomeTimeout, want: OutcomeTimeoutName},
		{name: "unknown", o: Outcome(255), want: OutcomeUnknownName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.o.String(); got != tt.want {
				t.Fatalf("Outcome(%d).String() = %q, want %q", tt.o, got, tt.want)
			}
		})
	}
}

func TestRunStateString(t *testing.T) {
	tests := []struct {
		name string
		s    RunState
		want string
	}{
		{name: "running", s: RunStateRunning, want: RunStateRunningName},
		{name: "completed", s: RunStateCompleted, want: RunStateCompletedName},
		{name: "failed", s: RunStateFailed, want: RunStateFailedName},
		{name: "unknown", s: RunState(255), want: OutcomeUnknownName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Fatalf("RunState(%d).String() = %q, want %q", tt.s, got, tt.want)
			}
		})
	}
}
