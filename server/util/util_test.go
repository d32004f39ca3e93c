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

package util

import (
	"context"
	"testing"
	"time"

	"github.com/evalsuite/batchmeter/server/definitions"
)

func TestFormatDurationMs(t *testing.T) {
	var testCases = []struct {
		Name     string
		Duration time.Duration
		Expected string
	}{
		{"zero", 0, "0.000ms"},
		{"sub-millisecond", 345 * time.Microsecond, "0.345ms"},
		{"millisecond range", 12345 * time.Microsecond, "12.345ms"},
		{"second range stays in ms", 2 * time.Second, "2000.000ms"},
	}

	for _, testCase := range testCases {
		if got := FormatDurationMs(testCase.Duration); got != testCase.Expected {
			t.Errorf("Expected %q but got %q for the test case: %s", testCase.Expected, got, testCase.Name)
		}
	}
}

func TestDurationToMs(t *testing.T) {
	if got := DurationToMs(1500 * time.Microsecond); got != 1.5 {
		t.Errorf("Expected 1.5 but got %v", got)
	}

	if got := DurationToMs(0); got != 0 {
		t.Errorf("Expected 0 but got %v", got)
	}
}

func TestByteSize(t *testing.T) {
	var testCases = []struct {
		Name     string
		Bytes    uint64
		Expected string
	}{
		{"bytes", 256, "256B"},
		{"kilobytes", 1536, "1.5KB"},
		{"megabytes", 20 * 1024 * 1024, "20.0MB"},
		{"gigabytes", 3 * 1024 * 1024 * 1024, "3.0GB"},
	}

	for _, testCase := range testCases {
		if got := ByteSize(testCase.Bytes); got != testCase.Expected {
			t.Errorf("Expected %q but got %q for the test case: %s", testCase.Expected, got, testCase.Name)
		}
	}
}

func TestWithNotAvailable(t *testing.T) {
	if got := WithNotAvailable(""); got != definitions.NotAvailable {
		t.Errorf("Expected %q but got %q", definitions.NotAvailable, got)
	}

	if got := WithNotAvailable("value"); got != "value" {
		t.Errorf("Expected %q but got %q", "value", got)
	}
}

func TestGetCtxWithDeadlineItemWithoutConfig(t *testing.T) {
	ctx, cancel := GetCtxWithDeadlineItem(nil, 0)

	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("Expected a deadline on the returned context")
	}

	if time.Until(deadline) <= 0 {
		t.Error("Expected the deadline to be in the future")
	}
}

func TestGetCtxWithDeadlineItemOverride(t *testing.T) {
	ctx, cancel := GetCtxWithDeadlineItem(context.Background(), 50*time.Millisecond)

	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("Expected a deadline on the returned context")
	}

	if remaining := time.Until(deadline); remaining <= 0 || remaining > 50*time.Millisecond {
		t.Errorf("Expected the override deadline to apply, got %v remaining", remaining)
	}
}
