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

package loopsfx

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestStatsServiceStartStop(t *testing.T) {
	svc := NewStatsService(
		10*time.Millisecond,
		func(context.Context) {},
		func(context.Context) {},
	)

	ctx := t.Context()

	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestStatsServiceStartIsIdempotent(t *testing.T) {
	svc := NewStatsService(10*time.Millisecond, nil, nil)

	ctx := t.Context()

	if err := svc.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := svc.Start(ctx); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}

	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestStatsServiceTicksInvokeCallback(t *testing.T) {
	var ticks atomic.Int64

	svc := NewStatsService(
		5*time.Millisecond,
		nil,
		func(context.Context) {
			ticks.Add(1)
		},
	)

	if err := svc.Start(t.Context()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if ticks.Load() < 2 {
		t.Fatalf("expected at least 2 ticks, got %d", ticks.Load())
	}
}

func TestStatsServiceStopWithoutStart(t *testing.T) {
	svc := NewStatsService(time.Second, nil, nil)

	if err := svc.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}
