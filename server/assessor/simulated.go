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

package assessor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/errors"
)

// SimulatedAssessor synthesizes latency, error and timeout behavior from the
// configuration. It lets the whole service run and be load-tested without a
// real assessment backend.
type SimulatedAssessor struct {
	minLatency  time.Duration
	maxLatency  time.Duration
	errorRate   float64
	timeoutRate float64
}

var _ Assessor = (*SimulatedAssessor)(nil)

// NewSimulatedAssessor creates a simulated assessor from the simulation
// settings.
func NewSimulatedAssessor(sim *config.Simulation) *SimulatedAssessor {
	return &SimulatedAssessor{
		minLatency:  sim.GetMinLatency(),
		maxLatency:  sim.GetMaxLatency(),
		errorRate:   sim.GetErrorRate(),
		timeoutRate: sim.GetTimeoutRate(),
	}
}

// Assess sleeps for a random latency between the configured bounds and then
// fails, times out or succeeds according to the configured rates. A
// simulated timeout blocks until the context deadline fires, exactly like a
// stuck backend would.
func (a *SimulatedAssessor) Assess(ctx context.Context, item Item) (*Assessment, error) {
	roll := rand.Float64()

	if roll < a.timeoutRate {
		<-ctx.Done()

		return nil, ctx.Err()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(a.randomLatency()):
	}

	if roll < a.timeoutRate+a.errorRate {
		return nil, errors.ErrAssessorSimFault
	}

	return &Assessment{
		Result:    fmt.Sprintf("simulated assessment of %s", item.ID),
		Timestamp: time.Now().Format(time.DateTime),
	}, nil
}

func (a *SimulatedAssessor) randomLatency() time.Duration {
	if a.maxLatency <= a.minLatency {
		return a.minLatency
	}

	return a.minLatency + rand.N(a.maxLatency-a.minLatency)
}
