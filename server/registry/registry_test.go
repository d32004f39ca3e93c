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

package registry

import (
	"sync"
	"testing"

	"github.com/evalsuite/batchmeter/server/config"
	"github.com/evalsuite/batchmeter/server/definitions"
	"github.com/evalsuite/batchmeter/server/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry(&config.File{})
}

func TestStartRunTracksActive(t *testing.T) {
	reg := newTestRegistry()

	run := reg.StartRun(100, 10)

	require.NotNil(t, run)
	assert.NotEmpty(t, run.GUID)
	assert.Equal(t, definitions.RunStateRunningName, run.State)
	assert.NotNil(t, run.Recorder)
	assert.Equal(t, 1, reg.ActiveCount())

	found, ok := reg.Get(run.GUID)

	require.True(t, ok)
	assert.Same(t, run, found)
}

func TestCompleteMovesRunToReports(t *testing.T) {
	reg := newTestRegistry()

	run := reg.StartRun(10, 5)
	report := run.Recorder.DetailedReport(10)

	reg.Complete(run.GUID, definitions.RunStateCompletedName, report)

	assert.Zero(t, reg.ActiveCount())

	found, ok := reg.Get(run.GUID)

	require.True(t, ok)
	assert.Equal(t, definitions.RunStateCompletedName, found.State)
	assert.Same(t, report, found.Report)
}

func TestCompleteLeavesSharedRunUntouched(t *testing.T) {
	reg := newTestRegistry()

	run := reg.StartRun(4, 2)

	stop := make(chan struct{})

	var wg sync.WaitGroup

	// Readers hold the shared pointer and walk the list while the run
	// completes; the completed record must be a separate copy.
	for range 4 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for {
				select {
				case <-stop:
					return
				default:
				}

				for _, listed := range reg.List() {
					_ = listed.State
					_ = listed.Report
				}
			}
		}()
	}

	report := run.Recorder.DetailedReport(4)

	reg.Complete(run.GUID, definitions.RunStateCompletedName, report)

	close(stop)
	wg.Wait()

	assert.Equal(t, definitions.RunStateRunningName, run.State)
	assert.Nil(t, run.Report)

	completed, ok := reg.Get(run.GUID)

	require.True(t, ok)
	assert.NotSame(t, run, completed)
	assert.Equal(t, definitions.RunStateCompletedName, completed.State)
	assert.Same(t, report, completed.Report)
}

func TestCompleteUnknownRunIsNoOp(t *testing.T) {
	reg := newTestRegistry()

	assert.NotPanics(t, func() {
		reg.Complete("no-such-run", definitions.RunStateCompletedName, nil)
	})

	assert.Empty(t, reg.List())
}

func TestListContainsActiveAndCompleted(t *testing.T) {
	reg := newTestRegistry()

	active := reg.StartRun(5, 5)
	done := reg.StartRun(7, 7)

	reg.Complete(done.GUID, definitions.RunStateCompletedName, nil)

	runs := reg.List()

	require.Len(t, runs, 2)

	guids := map[string]bool{}

	for _, run := range runs {
		guids[run.GUID] = true
	}

	assert.True(t, guids[active.GUID])
	assert.True(t, guids[done.GUID])
}

func TestEvictReport(t *testing.T) {
	reg := newTestRegistry()

	run := reg.StartRun(3, 3)

	t.Run("active runs cannot be evicted", func(t *testing.T) {
		assert.ErrorIs(t, reg.EvictReport(run.GUID), errors.ErrRunStillActive)
	})

	t.Run("completed runs are evicted", func(t *testing.T) {
		reg.Complete(run.GUID, definitions.RunStateFailedName, nil)

		require.NoError(t, reg.EvictReport(run.GUID))

		_, ok := reg.Get(run.GUID)

		assert.False(t, ok)
	})

	t.Run("unknown runs report not found", func(t *testing.T) {
		assert.ErrorIs(t, reg.EvictReport("no-such-run"), errors.ErrRunNotFound)
	})
}
