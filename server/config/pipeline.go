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
	"time"

	"github.com/evalsuite/batchmeter/server/definitions"
)

// PipelineSection represents the configuration of the batch processing
// pipeline. All values are defaults; a run request may override them within
// the validated bounds.
type PipelineSection struct {
	BatchSize         int           `mapstructure:"batch_size" validate:"omitempty,min=1,max=1000"`
	ConcurrentBatches int           `mapstructure:"concurrent_batches" validate:"omitempty,min=1,max=64"`
	Workers           int           `mapstructure:"workers" validate:"omitempty,min=1,max=64"`
	ItemTimeout       time.Duration `mapstructure:"item_timeout" validate:"omitempty,gt=0,max=1h"`
}

// GetBatchSize returns the default number of items grouped into one batch.
func (p *PipelineSection) GetBatchSize() int {
	if p == nil || p.BatchSize < 1 {
		return definitions.DefaultBatchSize
	}

	return p.BatchSize
}

// GetConcurrentBatches returns how many batches may be in flight at once.
func (p *PipelineSection) GetConcurrentBatches() int {
	if p == nil || p.ConcurrentBatches < 1 {
		return definitions.DefaultConcurrentBatches
	}

	return p.ConcurrentBatches
}

// GetWorkers returns the per-batch item concurrency.
func (p *PipelineSection) GetWorkers() int {
	if p == nil || p.Workers < 1 {
		return definitions.DefaultWorkers
	}

	return p.Workers
}

// GetItemTimeout returns the deadline applied to a single item assessment.
func (p *PipelineSection) GetItemTimeout() time.Duration {
	if p == nil || p.ItemTimeout <= 0 {
		return 30 * time.Second
	}

	return p.ItemTimeout
}
