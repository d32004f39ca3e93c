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

package telemetry

import (
	"github.com/shirou/gopsutil/v4/mem"
)

// readMemorySample asks the host for its current memory usage. Host
// introspection is optional: on platforms where gopsutil has no backend the
// sample is simply omitted and the caller carries on without it.
func readMemorySample() *MemorySample {
	vm, err := mem.VirtualMemory()
	if err != nil || vm == nil {
		return nil
	}

	return &MemorySample{
		UsedBytes:   vm.Used,
		TotalBytes:  vm.Total,
		UsedPercent: roundTwoDecimals(vm.UsedPercent),
	}
}
