// Copyright 2025 go-maccel Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sim

import (
	"fmt"

	"github.com/ajroetker/go-maccel/macc"
	"github.com/ajroetker/go-maccel/macc/contrib/pack"
)

// ModelV1 models the batch-reuse accelerator generation behind
// macc.RegisterFile.
//
// A start without skip-load latches the weight block from memory into
// an internal buffer; a start with skip-load reuses the latched block
// against a new input stream. DoneLatency status polls elapse before
// the done bit reads as set, exercising the driver's wait loop.
type ModelV1 struct {
	Mem *Memory

	// DoneLatency is the number of status polls after a start that
	// report not-done before the operation completes.
	DoneLatency int

	wAddr, xAddr uint32
	mDim, nDim   uint32

	loaded  []uint32 // latched weight block, one word per column
	results [4]int32

	inFlight  bool
	done      bool
	countdown int

	tiles      int
	loads      int
	violations []string
}

// NewModelV1 returns a batch-reuse model over mem.
func NewModelV1(mem *Memory) *ModelV1 {
	return &ModelV1{Mem: mem}
}

// Read32 implements macc.RegisterFile.
func (m *ModelV1) Read32(off uint32) uint32 {
	switch off {
	case macc.RegStatus:
		return m.status()
	case macc.RegResult0, macc.RegResult1, macc.RegResult2, macc.RegResult3:
		if !m.done {
			m.violationf("result read at %#02x before done", off)
		}
		return uint32(m.results[(off-macc.RegResult0)/4])
	default:
		m.violationf("read of unmapped register %#02x", off)
		return 0
	}
}

// Write32 implements macc.RegisterFile.
func (m *ModelV1) Write32(off uint32, v uint32) {
	if m.inFlight && off != macc.RegCtrl {
		m.violationf("register %#02x written while operation in flight", off)
	}
	switch off {
	case macc.RegCtrl:
		if v&macc.CtrlStart != 0 {
			m.start(v&macc.CtrlSkipLoad != 0)
		}
	case macc.RegWAddr:
		m.wAddr = v
	case macc.RegXAddr:
		m.xAddr = v
	case macc.RegMDim:
		m.mDim = v
	case macc.RegNDim:
		m.nDim = v
	default:
		m.violationf("write of unmapped register %#02x", off)
	}
}

func (m *ModelV1) start(skipLoad bool) {
	if m.inFlight {
		m.violationf("start while operation in flight")
	}

	if skipLoad {
		if m.loaded == nil {
			m.violationf("skip-load start with no loaded weight block")
			m.loaded = make([]uint32, m.nDim)
		}
	} else {
		m.loaded = make([]uint32, m.nDim)
		for k := uint32(0); k < m.nDim; k++ {
			m.loaded[k] = m.Mem.Word(m.wAddr + k*4)
		}
		m.loads++
	}

	// One multiply-accumulate per column across all four lanes; the tile
	// result is ready immediately, visibility is gated by DoneLatency.
	var acc [4]int32
	for k := uint32(0); k < m.nDim; k++ {
		x := int32(m.Mem.Int8(m.xAddr + k))
		word := m.loaded[k]
		for lane := 0; lane < 4; lane++ {
			acc[lane] += int32(pack.LaneAt(word, lane)) * x
		}
	}
	m.results = acc

	m.tiles++
	m.inFlight = true
	m.done = false
	m.countdown = m.DoneLatency
}

func (m *ModelV1) status() uint32 {
	if m.inFlight {
		if m.countdown > 0 {
			m.countdown--
			return 0
		}
		m.inFlight = false
		m.done = true
	}
	if m.done {
		return macc.StatusDone
	}
	return 0
}

// Tiles returns the number of started operations.
func (m *ModelV1) Tiles() int {
	return m.tiles
}

// Loads returns the number of weight block transfers (starts without
// skip-load).
func (m *ModelV1) Loads() int {
	return m.loads
}

// Violations returns the recorded protocol violations, nil when clean.
func (m *ModelV1) Violations() []string {
	return m.violations
}

func (m *ModelV1) violationf(format string, args ...any) {
	m.violations = append(m.violations, fmt.Sprintf(format, args...))
}
