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

// ModelV2 models the strided-tile accelerator generation behind
// macc.RegisterFile.
//
// Each start consumes the full register set (addresses, M/N/K, input
// stride, packed row length) and computes an MxN outer-product tile
// reduced over K into the indexed result block. After a start the FIFO
// reads as full for FullLatency status polls — the backpressure window
// the driver must respect before its next issue — and done reads as set
// only after DoneLatency polls.
type ModelV2 struct {
	Mem *Memory

	// DoneLatency is the number of status polls after a start that
	// report not-done before results become visible.
	DoneLatency int

	// FullLatency is the number of status polls after a start that
	// report FIFO-full.
	FullLatency int

	wAddr, xAddr     uint32
	mDim, nDim, kDim uint32
	xStride, kRowLen uint32

	results [16]int32

	inFlight      bool
	done          bool
	doneCountdown int
	fullCountdown int

	tiles      int
	violations []string
}

// NewModelV2 returns a strided-tile model over mem.
func NewModelV2(mem *Memory) *ModelV2 {
	return &ModelV2{Mem: mem}
}

// Read32 implements macc.RegisterFile.
func (m *ModelV2) Read32(off uint32) uint32 {
	switch {
	case off == macc.RegStatus:
		return m.status()
	case off >= macc.RegResultBase && off < macc.RegResultBase+16*4:
		if !m.done {
			m.violationf("result read at %#02x before done", off)
		}
		return uint32(m.results[(off-macc.RegResultBase)/4])
	default:
		m.violationf("read of unmapped register %#02x", off)
		return 0
	}
}

// Write32 implements macc.RegisterFile.
func (m *ModelV2) Write32(off uint32, v uint32) {
	if m.inFlight && off != macc.RegCtrl {
		m.violationf("register %#02x written while operation in flight", off)
	}
	switch off {
	case macc.RegCtrl:
		if v&macc.CtrlStart != 0 {
			m.start()
		}
	case macc.RegWAddr:
		m.wAddr = v
	case macc.RegXAddr:
		m.xAddr = v
	case macc.RegMDim:
		m.mDim = v
	case macc.RegNDim:
		m.nDim = v
	case macc.RegKDim:
		m.kDim = v
	case macc.RegXStride:
		m.xStride = v
	case macc.RegKRowLen:
		m.kRowLen = v
	default:
		m.violationf("write of unmapped register %#02x", off)
	}
}

func (m *ModelV2) start() {
	if m.inFlight {
		m.violationf("start while operation in flight")
	}
	if m.fullCountdown > 0 {
		m.violationf("start while FIFO full")
	}
	if want := (m.kDim + 3) / 4; m.kRowLen != want {
		m.violationf("K_ROW_LEN %d inconsistent with K_DIM %d (want %d)",
			m.kRowLen, m.kDim, want)
	}
	if m.mDim > 4 || m.nDim > 4 {
		m.violationf("tile dimensions %dx%d exceed the 4x4 array", m.mDim, m.nDim)
	}

	// Outer-product accumulate: weight word k carries four rows at
	// column k, input word k carries four samples at column k.
	m.results = [16]int32{}
	for k := uint32(0); k < m.kDim; k++ {
		wWord := m.Mem.Word(m.wAddr + k*4)
		xWord := m.Mem.Word(m.xAddr + k*m.xStride)
		for r := uint32(0); r < m.mDim; r++ {
			wv := int32(pack.LaneAt(wWord, int(r)))
			for c := uint32(0); c < m.nDim; c++ {
				m.results[r*4+c] += wv * int32(pack.LaneAt(xWord, int(c)))
			}
		}
	}

	m.tiles++
	m.inFlight = true
	m.done = false
	m.doneCountdown = m.DoneLatency
	m.fullCountdown = m.FullLatency
}

func (m *ModelV2) status() uint32 {
	var s uint32
	if m.fullCountdown > 0 {
		m.fullCountdown--
		s |= macc.StatusFull
	}
	if m.inFlight {
		if m.doneCountdown > 0 {
			m.doneCountdown--
			return s
		}
		m.inFlight = false
		m.done = true
	}
	if m.done {
		s |= macc.StatusDone
	}
	return s
}

// Tiles returns the number of issued tiles.
func (m *ModelV2) Tiles() int {
	return m.tiles
}

// Violations returns the recorded protocol violations, nil when clean.
func (m *ModelV2) Violations() []string {
	return m.violations
}

func (m *ModelV2) violationf(format string, args ...any) {
	m.violations = append(m.violations, fmt.Sprintf(format, args...))
}
