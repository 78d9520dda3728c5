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

package macc

// DriverV2 drives the strided-tile protocol generation.
//
// Every issue is a complete 4x4 tile: four weight rows against the four
// lanes of a packed input batch, reduced over K. Before programming a
// tile the driver polls the FIFO-full bit — the engine's backpressure
// signal, distinct from done — and after starting it polls done before
// reading the indexed result block. Rows past the real matrix are
// zero-padded lanes in the packed weights; their results are computed
// but never read.
type DriverV2 struct {
	rf RegisterFile
}

// NewV2 returns a strided-tile driver over rf.
func NewV2(rf RegisterFile) *DriverV2 {
	return &DriverV2{rf: rf}
}

// Version reports V2.
func (d *DriverV2) Version() Version {
	return V2
}

// LayerForward issues one 4x4 tile per weight block over the packed
// batch and gathers the indexed results into the lane accumulators.
func (d *DriverV2) LayerForward(job *LayerJob) {
	depth := job.Weights.Depth
	blockBytes := uint32(4 * depth)
	kRowLen := uint32((depth + 3) / 4)

	for rowStart := 0; rowStart < job.Weights.Rows; rowStart += 4 {
		rows := job.Weights.Rows - rowStart
		if rows > 4 {
			rows = 4
		}

		// Backpressure: a full FIFO means issuing now would overflow
		// internal buffering. Unbounded poll, like every wait here.
		for d.rf.Read32(RegStatus)&StatusFull != 0 {
		}

		d.rf.Write32(RegWAddr, job.Weights.Addr+uint32(rowStart/4)*blockBytes)
		d.rf.Write32(RegXAddr, job.Inputs.PackedAddr)
		d.rf.Write32(RegMDim, 4)
		d.rf.Write32(RegNDim, 4)
		d.rf.Write32(RegKDim, uint32(depth))
		d.rf.Write32(RegXStride, job.Inputs.PackedStride)
		d.rf.Write32(RegKRowLen, kRowLen)
		d.rf.Write32(RegCtrl, CtrlStart)

		for d.rf.Read32(RegStatus)&StatusDone == 0 {
		}

		for r := 0; r < rows; r++ {
			for lane := 0; lane < 4; lane++ {
				job.Out[lane][rowStart+r] = int32(d.rf.Read32(ResultOffset(r, lane)))
			}
		}
	}
}
