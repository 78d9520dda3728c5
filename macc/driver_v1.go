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

// DriverV1 drives the batch-reuse protocol generation.
//
// Per 4-row weight block it programs the block address and dimensions
// once, starts a load-and-compute against lane 0's input stream, then
// reissues with the skip-load bit for the remaining lanes so the block
// is transferred only once. Each issue is drained (done polled, results
// read) before the next, so the accelerator owns all tile-local state
// between start and done.
type DriverV1 struct {
	rf RegisterFile
}

// NewV1 returns a batch-reuse driver over rf.
func NewV1(rf RegisterFile) *DriverV1 {
	return &DriverV1{rf: rf}
}

// Version reports V1.
func (d *DriverV1) Version() Version {
	return V1
}

// LayerForward computes out[lane][row] for every 4-row block of the
// weight matrix, reusing each loaded block across the four input lanes.
func (d *DriverV1) LayerForward(job *LayerJob) {
	depth := job.Weights.Depth
	blockBytes := uint32(4 * depth)

	for rowStart := 0; rowStart < job.Weights.Rows; rowStart += 4 {
		rows := job.Weights.Rows - rowStart
		if rows > 4 {
			rows = 4
		}
		wAddr := job.Weights.Addr + uint32(rowStart/4)*blockBytes

		// Lane 0: load the block and compute.
		d.rf.Write32(RegWAddr, wAddr)
		d.rf.Write32(RegXAddr, job.Inputs.RawAddr)
		d.rf.Write32(RegMDim, uint32(rows))
		d.rf.Write32(RegNDim, uint32(depth))
		d.rf.Write32(RegCtrl, CtrlStart)
		d.drain(job, rowStart, rows, 0)

		// Lanes 1..3: reuse the loaded block.
		for lane := 1; lane < 4; lane++ {
			d.rf.Write32(RegXAddr, job.Inputs.RawAddr+uint32(lane)*job.Inputs.RawStride)
			d.rf.Write32(RegCtrl, CtrlStart|CtrlSkipLoad)
			d.drain(job, rowStart, rows, lane)
		}
	}
}

// drain busy-waits for done and copies the tile's results out. The wait
// is unbounded: a device that never raises done parks the driver here.
func (d *DriverV1) drain(job *LayerJob, rowStart, rows, lane int) {
	for d.rf.Read32(RegStatus)&StatusDone == 0 {
	}

	out := job.Out[lane]
	out[rowStart] = int32(d.rf.Read32(RegResult0))
	if rows > 1 {
		out[rowStart+1] = int32(d.rf.Read32(RegResult1))
	}
	if rows > 2 {
		out[rowStart+2] = int32(d.rf.Read32(RegResult2))
	}
	if rows > 3 {
		out[rowStart+3] = int32(d.rf.Read32(RegResult3))
	}
}
