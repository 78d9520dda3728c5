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

// Register byte offsets shared by both protocol generations. CTRL and
// STATUS alias offset 0x00: writes reach the control register, reads
// return status bits.
const (
	RegCtrl   = 0x00
	RegStatus = 0x00
	RegWAddr  = 0x04
	RegXAddr  = 0x08
	RegMDim   = 0x0C
	RegNDim   = 0x10
)

// Control and status bits.
const (
	CtrlStart    = 1 << 0 // write: begin the programmed operation
	StatusDone   = 1 << 1 // read: current tile's results are ready
	CtrlSkipLoad = 1 << 2 // write, V1 only: reuse the loaded weight block
	StatusFull   = 1 << 2 // read, V2 only: issuing now would overflow the FIFO
)

// V1 result registers: one int32 per tile row.
const (
	RegResult0 = 0x14
	RegResult1 = 0x18
	RegResult2 = 0x1C
	RegResult3 = 0x20
)

// V2-only registers. Results live in an indexed 16-word block.
const (
	RegKDim       = 0x14
	RegResultBase = 0x18 // RESULT[row][col] at RegResultBase + (row*4+col)*4
	RegXStride    = 0x58 // byte stride between consecutive packed input words
	RegKRowLen    = 0x5C // packed row length in 128-bit memory beats, ceil(K/4)
)

// ResultOffset returns the V2 register offset of RESULT[row][col].
func ResultOffset(row, col int) uint32 {
	return RegResultBase + uint32(row*4+col)*4
}
