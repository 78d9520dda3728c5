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

// RegisterFile is the accelerator's register window.
//
// Accesses carry an uncached, non-reorderable contract: every Read32
// observes the device's current state and every Write32 reaches the
// device before the next access is issued. Implementations must not
// buffer, coalesce, or reorder. The drivers rely on this to guarantee
// that configuration registers land before the start bit and that
// result reads happen only after the done bit was observed.
type RegisterFile interface {
	Read32(off uint32) uint32
	Write32(off uint32, v uint32)
}

// Mem is the byte-addressable memory the accelerator fetches operands
// from. Software stages packed weights and input batches here at
// device-visible addresses before programming a tile.
type Mem interface {
	ReadBytes(addr uint32, p []byte)
	WriteBytes(addr uint32, p []byte)
}
