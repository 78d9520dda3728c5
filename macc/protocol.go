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

// Version selects a protocol generation.
type Version int

const (
	// V1 is the batch-reuse protocol: weights loaded once per tile,
	// reissued against per-sample input streams via the skip-load bit.
	V1 Version = 1

	// V2 is the strided-tile protocol: complete 4x4 tiles over a
	// lane-packed input batch, FIFO backpressure before each issue.
	V2 Version = 2
)

// String returns a human-readable name for the protocol version.
func (v Version) String() string {
	switch v {
	case V1:
		return "v1-batch-reuse"
	case V2:
		return "v2-strided-tile"
	default:
		return "unknown"
	}
}

// WeightHandle locates a staged, lane-interleaved weight matrix in
// device memory: ceil(Rows/4) blocks of Depth words each, as produced
// by pack.PackWeights.
type WeightHandle struct {
	Addr  uint32
	Rows  int
	Depth int
}

// InputArena locates one batch's staged inputs in device memory. Both
// forms are staged for every batch so that callers stay ignorant of the
// protocol generation: V1 fetches the four raw streams, V2 fetches the
// lane-packed words.
type InputArena struct {
	// RawAddr is the base of four raw int8 sample streams of Depth
	// bytes each, RawStride bytes apart.
	RawAddr   uint32
	RawStride uint32

	// PackedAddr is the base of the lane-packed batch words,
	// PackedStride bytes between consecutive words (4 when dense).
	PackedAddr   uint32
	PackedStride uint32
}

// LayerJob is one whole-layer matrix multiply over a staged batch. The
// drivers fill Out[lane][0:Weights.Rows] with raw int32 accumulators
// for all four lanes; padded lanes compute like any other and their
// results are simply ignored downstream.
//
// Out buffers are caller-owned and reused across batches.
type LayerJob struct {
	Weights WeightHandle
	Inputs  InputArena
	Out     *[4][]int32
}

// Protocol is the accelerator capability the inference pipeline depends
// on. Implementations own the register state machine for one protocol
// generation; callers see only whole-layer forward passes.
//
// LayerForward blocks until the layer completes. Per the register
// contract there is no failure path: a stalled device blocks forever.
type Protocol interface {
	Version() Version
	LayerForward(job *LayerJob)
}

// New returns the driver strategy for the requested protocol version
// over the given register file.
func New(v Version, rf RegisterFile) Protocol {
	switch v {
	case V2:
		return &DriverV2{rf: rf}
	default:
		return &DriverV1{rf: rf}
	}
}
