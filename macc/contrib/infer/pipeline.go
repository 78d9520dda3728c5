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

package infer

import (
	"encoding/binary"

	"github.com/ajroetker/go-maccel/macc"
	"github.com/ajroetker/go-maccel/macc/contrib/pack"
	"github.com/ajroetker/go-maccel/macc/contrib/quant"
)

// BatchLanes samples are processed per accelerator pass. A short final
// batch is padded to this width by duplicating its first sample; padded
// lanes compute normally but never reach the tally.
const BatchLanes = 4

// Tally is the aggregate outcome of a run.
type Tally struct {
	Correct int
	Wrong   int
}

// Total returns the number of tallied comparisons.
func (t Tally) Total() int {
	return t.Correct + t.Wrong
}

// arena is the fixed device-memory layout, computed once from the model
// dimensions. Regions are reused every batch; nothing is reallocated.
type arena struct {
	hiddenWeights uint32
	outputWeights uint32
	inputs        macc.InputArena
	activations   macc.InputArena
	end           uint32
}

// align16 rounds up to the accelerator's 128-bit fetch granularity.
func align16(v uint32) uint32 {
	return (v + 15) &^ 15
}

func layoutArena(base uint32, model *Model) arena {
	var a arena
	next := align16(base)

	a.hiddenWeights = next
	next = align16(next + uint32(pack.PackedWeightWords(model.Hidden.Rows, model.Hidden.Depth))*4)
	a.outputWeights = next
	next = align16(next + uint32(pack.PackedWeightWords(model.Output.Rows, model.Output.Depth))*4)

	inStride := align16(uint32(model.Hidden.Depth))
	a.inputs = macc.InputArena{
		RawAddr:      next,
		RawStride:    inStride,
		PackedAddr:   next + BatchLanes*inStride,
		PackedStride: 4,
	}
	next = align16(a.inputs.PackedAddr + uint32(model.Hidden.Depth)*4)

	actStride := align16(uint32(model.Output.Depth))
	a.activations = macc.InputArena{
		RawAddr:      next,
		RawStride:    actStride,
		PackedAddr:   next + BatchLanes*actStride,
		PackedStride: 4,
	}
	a.end = align16(a.activations.PackedAddr + uint32(model.Output.Depth)*4)
	return a
}

// Pipeline orchestrates batched inference over one model. It owns all
// accumulator and activation buffers plus a fixed arena of device
// memory, so a Run performs no allocation per batch.
type Pipeline struct {
	proto macc.Protocol
	mem   macc.Mem
	model *Model

	arena         arena
	hiddenWeights macc.WeightHandle
	outputWeights macc.WeightHandle

	hiddenRaw   [BatchLanes][]int32
	hiddenQuant [BatchLanes][]int8
	outputRaw   [BatchLanes][]int32

	wordScratch []uint32
	byteScratch []byte
}

// New lays out the arena at base, packs both layers' weights, stages
// them into device memory, and returns a ready pipeline. Weights are
// static, so this staging happens exactly once.
func New(proto macc.Protocol, mem macc.Mem, model *Model, base uint32) *Pipeline {
	p := &Pipeline{
		proto: proto,
		mem:   mem,
		model: model,
		arena: layoutArena(base, model),
	}

	maxWords := pack.PackedWeightWords(model.Hidden.Rows, model.Hidden.Depth)
	if w := pack.PackedWeightWords(model.Output.Rows, model.Output.Depth); w > maxWords {
		maxWords = w
	}
	p.wordScratch = make([]uint32, maxWords)
	p.byteScratch = make([]byte, maxWords*4)

	for lane := range p.hiddenRaw {
		p.hiddenRaw[lane] = make([]int32, model.Hidden.Rows)
		p.hiddenQuant[lane] = make([]int8, model.Hidden.Rows)
		p.outputRaw[lane] = make([]int32, model.Output.Rows)
	}

	p.hiddenWeights = p.stageWeights(&model.Hidden, p.arena.hiddenWeights)
	p.outputWeights = p.stageWeights(&model.Output, p.arena.outputWeights)
	return p
}

// ArenaEnd returns the first device address past the pipeline's arena,
// for callers sizing a memory image.
func (p *Pipeline) ArenaEnd() uint32 {
	return p.arena.end
}

func (p *Pipeline) stageWeights(l *Layer, addr uint32) macc.WeightHandle {
	words := p.wordScratch[:pack.PackedWeightWords(l.Rows, l.Depth)]
	pack.PackWeights(l.Weights, l.Rows, l.Depth, words)
	p.writeWords(addr, words)
	return macc.WeightHandle{Addr: addr, Rows: l.Rows, Depth: l.Depth}
}

// stageBatch writes both staged input forms: four raw int8 streams for
// the batch-reuse protocol and the lane-packed words for the
// strided-tile protocol. Staging both keeps the pipeline ignorant of
// which generation is driving.
func (p *Pipeline) stageBatch(dst *macc.InputArena, batch *[BatchLanes][]int8, depth int) {
	for lane, sample := range batch {
		p.writeInt8s(dst.RawAddr+uint32(lane)*dst.RawStride, sample)
	}
	words := p.wordScratch[:depth]
	pack.PackInputs(batch, depth, words)
	p.writeWords(dst.PackedAddr, words)
}

// Run iterates the dataset in batches of four, padding the final short
// batch by duplicating its first sample, and tallies predictions
// against labels. Padded lanes are computed like any other but excluded
// from the tally, which covers exactly ds.Len() comparisons.
func (p *Pipeline) Run(ds *Dataset) Tally {
	var tally Tally
	var batch [BatchLanes][]int8
	var preds [BatchLanes]int

	for i := 0; i < ds.Len(); i += BatchLanes {
		live := ds.Len() - i
		if live > BatchLanes {
			live = BatchLanes
		}
		for lane := 0; lane < BatchLanes; lane++ {
			if lane < live {
				batch[lane] = ds.Images[i+lane]
			} else {
				batch[lane] = ds.Images[i]
			}
		}

		p.forward(&batch, &preds)

		for lane := 0; lane < live; lane++ {
			if preds[lane] == ds.Labels[i+lane] {
				tally.Correct++
			} else {
				tally.Wrong++
			}
		}
	}
	return tally
}

// Predict runs one padded batch and returns the four lane predictions.
// All lanes carry sample duplicates when fewer than four samples are
// live; callers pick the lanes they staged.
func (p *Pipeline) Predict(batch *[BatchLanes][]int8, preds *[BatchLanes]int) {
	p.forward(batch, preds)
}

func (p *Pipeline) forward(batch *[BatchLanes][]int8, preds *[BatchLanes]int) {
	// Hidden layer.
	p.stageBatch(&p.arena.inputs, batch, p.model.Hidden.Depth)
	p.proto.LayerForward(&macc.LayerJob{
		Weights: p.hiddenWeights,
		Inputs:  p.arena.inputs,
		Out:     &p.hiddenRaw,
	})
	quant.Fuse4(&p.hiddenRaw, p.model.Hidden.Bias, &p.hiddenQuant)

	// The quantized activations are the next layer's input batch.
	p.stageBatch(&p.arena.activations, &p.hiddenQuant, p.model.Output.Depth)
	p.proto.LayerForward(&macc.LayerJob{
		Weights: p.outputWeights,
		Inputs:  p.arena.activations,
		Out:     &p.outputRaw,
	})
	for lane := 0; lane < BatchLanes; lane++ {
		quant.AddBias(p.outputRaw[lane], p.model.Output.Bias)
	}
	Argmax4(&p.outputRaw, preds)
}

func (p *Pipeline) writeWords(addr uint32, words []uint32) {
	buf := p.byteScratch[:len(words)*4]
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	p.mem.WriteBytes(addr, buf)
}

func (p *Pipeline) writeInt8s(addr uint32, v []int8) {
	buf := p.byteScratch[:len(v)]
	for i, b := range v {
		buf[i] = byte(b)
	}
	p.mem.WriteBytes(addr, buf)
}
