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

// Package pack transforms row-major int8 matrices and sample batches into
// the accelerator's lane-interleaved layout.
//
// The engine is a 4-lane systolic design: every 32-bit word it fetches
// carries four int8 values, lane 0 in the low byte. For weights the four
// lanes are four consecutive output rows at one column; for inputs they
// are four concurrent samples at one column. Both sides therefore share
// one bit layout, which is what lets a layer's quantized activations be
// repacked directly as the next layer's input batch.
package pack

// Lanes is the systolic width: values packed per 32-bit word, rows per
// weight block, and samples per input batch.
const Lanes = 4

// BlockWords returns the number of 32-bit words in one packed weight
// block (or one packed input batch) of the given reduction depth. A block
// is always exactly depth words — 4*depth bytes — independent of how many
// real rows it covers.
func BlockWords(depth int) int {
	return depth
}

// NumBlocks returns the number of 4-row blocks needed to cover rows
// output rows.
func NumBlocks(rows int) int {
	return (rows + Lanes - 1) / Lanes
}

// PackedWeightWords returns the total words for all blocks of a
// rows x depth weight matrix.
func PackedWeightWords(rows, depth int) int {
	return NumBlocks(rows) * BlockWords(depth)
}

// WeightBlockWords packs one 4-row block of a row-major weight matrix
// into lane-interleaved words.
//
// Word k of the output packs weights[rowStart+lane][k] for lane 0..3,
// lane 0 in the low byte. Lanes whose row index reaches totalRows are
// packed as zero; the input slice is never read out of bounds.
//
// Parameters:
//   - weights: totalRows x depth matrix in row-major order
//   - rowStart: first row of the block (must be a multiple of 4)
//   - depth: reduction depth (columns per row)
//   - totalRows: real row count of the matrix
//   - dst: output buffer, len >= depth
func WeightBlockWords(weights []int8, rowStart, depth, totalRows int, dst []uint32) {
	for k := 0; k < depth; k++ {
		var word uint32
		for lane := 0; lane < Lanes; lane++ {
			row := rowStart + lane
			if row < totalRows {
				word |= uint32(uint8(weights[row*depth+k])) << uint(8*lane)
			}
		}
		dst[k] = word
	}
}

// PackWeights packs an entire rows x depth weight matrix into contiguous
// lane-interleaved blocks: ceil(rows/4) blocks of depth words each, the
// last block zero-padded where its lanes run past the real rows.
//
// dst must have room for PackedWeightWords(rows, depth) words.
func PackWeights(weights []int8, rows, depth int, dst []uint32) {
	for blk := 0; blk < NumBlocks(rows); blk++ {
		WeightBlockWords(weights, blk*Lanes, depth, rows, dst[blk*depth:(blk+1)*depth])
	}
}

// PackInputs packs four samples' int8 vectors into lane-interleaved
// words: word k carries samples[lane][k] with lane 0 in the low byte.
// The bit layout is identical to WeightBlockWords with lane meaning
// sample instead of row.
//
// All four sample slices must have length depth (a short batch is padded
// to four lanes by the caller before packing); dst needs depth words.
func PackInputs(samples *[4][]int8, depth int, dst []uint32) {
	for k := 0; k < depth; k++ {
		word := uint32(uint8(samples[0][k])) |
			uint32(uint8(samples[1][k]))<<8 |
			uint32(uint8(samples[2][k]))<<16 |
			uint32(uint8(samples[3][k]))<<24
		dst[k] = word
	}
}

// LaneAt extracts the int8 value for one lane from a packed word.
func LaneAt(word uint32, lane int) int8 {
	return int8(word >> uint(8*lane))
}

// WeightAt recovers the original weight for (row, col) from packed
// blocks, including the zero padding for rows past the real matrix.
// Mostly useful to verify a packed image.
func WeightAt(packed []uint32, depth, row, col int) int8 {
	blk := row / Lanes
	return LaneAt(packed[blk*depth+col], row%Lanes)
}
