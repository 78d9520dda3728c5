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

// Package quant provides the integer-only quantization kernels that sit
// between accelerator layers: a division-free fixed-point divider, a
// fused bias-add + ReLU + int8 rescale, and the batched 4-lane variant.
//
// Everything here is exact integer arithmetic. The rescale maps a
// post-ReLU int32 accumulator range onto [0, 127] with a Q16 reciprocal
// multiply, so the largest element of a non-zero vector always lands on
// 127 (up to truncation).
package quant

// Fuse adds bias to raw in place, clamps negatives to zero, and rescales
// the result into out as int8.
//
// The ReLU is branchless: v & ^(v>>31) keeps non-negative values and
// zeroes negative ones. The running maximum of the clamped vector picks
// the rescale divisor; if it is zero the whole output is the zero vector
// (nothing to scale, and it keeps Div away from a zero denominator).
// Otherwise each element is multiplied by the Q16 reciprocal of the
// maximum scaled to 127 and shifted back down, truncating.
//
// raw and bias must have the same length; out must be at least as long.
// raw is left holding the biased, clamped accumulators.
func Fuse(raw []int32, bias []int32, out []int8) {
	var maxVal int32
	for i := range raw {
		v := raw[i] + bias[i]
		v = v & ^(v >> 31)
		raw[i] = v
		if v > maxVal {
			maxVal = v
		}
	}

	if maxVal == 0 {
		for i := range raw {
			out[i] = 0
		}
		return
	}

	recip := Div(127<<16, maxVal)
	for i := range raw {
		out[i] = int8((raw[i] * recip) >> 16)
	}
}

// Fuse4 is the batched form of Fuse: four independent accumulator lanes
// against one shared bias vector, with four independent maxima and
// reciprocals. Element-for-element it computes exactly what four Fuse
// calls would; the batching is a throughput shape, not a different
// numeric policy.
//
// All four raw lanes and bias must have the same length.
func Fuse4(raw *[4][]int32, bias []int32, out *[4][]int8) {
	var maxVal [4]int32
	for i := range bias {
		b := bias[i]
		for lane := 0; lane < 4; lane++ {
			v := raw[lane][i] + b
			v = v & ^(v >> 31)
			raw[lane][i] = v
			if v > maxVal[lane] {
				maxVal[lane] = v
			}
		}
	}

	var recip [4]int32
	for lane := 0; lane < 4; lane++ {
		// Zero maximum leaves a zero reciprocal, which zeroes the lane
		// below exactly as Fuse's explicit all-zero path does.
		if maxVal[lane] != 0 {
			recip[lane] = Div(127<<16, maxVal[lane])
		}
	}

	for i := range bias {
		for lane := 0; lane < 4; lane++ {
			out[lane][i] = int8((raw[lane][i] * recip[lane]) >> 16)
		}
	}
}

// AddBias adds the pre-scaled bias vector to acc in place. The output
// layer uses this alone: its logits feed argmax directly and are never
// clamped or requantized.
func AddBias(acc []int32, bias []int32) {
	for i := range acc {
		acc[i] += bias[i]
	}
}
