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

package quant

import (
	"math/rand"
	"testing"
)

func TestFuseAllNonPositive(t *testing.T) {
	raw := []int32{-5, 0, -100, -1}
	bias := []int32{4, -1, 50, 0}
	out := make([]int8, 4)
	for i := range out {
		out[i] = 99 // ensure Fuse actually writes zeros
	}

	Fuse(raw, bias, out)

	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %d, want 0", i, v)
		}
	}
	for i, v := range raw {
		if v != 0 {
			t.Errorf("raw[%d] = %d after ReLU, want 0", i, v)
		}
	}
}

func TestFuseMaxLandsOn127(t *testing.T) {
	// 512 divides 127<<16 exactly, so the maximum rescales to 127 with
	// no truncation loss.
	raw := []int32{100, 250, -3, 512}
	bias := []int32{0, 0, 0, 0}
	out := make([]int8, 4)

	Fuse(raw, bias, out)

	if out[3] != 127 {
		t.Errorf("max element rescaled to %d, want 127", out[3])
	}
	for i, v := range out {
		if v < 0 || v > 127 {
			t.Errorf("out[%d] = %d, outside [0, 127]", i, v)
		}
	}
}

func TestFuseTruncationOneBelow(t *testing.T) {
	// 500 does not divide 127<<16: recip = floor(127<<16/500) = 16646,
	// 500*16646 >> 16 = 126. The truncating rescale may land the maximum
	// one below full scale; it must never exceed it.
	raw := []int32{500}
	bias := []int32{0}
	out := make([]int8, 1)

	Fuse(raw, bias, out)

	if out[0] != 126 {
		t.Errorf("out[0] = %d, want 126", out[0])
	}
}

func TestFuseBiasApplied(t *testing.T) {
	// bias pushes element 0 to 127 (recip is exactly 1<<16); element 1
	// is clamped by the ReLU.
	raw := []int32{10, 50, 20}
	bias := []int32{117, -60, 0}
	out := make([]int8, 3)

	Fuse(raw, bias, out)

	if raw[0] != 127 || raw[1] != 0 || raw[2] != 20 {
		t.Fatalf("biased+clamped raw = %v, want [127 0 20]", raw)
	}
	if out[0] != 127 {
		t.Errorf("out[0] = %d, want 127", out[0])
	}
	if out[1] != 0 {
		t.Errorf("out[1] = %d, want 0", out[1])
	}
	if out[2] != 20 {
		t.Errorf("out[2] = %d, want 20", out[2])
	}
}

// TestFuseRangeProperty checks the rescale invariants over random vectors:
// outputs stay in [0, 127] and a non-zero vector's maximum reaches full
// scale up to truncation (126 or 127).
func TestFuseRangeProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.Intn(256)
		raw := make([]int32, n)
		bias := make([]int32, n)
		out := make([]int8, n)
		for i := range raw {
			raw[i] = int32(rng.Intn(1<<20)) - 1<<19
			bias[i] = int32(rng.Intn(1<<12)) - 1<<11
		}

		Fuse(raw, bias, out)

		var maxOut int8
		anyPositive := false
		for i, v := range out {
			if v < 0 || v > 127 {
				t.Fatalf("trial %d: out[%d] = %d, outside [0, 127]", trial, i, v)
			}
			if v > maxOut {
				maxOut = v
			}
			if raw[i] > 0 {
				anyPositive = true
			}
		}
		if anyPositive && maxOut < 126 {
			t.Fatalf("trial %d: max output = %d, want 126 or 127", trial, maxOut)
		}
	}
}

// TestFuse4MatchesScalar asserts byte-for-byte equivalence between the
// batched kernel and four scalar Fuse calls on the same inputs, including
// lanes whose clamped maximum is zero.
func TestFuse4MatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const n = 128

	for trial := 0; trial < 100; trial++ {
		bias := make([]int32, n)
		for i := range bias {
			bias[i] = int32(rng.Intn(1<<12)) - 1<<11
		}

		var batched, scalar [4][]int32
		var outBatched, outScalar [4][]int8
		for lane := 0; lane < 4; lane++ {
			batched[lane] = make([]int32, n)
			scalar[lane] = make([]int32, n)
			outBatched[lane] = make([]int8, n)
			outScalar[lane] = make([]int8, n)
			for i := 0; i < n; i++ {
				v := int32(rng.Intn(1<<20)) - 1<<19
				if lane == 3 {
					// Force an all-nonpositive lane (even after bias)
					// to cover the zero-maximum path alongside live lanes.
					v = -(1 << 12) - int32(rng.Intn(1<<10))
				}
				batched[lane][i] = v
				scalar[lane][i] = v
			}
		}

		Fuse4(&batched, bias, &outBatched)
		for lane := 0; lane < 4; lane++ {
			Fuse(scalar[lane], bias, outScalar[lane])
		}

		for lane := 0; lane < 4; lane++ {
			for i := 0; i < n; i++ {
				if outBatched[lane][i] != outScalar[lane][i] {
					t.Fatalf("trial %d lane %d: batched[%d] = %d, scalar = %d",
						trial, lane, i, outBatched[lane][i], outScalar[lane][i])
				}
				if batched[lane][i] != scalar[lane][i] {
					t.Fatalf("trial %d lane %d: batched raw[%d] = %d, scalar = %d",
						trial, lane, i, batched[lane][i], scalar[lane][i])
				}
			}
		}
	}
}

func TestAddBias(t *testing.T) {
	acc := []int32{1, -2, 3}
	bias := []int32{10, 20, -30}

	AddBias(acc, bias)

	want := []int32{11, 18, -27}
	for i := range acc {
		if acc[i] != want[i] {
			t.Errorf("acc[%d] = %d, want %d", i, acc[i], want[i])
		}
	}
}
