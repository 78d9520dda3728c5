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
	"math"
	"math/rand"
	"testing"
)

func TestDivByZero(t *testing.T) {
	for _, a := range []int32{0, 1, -1, 127, math.MaxInt32, math.MinInt32} {
		if got := Div(a, 0); got != 0 {
			t.Errorf("Div(%d, 0) = %d, want 0", a, got)
		}
	}
}

func TestDivKnownValues(t *testing.T) {
	tests := []struct {
		numer, denom, want int32
	}{
		{0, 5, 0},
		{10, 3, 3},
		{-10, 3, -3},
		{10, -3, -3},
		{-10, -3, 3},
		{7, 7, 1},
		{6, 7, 0},
		{127 << 16, 1, 127 << 16},
		{127 << 16, 127, 1 << 16},
		{math.MaxInt32, 1, math.MaxInt32},
		{math.MaxInt32, math.MaxInt32, 1},
		{math.MinInt32, 1, math.MinInt32},
		{math.MinInt32, 2, math.MinInt32 / 2},
		{math.MinInt32, math.MinInt32, 1},
		// Overflow case: native Go division panics here, hardware DIV
		// wraps the quotient back to the dividend.
		{math.MinInt32, -1, math.MinInt32},
	}
	for _, tc := range tests {
		if got := Div(tc.numer, tc.denom); got != tc.want {
			t.Errorf("Div(%d, %d) = %d, want %d", tc.numer, tc.denom, got, tc.want)
		}
	}
}

// TestDivMatchesNative sweeps random operand pairs and checks Div against
// the native truncating divide.
func TestDivMatchesNative(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200000; i++ {
		a := int32(rng.Uint32())
		b := int32(rng.Uint32())
		if b == 0 || (a == math.MinInt32 && b == -1) {
			continue
		}
		if got, want := Div(a, b), a/b; got != want {
			t.Fatalf("Div(%d, %d) = %d, want %d", a, b, got, want)
		}
	}
}

// TestDivSmallExhaustive covers every pair in a small window, where the
// quotient logic hits all sign combinations and off-by-one boundaries.
func TestDivSmallExhaustive(t *testing.T) {
	for a := int32(-64); a <= 64; a++ {
		for b := int32(-64); b <= 64; b++ {
			if b == 0 {
				continue
			}
			if got, want := Div(a, b), a/b; got != want {
				t.Fatalf("Div(%d, %d) = %d, want %d", a, b, got, want)
			}
		}
	}
}
