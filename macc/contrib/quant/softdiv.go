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

// Div divides numer by denom using restoring binary long division,
// without a hardware divide instruction. The result truncates toward
// zero, exactly like a native signed 32-bit divide, including the
// MinInt32/-1 case where the quotient wraps back to MinInt32.
//
// Division by zero returns 0 rather than trapping; the rescale path
// relies on that soft failure.
func Div(numer, denom int32) int32 {
	if denom == 0 {
		return 0
	}

	neg := (numer < 0) != (denom < 0)

	// Magnitudes in 64 bits so MinInt32 negates cleanly.
	a := uint64(int64(numer))
	if numer < 0 {
		a = uint64(-int64(numer))
	}
	b := uint64(int64(denom))
	if denom < 0 {
		b = uint64(-int64(denom))
	}

	// Restoring division: try the divisor at each bit position 31..0.
	var q uint32
	for i := 31; i >= 0; i-- {
		shifted := b << uint(i)
		if shifted <= a {
			a -= shifted
			q |= 1 << uint(i)
		}
	}

	if neg {
		return -int32(q)
	}
	return int32(q)
}
