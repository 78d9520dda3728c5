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

// Argmax returns the index of the largest logit. The scan uses
// strict-greater comparison, so the first maximal index wins ties.
func Argmax(xs []int32) int {
	maxIdx := 0
	maxVal := xs[0]
	for i := 1; i < len(xs); i++ {
		if xs[i] > maxVal {
			maxVal = xs[i]
			maxIdx = i
		}
	}
	return maxIdx
}

// Argmax4 classifies four logit lanes independently, each with the same
// strict-greater, first-wins tie policy as Argmax.
func Argmax4(xs *[4][]int32, out *[4]int) {
	for lane := 0; lane < 4; lane++ {
		out[lane] = Argmax(xs[lane])
	}
}
