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

import "testing"

func TestArgmaxFirstMaximalWins(t *testing.T) {
	if got := Argmax([]int32{5, 9, 9, 2}); got != 1 {
		t.Errorf("Argmax([5 9 9 2]) = %d, want 1 (first maximal index)", got)
	}
}

func TestArgmax(t *testing.T) {
	tests := []struct {
		xs   []int32
		want int
	}{
		{[]int32{7}, 0},
		{[]int32{1, 2, 3}, 2},
		{[]int32{3, 2, 1}, 0},
		{[]int32{-5, -2, -9}, 1},
		{[]int32{0, 0, 0, 0}, 0},
		{[]int32{-1, 4, 4, 4}, 1},
	}
	for _, tc := range tests {
		if got := Argmax(tc.xs); got != tc.want {
			t.Errorf("Argmax(%v) = %d, want %d", tc.xs, got, tc.want)
		}
	}
}

func TestArgmax4LanesIndependent(t *testing.T) {
	xs := [4][]int32{
		{5, 9, 9, 2},
		{9, 5, 2, 9},
		{-3, -3, -7, -9},
		{0, 0, 0, 1},
	}
	var got [4]int

	Argmax4(&xs, &got)

	want := [4]int{1, 0, 0, 3}
	if got != want {
		t.Errorf("Argmax4 = %v, want %v", got, want)
	}
}
