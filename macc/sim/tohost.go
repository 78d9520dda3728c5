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

package sim

// StatusRegister models the tohost-style status word a supervising
// harness watches: written once at the end of a run, then only read.
type StatusRegister struct {
	word    uint32
	written bool
}

// WriteStatus latches the status word.
func (s *StatusRegister) WriteStatus(word uint32) {
	s.word = word
	s.written = true
}

// Value returns the latched word and whether anything was written.
func (s *StatusRegister) Value() (uint32, bool) {
	return s.word, s.written
}

// Passed reports whether the latched word signals a fully correct run.
func (s *StatusRegister) Passed() bool {
	return s.written && s.word == 1
}
