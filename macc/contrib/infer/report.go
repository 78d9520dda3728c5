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

// StatusSink is the single external status register (tohost-style) that
// receives the run's one-word outcome. It is the pipeline's only output
// channel toward a supervising harness.
type StatusSink interface {
	WriteStatus(word uint32)
}

// EncodeStatus folds a tally into the status word: 1 when every
// prediction was correct, otherwise the wrong count plus one. A
// harness treats 1 as pass and any n > 1 as n-1 failures.
func EncodeStatus(t Tally) uint32 {
	if t.Wrong == 0 {
		return 1
	}
	return uint32(t.Wrong) + 1
}

// Reporter writes the encoded outcome to the status sink. On bare metal
// the program spins forever after this single write; in a hosted run
// the sink's owner decides what ends the process.
type Reporter struct {
	Sink StatusSink
}

// Report encodes t, writes it to the sink, and returns the word.
func (r Reporter) Report(t Tally) uint32 {
	word := EncodeStatus(t)
	r.Sink.WriteStatus(word)
	return word
}
