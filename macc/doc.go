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

// Package macc drives a memory-mapped 4-lane matrix-multiply accelerator
// through its polling register protocol.
//
// The accelerator computes int8 dot products into int32 accumulators
// over lane-interleaved operands (see macc/contrib/pack). Two protocol
// generations exist and are modelled as strategies behind the Protocol
// interface:
//
//   - V1 loads a weight block once per tile and reissues computations
//     against different per-sample input streams with a skip-load
//     control bit; results occupy four fixed registers.
//   - V2 always issues complete 4x4 tiles with explicit K-dimension and
//     stride registers, reads results from an indexed block, and is
//     backpressured by a FIFO-full status bit polled before each issue.
//
// Synchronization is busy-wait polling of status bits, with no timeout:
// a stalled device hangs the driver permanently. That is the intended
// failure mode; there is no protocol error path.
//
// A RegisterFile implementation supplies the register window: OpenMMIO
// maps real device registers, and macc/sim provides a behavioral model
// for host-side runs and tests.
package macc
