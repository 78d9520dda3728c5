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

// Package sim provides a behavioral model of the matmul accelerator: a
// flat memory image plus register-file models for both protocol
// generations. The models compute tiles exactly per the register
// contract and double as protocol checkers — configuration writes that
// arrive while an operation is in flight are recorded as violations
// instead of silently accepted.
//
// The models substitute for real hardware behind macc.RegisterFile, so
// the same driver and pipeline code runs against either.
package sim

import "encoding/binary"

// Memory is a flat byte image shared between software and the modelled
// accelerator. It implements macc.Mem.
type Memory struct {
	data []byte
}

// NewMemory returns a zeroed image of the given size.
func NewMemory(size int) *Memory {
	return &Memory{data: make([]byte, size)}
}

// Size returns the image size in bytes.
func (m *Memory) Size() int {
	return len(m.data)
}

// ReadBytes copies len(p) bytes at addr into p.
func (m *Memory) ReadBytes(addr uint32, p []byte) {
	copy(p, m.data[addr:])
}

// WriteBytes copies p into the image at addr.
func (m *Memory) WriteBytes(addr uint32, p []byte) {
	copy(m.data[addr:], p)
}

// Int8 returns the signed byte at addr.
func (m *Memory) Int8(addr uint32) int8 {
	return int8(m.data[addr])
}

// Word returns the little-endian 32-bit word at addr.
func (m *Memory) Word(addr uint32) uint32 {
	return binary.LittleEndian.Uint32(m.data[addr:])
}

// WriteWords stores words little-endian starting at addr, stride bytes
// between consecutive words.
func (m *Memory) WriteWords(addr uint32, stride uint32, words []uint32) {
	for i, w := range words {
		binary.LittleEndian.PutUint32(m.data[addr+uint32(i)*stride:], w)
	}
}

// WriteInt8s stores an int8 vector starting at addr.
func (m *Memory) WriteInt8s(addr uint32, v []int8) {
	for i, b := range v {
		m.data[addr+uint32(i)] = byte(b)
	}
}
