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

//go:build linux

package macc

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MMIO is a RegisterFile over a real device register window mapped from
// a UIO or /dev/mem style character device. Accesses are 32-bit atomic
// loads and stores on the mapped page, satisfying the uncached,
// non-reorderable register contract.
type MMIO struct {
	f   *os.File
	mem []byte
}

// OpenMMIO maps size bytes of the device at the given page-aligned file
// offset and returns a register file over the window.
func OpenMMIO(path string, offset int64, size int) (*MMIO, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("mmio: open %s: %w", path, err)
	}

	mem, err := unix.Mmap(int(f.Fd()), offset, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmio: map %s: %w", path, err)
	}

	return &MMIO{f: f, mem: mem}, nil
}

// Read32 returns the register at the given byte offset.
func (m *MMIO) Read32(off uint32) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&m.mem[off])))
}

// Write32 stores v to the register at the given byte offset.
func (m *MMIO) Write32(off uint32, v uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&m.mem[off])), v)
}

// Close unmaps the register window and closes the device.
func (m *MMIO) Close() error {
	err := unix.Munmap(m.mem)
	m.mem = nil
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("mmio: close: %w", err)
	}
	return nil
}
