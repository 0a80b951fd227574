// This file is part of AMBoard.
//
// AMBoard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// AMBoard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with AMBoard.  If not, see <https://www.gnu.org/licenses/>.

package memory

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/hardware/memory/bus"
	"github.com/amboard/amboard/hardware/memory/memorymap"
	"github.com/amboard/amboard/logger"
)

// Bus is the view of guest memory required by the board devices.
type Bus interface {
	bus.DataBus
	bus.WordBus
	bus.CodeBus
}

// OutOfRange is the pattern used for errors returned by the DebugBus when the
// address is beyond the end of memory.
const OutOfRange = "memory: address out of range: %s"

// RAM is a simple implementation of Bus. It is used by the command line tool
// and by tests in place of the memory of the guest processor.
type RAM struct {
	env    logger.Permission
	memory []uint8

	// addresses that have been invalidated since the last call to
	// Invalidated()
	invalidated []uint32

	// functions that have been replaced by Patch()
	patches map[uint32]string
}

// NewRAM is the preferred method of initialisation for the RAM type. If the
// size argument is zero then memorymap.DefaultSize is used.
func NewRAM(env logger.Permission, size int) *RAM {
	if size <= 0 {
		size = memorymap.DefaultSize
	}
	return &RAM{
		env:     env,
		memory:  make([]uint8, size),
		patches: make(map[uint32]string),
	}
}

// Size returns the number of bytes of memory.
func (mem *RAM) Size() int {
	return len(mem.memory)
}

func (mem *RAM) String() string {
	return fmt.Sprintf("%dMB (%d patches)", len(mem.memory)/(1024*1024), len(mem.patches))
}

// span returns the physical range for the guest address and length. the
// returned length will be shortened if the range extends beyond the end of
// memory
func (mem *RAM) span(address uint32, length int) (int, int, bool) {
	p, _ := memorymap.MapAddress(address)
	start := int(p)
	if start >= len(mem.memory) {
		logger.Logf(mem.env, "memory", "access out of range: %s", memorymap.Summary(address))
		return 0, 0, false
	}
	if start+length > len(mem.memory) {
		logger.Logf(mem.env, "memory", "access truncated: %s (%d bytes)", memorymap.Summary(address), length)
		length = len(mem.memory) - start
	}
	return start, length, true
}

// Read implements the bus.DataBus interface. Bytes beyond the end of memory
// are returned as zero.
func (mem *RAM) Read(address uint32, p []byte) {
	clear(p)
	start, length, ok := mem.span(address, len(p))
	if !ok {
		return
	}
	copy(p, mem.memory[start:start+length])
}

// Write implements the bus.DataBus interface.
func (mem *RAM) Write(address uint32, p []byte) {
	start, length, ok := mem.span(address, len(p))
	if !ok {
		return
	}
	copy(mem.memory[start:start+length], p)
}

// Fill implements the bus.DataBus interface.
func (mem *RAM) Fill(address uint32, length int, value uint8) {
	start, length, ok := mem.span(address, length)
	if !ok {
		return
	}
	for i := range mem.memory[start : start+length] {
		mem.memory[start+i] = value
	}
}

// ReadUint8 implements the bus.WordBus interface.
func (mem *RAM) ReadUint8(address uint32) uint8 {
	var b [1]byte
	mem.Read(address, b[:])
	return b[0]
}

// WriteUint8 implements the bus.WordBus interface.
func (mem *RAM) WriteUint8(address uint32, data uint8) {
	mem.Write(address, []byte{data})
}

// ReadUint32 implements the bus.WordBus interface.
func (mem *RAM) ReadUint32(address uint32) uint32 {
	var b [4]byte
	mem.Read(address, b[:])
	return binary.BigEndian.Uint32(b[:])
}

// WriteUint32 implements the bus.WordBus interface.
func (mem *RAM) WriteUint32(address uint32, data uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], data)
	mem.Write(address, b[:])
}

// Invalidate implements the bus.CodeBus interface.
func (mem *RAM) Invalidate(address uint32) {
	mem.invalidated = append(mem.invalidated, address)
}

// Patch implements the bus.CodeBus interface.
func (mem *RAM) Patch(address uint32, name string) {
	mem.patches[address] = name
}

// Invalidated returns the addresses passed to Invalidate() since the previous
// call to Invalidated().
func (mem *RAM) Invalidated() []uint32 {
	inv := mem.invalidated
	mem.invalidated = nil
	return inv
}

// Patches returns a summary of the functions replaced by Patch(). The
// summary is sorted by address.
func (mem *RAM) Patches() string {
	addrs := make([]uint32, 0, len(mem.patches))
	for a := range mem.patches {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	s := strings.Builder{}
	for _, a := range addrs {
		s.WriteString(fmt.Sprintf("%#08x %s\n", a, mem.patches[a]))
	}
	return s.String()
}

// Peek implements the bus.DebugBus interface.
func (mem *RAM) Peek(address uint32) (uint8, error) {
	p, _ := memorymap.MapAddress(address)
	if int(p) >= len(mem.memory) {
		return 0, curated.Errorf(OutOfRange, memorymap.Summary(address))
	}
	return mem.memory[p], nil
}

// Poke implements the bus.DebugBus interface.
func (mem *RAM) Poke(address uint32, value uint8) error {
	p, _ := memorymap.MapAddress(address)
	if int(p) >= len(mem.memory) {
		return curated.Errorf(OutOfRange, memorymap.Summary(address))
	}
	mem.memory[p] = value
	return nil
}
