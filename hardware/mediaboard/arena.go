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

package mediaboard

import (
	"fmt"

	"github.com/amboard/amboard/curated"
)

// Sizes of the network arenas.
const (
	NetworkCommandSize = 0x1fd00000 - 0x1f800200
	NetworkBufferSize  = 256 * 1024
)

// Arena is one of the flat byte buffers into which the guest writes socket
// arguments and data. Five guest windows share the network data arena and two
// windows share the network command arena.
type Arena struct {
	name string
	data []byte
}

func newArena(name string, size int) *Arena {
	return &Arena{
		name: name,
		data: make([]byte, size),
	}
}

func (a *Arena) String() string {
	return fmt.Sprintf("%s (%#x bytes)", a.name, len(a.data))
}

// Size of the arena in bytes.
func (a *Arena) Size() int {
	return len(a.data)
}

// Slice returns the bytes in the range [offset, offset+length). An error
// with the OutOfBounds pattern is returned if any part of the range is
// outside of the arena.
func (a *Arena) Slice(offset uint32, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(a.data)) {
		return nil, curated.Errorf(OutOfBounds, a.name, offset, length)
	}
	return a.data[offset:end], nil
}

// Window returns the bytes for a guest address inside a window of the arena
// starting at base.
func (a *Arena) Window(address uint32, base uint32, length uint32) ([]byte, error) {
	if address < base {
		return nil, curated.Errorf(OutOfBounds, a.name, address, length)
	}
	return a.Slice(address-base, length)
}

// CString returns the NUL terminated string at offset.
func (a *Arena) CString(offset uint32) string {
	if offset >= uint32(len(a.data)) {
		return ""
	}
	b := a.data[offset:]
	for i, c := range b {
		if c == 0x00 {
			return string(b[:i])
		}
	}
	return string(b)
}

// Reset zeroes the arena.
func (a *Arena) Reset() {
	clear(a.data)
}
