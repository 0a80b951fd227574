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

package memorymap

import "fmt"

// Area represents the different views of guest memory.
type Area int

func (a Area) String() string {
	switch a {
	case Physical:
		return "physical"
	case Cached:
		return "cached"
	case Uncached:
		return "uncached"
	}

	return "undefined"
}

// The different views of guest memory. The cached and uncached views are
// mirrors of physical memory.
const (
	Undefined Area = iota
	Physical
	Cached
	Uncached
)

// The origin of each view of memory.
const (
	OriginPhysical = uint32(0x00000000)
	OriginCached   = uint32(0x80000000)
	OriginUncached = uint32(0xc0000000)
)

// PhysicalBits are the bits of a guest address that are relevant to the
// physical address. The following will be true:
//
//	0x8131ecf4 & PhysicalBits == 0xc131ecf4 & PhysicalBits
const PhysicalBits = uint32(0x1fffffff)

// DefaultSize is the size of the main guest memory in bytes.
const DefaultSize = 24 * 1024 * 1024

// MapAddress translates the address argument from mirror space to physical
// space. An address should be passed through this function before accessing
// memory.
func MapAddress(address uint32) (uint32, Area) {
	// note that the order of these filters is important
	switch {
	case address&OriginUncached == OriginUncached:
		return address & PhysicalBits, Uncached
	case address&OriginCached == OriginCached:
		return address & PhysicalBits, Cached
	case address&^PhysicalBits == 0:
		return address, Physical
	}
	return address & PhysicalBits, Undefined
}

// Summary returns a single line description of the address.
func Summary(address uint32) string {
	p, area := MapAddress(address)
	return fmt.Sprintf("%#08x (%s %#06x)", address, area, p)
}
