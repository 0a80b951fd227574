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

package bus

// DataBus defines the operations for moving bytes between an emulated device
// and guest memory. Addresses are guest addresses and may be in any of the
// mirrors described by the memorymap package.
type DataBus interface {
	Read(address uint32, p []byte)
	Write(address uint32, p []byte)
	Fill(address uint32, length int, value uint8)
}

// WordBus defines single value access to guest memory. Multi-byte values are
// big-endian, matching the guest processor.
type WordBus interface {
	ReadUint8(address uint32) uint8
	WriteUint8(address uint32, data uint8)
	ReadUint32(address uint32) uint32
	WriteUint32(address uint32, data uint32)
}

// CodeBus is used by devices that modify guest code. The instruction cache of
// the guest processor must be invalidated for any address that has been
// modified and Patch() is used to replace a guest function with a high level
// implementation.
type CodeBus interface {
	Invalidate(address uint32)
	Patch(address uint32, name string)
}

// DebugBus is used to inspect memory without the side effects of the other
// busses. It is used by tests and the state command.
type DebugBus interface {
	Peek(address uint32) (uint8, error)
	Poke(address uint32, value uint8) error
}
