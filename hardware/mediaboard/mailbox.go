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

import "encoding/binary"

// MailboxSize is the number of bytes in the command mailbox.
const MailboxSize = 0x300

// Layout of the mailbox. The legacy and trigger protocols take the command
// from the inbound region and reply in the outbound region. The network
// protocol moves the command from the network region to the outbound region
// and replies in place.
const (
	MailboxOut     = 0x00
	MailboxIn      = 0x20
	MailboxMirror  = 0x40
	MailboxNetwork = 0x200

	// size of each region
	MailboxRegion = 0x20
)

// Mailbox is the command and reply buffer shared by the guest and the media
// board. Multi-byte fields are little-endian. Accesses beyond the end of the
// buffer read as zero and are ignored when writing.
type Mailbox [MailboxSize]byte

func (mb *Mailbox) in(offset int, size int) bool {
	return offset >= 0 && offset+size <= MailboxSize
}

// U8 returns the byte at offset.
func (mb *Mailbox) U8(offset int) uint8 {
	if !mb.in(offset, 1) {
		return 0
	}
	return mb[offset]
}

// U16 returns the 16-bit value at offset.
func (mb *Mailbox) U16(offset int) uint16 {
	if !mb.in(offset, 2) {
		return 0
	}
	return binary.LittleEndian.Uint16(mb[offset:])
}

// U32 returns the 32-bit value at offset.
func (mb *Mailbox) U32(offset int) uint32 {
	if !mb.in(offset, 4) {
		return 0
	}
	return binary.LittleEndian.Uint32(mb[offset:])
}

// SetU8 sets the byte at offset.
func (mb *Mailbox) SetU8(offset int, v uint8) {
	if mb.in(offset, 1) {
		mb[offset] = v
	}
}

// SetU16 sets the 16-bit value at offset.
func (mb *Mailbox) SetU16(offset int, v uint16) {
	if mb.in(offset, 2) {
		binary.LittleEndian.PutUint16(mb[offset:], v)
	}
}

// SetU32 sets the 32-bit value at offset.
func (mb *Mailbox) SetU32(offset int, v uint32) {
	if mb.in(offset, 4) {
		binary.LittleEndian.PutUint32(mb[offset:], v)
	}
}

// Word returns 32-bit word i of the outbound region.
func (mb *Mailbox) Word(i int) uint32 {
	return mb.U32(i * 4)
}

// SetWord sets 32-bit word i of the outbound region.
func (mb *Mailbox) SetWord(i int, v uint32) {
	mb.SetU32(i*4, v)
}

// Clear zeroes length bytes from offset.
func (mb *Mailbox) Clear(offset int, length int) {
	if offset < 0 || offset >= MailboxSize {
		return
	}
	clear(mb[offset:min(offset+length, MailboxSize)])
}

// Slice returns the bytes in the range [offset, offset+length). The slice is
// shortened if it extends beyond the end of the mailbox and the second return
// value is false.
func (mb *Mailbox) Slice(offset uint32, length uint32) ([]byte, bool) {
	if offset >= MailboxSize {
		return nil, false
	}
	end := uint64(offset) + uint64(length)
	if end > MailboxSize {
		return mb[offset:], false
	}
	return mb[offset:end], true
}

// Command returns the 16-bit command code at offset+2.
func (mb *Mailbox) Command(offset int) uint16 {
	return mb.U16(offset + 2)
}
