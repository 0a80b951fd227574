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

package amserial

import (
	"encoding/binary"
	"fmt"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/environment"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/logger"
)

// IC card commands.
const (
	icGetStatus        = 0x10
	icSetBaudrate      = 0x11
	icFieldOn          = 0x14
	icFieldOff         = 0x15
	icInsertCheck      = 0x20
	icAntiCollision    = 0x21
	icSelectCard       = 0x22
	icReadPage         = 0x24
	icWritePage        = 0x25
	icDecreaseUseCount = 0x26
	icReadUseCount     = 0x33
	icReadPages        = 0x34
	icWritePages       = 0x35
)

// ICCardSize is the size of the memory of an IC card.
const ICCardSize = 2048

// the size of a page of IC card memory
const icPageSize = 8

// the read only page of the IC card
const icReadOnlyPage = 4

// status returned for a write to the read only page
const icStatusReadOnly = 0x80

// status bit clear when a card is inserted
const icStatusNoCard = 0x8000

// the initial state of the reader
const icInitialState = 0x20

// the offset of the use count in the IC card memory
const icUseCount = 0x28

// IC card packets have room for this many bytes of extended data
const icMaxExtended = 81

// ICCardName returns the name of the IC card file for a game ID.
func ICCardName(id string) string {
	return fmt.Sprintf("triiccard_%s.bin", id)
}

// ICCard is the IC card reader on serial port A and the card inserted in it.
type ICCard struct {
	env   *environment.Environment
	files Files
	name  string

	data [ICCardSize]byte

	state   uint16
	status  uint16
	session uint16

	// accumulates the write pages commands that span more than one packet
	writeBuffer [512]byte
	writeOffset int
	writeSize   int
}

func newICCard(env *environment.Environment, prof profile.Profile, files Files) *ICCard {
	ic := &ICCard{
		env:     env,
		files:   files,
		name:    ICCardName(prof.ID),
		state:   icInitialState,
		session: 0x23,
	}

	// card ID
	ic.data[0x20] = 0x95
	ic.data[0x21] = 0x71
	switch prof.Title {
	case profile.KeyOfAvalon:
		ic.data[0x22] = 0x26
		ic.data[0x23] = 0x40
	case profile.VirtuaStriker4:
		ic.data[0x22] = 0x44
		ic.data[0x23] = 0x00
	}

	ic.data[icUseCount] = 0xff
	ic.data[icUseCount+1] = 0xff

	if files != nil && files.Exists(ic.name) {
		d, err := files.ReadFile(ic.name)
		switch {
		case err != nil:
			logger.Log(env, logTagIC, curated.Errorf(CardError, err))
		case len(d) != ICCardSize:
			logger.Logf(env, logTagIC, "%s is %d bytes and not %d: ignored", ic.name, len(d), ICCardSize)
		default:
			copy(ic.data[:], d)
		}
	}

	return ic
}

func (ic *ICCard) String() string {
	return fmt.Sprintf("state %04x status %04x session %02x", ic.state, ic.status, ic.session)
}

func (ic *ICCard) reset() {
	ic.state = icInitialState
}

func (ic *ICCard) toggleInserted() {
	ic.status ^= icStatusNoCard
}

// Data returns a copy of the IC card memory.
func (ic *ICCard) Data() []byte {
	d := make([]byte, ICCardSize)
	copy(d, ic.data[:])
	return d
}

// save the card memory
func (ic *ICCard) save() {
	if ic.files == nil {
		return
	}
	if err := ic.files.WriteFile(ic.name, ic.data[:]); err != nil {
		logger.Log(ic.env, logTagIC, curated.Errorf(CardError, err))
	}
}

// span returns the offset in card memory of the page. the offset is clamped
// so that n bytes from the offset are in card memory
func (ic *ICCard) span(page int, n int) int {
	if n > ICCardSize {
		n = ICCardSize
	}
	offset := page * icPageSize
	if offset+n > ICCardSize {
		offset = ICCardSize - n
		offset -= offset % icPageSize
		logger.Logf(ic.env, logTagIC, "page %d is out of range", page)
	}
	return offset
}

// icPacket is the reply of the IC card reader and the deck reader
type icPacket struct {
	cmd     uint8
	fixed   uint8
	command uint8
	flag    uint8
	length  uint8
	status  uint16
	ext     []byte
}

func newICPacket(command uint8) *icPacket {
	return &icPacket{
		cmd:     gcamSerialA,
		fixed:   0x10,
		command: command,
		length:  2,
	}
}

// extend adds extended data to the packet
func (p *icPacket) extend(b ...byte) {
	if len(p.ext)+len(b) > icMaxExtended {
		b = b[:icMaxExtended-len(p.ext)]
	}
	p.ext = append(p.ext, b...)
	p.length += uint8(len(b))
}

// send the packet. the check byte is the exclusive-or of every byte after the
// packet length
func (p *icPacket) send(out *reply) {
	b := []byte{p.cmd, uint8(7 + len(p.ext)), p.fixed, p.command, p.flag, p.length, 0, 0}
	binary.BigEndian.PutUint16(b[6:], p.status)
	b = append(b, p.ext...)

	var crc uint8
	for _, v := range b[2:] {
		crc ^= v
	}

	out.put(b...)
	out.put(crc)
}

// be16 reads the big-endian value at the offset in the data
func be16(data []byte, offset int) int {
	if offset+2 > len(data) {
		return 0
	}
	return int(binary.BigEndian.Uint16(data[offset:]))
}

// from returns the data from the offset. the returned slice is always n bytes
// long
func from(data []byte, offset int, n int) []byte {
	b := make([]byte, n)
	if offset < len(data) {
		copy(b, data[offset:])
	}
	return b
}

// serial handles the data sent to serial port A
func (ic *ICCard) serial(data []byte, out *reply) {
	command := uint8(0)
	if len(data) > 1 {
		command = data[1]
	}
	p := newICPacket(command)

	if ic.writeSize != 0 && ic.writeOffset != 0 {
		ic.continueWritePages(data, p, out)
		return
	}

	switch command {
	case icGetStatus:
		p.status = ic.state
		logger.Logf(ic.env, logTagIC, "get status: %02x", ic.state)

	case icSetBaudrate:
		logger.Log(ic.env, logTagIC, "set baudrate")

	case icFieldOn:
		ic.state |= 0x10
		logger.Log(ic.env, logTagIC, "field on")

	case icInsertCheck:
		p.status = ic.status
		logger.Logf(ic.env, logTagIC, "insert check: %02x", ic.status)

	case icAntiCollision:
		// card ID
		p.extend(0x00, 0x00, 0x54, 0x4d, 0x50, 0x00, 0x00, 0x00)
		logger.Log(ic.env, logTagIC, "anti collision")

	case icSelectCard:
		p.extend(0x00, uint8(ic.session), 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)
		logger.Logf(ic.env, logTagIC, "select card: %d", ic.session)

	case icReadPage, icReadUseCount:
		page := be16(data, 6)
		offset := ic.span(page, icPageSize)
		p.extend(ic.data[offset : offset+icPageSize]...)
		logger.Logf(ic.env, logTagIC, "read page: %d", page)

	case icWritePage:
		page := be16(data, 8)
		if page == icReadOnlyPage {
			p.status = icStatusReadOnly
		} else {
			offset := ic.span(page, icPageSize)
			copy(ic.data[offset:offset+icPageSize], from(data, 10, icPageSize))
			ic.save()
		}
		logger.Logf(ic.env, logTagIC, "write page: %d", page)

	case icDecreaseUseCount:
		page := be16(data, 6)
		n := binary.LittleEndian.Uint16(ic.data[icUseCount:])
		binary.LittleEndian.PutUint16(ic.data[icUseCount:], n-1)
		p.extend(ic.data[icUseCount], ic.data[icUseCount+1])
		ic.save()
		logger.Logf(ic.env, logTagIC, "decrease use count: %d", page)

	case icReadPages:
		page := be16(data, 6)
		count := be16(data, 8)

		n := count * icPageSize
		if out.n <= 0x50 && n > 0x50-out.n {
			n = 5 * icPageSize
		}
		if n > icMaxExtended-1 {
			n = icMaxExtended - 1
		}
		offset := ic.span(page, n)
		p.extend(ic.data[offset : offset+n]...)
		logger.Logf(ic.env, logTagIC, "read pages: %d count %d", page, count)

	case icWritePages:
		size := be16(data, 2)
		page := be16(data, 6)
		count := be16(data, 8)

		if len(data)-5 == size {
			if page == icReadOnlyPage {
				p.status = icStatusReadOnly
			} else {
				n := min(count*icPageSize, ICCardSize)
				offset := ic.span(page, n)
				copy(ic.data[offset:offset+n], from(data, 13, n))
				ic.save()
			}
			logger.Logf(ic.env, logTagIC, "write pages: %d count %d (%x)", page, count, size)
		} else {
			// the write is split over more than one packet
			copy(ic.writeBuffer[:], from(data, 2, len(data)))
			ic.writeOffset += len(data)
			ic.writeSize = size
		}

	default:
		deckCommand(ic.env, data, p)
	}

	p.send(out)
}

// continueWritePages adds the data to the partial write pages command. the
// pages are written and the reply is sent once the command is complete
func (ic *ICCard) continueWritePages(data []byte, p *icPacket, out *reply) {
	size := 0
	if len(data) > 1 {
		size = int(data[1])
	}

	logger.Logf(ic.env, logTagIC, "write pages: offset %x size %x packet %x", ic.writeOffset, ic.writeSize, size)

	if ic.writeOffset < len(ic.writeBuffer) {
		copy(ic.writeBuffer[ic.writeOffset:], from(data, 2, size))
	}
	ic.writeOffset += size

	if ic.writeOffset > ic.writeSize {
		ic.writeOffset = 0

		page := int(ic.writeBuffer[5])
		count := int(ic.writeBuffer[7])

		n := min(count*icPageSize, len(ic.writeBuffer)-10)
		offset := ic.span(page, n)
		copy(ic.data[offset:offset+n], ic.writeBuffer[10:10+n])
		ic.save()

		logger.Logf(ic.env, logTagIC, "write pages: %d count %d", page, count)

		p.command = icWritePages
		p.send(out)
	}
}

// ICCardState is a copy of the state of the IC card reader.
type ICCardState struct {
	State       uint16
	Status      uint16
	Session     uint16
	UseCount    uint16
	WriteOffset int
	WriteSize   int
}

// Snapshot returns a copy of the state of the IC card reader.
func (ic *ICCard) Snapshot() ICCardState {
	return ICCardState{
		State:       ic.state,
		Status:      ic.status,
		Session:     ic.session,
		UseCount:    binary.LittleEndian.Uint16(ic.data[icUseCount:]),
		WriteOffset: ic.writeOffset,
		WriteSize:   ic.writeSize,
	}
}
