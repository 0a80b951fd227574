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
	"fmt"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/environment"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/logger"
	"github.com/amboard/amboard/notifications"
)

// Magnetic card reader commands.
const (
	cardInit          = 0x10
	cardGetState      = 0x20
	cardRead          = 0x33
	cardIsPresent     = 0x40
	cardWrite         = 0x53
	cardSetPrintParam = 0x78
	cardRegisterFont  = 0x7a
	cardWriteInfo     = 0x7c
	cardErase         = 0x7d
	cardEject         = 0x80
	cardClean         = 0xa0
	cardLoad          = 0xb0
	cardSetShutter    = 0xd0
)

// framing bytes of the card reader protocol
const (
	cardSTX  = 0x02
	cardETX  = 0x03
	cardENQ  = 0x05
	cardACK  = 0x06
	cardIdle = 0x30
)

// MagCardSize is the maximum size of a magnetic card image.
const MagCardSize = 0xd0

// the most card data sent in one reply by the F-Zero card reader
const fzeroReadChunk = 0x2f

// the number of get state commands after which the F-Zero card reader
// toggles the card state
const fzeroStateCalls = 10

// MagCardName returns the name of the magnetic card file for a game ID.
func MagCardName(id string) string {
	return fmt.Sprintf("tricard_%s.bin", id)
}

// MagCard is the magnetic card reader on serial port B and the card in it.
// The card image is kept in a file and the card is inserted if the file
// exists.
type MagCard struct {
	env   *environment.Environment
	files Files
	name  string

	// the reader of the F-Zero AX cabinet
	fzero bool

	memory [MagCardSize]byte
	size   int

	inserted bool
	command  uint8
	bit      uint8
	shutter  bool

	// 0 is idle, 1 after the clean command and 2 once the game has seen the
	// clean command
	clean int

	stateCalls int

	// incoming command
	buffer [0x100]byte
	offset int

	// outgoing card data
	readPacket [0xdb]byte
	readLength int
	read       int
}

func newMagCard(env *environment.Environment, prof profile.Profile, files Files) *MagCard {
	return &MagCard{
		env:     env,
		files:   files,
		name:    MagCardName(prof.ID),
		fzero:   prof.Quirks.Has(profile.QuirkMagCardFZero),
		shutter: true,
	}
}

func (mc *MagCard) String() string {
	return fmt.Sprintf("cmd %02x bit %d size %d", mc.command, mc.bit, mc.size)
}

// Memory returns a copy of the card image.
func (mc *MagCard) Memory() []byte {
	d := make([]byte, mc.size)
	copy(d, mc.memory[:mc.size])
	return d
}

func (mc *MagCard) exists() bool {
	return mc.files != nil && mc.files.Exists(mc.name)
}

// load the card file. the size of the file is returned
func (mc *MagCard) load() (int, []byte) {
	d, err := mc.files.ReadFile(mc.name)
	if err != nil {
		logger.Log(mc.env, logTagCard, curated.Errorf(CardError, err))
		return 0, nil
	}
	return min(len(d), MagCardSize), d
}

// serial handles the data sent to serial port B
func (mc *MagCard) serial(data []byte, out *reply) {
	if len(data) == 0 {
		out.put(gcamSerialB, 0x00)
		return
	}

	if len(data) == 1 && data[0] == cardENQ {
		mc.poll(out)
		return
	}

	if mc.offset+len(data) > len(mc.buffer) {
		logger.Logf(mc.env, logTagCard, "command buffer overflow: %d bytes dropped", mc.offset)
		mc.offset = 0
	}
	mc.offset += copy(mc.buffer[mc.offset:], data)

	// a complete command is STX, length, command and arguments, ETX and a
	// check byte
	if mc.offset >= 2 && mc.buffer[0] == cardSTX && int(mc.buffer[1]) == mc.offset-2 &&
		mc.buffer[mc.offset-2] == cardETX {
		mc.command = mc.buffer[2]
		mc.execute()
		mc.offset = 0
	}

	out.put(gcamSerialB, 0x01, cardACK)
}

// poll sends the next part of the card data or the status of the most recent
// command
func (mc *MagCard) poll(out *reply) {
	if mc.readLength > 0 {
		n := mc.readLength - mc.read
		if mc.fzero && n > fzeroReadChunk {
			n = fzeroReadChunk
		}
		out.put(gcamSerialB, uint8(n))
		out.put(mc.readPacket[mc.read : mc.read+n]...)
		mc.read += n
		if mc.read >= mc.readLength {
			mc.readLength = 0
		}
		return
	}

	out.put(gcamSerialB)
	lengthAt := out.n
	out.put(0x00, cardSTX)
	start := out.n
	out.put(0x00, mc.command)

	switch mc.command {
	case cardInit:
		out.put(0x00, 0x30)
	case cardGetState:
		// bit 0 is "please take your card"
		out.put(0x20|mc.bit, 0x00)
	case cardRead:
		out.put(0x02, 0x53)
	case cardIsPresent:
		out.put(0x22, 0x30)
	case cardWrite:
		out.put(0x02, 0x00)
	case cardSetPrintParam:
		out.put(0x00, 0x00)
	case cardRegisterFont:
		out.put(0x00, 0x00)
	case cardWriteInfo:
		out.put(0x02, 0x00)
	case cardEject:
		if mc.fzero {
			out.put(0x01, 0x30)
		} else {
			out.put(0x31, 0x30)
		}
	case cardClean:
		out.put(0x02, 0x00)
	case cardLoad:
		out.put(0x02, 0x30)
	case cardSetShutter:
		out.put(0x00, 0x00)
	}

	out.put(cardIdle, 0x00, cardETX)

	n := out.n - start
	out.set(start, uint8(n))

	var check uint8
	for i := start; i < start+n && i < out.n; i++ {
		check ^= out.p[i]
	}
	out.put(check)

	out.set(lengthAt, uint8(n+2))
}

// execute the command in the command buffer
func (mc *MagCard) execute() {
	switch mc.command {
	case cardInit:
		logger.Log(mc.env, logTagCard, "init")
		mc.bit = 0
		mc.size = 0
		mc.stateCalls = 0

	case cardGetState:
		logger.Logf(mc.env, logTagCard, "get state: %02x", mc.bit)

		if mc.size == 0 && mc.exists() {
			n, d := mc.load()
			mc.size = n
			copy(mc.memory[:], d[:n])
			mc.insert()
		}

		if mc.fzero && mc.size > 0 {
			mc.stateCalls++
			if mc.stateCalls > fzeroStateCalls {
				mc.bit ^= 0x02
				mc.stateCalls = 0
			}
		}

		switch mc.clean {
		case 1:
			mc.clean = 2
		case 2:
			if mc.exists() {
				mc.size, _ = mc.load()
				if mc.size > 0 {
					if mc.fzero {
						mc.bit = 2
					} else {
						mc.bit = 1
					}
				}
			}
			mc.clean = 0
		}

	case cardIsPresent:
		logger.Log(mc.env, logTagCard, "is present")

	case cardRegisterFont:
		logger.Log(mc.env, logTagCard, "register font")

	case cardLoad:
		logger.Logf(mc.env, logTagCard, "load: %02x", mc.buffer[6])

	case cardClean:
		logger.Log(mc.env, logTagCard, "clean")
		mc.clean = 1

	case cardRead:
		logger.Logf(mc.env, logTagCard, "read: %02x %02x %02x", mc.buffer[6], mc.buffer[7], mc.buffer[8])
		mc.prepareRead()

	case cardWrite:
		mc.size = max(int(mc.buffer[1])-9, 0)
		mc.size = min(mc.size, MagCardSize)
		copy(mc.memory[:], mc.buffer[9:9+mc.size])

		logger.Logf(mc.env, logTagCard, "write: %02x %02x %02x %d", mc.buffer[6], mc.buffer[7], mc.buffer[8], mc.size)

		if mc.files != nil {
			if err := mc.files.WriteFile(mc.name, mc.memory[:mc.size]); err != nil {
				logger.Log(mc.env, logTagCard, curated.Errorf(CardError, err))
			}
		}

		mc.bit = 2
		mc.stateCalls = 0

	case cardSetPrintParam:
		logger.Log(mc.env, logTagCard, "set print param")

	case cardWriteInfo:
		logger.Log(mc.env, logTagCard, "write info")

	case cardErase:
		logger.Log(mc.env, logTagCard, "erase")

	case cardEject:
		logger.Log(mc.env, logTagCard, "eject")
		if !mc.fzero {
			mc.bit = 0
		}
		_ = mc.env.Notify(notifications.NotifyCardEjected, nil)

	case cardSetShutter:
		logger.Log(mc.env, logTagCard, "set shutter")
		if !mc.fzero {
			mc.bit = 0
		}
		switch mc.buffer[6] {
		case 0x30:
			mc.shutter = false
		case 0x31:
			mc.shutter = true
		}

	default:
		logger.Logf(mc.env, logTagCard, "unhandled command: %02x", mc.command)
	}
}

func (mc *MagCard) insert() {
	if !mc.inserted {
		_ = mc.env.Notify(notifications.NotifyCardInserted, nil)
	}
	mc.inserted = true
}

// prepareRead builds the reply to the read command. the reply is sent in
// response to the following polls
func (mc *MagCard) prepareRead() {
	mc.readPacket = [len(mc.readPacket)]byte{}

	if mc.exists() {
		n, d := mc.load()
		if mc.size == 0 {
			mc.size = n
		}
		copy(mc.memory[:mc.size], d)
		mc.insert()
	}

	p := mc.readPacket[:0]
	p = append(p, cardSTX, 0x00, cardRead)
	if mc.inserted {
		p = append(p, 0x31)
	} else {
		p = append(p, 0x30)
	}
	p = append(p, 0x30, 0x30)
	p = append(p, mc.memory[:mc.size]...)
	p = append(p, cardETX)

	p[1] = uint8(len(p) - 1)

	var check uint8
	for _, v := range p[1:] {
		check ^= v
	}
	p = append(p, check)

	mc.readLength = len(p)
	mc.read = 0
}

// MagCardState is a copy of the state of the magnetic card reader.
type MagCardState struct {
	Inserted   bool
	Command    uint8
	Bit        uint8
	Shutter    bool
	Clean      int
	Size       int
	ReadLength int
	Read       int
}

// Snapshot returns a copy of the state of the magnetic card reader.
func (mc *MagCard) Snapshot() MagCardState {
	return MagCardState{
		Inserted:   mc.inserted,
		Command:    mc.command,
		Bit:        mc.bit,
		Shutter:    mc.shutter,
		Clean:      mc.clean,
		Size:       mc.size,
		ReadLength: mc.readLength,
		Read:       mc.read,
	}
}
