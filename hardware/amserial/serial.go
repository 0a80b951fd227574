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

	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/logger"
)

// the most common serial command of the titles with nothing connected to
// serial port A
const serialPoll = 0x801000

// the gekitou handshake
const gekitouHandshake = 0x00001000

// the reply buffer of the force feedback motor
const motorReplySize = 64

// motor is the force feedback motor of the F-Zero cabinets
type motor struct {
	// 0 before the first reset, 1 after the reset and 2 once the game has
	// switched the wheel back to normal controls
	init  int
	force int16
	reply [motorReplySize]byte
}

// set a byte in the motor reply
func (m *motor) set(i int, b byte) {
	if i >= 0 && i < len(m.reply) {
		m.reply[i] = b
	}
}

func (m *motor) get(i int) byte {
	if i >= 0 && i < len(m.reply) {
		return m.reply[i]
	}
	return 0
}

// serialA handles the data sent to serial port A
func (c *Controller) serialA(data []byte) {
	if len(data) > 0 {
		logger.Logf(c.env, logTag, "serial A: % 02x", data)

		switch {
		case c.prof.Quirks.Has(profile.QuirkWheel):
			c.wheel()
			return
		case c.prof.Quirks.Has(profile.QuirkGekitouSerial):
			if len(data) >= 4 && binary.LittleEndian.Uint32(data) == gekitouHandshake {
				c.out.put(gcamSerialA, 0x03, 1, 2, 3)
			}
			return
		case c.prof.Quirks.Has(profile.QuirkICCard):
			c.ic.serial(data, &c.out)
			return
		}
	}

	fzero := c.prof.Quirks.Has(profile.QuirkMotor)

	for off := 0; off < len(data); {
		var w [4]byte
		copy(w[:], data[off:])
		cmd := binary.BigEndian.Uint32(w[:]) ^ 0x80000000

		if fzero {
			logger.Logf(c.env, logTag, "motor: %06x (%02x)", cmd>>8, cmd&0xff)
		} else {
			logger.Logf(c.env, logTag, "serial A: %06x", cmd)
			if cmd == serialPoll {
				c.out.put(gcamSerialA, 0x02, 0xff, 0x01)
			}
		}

		off += 4

		if fzero {
			c.motorCommand(cmd, off)
		}
	}

	if len(data) == 0 {
		c.out.put(gcamSerialA, 0x00)
	} else if c.motor.init != 0 {
		c.motor.reply[0] = gcamSerialA
		c.motor.reply[1] = uint8(len(data))
		n := len(data) + 2
		if n > len(c.motor.reply) {
			n = len(c.motor.reply)
		}
		c.out.put(c.motor.reply[:n]...)
	}
}

// wheel is the steering wheel handshake. the wheel is only powered on when
// the second pad is a steering wheel
func (c *Controller) wheel() {
	c.out.put(gcamSerialA, 0x03)
	switch c.wheelInit {
	case 0:
		c.out.put('E', '0', '0')
		c.wheelInit++
	case 1:
		c.out.put('C', '0', '6')
		if c.pads.IsSteering(1) {
			c.wheelInit++
		}
	case 2:
		c.out.put('C', '0', '1')
	}
}

// motorCommand runs a single command for the force feedback motor. off is the
// offset of the end of the command in the serial data
func (c *Controller) motorCommand(cmd uint32, off int) {
	m := &c.motor

	// status and error
	m.set(off+2, 0)
	m.set(off+3, 0)
	m.set(off+4, 0)

	switch cmd >> 24 {
	case 4:
		// move the wheel. 0x00 to 0x40 is left and 0x40 to 0x80 is right
		if cmd&0x010000 != 0 {
			m.force = int16(-(int32(int16(uint16(cmd))) & 0xff00))
		} else {
			m.force = int16((cmd - 0x4000) & 0xff00)
		}
		m.force *= 2

		if m.init == 2 && c.pads.IsSteering(1) && c.pads.Status(1).Connected {
			strength := float64(m.force>>8) / 127.0
			c.pads.Rumble(1, strength)
			logger.Logf(c.env, logTag, "motor: strength %.3f", strength)
		}

	case 7:
		// normal controls
		m.init = 2

	case 0x7f:
		m.init = 1
		m.reply = [motorReplySize]byte{}
	}

	m.set(off+5, m.get(off+2)^m.get(off+3)^m.get(off+4))
}
