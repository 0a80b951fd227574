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
	"github.com/amboard/amboard/hardware/input"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/logger"
)

// Commands accepted by RunBuffer().
const (
	CmdReset   = 0x00
	CmdCommand = 0x70
)

// DeviceID is the serial interface device type of the baseboard. The reset
// command replies with it.
const DeviceID = 0x10110800

// the reply to the GetData() request
const (
	dataHi = 0x00800000
	dataLo = 0x00000000
)

// Files is the storage used for the persistent card images. It is satisfied
// by storage.Dir.
type Files interface {
	Exists(name string) bool
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
}

// cabinet switches of the F-Zero AX cabinets. they are never changed by the
// emulation
type cabinet struct {
	seatbelt    bool
	motionStop  bool
	sensorRight bool
	sensorLeft  bool

	monsterSeatbelt  bool
	monsterSensor    bool
	monsterEmergency bool
	monsterService   bool
}

// Controller emulates the baseboard on the serial interface.
type Controller struct {
	env  *environment.Environment
	prof profile.Profile
	pads input.Pads

	dip0 uint8
	dip1 uint8

	// the reply to the previous buffer and the length of the previous request
	prev       [BufferSize]byte
	prevLength int

	out reply

	jvs jvsio

	wheelInit int
	motor     motor
	cabinet   cabinet

	card *MagCard
	ic   *ICCard
}

// NewController is the preferred method of initialisation for the Controller
// type. The files argument is used for the card images and can be nil, in
// which case the cards are not persistent.
func NewController(env *environment.Environment, prof profile.Profile, pads input.Pads, files Files) *Controller {
	c := &Controller{
		env:  env,
		prof: prof,
		pads: pads,
		dip0: 0xff,
		dip1: 0xfe,
		cabinet: cabinet{
			seatbelt:        true,
			monsterSeatbelt: true,
		},
	}
	c.jvs.rxReply = 0xf0
	c.card = newMagCard(env, prof, files)
	c.ic = newICCard(env, prof, files)
	return c
}

func (c *Controller) String() string {
	return fmt.Sprintf("%s dip %02x %02x coins %d %d", c.prof.ID, c.dip0, c.dip1, c.jvs.coins[0], c.jvs.coins[1])
}

// RunBuffer services the request in the buffer. The reply is written to the
// buffer and the number of bytes in the reply is returned.
//
// The reply to a GCAM command is the one computed for the previous call.
func (c *Controller) RunBuffer(buf []byte, length int) int {
	if length > len(buf) {
		length = len(buf)
	}

	pos := 0
	for pos < length {
		cmd := buf[pos]
		pos++

		switch cmd {
		case CmdReset:
			if len(buf) < 4 {
				return 0
			}
			binary.BigEndian.PutUint32(buf, DeviceID|0x100)
			return 4

		case CmdCommand:
			return c.command(buf, length, pos)

		default:
			err := curated.Errorf(UnknownCommand, cmd)
			logger.Log(c.env, logTag, err)
			c.env.Alert(err)
			return length
		}
	}

	return pos
}

// command runs the GCAM commands in the buffer. pos is the position of the
// length byte
func (c *Controller) command(buf []byte, length int, pos int) int {
	start := pos + 1
	end := start
	if pos < len(buf) {
		end = start + int(buf[pos])
	}
	if end > len(buf) {
		end = len(buf)
	}
	if start > end {
		start = end
	}

	c.out.reset()
	c.out.put(1, 1)
	c.gcam(newReader(buf[start:end]))

	if c.out.overrun {
		logger.Log(c.env, logTag, curated.Errorf(ReplyOverrun, c.out.n))
	}

	clear(buf[:length])
	c.out.set(1, uint8(c.out.n-2))

	var sum uint8
	for i := 0; i < BufferSize-1 && i < len(buf); i++ {
		buf[i] = c.out.p[i]
		sum += buf[i]
	}
	if len(buf) >= BufferSize {
		buf[BufferSize-1] = ^sum
	}

	return c.swap(buf, length)
}

// swap the buffer with the previous reply and the length with the previous
// length
func (c *Controller) swap(buf []byte, length int) int {
	var cur [BufferSize]byte
	copy(cur[:], buf)
	copy(buf, c.prev[:])
	c.prev = cur

	n := c.prevLength
	c.prevLength = length
	return n
}

// GetData is the response to a poll of the device.
func (c *Controller) GetData() (hi uint32, lo uint32) {
	return dataHi, dataLo
}

// SendCommand is a command sent directly to the device. The baseboard does
// not support any direct commands.
func (c *Controller) SendCommand(cmd uint32, poll uint8) {
	err := curated.Errorf(UnknownDirect, cmd)
	logger.Log(c.env, logTag, err)
	c.env.Alert(err)
}

// reset is the response to a JVS reset with the reset argument
func (c *Controller) reset() {
	c.jvs.delay = 0
	c.wheelInit = 0
	c.ic.reset()
}

// State is a copy of the state of the Controller.
type State struct {
	Dip0 uint8
	Dip1 uint8

	Coins      [2]uint16
	RxReply    uint8
	Delay      int
	WheelInit  int
	MotorInit  int
	MotorForce int16
	PrevLength int

	Card MagCardState
	IC   ICCardState
}

// Snapshot returns a copy of the state of the Controller.
func (c *Controller) Snapshot() State {
	return State{
		Dip0:       c.dip0,
		Dip1:       c.dip1,
		Coins:      c.jvs.coins,
		RxReply:    c.jvs.rxReply,
		Delay:      c.jvs.delay,
		WheelInit:  c.wheelInit,
		MotorInit:  c.motor.init,
		MotorForce: c.motor.force,
		PrevLength: c.prevLength,
		Card:       c.card.Snapshot(),
		IC:         c.ic.Snapshot(),
	}
}

// ICCard returns the IC card of the controller.
func (c *Controller) ICCard() *ICCard {
	return c.ic
}

// MagCard returns the magnetic card reader of the controller.
func (c *Controller) MagCard() *MagCard {
	return c.card
}
