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

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/hardware/input"
	"github.com/amboard/amboard/hardware/jvs"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/logger"
)

// JVS commands.
const (
	jvsIOID                 = 0x10
	jvsCommandRevision      = 0x11
	jvsJVRevision           = 0x12
	jvsCommunicationVersion = 0x13
	jvsCheckFunctionality   = 0x14
	jvsMainID               = 0x15
	jvsSwitchesInput        = 0x20
	jvsCoinInput            = 0x21
	jvsAnalogInput          = 0x22
	jvsPositionInput        = 0x25
	jvsCoinSubOutput        = 0x30
	jvsGeneralDriverOutput  = 0x32
	jvsCoinAddOutput        = 0x35
	jvsNAMCOCommand         = 0x70
	jvsReset                = 0xf0
	jvsSetAddress           = 0xf1
)

// JVS status and report codes
const (
	jvsStatusOkay = 0x01
	jvsReportOkay = 0x01
)

// the argument to the reset command that resets the board
const jvsResetArgument = 0xd9

// the number of coin slots
const coinSlots = 2

// state of the emulated JVS I/O board
type jvsio struct {
	coins       [coinSlots]uint16
	coinPressed [coinSlots]bool

	// the reply to the cabinet motion and the number of GPO 0x70 commands
	// since the last reset
	rxReply uint8
	delay   int

	msg jvs.Message
}

// jvsFrame handles a JVS frame. The frame starts with the sync byte
func (c *Controller) jvsFrame(cmd uint8, frame []byte) {
	f, err := jvs.Decode(frame)

	msg := &c.jvs.msg
	msg.Reset()
	msg.Start(0)
	msg.AddData(jvsStatusOkay)

	// a frame that cannot be decoded is answered with the status only. a
	// checksum mismatch is logged and the commands run anyway
	if err != nil {
		logger.Log(c.env, logTagJVS, curated.Errorf(BadFrame, err))
	} else {
		if err := f.Check(); err != nil {
			logger.Log(c.env, logTagJVS, curated.Errorf(BadFrame, err))
		}
		c.jvsCommands(f.Node, newReader(f.Payload))
	}

	msg.End()
	if err := msg.Err(); err != nil {
		err = curated.Errorf(ReplyOverrun, err)
		logger.Log(c.env, logTagJVS, err)
		c.env.Alert(err)
	}

	c.out.put(cmd, uint8(msg.Len()))
	c.out.put(msg.Bytes()...)
}

// jvsCommands runs every command in the payload of a frame
func (c *Controller) jvsCommands(node uint8, in *reader) {
	msg := &c.jvs.msg

	for in.more() {
		cmd := in.byte()

		switch cmd {
		case jvsIOID:
			msg.AddData(jvsReportOkay)
			msg.AddString(c.prof.BoardID)
			logger.Log(c.env, logTagJVS, "board ID")

		case jvsCommandRevision:
			msg.AddData(jvsReportOkay, 0x11)

		case jvsJVRevision:
			msg.AddData(jvsReportOkay, 0x20)

		case jvsCommunicationVersion:
			msg.AddData(jvsReportOkay, 0x10)

		case jvsCheckFunctionality:
			msg.AddData(jvsReportOkay)
			msg.AddData(c.prof.Capabilities...)
			logger.Log(c.env, logTagJVS, "check functionality")

		case jvsMainID:
			for in.more() && in.byte() != 0 {
			}
			msg.AddData(jvsReportOkay)

		case jvsSwitchesInput:
			players := int(in.byte())
			size := int(in.byte())
			msg.AddData(jvsReportOkay)
			c.switches(players, size)

		case jvsCoinInput:
			slots := int(in.byte())
			msg.AddData(jvsReportOkay)
			c.coinInput(slots)

		case jvsAnalogInput:
			msg.AddData(jvsReportOkay)
			in.skip(1)
			c.analogInput()

		case jvsPositionInput:
			in.skip(1)
			if c.pads.Status(0).Pressed(input.TriggerR) {
				// touch at the centre of the screen
				msg.AddData(0x01, 0x00, 0x8c, 0x01, 0x95)
			} else {
				msg.AddData(0x01, 0xff, 0xff, 0xff, 0xff)
			}

		case jvsCoinSubOutput:
			slot := int(in.byte())
			v := binary.BigEndian.Uint16(in.bytes(2))
			if slot < coinSlots {
				c.jvs.coins[slot] -= v
			}
			msg.AddData(jvsReportOkay)

		case jvsGeneralDriverOutput:
			n := int(in.byte())
			if n > 0 {
				msg.AddData(jvsReportOkay)
				// the lamps of Mario Kart GP are a single byte whatever the
				// count says
				if c.prof.Title == profile.MarioKartGP {
					n = 1
				}
				c.generalDriverOutput(in.bytes(n))
			}

		case jvsCoinAddOutput:
			slot := int(in.byte())
			v := binary.BigEndian.Uint16(in.bytes(2))
			if slot < coinSlots {
				c.jvs.coins[slot] += v
			}
			msg.AddData(jvsReportOkay)

		case jvsNAMCOCommand:
			sub := in.byte()
			msg.AddData(jvsReportOkay)
			if sub == 0x18 {
				// ID check
				in.skip(4)
				msg.AddData(0xff)
			} else {
				logger.Logf(c.env, logTagJVS, "unknown NAMCO command: %02x", sub)
			}

		case jvsReset:
			if in.byte() == jvsResetArgument {
				logger.Log(c.env, logTagJVS, "reset")
				c.reset()
			}
			msg.AddData(jvsReportOkay)
			c.dip1 |= 0x01

		case jvsSetAddress:
			node = in.byte()
			logger.Logf(c.env, logTagJVS, "set address: node %d", node)
			if node == 1 {
				msg.AddData(1)
			} else {
				msg.AddData(0)
			}
			c.dip1 &^= 0x01

		default:
			logger.Log(c.env, logTagJVS, curated.Errorf(UnhandledJVS, node, cmd))
		}
	}
}

// coinInput reports the coin counters. a coin is added for each press of the
// coin button of the pad for the slot
func (c *Controller) coinInput(slots int) {
	msg := &c.jvs.msg
	for i := range slots {
		pressed := c.pads.Status(i).Pressed(input.TriggerZ)
		var coins uint16
		if i < coinSlots {
			if pressed && !c.jvs.coinPressed[i] {
				c.jvs.coins[i]++
			}
			c.jvs.coinPressed[i] = pressed
			coins = c.jvs.coins[i]
		}
		msg.AddData(uint8(coins>>8)&0x3f, uint8(coins))
	}
}

// analogInput reports the analog channels for the title
func (c *Controller) analogInput() {
	msg := &c.jvs.msg
	pad := c.pads.Status(0)

	switch c.prof.Title {
	case profile.FZeroAX, profile.FZeroAXMonster:
		// steering
		if c.motor.init == 1 {
			if c.motor.force > 0 {
				msg.AddData(uint8(0x80-(c.motor.force>>8)), 0)
			} else {
				msg.AddData(uint8(c.motor.force>>8), 0)
			}
		} else {
			msg.AddData(pad.StickX, 0)
		}
		msg.AddData(pad.StickY, 0)

		// unused
		msg.AddData(0, 0, 0, 0)

		// gas and brake
		msg.AddData(pad.TriggerRight, 0)
		msg.AddData(pad.TriggerLeft, 0)

		// motion stop
		msg.AddData(0x80, 0)
		msg.AddData(0, 0)

	case profile.VirtuaStriker3, profile.VirtuaStriker4:
		pad2 := c.pads.Status(1)
		msg.AddData(pad.StickX, 0, pad.StickY, 0)
		msg.AddData(pad2.StickX, 0, pad2.StickY, 0)

	default:
		// steering, gas and brake
		msg.AddData(pad.StickX, 0)
		msg.AddData(pad.TriggerRight, 0)
		msg.AddData(pad.TriggerLeft, 0)
	}
}

// generalDriverOutput handles the lamps and the cabinet motion
func (c *Controller) generalDriverOutput(data []byte) {
	if c.prof.Title == profile.MarioKartGP {
		status := data[0]
		logger.Logf(c.env, logTagJVS, "GPO: item button %v: cancel button %v", status&4 != 0, status&8 != 0)
		return
	}

	var w [3]byte
	copy(w[:], data)
	motion := binary.BigEndian.Uint16(w[1:]) >> 2

	logger.Logf(c.env, logTagJVS, "GPO: %02x %02x %d % 02x (%02x)", c.jvs.delay, c.jvs.rxReply, len(data), w, motion)

	switch motion {
	case 0x70:
		c.jvs.delay++
		if c.jvs.delay%10 == 0 {
			c.jvs.rxReply = 0xfb
		}
	case 0xf0:
		c.jvs.rxReply = 0xf0
	}
}
