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
	"github.com/amboard/amboard/hardware/input"
	"github.com/amboard/amboard/hardware/profile"
)

// the maximum number of bytes per player in the switch report
const switchBytes = 3

// switchBit maps a pad button to a bit in the switch report of a player
type switchBit struct {
	button input.Buttons
	byte   int
	bit    uint8
}

// switchMap describes the switch report for a title
type switchMap struct {
	// every player reads their own pad. otherwise every player reads the
	// first pad
	ownPad bool

	// bits for every player, for the first player only and for the second
	// player only
	all    []switchBit
	first  []switchBit
	second []switchBit

	// additional bits that do not come from the pad
	extra func(c *Controller, player int, pad input.PadStatus, data *[switchBytes]uint8)
}

// start and service are the same for every title
var (
	switchStart   = switchBit{input.ButtonStart, 0, 0x80}
	switchService = switchBit{input.ButtonX, 0, 0x40}
)

var fzeroFirst = []switchBit{
	switchStart,
	switchService,
	{input.ButtonY, 0, 0x02},     // boost
	{input.ButtonRight, 0, 0x20}, // view change 1
	{input.ButtonLeft, 0, 0x10},  // view change 2
	{input.ButtonUp, 0, 0x08},    // view change 3
	{input.ButtonDown, 0, 0x04},  // view change 4
}

// paddles
var fzeroSecond = []switchBit{
	{input.ButtonA, 0, 0x20},
	{input.ButtonB, 0, 0x10},
}

var switchMaps = map[profile.Title]switchMap{
	profile.FZeroAX: {
		first:  fzeroFirst,
		second: fzeroSecond,
		extra: func(c *Controller, player int, _ input.PadStatus, data *[switchBytes]uint8) {
			switch player {
			case 0:
				if c.cabinet.seatbelt {
					data[0] |= 0x01
				}
				data[1] = c.jvs.rxReply & 0xf0
			case 1:
				if c.cabinet.motionStop {
					data[0] |= 0x02
				}
				if c.cabinet.sensorRight {
					data[0] |= 0x04
				}
				if c.cabinet.sensorLeft {
					data[0] |= 0x08
				}
				data[1] = c.jvs.rxReply << 4
			}
		},
	},

	profile.FZeroAXMonster: {
		first:  fzeroFirst,
		second: fzeroSecond,
		extra: func(c *Controller, player int, _ input.PadStatus, data *[switchBytes]uint8) {
			switch player {
			case 0:
				if c.cabinet.monsterSensor {
					data[0] |= 0x01
				}
				data[1] = c.jvs.rxReply & 0xf0
			case 1:
				if c.cabinet.monsterSeatbelt {
					data[0] |= 0x02
				}
				if c.cabinet.monsterService {
					data[0] |= 0x04
				}
				if c.cabinet.monsterEmergency {
					data[0] |= 0x08
				}
			}
		},
	},

	profile.VirtuaStriker3: {
		ownPad: true,
		all: []switchBit{
			switchStart,
			switchService,
			{input.TriggerL, 0, 0x01},    // long pass
			{input.TriggerR, 1, 0x80},    // short pass
			{input.ButtonA, 0, 0x02},     // shoot
			{input.ButtonLeft, 0, 0x08},  // left
			{input.ButtonUp, 0, 0x20},    // up
			{input.ButtonRight, 0, 0x04}, // right
			{input.ButtonDown, 0, 0x10},  // down
		},
	},

	profile.VirtuaStriker4: {
		ownPad: true,
		all: []switchBit{
			switchStart,
			switchService,
			{input.TriggerL, 0, 0x01},    // long pass
			{input.TriggerR, 0, 0x02},    // short pass
			{input.ButtonA, 1, 0x80},     // shoot
			{input.ButtonB, 1, 0x40},     // dash
			{input.ButtonLeft, 0, 0x20},  // tactics (U)
			{input.ButtonUp, 0, 0x08},    // tactics (M)
			{input.ButtonRight, 0, 0x04}, // tactics (D)
		},
		first: []switchBit{
			{input.ButtonDown, 1, 0x20}, // IC card lock
		},
		extra: func(_ *Controller, player int, _ input.PadStatus, data *[switchBytes]uint8) {
			if player == 0 {
				// IC card switch
				data[0] |= 0x10
			}
		},
	},

	profile.GekitouProYakyuu: {
		ownPad: true,
		all: []switchBit{
			switchStart,
			switchService,
			{input.ButtonB, 0, 0x01},
			{input.ButtonA, 0, 0x02},
			{input.TriggerL, 1, 0x80}, // gekitou
			{input.ButtonLeft, 0, 0x08},
			{input.ButtonUp, 0, 0x20},
			{input.ButtonRight, 0, 0x04},
			{input.ButtonDown, 0, 0x10},
		},
	},

	profile.KeyOfAvalon: {
		all: []switchBit{
			switchStart,
			switchService,
			{input.ButtonA, 0, 0x04}, // switch 1
			{input.ButtonB, 0, 0x08}, // switch 2
		},
		extra: func(c *Controller, player int, pad input.PadStatus, _ *[switchBytes]uint8) {
			if player == 0 && pad.Pressed(input.TriggerL) {
				c.ic.toggleInserted()
			}
		},
	},
}

// used by the mario kart titles and any title not in the switchMaps table
var defaultSwitchMap = switchMap{
	all: []switchBit{
		switchStart,
		switchService,
		{input.ButtonA, 1, 0x20}, // item
		{input.ButtonB, 1, 0x02}, // cancel
	},
}

// switches adds the switch report to the JVS reply. The first byte is the
// test button
func (c *Controller) switches(players int, size int) {
	msg := &c.jvs.msg

	if c.pads.Status(0).Pressed(input.TriggerZ) {
		msg.AddData(0x80)
	} else {
		msg.AddData(0x00)
	}

	sm, ok := switchMaps[c.prof.Title]
	if !ok {
		sm = defaultSwitchMap
	}

	for i := range players {
		pad := c.pads.Status(0)
		if sm.ownPad {
			pad = c.pads.Status(i)
		}

		var data [switchBytes]uint8
		apply := func(bits []switchBit) {
			for _, b := range bits {
				if pad.Pressed(b.button) {
					data[b.byte] |= b.bit
				}
			}
		}

		apply(sm.all)
		switch i {
		case 0:
			apply(sm.first)
		case 1:
			apply(sm.second)
		}
		if sm.extra != nil {
			sm.extra(c, i, pad, &data)
		}

		for j := range size {
			if j < switchBytes {
				msg.AddData(data[j])
			} else {
				msg.AddData(0)
			}
		}
	}
}
