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
	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/hardware/preferences"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/logger"
)

// GCAM commands.
const (
	gcamStatusSwitches = 0x10
	gcamSerialNumber   = 0x11
	gcamUnknown12      = 0x12
	gcamUnknown14      = 0x14
	gcamFirmVersion    = 0x15
	gcamFPGAVersion    = 0x16
	gcamRegionSettings = 0x1f
	gcamUnknown21      = 0x21
	gcamUnknown22      = 0x22
	gcamUnknown23      = 0x23
	gcamUnknown24      = 0x24
	gcamSerialA        = 0x31
	gcamSerialB        = 0x32
	gcamJVSA           = 0x40
	gcamJVSB           = 0x41
	gcamUnknown60      = 0x60
)

const baseboardSerial = "AADE-01B98394904"

// region blocks returned by the region settings command
var regions = map[string][4]byte{
	preferences.RegionJapan:  {0x01, 0xfe, 0x00, 0x00},
	preferences.RegionUSA:    {0x02, 0xfd, 0x00, 0x00},
	preferences.RegionExport: {0x03, 0xfc, 0x00, 0x00},
}

func (c *Controller) region() [4]byte {
	if c.env.Prefs != nil {
		if r, ok := regions[c.env.Prefs.Region.String()]; ok {
			return r
		}
	}
	return regions[preferences.RegionUSA]
}

// gcam runs every GCAM command in the data
func (c *Controller) gcam(in *reader) {
	for in.more() {
		cmd := in.byte()

		switch cmd {
		case gcamStatusSwitches:
			in.skip(1)
			switch c.prof.Title {
			case profile.FZeroAX, profile.FZeroAXMonster:
				// horizontal scanning frequency
				c.dip0 &^= 0x20
			case profile.MarioKartGP, profile.MarioKartGP2:
				// no camera
				c.dip0 &^= 0x10
			}
			c.out.put(cmd, 0x02, c.dip0, c.dip1)

		case gcamSerialNumber:
			in.skip(1)
			c.out.put(cmd, uint8(len(baseboardSerial)))
			c.out.put([]byte(baseboardSerial)...)

		case gcamUnknown12, gcamUnknown14, gcamUnknown23, gcamUnknown24:
			logger.Logf(c.env, logTag, "GCAM %02x: % 02x", cmd, in.bytes(2))
			c.out.put(cmd, 0x00)

		case gcamFirmVersion:
			in.skip(1)
			c.out.put(cmd, 0x02, 0x00, 0x26)

		case gcamFPGAVersion:
			in.skip(1)
			c.out.put(cmd, 0x02, 0x07, 0x06)

		case gcamRegionSettings:
			logger.Logf(c.env, logTag, "GCAM region: % 02x", in.bytes(5))
			r := c.region()
			c.out.put(cmd, 0x14)
			c.out.put(0x00, 0x00, 0x30, 0x00)
			c.out.put(r[:]...)
			for range 12 {
				c.out.put(0xff)
			}

		case gcamUnknown21:
			in.skip(4)

		case gcamUnknown22, gcamUnknown60:
			in.skip(int(in.peek(0)) + 1)

		case gcamSerialA:
			n := int(in.byte())
			c.serialA(in.bytes(n))

		case gcamSerialB:
			n := int(in.byte())
			c.card.serial(in.bytes(n), &c.out)

		case gcamJVSA, gcamJVSB:
			n := int(in.peek(0))
			frame := in.bytes(n + 1)
			c.jvsFrame(cmd, frame[1:])

		default:
			logger.Log(c.env, logTag, curated.Errorf(UnknownGCAM, cmd))
		}
	}
}
