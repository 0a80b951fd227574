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
	"math/bits"

	"github.com/amboard/amboard/environment"
	"github.com/amboard/amboard/logger"
)

// Deck reader commands. The deck reader shares serial port A with the IC card
// reader.
const (
	deckShutterAuto     = 0x61
	deckBootVersion     = 0x62
	deckSensLock        = 0x63
	deckSensCard        = 0x65
	deckFirmwareUpdate  = 0x66
	deckShutterGet      = 0x67
	deckCameraCheck     = 0x68
	deckShutterCard     = 0x69
	deckProgramChecksum = 0x6b
	deckBootChecksum    = 0x6d
	deckShutterLoad     = 0x6f
	deckReadCard        = 0x72
	deckShutterSave     = 0x73
	deckSelfTest        = 0x74
	deckProgramVersion  = 0x76
)

const (
	deckProgramVersionString = "           Version 1.22,2003/09/19,171-8213B"
	deckBootVersionString    = "           Version 1.04,2003/06/17,171-8213B"
)

// the length field of the read card reply
const deckReadCardLength = 0x72

var deckChecksum = []byte{0x23, 0x28, 0x45, 0x29}

var deckCardData = []byte{
	0x00, 0x6e, 0x00, 0x00, 0x01, 0x00, 0x00, 0x06, 0x00, 0x00, 0x07, 0x00, 0x00, 0x0b,
	0x00, 0x00, 0x0e, 0x00, 0x00, 0x10, 0x00, 0x00, 0x17, 0x00, 0x00, 0x19, 0x00, 0x00,
	0x1a, 0x00, 0x00, 0x1b, 0x00, 0x00, 0x1d, 0x00, 0x00, 0x1f, 0x00, 0x00, 0x20, 0x00,
	0x00, 0x22, 0x00, 0x00, 0x23, 0x00, 0x00, 0x24, 0x00, 0x00, 0x27, 0x00, 0x00, 0x28,
	0x00, 0x00, 0x2c, 0x00, 0x00, 0x2f, 0x00, 0x00, 0x34, 0x00, 0x00, 0x35, 0x00, 0x00,
	0x37, 0x00, 0x00, 0x38, 0x00, 0x00, 0x39, 0x00, 0x00, 0x3d, 0x00,
}

// deckCommand handles the commands that are not IC card commands. the command
// of a deck reader packet is the first byte of the data
func deckCommand(env *environment.Environment, data []byte, p *icPacket) {
	p.command = from(data, 0, 1)[0]
	p.flag = 0

	switch p.command {
	case deckProgramVersion:
		p.extend([]byte(deckProgramVersionString)...)
		logger.Log(env, logTagIC, "deck reader: program version")

	case deckBootVersion:
		p.extend([]byte(deckBootVersionString)...)
		logger.Log(env, logTagIC, "deck reader: boot version")

	case deckShutterGet:
		p.extend(0, 0, 0, 0)
		logger.Log(env, logTagIC, "deck reader: shutter get")

	case deckCameraCheck:
		p.extend(0x23, 0x28, 0x45, 0x29, 0x45, 0x29)
		logger.Log(env, logTagIC, "deck reader: camera check")

	case deckProgramChecksum:
		p.extend(deckChecksum...)
		logger.Log(env, logTagIC, "deck reader: program checksum")

	case deckBootChecksum:
		p.extend(deckChecksum...)
		logger.Log(env, logTagIC, "deck reader: boot checksum")

	case deckSelfTest:
		p.flag = 0x00
		logger.Log(env, logTagIC, "deck reader: self test")

	case deckSensLock:
		p.flag = 0x01
		logger.Log(env, logTagIC, "deck reader: sens lock")

	case deckSensCard:
		logger.Log(env, logTagIC, "deck reader: sens card")

	case deckShutterCard:
		logger.Log(env, logTagIC, "deck reader: shutter card")

	case deckReadCard:
		p.fixed = 0xaa
		p.flag = 0xaa
		p.extend(deckCardData...)
		p.length = deckReadCardLength

		// the status field of this reply is little-endian
		p.status = bits.ReverseBytes16(uint16(len(deckCardData)))
		logger.Log(env, logTagIC, "deck reader: read card")

	default:
		logger.Logf(env, logTagIC, "unknown command: % 02x", from(data, 2, 12))
	}
}
