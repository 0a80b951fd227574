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

import (
	"encoding/binary"
	"net/netip"

	"github.com/amboard/amboard/logger"
)

// serial numbers reported by the two command protocols
const (
	legacySerial  = "A89E-27A50364511"
	triggerSerial = "A85E-01A62204904"
)

// the bytes written by the TestHardware command
const (
	testHardware1 = 0x54534554
	testHardware2 = 0x004b4f20
)

func (p *Processor) in16(i int) uint16 {
	return p.mailbox.U16(MailboxIn + i*2)
}

func (p *Processor) in32(i int) uint32 {
	return p.mailbox.U32(MailboxIn + i*4)
}

// executeLegacy services the mailbox command started by the Execute command.
// the command is in the inbound region and the reply is made in the outbound
// region
func (p *Processor) executeLegacy() {
	cmd := p.in16(1)

	p.mailbox.Clear(MailboxOut, MailboxRegion)
	p.mailbox.SetU16(0, p.in16(0))
	p.mailbox.SetU16(2, cmd|0x8000)

	logger.Logf(p.env, logTag, "execute %03x", cmd)

	switch cmd {
	case cmdUnknown000:
		p.reply(1)

	case cmdGetDIMMSize:
		p.reply(0x20000000)

	case cmdStatus:
		p.mailbox.SetWord(1, p.status)
		p.mailbox.SetWord(2, p.progress)
		if p.progress < 100 {
			p.progress++
		} else {
			p.status = statusLoadedGameProgram
		}

	case cmdBootVersion:
		// the version is big-endian
		p.mailbox.SetU16(4, 0x0311)
		p.mailbox.SetU16(6, 1)
		p.mailbox.SetWord(2, 1)
		p.mailbox.SetWord(4, 0xff)

	case cmdSystemFlags:
		p.mailbox.SetU8(4, 1)
		p.mailbox.SetU8(5, 1)
		p.mailbox.SetU8(6, 1)
		p.mailbox.SetU16(8, 0)

	case cmdSerial:
		copy(p.mailbox[4:], legacySerial)

	case cmdUnknown104:
		p.mailbox.SetU8(4, 1)

	case cmdNetworkReInit:

	case cmdTestHardware:
		at := p.in32(4)
		p.mem.WriteUint32(at, testHardware1)
		p.mem.WriteUint32(at+4, testHardware2)
		p.reply(p.in32(1))

	case cmdInitLink, cmdUnknown605, cmdUnknown614:
		logger.Logf(p.env, logTag, "link %03x", cmd)

	case cmdSetupLink:
		var a, b [4]byte
		binary.LittleEndian.PutUint32(a[:], p.in32(4))
		binary.LittleEndian.PutUint32(b[:], p.in32(5))
		logger.Logf(p.env, logTag, "setup link: size %d port %d link %02x %02x %04x ip %s target %s ram %08x %08x",
			p.in16(2), p.in16(3)>>8|p.in16(3)<<8,
			p.mailbox.U8(0x28), p.mailbox.U8(0x29), p.in16(5),
			netip.AddrFrom4(a), netip.AddrFrom4(b),
			swap32(p.in32(6)), swap32(p.in32(7)))
		p.reply(0)

	case cmdSearchDevices:
		logger.Logf(p.env, logTag, "search devices: %d %d %08x", p.in16(2), p.in16(3), p.in32(2))
		if b, err := p.netbuf.Window(p.in32(2), offNetBuffer2, 0x20); err == nil {
			for i := 0; i < len(b); i += 0x10 {
				logger.Logf(p.env, logTag, "search devices: % x", b[i:i+0x10])
			}
		} else {
			logger.Log(p.env, logTag, err)
		}
		p.reply(0)

	case cmdUnknown608:
		logger.Logf(p.env, logTag, "link 608: %08x %d %d", p.in32(2), p.in16(4), p.in16(5))

	default:
		if !p.socketCommand(&legacyPath, cmd) {
			logger.Logf(p.env, logTag, "execute: unknown command %03x", cmd)
		}
	}

	p.mailbox.Clear(MailboxIn, MailboxRegion)
}

func swap32(v uint32) uint32 {
	return v>>24 | (v>>8)&0xff00 | (v<<8)&0xff0000 | v<<24
}
