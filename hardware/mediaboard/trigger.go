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
	"github.com/amboard/amboard/logger"
)

// executeTrigger services the mailbox command started by a write of 1 to the
// trigger address. the reply is mirrored to the third region of the mailbox
// and the whole of the mailbox covered by the DMA window is copied to the
// guest
func (p *Processor) executeTrigger(address uint32, length uint32) {
	p.mailbox.Clear(MailboxOut, MailboxRegion)
	p.mailbox.SetU32(MailboxOut, p.mailbox.U32(MailboxIn)|0x80000000)
	copy(p.mailbox[MailboxMirror:MailboxMirror+MailboxRegion], p.mailbox[MailboxOut:MailboxOut+MailboxRegion])

	cmd := p.in16(1)
	logger.Logf(p.env, logTag, "execute trigger %03x", cmd)

	switch cmd {
	case cmdUnknown000:
		p.reply(1)

	case cmdGetDIMMSize:
		p.reply(0x1fff8000)

	case cmdStatus:
		p.mailbox.SetWord(1, statusLoadedGameProgram)
		p.mailbox.SetWord(2, 100)

	case cmdBootVersion:
		// the version is big-endian
		p.mailbox.SetU16(4, 0x0903)
		p.mailbox.SetU16(6, 2)
		p.mailbox.SetWord(2, 0x4746)
		p.mailbox.SetWord(4, 0xff)

	case cmdSystemFlags:
		p.mailbox.SetU8(4, 0)
		p.mailbox.SetU8(5, mediaGDROM)
		p.mailbox.SetU8(6, 1)
		p.mailbox.SetU16(8, 0)
		p.mailbox.SetU8(7, 1)

	case cmdSerial:
		copy(p.mailbox[4:], triggerSerial)

	case cmdUnknown104:
		p.mailbox.SetU8(4, 1)

	default:
		p.alert(UnhandledCommand, uint32(cmd))
	}

	p.copyOut(p.mailbox[:], "mailbox", 0, address, min(length, MailboxSize))
	p.mailbox.Clear(MailboxIn, MailboxRegion)

	if p.exi != nil {
		p.exi.Raise(irqTrigger)
	}
}
