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

// executeNetwork services the mailbox command started by a read of the
// second execute address. the command is moved from the network region to
// the outbound region and the reply is made in place
func (p *Processor) executeNetwork(_ *[3]uint32, _ uint32, address uint32, length uint32) uint32 {
	copy(p.mailbox[MailboxOut:MailboxOut+MailboxRegion], p.mailbox[MailboxNetwork:MailboxNetwork+MailboxRegion])
	p.mailbox.Clear(MailboxNetwork, MailboxRegion)
	p.mailbox.SetU8(MailboxNetwork+4, 1)

	cmd := p.mailbox.Command(MailboxOut)
	logger.Logf(p.env, logTag, "execute network %03x", cmd)

	switch cmd {
	case cmdGetDIMMSize:
		p.reply(1)

	case cmdNetworkVersion:
		p.reply(0x1305)
		p.mailbox.SetU8(6, 1)

	case cmdSystemFlags:
		p.mailbox.SetU8(4, 1)
		p.mailbox.SetU8(6, mediaNAND)
		p.mailbox.SetU8(7, 1)

	case cmdSerial:

	case cmdInitLink:
		logger.Logf(p.env, logTag, "network: link %03x", cmd)

	default:
		if !p.socketCommand(&networkPath, cmd) {
			logger.Logf(p.env, logTag, "execute network: unknown command %03x", cmd)
		}
	}

	// command complete
	p.mailbox.SetU8(3, p.mailbox.U8(3)|0x80)

	p.mem.Fill(address, int(length), 0x00)
	if p.exi != nil {
		p.exi.Raise(irqNetwork)
	}

	return Handled
}
