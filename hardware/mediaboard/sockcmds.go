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
	"time"

	"github.com/amboard/amboard/hardware/mediaboard/sockets"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/logger"
)

// netPath describes the mailbox layout and the arena windows used by the
// socket commands of one of the two protocols that carry them
type netPath struct {
	name string

	// offset in the mailbox of the command words
	args int

	// guest offsets of the command, send and receive arenas
	command uint32
	send    uint32
	recv    uint32

	// the quirk that shortens the select timeout on this path
	clamp profile.Quirks
}

var legacyPath = netPath{
	name:    "legacy",
	args:    MailboxIn,
	command: offNetCommand,
	send:    offNetBuffer1,
	recv:    offNetBuffer5,
	clamp:   profile.QuirkSelectClampLegacy,
}

var networkPath = netPath{
	name:    "network",
	args:    MailboxOut,
	command: offNetCommand2,
	send:    offNetBuffer3,
	recv:    offNetBuffer4,
	clamp:   profile.QuirkSelectClampNetwork,
}

// the timeout used by a clamped select
const clampedSelect = 1800 * time.Microsecond

// size of the guest fd_set written by a select. there are only 64 handles
const fdSetSize = sockets.Slots / 8

var socketNames = map[uint16]string{
	sockAccept:       "accept",
	sockBind:         "bind",
	sockClose:        "closesocket",
	sockConnect:      "connect",
	sockGetIPbyDNS:   "getipbydns",
	sockInetAddr:     "inet_addr",
	sockIoctl:        "ioctl",
	sockListen:       "listen",
	sockRecv:         "recv",
	sockSend:         "send",
	sockSocket:       "socket",
	sockSelect:       "select",
	sockShutdown:     "shutdown",
	sockSetSockOpt:   "setsockopt",
	sockGetSockOpt:   "getsockopt",
	sockSetTimeOuts:  "settimeouts",
	sockGetLastError: "getlasterror",
	sockRouteAdd:     "routeadd",
	sockRouteDelete:  "routedelete",
	sockDHCP:         "getparambydhcpexec",
	sockModifyIPAddr: "modifymyipaddr",
	sockRecvfrom:     "recvfrom",
	sockSendto:       "sendto",
	sockRecvDIMM:     "recvdimmimage",
	sockSendDIMM:     "senddimmimage",
}

// arg returns command word i
func (p *Processor) arg(path *netPath, i int) uint32 {
	return p.mailbox.U32(path.args + i*4)
}

// reply sets the result word
func (p *Processor) reply(v uint32) {
	p.mailbox.SetWord(1, v)
}

// mirror copies the low byte of the handle argument to byte 1 of the reply
func (p *Processor) mirror() {
	p.mailbox.SetU8(1, p.mailbox.U8(8))
}

// commandArena returns bytes in the command arena for a guest offset
func (p *Processor) commandArena(path *netPath, offset uint32, length uint32) ([]byte, bool) {
	b, err := p.netcmd.Window(offset, path.command, length)
	if err != nil {
		logger.Logf(p.env, logTag, "%s: %v", path.name, err)
		return nil, false
	}
	return b, true
}

// dataArena returns bytes in the network data arena for a guest offset in
// the window starting at base. the length is shortened to fit the window
func (p *Processor) dataArena(path *netPath, base uint32, offset uint32, length uint32) ([]byte, bool) {
	length = min(length, NetworkBufferSize)
	if offset >= base && offset-base < NetworkBufferSize {
		length = min(length, NetworkBufferSize-(offset-base))
	}
	b, err := p.netbuf.Window(offset, base, length)
	if err != nil {
		logger.Logf(p.env, logTag, "%s: %v", path.name, err)
		return nil, false
	}
	return b, true
}

// socketCommand services a socket command. it returns false if cmd is not a
// socket command
func (p *Processor) socketCommand(path *netPath, cmd uint16) bool {
	name, ok := socketNames[cmd]
	if !ok {
		return false
	}

	if p.net == nil {
		logger.Logf(p.env, logTag, "%s: %s: no network", path.name, name)
		return true
	}

	h := sockets.CheckHandle(p.arg(path, 2))

	switch cmd {
	case sockAccept:
		nh, addr, err := p.net.Accept(h)
		if err != nil {
			p.reply(nh.Guest())
			break
		}
		at, size := p.arg(path, 3), p.arg(path, 4)
		if at != 0 && size != 0 {
			if b, ok := p.commandArena(path, at, sockets.SockaddrSize); ok {
				sockets.EncodeSockaddr(b, addr)
			}
			if b, ok := p.commandArena(path, size, 4); ok {
				binary.BigEndian.PutUint32(b, sockets.SockaddrSize)
			}
		}
		p.reply(nh.Guest())

	case sockBind:
		b, ok := p.commandArena(path, p.arg(path, 3), sockets.SockaddrSize)
		if !ok {
			p.reply(0xffffffff)
			break
		}
		addr, af := sockets.DecodeSockaddr(b)
		if af != sockets.FamilyInet {
			logger.Logf(p.env, logTag, "%s: bind(%d, %s): address family %d", path.name, h, addr, af)
			p.reply(0xffffffff)
			break
		}
		p.reply(uint32(p.net.Bind(h, addr)))

	case sockClose:
		p.reply(uint32(p.net.Close(h)))

	case sockConnect:
		b, ok := p.commandArena(path, p.arg(path, 3), sockets.SockaddrSize)
		if !ok {
			p.mirror()
			p.reply(0xffffffff)
			break
		}
		// the camera is connected with a bad family. the address is used
		// as IPv4 whatever the family
		addr, af := sockets.DecodeSockaddr(b)
		if af != sockets.FamilyInet {
			logger.Logf(p.env, logTag, "%s: connect(%d, %s): address family %d", path.name, h, addr, af)
		}
		outcome, err := p.net.Connect(h, addr, p.net.ConnectTimeout())
		if err != nil {
			logger.Logf(p.env, logTag, "%s: connect(%d, %s): %v", path.name, h, addr, err)
		}
		p.mirror()
		p.reply(outcome.Guest())

	case sockInetAddr:
		s := p.netcmd.CString(0)
		ip := uint32(0xffffffff)
		if a, err := netip.ParseAddr(s); err == nil && a.Is4() {
			ip = binary.BigEndian.Uint32(a.AsSlice())
		}
		logger.Logf(p.env, logTag, "%s: inet_addr(%s): %08x", path.name, s, ip)
		p.mirror()
		p.reply(ip)

	case sockListen:
		ret := p.net.Listen(h, p.arg(path, 3))
		p.mirror()
		p.reply(uint32(ret))

	case sockRecv:
		ret := int32(-1)
		if b, ok := p.dataArena(path, path.recv, p.arg(path, 3), p.arg(path, 4)); ok {
			ret = p.net.Recv(h, b)
		}
		p.mirror()
		p.reply(uint32(ret))

	case sockSend:
		ret := int32(-1)
		if b, ok := p.dataArena(path, path.send, p.arg(path, 3), p.arg(path, 4)); ok {
			ret = p.net.Send(h, b)
		}
		p.mirror()
		p.reply(uint32(ret))

	case sockSocket:
		if af := p.arg(path, 2); af != sockets.FamilyInet {
			logger.Logf(p.env, logTag, "%s: socket: address family %d", path.name, af)
		}
		nh := p.net.Socket(p.arg(path, 3))
		p.mailbox.SetU8(1, 0)
		p.reply(nh.Guest())

	case sockSelect:
		ret := p.selectCommand(path)
		p.mailbox.SetU8(1, 0)
		p.reply(uint32(ret))

	case sockSetSockOpt:
		ret := int32(-1)
		if b, ok := p.commandArena(path, p.arg(path, 5), 4); ok {
			v := int(binary.BigEndian.Uint32(b))
			if p.arg(path, 6) == 1 {
				v = int(b[0])
			}
			ret = p.net.SetSockOpt(h, p.arg(path, 3), p.arg(path, 4), v)
		}
		p.mirror()
		p.reply(uint32(ret))

	case sockSetTimeOuts:
		ret := p.net.SetTimeouts(h, sockets.Timeouts{
			Connect: p.arg(path, 3),
			Send:    p.arg(path, 4),
			Recv:    p.arg(path, 5),
		})
		p.mirror()
		p.reply(uint32(ret))

	case sockGetLastError:
		p.mirror()
		p.reply(p.net.LastError())

	case sockDHCP:
		p.mailbox.SetU8(1, 0)
		p.reply(0)

	case sockModifyIPAddr:
		s := ""
		if at := p.arg(path, 2); at >= path.command {
			s = p.netcmd.CString(at - path.command)
		}
		logger.Logf(p.env, logTag, "%s: modifymyipaddr(%s)", path.name, s)

	default:
		logger.Logf(p.env, logTag, "%s: unsupported socket command %s (%03x)", path.name, name, cmd)
	}

	return true
}

// selectCommand services the select socket command. only one of the three
// sets is ever given
func (p *Processor) selectCommand(path *netPath) int32 {
	nfds := p.arg(path, 2)
	h := sockets.CheckHandle(nfds - 1)
	if p.prof.Quirks.Has(profile.QuirkCameraSelect) && nfds == 256 {
		h = p.net.Camera()
	}

	var which sockets.Readiness
	var at uint32

	set := p.arg(path, 6)
	switch {
	case p.arg(path, 3) != 0 && set != 0:
		which, at = sockets.Readable, p.arg(path, 3)
	case p.arg(path, 4) != 0 && set != 0:
		which, at = sockets.Writable, p.arg(path, 4)
	case p.arg(path, 5) != 0 && set != 0:
		which, at = sockets.Exceptional, p.arg(path, 5)
	default:
		logger.Logf(p.env, logTag, "%s: select(%d): no descriptor set", path.name, nfds)
		return 0
	}

	fds, ok := p.commandArena(path, set, fdSetSize)
	if !ok {
		return -1
	}
	clear(fds)

	tv, ok := p.commandArena(path, at, 8)
	if !ok {
		return -1
	}
	if p.prof.Quirks.Has(path.clamp) {
		binary.BigEndian.PutUint32(tv[0:], 0)
		binary.BigEndian.PutUint32(tv[4:], uint32(clampedSelect/time.Microsecond))
	}
	timeout := time.Duration(binary.BigEndian.Uint32(tv[0:]))*time.Second +
		time.Duration(binary.BigEndian.Uint32(tv[4:]))*time.Microsecond

	ret, err := p.net.Select(h, which, timeout)
	if err != nil {
		logger.Logf(p.env, logTag, "%s: select(%d, %s): %v", path.name, h, which, err)
	}
	if ret > 0 {
		word := int(h) / 32
		bit := uint32(1) << (uint(h) % 32)
		binary.BigEndian.PutUint32(fds[word*4:], binary.BigEndian.Uint32(fds[word*4:])|bit)
	}

	logger.Logf(p.env, logTag, "%s: select(%d(%d), %s, %v): %d", path.name, h, nfds, which, timeout, ret)
	return ret
}
