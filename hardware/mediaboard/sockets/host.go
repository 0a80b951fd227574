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

package sockets

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Addr is an IPv4 address and port.
type Addr struct {
	IP   [4]byte
	Port uint16
}

func (a Addr) String() string {
	return fmt.Sprintf("%d.%d.%d.%d:%d", a.IP[0], a.IP[1], a.IP[2], a.IP[3], a.Port)
}

// Uint32 returns the address as a big-endian integer.
func (a Addr) Uint32() uint32 {
	return binary.BigEndian.Uint32(a.IP[:])
}

// Size of the guest sockaddr_in structure.
const SockaddrSize = 16

// Guest sockaddr_in layout. All fields are big-endian.
const (
	sockaddrFamily = 0
	sockaddrPort   = 2
	sockaddrIP     = 4
)

// Guest value of AF_INET.
const FamilyInet = 2

// DecodeSockaddr reads a guest sockaddr_in structure. The family field is
// returned but IPv4 is assumed regardless.
func DecodeSockaddr(b []byte) (Addr, uint16) {
	var a Addr
	if len(b) < sockaddrIP+4 {
		return a, 0
	}
	fam := binary.BigEndian.Uint16(b[sockaddrFamily:])
	a.Port = binary.BigEndian.Uint16(b[sockaddrPort:])
	copy(a.IP[:], b[sockaddrIP:sockaddrIP+4])
	return a, fam
}

// EncodeSockaddr writes a guest sockaddr_in structure.
func EncodeSockaddr(b []byte, a Addr) {
	if len(b) < sockaddrIP+4 {
		return
	}
	binary.BigEndian.PutUint16(b[sockaddrFamily:], FamilyInet)
	binary.BigEndian.PutUint16(b[sockaddrPort:], a.Port)
	copy(b[sockaddrIP:], a.IP[:])
}

// Readiness is the condition waited for by Host.Poll().
type Readiness int

// List of valid Readiness values.
const (
	Readable Readiness = iota
	Writable
	Exceptional
)

func (r Readiness) String() string {
	switch r {
	case Readable:
		return "read"
	case Writable:
		return "write"
	case Exceptional:
		return "except"
	}
	return "unknown"
}

// Socket types as numbered by the guest.
const (
	TypeStream   = 1
	TypeDatagram = 2
)

// Socket option levels and names as numbered by the guest.
const (
	LevelSocket = 0xffff
	LevelTCP    = 6

	OptionReuseAddr = 0x0004
	OptionKeepAlive = 0x0008
	OptionBroadcast = 0x0020
	OptionSendBuf   = 0x1001
	OptionRecvBuf   = 0x1002
	OptionNoDelay   = 0x0001
)

// Host is the socket interface of the host operating system. Descriptors are
// host descriptors, not guest handles. Implementations should include a
// Status among the values of the errors they return where one applies.
type Host interface {
	Socket(typ int) (int, error)
	Bind(fd int, addr Addr) error
	Listen(fd int, backlog int) error

	// Accept is only called after Poll() has reported the descriptor readable
	Accept(fd int) (int, Addr, error)

	// Connect starts a connection. It returns true if the connection is in
	// progress and must be waited for with Poll(..., Writable, ...)
	Connect(fd int, addr Addr) (bool, error)

	// SocketError returns the pending error on the socket (SO_ERROR)
	SocketError(fd int) error

	SetNonblock(fd int, nonblocking bool) error

	// Poll waits no longer than the timeout for the descriptor to become
	// ready. A zero timeout returns immediately
	Poll(fd int, r Readiness, timeout time.Duration) (bool, error)

	Send(fd int, p []byte) (int, error)
	Recv(fd int, p []byte) (int, error)

	// SetSockOpt is called with the guest numbering of the level and option
	SetSockOpt(fd int, level int, name int, value int) error
	SetTimeouts(fd int, send time.Duration, recv time.Duration) error

	Close(fd int) error
}
