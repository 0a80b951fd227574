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

//go:build unix

package sockets

import (
	"errors"
	"time"

	"github.com/amboard/amboard/curated"
	"golang.org/x/sys/unix"
)

// UnixHost implements the Host interface with the socket API of the host
// operating system.
type UnixHost struct{}

// NewUnixHost is the preferred method of initialisation for the UnixHost
// type.
func NewUnixHost() *UnixHost {
	return &UnixHost{}
}

var errnoStatus = map[unix.Errno]Status{
	unix.EAGAIN:        StatusWouldBlock,
	unix.EINPROGRESS:   StatusInProgress,
	unix.EALREADY:      StatusInProgress,
	unix.EINTR:         StatusInterrupted,
	unix.EBADF:         StatusBadDescriptor,
	unix.EACCES:        StatusAccess,
	unix.EFAULT:        StatusFault,
	unix.ENFILE:        StatusFileTableFull,
	unix.EMFILE:        StatusTooManyFiles,
	unix.EMSGSIZE:      StatusMessageSize,
	unix.EAFNOSUPPORT:  StatusNoSupport,
	unix.EADDRINUSE:    StatusAddrInUse,
	unix.EADDRNOTAVAIL: StatusAddrNotAvail,
	unix.ENOTSOCK:      StatusNotSocket,
	unix.ENETUNREACH:   StatusNetUnreachable,
	unix.ENOBUFS:       StatusNoBuffers,
	unix.EISCONN:       StatusConnected,
	unix.ENOTCONN:      StatusNotConnected,
	unix.ETIMEDOUT:     StatusTimedOut,
	unix.ECONNREFUSED:  StatusRefused,
	unix.EHOSTUNREACH:  StatusHostUnreach,
	unix.EHOSTDOWN:     StatusHostDown,
	unix.EPIPE:         StatusNotConnected,
	unix.ECONNRESET:    StatusNotConnected,
}

// hostError wraps the error from the unix package. the Status is included so
// that the Proxy can report it
func hostError(op string, err error) error {
	var errno unix.Errno
	if errors.As(err, &errno) {
		if s, ok := errnoStatus[errno]; ok {
			return curated.Errorf(HostError, op, errors.Join(err, s))
		}
	}
	return curated.Errorf(HostError, op, err)
}

// Socket implements the Host interface.
func (h *UnixHost) Socket(typ int) (int, error) {
	var fd int
	var err error
	switch typ {
	case TypeStream:
		fd, err = unix.Socket(unix.AF_INET, unix.SOCK_STREAM, unix.IPPROTO_TCP)
	case TypeDatagram:
		fd, err = unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	default:
		return -1, curated.Errorf(HostError, "socket", StatusNoSupport)
	}
	if err != nil {
		return -1, hostError("socket", err)
	}
	return fd, nil
}

func sockaddr(a Addr) *unix.SockaddrInet4 {
	return &unix.SockaddrInet4{Port: int(a.Port), Addr: a.IP}
}

// Bind implements the Host interface.
func (h *UnixHost) Bind(fd int, addr Addr) error {
	// the guest binds to the same port after restarting so reuse must be
	// allowed
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	if err := unix.Bind(fd, sockaddr(addr)); err != nil {
		return hostError("bind", err)
	}
	return nil
}

// Listen implements the Host interface.
func (h *UnixHost) Listen(fd int, backlog int) error {
	if err := unix.Listen(fd, backlog); err != nil {
		return hostError("listen", err)
	}
	return nil
}

// Accept implements the Host interface.
func (h *UnixHost) Accept(fd int) (int, Addr, error) {
	nfd, sa, err := unix.Accept(fd)
	if err != nil {
		return -1, Addr{}, hostError("accept", err)
	}
	var a Addr
	if in4, ok := sa.(*unix.SockaddrInet4); ok {
		a.IP = in4.Addr
		a.Port = uint16(in4.Port)
	}
	return nfd, a, nil
}

// Connect implements the Host interface.
func (h *UnixHost) Connect(fd int, addr Addr) (bool, error) {
	err := unix.Connect(fd, sockaddr(addr))
	if err == nil {
		return false, nil
	}
	if errors.Is(err, unix.EINPROGRESS) || errors.Is(err, unix.EAGAIN) {
		return true, nil
	}
	return false, hostError("connect", err)
}

// SocketError implements the Host interface.
func (h *UnixHost) SocketError(fd int) error {
	v, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return hostError("getsockopt", err)
	}
	if v != 0 {
		return hostError("connect", unix.Errno(v))
	}
	return nil
}

// SetNonblock implements the Host interface.
func (h *UnixHost) SetNonblock(fd int, nonblocking bool) error {
	if err := unix.SetNonblock(fd, nonblocking); err != nil {
		return hostError("nonblock", err)
	}
	return nil
}

// Poll implements the Host interface. Timeouts are rounded up to the nearest
// millisecond.
func (h *UnixHost) Poll(fd int, r Readiness, timeout time.Duration) (bool, error) {
	var events int16
	switch r {
	case Readable:
		events = unix.POLLIN
	case Writable:
		events = unix.POLLOUT
	case Exceptional:
		events = unix.POLLPRI
	}

	deadline := time.Now().Add(timeout)

	for {
		ms := 0
		if rem := time.Until(deadline); rem > 0 {
			ms = int((rem + time.Millisecond - 1) / time.Millisecond)
		}

		fds := []unix.PollFd{{Fd: int32(fd), Events: events}}
		n, err := unix.Poll(fds, ms)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return false, hostError("poll", err)
		}
		if n == 0 {
			return false, nil
		}

		// an error or hangup on the descriptor also counts as ready. the
		// caller discovers the problem on the next operation
		return fds[0].Revents&(events|unix.POLLERR|unix.POLLHUP) != 0, nil
	}
}

// Send implements the Host interface.
func (h *UnixHost) Send(fd int, p []byte) (int, error) {
	n, err := unix.Write(fd, p)
	if err != nil {
		return -1, hostError("send", err)
	}
	return n, nil
}

// Recv implements the Host interface.
func (h *UnixHost) Recv(fd int, p []byte) (int, error) {
	n, err := unix.Read(fd, p)
	if err != nil {
		return -1, hostError("recv", err)
	}
	return n, nil
}

// hostOption translates the guest numbering of a socket option
func hostOption(level int, name int) (int, int) {
	switch level {
	case LevelSocket:
		switch name {
		case OptionReuseAddr:
			return unix.SOL_SOCKET, unix.SO_REUSEADDR
		case OptionKeepAlive:
			return unix.SOL_SOCKET, unix.SO_KEEPALIVE
		case OptionBroadcast:
			return unix.SOL_SOCKET, unix.SO_BROADCAST
		case OptionSendBuf:
			return unix.SOL_SOCKET, unix.SO_SNDBUF
		case OptionRecvBuf:
			return unix.SOL_SOCKET, unix.SO_RCVBUF
		}
		return unix.SOL_SOCKET, name
	case LevelTCP:
		if name == OptionNoDelay {
			return unix.IPPROTO_TCP, unix.TCP_NODELAY
		}
	}
	return level, name
}

// SetSockOpt implements the Host interface.
func (h *UnixHost) SetSockOpt(fd int, level int, name int, value int) error {
	l, n := hostOption(level, name)
	if err := unix.SetsockoptInt(fd, l, n, value); err != nil {
		return hostError("setsockopt", err)
	}
	return nil
}

// SetTimeouts implements the Host interface.
func (h *UnixHost) SetTimeouts(fd int, send time.Duration, recv time.Duration) error {
	tv := unix.NsecToTimeval(send.Nanoseconds())
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_SNDTIMEO, &tv); err != nil {
		return hostError("setsockopt", err)
	}
	tv = unix.NsecToTimeval(recv.Nanoseconds())
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return hostError("setsockopt", err)
	}
	return nil
}

// Close implements the Host interface.
func (h *UnixHost) Close(fd int) error {
	if err := unix.Close(fd); err != nil {
		return hostError("close", err)
	}
	return nil
}
