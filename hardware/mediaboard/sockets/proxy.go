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
	"errors"
	"fmt"
	"time"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/environment"
	"github.com/amboard/amboard/hardware/preferences"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/logger"
)

// Patterns for errors returned by the Proxy.
const (
	HostError  = "sockets: %s: %v"
	WouldBlock = "sockets: %s would block"
)

const logTag = "mediaboard [net]"

// Outcome of a Connect() call.
type Outcome int

// List of valid Outcome values.
const (
	Connected Outcome = iota

	// the connect did not complete before the timeout. the connect remains
	// attached to the handle and is continued by the next call to Connect()
	// for the same handle
	Pending

	Failed
)

func (o Outcome) String() string {
	switch o {
	case Connected:
		return "connected"
	case Pending:
		return "pending"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Guest returns the outcome as it is written to the mailbox.
func (o Outcome) Guest() uint32 {
	if o == Connected {
		return 0
	}
	return 0xffffffff
}

// a connect that has been started on the host
type connect struct {
	addr Addr

	// the connect has completed. err is the result
	done bool
	err  error
}

// Timeouts set by the guest with the SetTimeOuts command.
type Timeouts struct {
	// microseconds
	Connect uint32

	// milliseconds
	Send uint32
	Recv uint32
}

// DefaultTimeouts are the timeouts before the first SetTimeOuts command.
var DefaultTimeouts = Timeouts{Connect: 20000, Send: 20000, Recv: 20000}

// Rewrite is the set of destination addresses that replace the addresses
// hardcoded in the guest.
type Rewrite struct {
	// 192.168.11.111
	Companion [4]byte

	// 192.168.29.0/24
	Camera [4]byte

	// 192.168.13.1
	Avalon [4]byte
}

// Proxy implements the socket commands of the media board.
type Proxy struct {
	env  *environment.Environment
	host Host

	table Table

	rewrite  Rewrite
	timeouts Timeouts
	accept   time.Duration

	lastError Status

	// the most recent handle connected to the camera address
	camera Handle
}

// NewProxy is the preferred method of initialisation for the Proxy type.
func NewProxy(env *environment.Environment, host Host, prof profile.Profile) *Proxy {
	p := &Proxy{
		env:       env,
		host:      host,
		timeouts:  DefaultTimeouts,
		lastError: StatusSuccess,
	}

	p.timeouts.Connect = uint32(env.Prefs.ConnectTimeout.Get().(int))
	if prof.ConnectTimeout != 0 {
		p.timeouts.Connect = prof.ConnectTimeout
	}
	p.accept = time.Duration(env.Prefs.AcceptTimeout.Get().(int)) * time.Millisecond

	p.rewrite = Rewrite{
		Companion: preferences.Addr(&env.Prefs.Network.Companion),
		Camera:    preferences.Addr(&env.Prefs.Network.Camera),
		Avalon:    preferences.Addr(&env.Prefs.Network.Avalon),
	}

	return p
}

func (p *Proxy) String() string {
	return fmt.Sprintf("%d sockets, last error %s", p.table.Used(), p.lastError)
}

// statusOf returns the most specific Status for the error
func statusOf(err error) Status {
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return StatusError
}

func (p *Proxy) fail(err error) {
	p.lastError = statusOf(err)
}

// LastError returns the status of the most recent operation that sets it.
func (p *Proxy) LastError() uint32 {
	return p.lastError.Guest()
}

// Timeouts returns the current timeouts.
func (p *Proxy) Timeouts() Timeouts {
	return p.timeouts
}

// ConnectTimeout returns the connect timeout as a duration.
func (p *Proxy) ConnectTimeout() time.Duration {
	return time.Duration(p.timeouts.Connect) * time.Microsecond
}

// Camera returns the handle most recently connected to the camera address.
// It is zero if there is no such handle.
func (p *Proxy) Camera() Handle {
	return p.camera
}

// Snapshot returns a copy of the allocated descriptors.
func (p *Proxy) Snapshot() []Descriptor {
	return p.table.Snapshot()
}

// Socket creates a new socket. The protocol is always TCP for stream sockets.
func (p *Proxy) Socket(typ uint32) Handle {
	if err := p.table.Reserve(); err != nil {
		logger.Logf(p.env, logTag, "socket(%d): %v", typ, err)
		p.lastError = StatusTooManyFiles
		return InvalidHandle
	}

	fd, err := p.host.Socket(int(typ))
	if err != nil {
		logger.Logf(p.env, logTag, "socket(%d): %v", typ, err)
		p.fail(err)
		return InvalidHandle
	}

	h, _ := p.table.Allocate(fd)
	logger.Logf(p.env, logTag, "socket(%d): %d (fd %d)", typ, h, fd)
	return h
}

// Bind the socket. The address to bind to is always INADDR_ANY because the
// guest uses a hardcoded address. Only the port is honoured.
func (p *Proxy) Bind(h Handle, addr Addr) int32 {
	fd, err := p.table.Lookup(h)
	if err != nil {
		logger.Logf(p.env, logTag, "bind(%d): %v", h, err)
		p.lastError = StatusBadDescriptor
		return -1
	}

	addr.IP = [4]byte{}
	err = p.host.Bind(fd, addr)
	if err != nil {
		logger.Logf(p.env, logTag, "bind(%d, %s): %v", h, addr, err)
		p.fail(err)
		return -1
	}

	logger.Logf(p.env, logTag, "bind(%d, %s)", h, addr)
	p.lastError = StatusSuccess
	return 0
}

// Listen for connections on the socket.
func (p *Proxy) Listen(h Handle, backlog uint32) int32 {
	fd, err := p.table.Lookup(h)
	if err != nil {
		logger.Logf(p.env, logTag, "listen(%d): %v", h, err)
		p.lastError = StatusBadDescriptor
		return -1
	}

	err = p.host.Listen(fd, int(backlog))
	if err != nil {
		logger.Logf(p.env, logTag, "listen(%d, %d): %v", h, backlog, err)
		p.fail(err)
		return -1
	}

	logger.Logf(p.env, logTag, "listen(%d, %d)", h, backlog)
	return 0
}

// Accept a connection on a listening socket. Accept waits no longer than the
// accept timeout. If no connection is ready in that time the last error is
// StatusWouldBlock.
func (p *Proxy) Accept(h Handle) (Handle, Addr, error) {
	fd, err := p.table.Lookup(h)
	if err != nil {
		p.lastError = StatusBadDescriptor
		return InvalidHandle, Addr{}, err
	}

	if err := p.table.Reserve(); err != nil {
		p.lastError = StatusTooManyFiles
		return InvalidHandle, Addr{}, err
	}

	ready, err := p.host.Poll(fd, Readable, p.accept)
	if err != nil {
		p.lastError = StatusError
		return InvalidHandle, Addr{}, err
	}
	if !ready {
		p.lastError = StatusWouldBlock
		return InvalidHandle, Addr{}, curated.Errorf(WouldBlock, "accept")
	}

	nfd, addr, err := p.host.Accept(fd)
	if err != nil {
		p.lastError = StatusError
		return InvalidHandle, Addr{}, err
	}

	nh, _ := p.table.Allocate(nfd)
	logger.Logf(p.env, logTag, "accept(%d): %d from %s", h, nh, addr)
	p.lastError = StatusSuccess
	return nh, addr, nil
}

// RewriteAddr replaces the addresses hardcoded in the guest. A connection to
// the camera address is remembered for Camera().
func (p *Proxy) RewriteAddr(h Handle, addr Addr) Addr {
	switch {
	case addr.IP == [4]byte{192, 168, 11, 111}:
		addr.IP = p.rewrite.Companion
	case addr.IP[0] == 192 && addr.IP[1] == 168 && addr.IP[2] == 29:
		addr.IP = p.rewrite.Camera
		p.camera = h
	case addr.IP == [4]byte{192, 168, 13, 1}:
		addr.IP = p.rewrite.Avalon
	}
	return addr
}

// Connect the socket. The connect is made in non-blocking mode and is waited
// for no longer than the timeout. If it has not completed in that time the
// outcome is Pending, the last error is StatusWouldBlock and the connect is
// continued by the next call to Connect for the same handle. The address is
// ignored in that case.
func (p *Proxy) Connect(h Handle, addr Addr, timeout time.Duration) (Outcome, error) {
	e, err := p.table.entry(h)
	if err != nil {
		p.lastError = StatusError
		return Failed, err
	}

	if e.pending == nil {
		addr = p.RewriteAddr(h, addr)

		if err := p.host.SetNonblock(e.fd, true); err != nil {
			p.lastError = StatusError
			return Failed, err
		}

		inProgress, err := p.host.Connect(e.fd, addr)
		if err != nil {
			p.blocking(e.fd)
			p.lastError = StatusError
			return Failed, err
		}

		if !inProgress {
			p.blocking(e.fd)
			p.lastError = StatusSuccess
			logger.Logf(p.env, logTag, "connect(%d, %s): connected", h, addr)
			return Connected, nil
		}

		// the socket stays non-blocking until the connect completes or fails
		e.pending = &connect{addr: addr}
	}

	c := e.pending

	if !c.done {
		ready, err := p.host.Poll(e.fd, Writable, timeout)
		switch {
		case err != nil:
			c.done = true
			c.err = err
		case ready:
			c.done = true
			c.err = p.host.SocketError(e.fd)
		default:
			p.lastError = StatusWouldBlock
			logger.Logf(p.env, logTag, "connect(%d, %s): pending", h, c.addr)
			return Pending, curated.Errorf(WouldBlock, "connect")
		}
	}

	e.pending = nil
	p.blocking(e.fd)

	if c.err != nil {
		p.fail(c.err)
		logger.Logf(p.env, logTag, "connect(%d, %s): %v", h, c.addr, c.err)
		return Failed, c.err
	}

	p.lastError = StatusSuccess
	logger.Logf(p.env, logTag, "connect(%d, %s): connected", h, c.addr)
	return Connected, nil
}

// restore blocking mode. errors are logged only
func (p *Proxy) blocking(fd int) {
	if err := p.host.SetNonblock(fd, false); err != nil {
		logger.Logf(p.env, logTag, "restore blocking mode: %v", err)
	}
}

// Poll advances every pending connect without waiting. It should be called
// once per bus transaction.
func (p *Proxy) Poll() {
	for i := 1; i < Slots; i++ {
		e := &p.table.entries[i]
		if !e.used || e.pending == nil || e.pending.done {
			continue
		}
		ready, err := p.host.Poll(e.fd, Writable, 0)
		switch {
		case err != nil:
			e.pending.done = true
			e.pending.err = err
		case ready:
			e.pending.done = true
			e.pending.err = p.host.SocketError(e.fd)
		}
	}
}

// Send data on a connected socket.
func (p *Proxy) Send(h Handle, data []byte) int32 {
	fd, err := p.table.Lookup(h)
	if err != nil {
		logger.Logf(p.env, logTag, "send(%d): %v", h, err)
		p.lastError = StatusBadDescriptor
		return -1
	}

	n, err := p.host.Send(fd, data)
	if err != nil {
		logger.Logf(p.env, logTag, "send(%d, %d): %v", h, len(data), err)
		p.fail(err)
		return -1
	}

	return int32(n)
}

// Recv data from a connected socket.
func (p *Proxy) Recv(h Handle, data []byte) int32 {
	fd, err := p.table.Lookup(h)
	if err != nil {
		logger.Logf(p.env, logTag, "recv(%d): %v", h, err)
		p.lastError = StatusBadDescriptor
		return -1
	}

	n, err := p.host.Recv(fd, data)
	if err != nil {
		logger.Logf(p.env, logTag, "recv(%d, %d): %v", h, len(data), err)
		p.fail(err)
		return -1
	}

	return int32(n)
}

// Select waits no longer than the timeout for the socket to become ready. The
// result is the number of ready descriptors, which is zero or one, or -1 on
// error.
func (p *Proxy) Select(h Handle, r Readiness, timeout time.Duration) (int32, error) {
	fd, err := p.table.Lookup(h)
	if err != nil {
		p.lastError = StatusBadDescriptor
		return -1, err
	}

	ready, err := p.host.Poll(fd, r, timeout)
	if err != nil {
		p.fail(err)
		return -1, err
	}
	if ready {
		return 1, nil
	}
	return 0, nil
}

var optionNames = map[[2]int]string{
	{LevelSocket, OptionReuseAddr}: "SO_REUSEADDR",
	{LevelSocket, OptionKeepAlive}: "SO_KEEPALIVE",
	{LevelSocket, OptionBroadcast}: "SO_BROADCAST",
	{LevelSocket, OptionSendBuf}:   "SO_SNDBUF",
	{LevelSocket, OptionRecvBuf}:   "SO_RCVBUF",
	{LevelTCP, OptionNoDelay}:      "TCP_NODELAY",
}

// SetSockOpt sets an integer socket option. Options that are not recognised
// are passed to the host as they are.
func (p *Proxy) SetSockOpt(h Handle, level uint32, name uint32, value int) int32 {
	fd, err := p.table.Lookup(h)
	if err != nil {
		logger.Logf(p.env, logTag, "setsockopt(%d): %v", h, err)
		p.lastError = StatusBadDescriptor
		return -1
	}

	n, ok := optionNames[[2]int{int(level), int(name)}]
	if !ok {
		n = fmt.Sprintf("%#04x/%#x", level, name)
		logger.Logf(p.env, logTag, "setsockopt(%d): unknown option %s", h, n)
	}

	err = p.host.SetSockOpt(fd, int(level), int(name), value)
	if err != nil {
		logger.Logf(p.env, logTag, "setsockopt(%d, %s, %d): %v", h, n, value, err)
		p.fail(err)
		return -1
	}

	logger.Logf(p.env, logTag, "setsockopt(%d, %s, %d)", h, n, value)
	return 0
}

// SetTimeouts changes the timeouts. The send and receive timeouts are applied
// to the socket if the handle is valid.
func (p *Proxy) SetTimeouts(h Handle, t Timeouts) int32 {
	p.timeouts = t

	fd, err := p.table.Lookup(h)
	if err != nil {
		return 0
	}

	err = p.host.SetTimeouts(fd, time.Duration(t.Send)*time.Millisecond, time.Duration(t.Recv)*time.Millisecond)
	if err != nil {
		logger.Logf(p.env, logTag, "settimeouts(%d): %v", h, err)
		p.fail(err)
		return -1
	}

	logger.Logf(p.env, logTag, "settimeouts(%d, %d, %d, %d)", h, t.Connect, t.Send, t.Recv)
	return 0
}

// Close the socket and free the handle.
func (p *Proxy) Close(h Handle) int32 {
	fd, err := p.table.Release(h)
	if err != nil {
		logger.Logf(p.env, logTag, "close(%d): %v", h, err)
		p.lastError = StatusBadDescriptor
		return -1
	}

	if h == p.camera {
		p.camera = 0
	}

	p.lastError = StatusSuccess

	err = p.host.Close(fd)
	if err != nil {
		logger.Logf(p.env, logTag, "close(%d): %v", h, err)
		return -1
	}

	logger.Logf(p.env, logTag, "close(%d)", h)
	return 0
}

// Shutdown closes every open socket.
func (p *Proxy) Shutdown() {
	for _, d := range p.table.Snapshot() {
		_ = p.Close(d.Handle)
	}
}
