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

package sockets_test

import (
	"testing"
	"time"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/environment"
	"github.com/amboard/amboard/hardware/mediaboard/sockets"
	"github.com/amboard/amboard/hardware/preferences"
	"github.com/amboard/amboard/test"
	"github.com/spf13/afero"
)

// fakeHost is a Host that never touches the network. Poll() honours the
// timeout by sleeping for it when the descriptor is not ready
type fakeHost struct {
	next int
	open map[int]bool

	nonblock map[int]bool
	ready    map[int]bool

	// connect behaviour
	connectPending bool
	connectErr     error
	socketErr      error
	connects       []sockets.Addr

	bound   []sockets.Addr
	options [][3]int
	send    []time.Duration
	recv    []time.Duration

	polls int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		next:     100,
		open:     make(map[int]bool),
		nonblock: make(map[int]bool),
		ready:    make(map[int]bool),
	}
}

func (f *fakeHost) Socket(typ int) (int, error) {
	f.next++
	f.open[f.next] = true
	return f.next, nil
}

func (f *fakeHost) Bind(fd int, addr sockets.Addr) error {
	f.bound = append(f.bound, addr)
	return nil
}

func (f *fakeHost) Listen(fd int, backlog int) error {
	return nil
}

func (f *fakeHost) Accept(fd int) (int, sockets.Addr, error) {
	f.next++
	f.open[f.next] = true
	return f.next, sockets.Addr{IP: [4]byte{10, 0, 0, 2}, Port: 5000}, nil
}

func (f *fakeHost) Connect(fd int, addr sockets.Addr) (bool, error) {
	f.connects = append(f.connects, addr)
	return f.connectPending, f.connectErr
}

func (f *fakeHost) SocketError(fd int) error {
	return f.socketErr
}

func (f *fakeHost) SetNonblock(fd int, nonblocking bool) error {
	f.nonblock[fd] = nonblocking
	return nil
}

func (f *fakeHost) Poll(fd int, r sockets.Readiness, timeout time.Duration) (bool, error) {
	f.polls++
	if f.ready[fd] {
		return true, nil
	}
	time.Sleep(timeout)
	return false, nil
}

func (f *fakeHost) Send(fd int, p []byte) (int, error) {
	return len(p), nil
}

func (f *fakeHost) Recv(fd int, p []byte) (int, error) {
	return copy(p, "hello"), nil
}

func (f *fakeHost) SetSockOpt(fd int, level int, name int, value int) error {
	f.options = append(f.options, [3]int{level, name, value})
	return nil
}

func (f *fakeHost) SetTimeouts(fd int, send time.Duration, recv time.Duration) error {
	f.send = append(f.send, send)
	f.recv = append(f.recv, recv)
	return nil
}

func (f *fakeHost) Close(fd int) error {
	delete(f.open, fd)
	return nil
}

func newProxy(t *testing.T, id string) (*sockets.Proxy, *fakeHost) {
	t.Helper()
	prefs, err := preferences.NewPreferencesFs(afero.NewMemMapFs(), "/prefs")
	test.DemandSuccess(t, err)
	env, err := environment.NewEnvironment(environment.MainEmulation, prefs)
	test.DemandSuccess(t, err)
	host := newFakeHost()
	return sockets.NewProxy(env, host, profileFor(id)), host
}

func TestSocketExhaustion(t *testing.T) {
	p, host := newProxy(t, "SBNJ")

	seen := make(map[sockets.Handle]bool)
	for i := 0; i < 63; i++ {
		h := p.Socket(sockets.TypeStream)
		test.ExpectSuccess(t, h >= 1 && h <= 63, h)
		test.ExpectFailure(t, seen[h], h)
		seen[h] = true
	}

	h := p.Socket(sockets.TypeStream)
	test.ExpectEquality(t, h, sockets.InvalidHandle)
	test.ExpectEquality(t, p.LastError(), sockets.StatusTooManyFiles.Guest())
	test.ExpectEquality(t, len(host.open), 63)

	test.ExpectEquality(t, p.Close(17), int32(0))
	test.ExpectEquality(t, p.LastError(), sockets.StatusSuccess.Guest())
	test.ExpectEquality(t, p.Socket(sockets.TypeStream), sockets.Handle(17))

	p.Shutdown()
	test.ExpectEquality(t, len(host.open), 0)
	test.ExpectEquality(t, len(p.Snapshot()), 0)
}

func TestConnectTimeout(t *testing.T) {
	p, host := newProxy(t, "SBNJ")
	host.connectPending = true

	h := p.Socket(sockets.TypeStream)
	test.DemandEquality(t, h, sockets.Handle(1))
	test.ExpectEquality(t, p.ConnectTimeout(), 20*time.Millisecond)

	addr := sockets.Addr{IP: [4]byte{10, 1, 1, 1}, Port: 80}

	start := time.Now()
	o, err := p.Connect(h, addr, p.ConnectTimeout())
	elapsed := time.Since(start)

	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, sockets.WouldBlock))
	test.ExpectEquality(t, o, sockets.Pending)
	test.ExpectEquality(t, o.Guest(), uint32(0xffffffff))
	test.ExpectEquality(t, p.LastError(), uint32(70))
	test.ExpectSuccess(t, elapsed >= 20*time.Millisecond, elapsed)
	test.ExpectSuccess(t, elapsed < 20*time.Millisecond+250*time.Millisecond, elapsed)

	// the pending connect stays on the descriptor
	d := p.Snapshot()
	test.DemandEquality(t, len(d), 1)
	test.ExpectSuccess(t, d[0].Pending)
	test.ExpectSuccess(t, host.nonblock[d[0].FD])

	// connection completes. the host connect is not restarted
	host.ready[d[0].FD] = true
	o, err = p.Connect(h, addr, p.ConnectTimeout())
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, o, sockets.Connected)
	test.ExpectEquality(t, o.Guest(), uint32(0))
	test.ExpectEquality(t, len(host.connects), 1)
	test.ExpectFailure(t, host.nonblock[d[0].FD])
	test.ExpectFailure(t, p.Snapshot()[0].Pending)
}

func TestConnectPoll(t *testing.T) {
	p, host := newProxy(t, "SBNJ")
	host.connectPending = true

	h := p.Socket(sockets.TypeStream)
	o, _ := p.Connect(h, sockets.Addr{Port: 80}, 0)
	test.ExpectEquality(t, o, sockets.Pending)

	fd := p.Snapshot()[0].FD
	p.Poll()
	test.ExpectSuccess(t, p.Snapshot()[0].Pending)
	test.ExpectSuccess(t, host.nonblock[fd])

	host.ready[fd] = true
	p.Poll()
	polls := host.polls

	// the connect completed during Poll() so Connect() doesn't poll again
	o, err := p.Connect(h, sockets.Addr{Port: 80}, time.Second)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, o, sockets.Connected)
	test.ExpectEquality(t, host.polls, polls)
	test.ExpectFailure(t, host.nonblock[fd])
}

func TestConnectImmediate(t *testing.T) {
	p, host := newProxy(t, "SBNJ")

	h := p.Socket(sockets.TypeStream)
	o, err := p.Connect(h, sockets.Addr{Port: 80}, time.Second)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, o, sockets.Connected)
	test.ExpectEquality(t, host.polls, 0)
	test.ExpectEquality(t, p.LastError(), sockets.StatusSuccess.Guest())
}

func TestConnectFailure(t *testing.T) {
	p, host := newProxy(t, "SBNJ")
	host.connectPending = true
	host.socketErr = curated.Errorf(sockets.HostError, "connect", sockets.StatusRefused)

	h := p.Socket(sockets.TypeStream)
	host.ready[101] = true
	o, err := p.Connect(h, sockets.Addr{Port: 80}, time.Second)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, o, sockets.Failed)
	test.ExpectEquality(t, p.LastError(), sockets.StatusRefused.Guest())

	// immediate failure
	host.connectPending = false
	host.connectErr = curated.Errorf(sockets.HostError, "connect", "no route")
	o, _ = p.Connect(h, sockets.Addr{Port: 80}, time.Second)
	test.ExpectEquality(t, o, sockets.Failed)
	test.ExpectEquality(t, p.LastError(), uint32(0xffffffff))

	// bad handle
	o, _ = p.Connect(40, sockets.Addr{Port: 80}, time.Second)
	test.ExpectEquality(t, o, sockets.Failed)
}

func TestRewrite(t *testing.T) {
	p, host := newProxy(t, "SBNJ")

	h := p.Socket(sockets.TypeStream)
	_, _ = p.Connect(h, sockets.Addr{IP: [4]byte{192, 168, 11, 111}, Port: 1}, 0)
	test.ExpectEquality(t, host.connects[0].IP, [4]byte{127, 0, 0, 1})
	test.ExpectEquality(t, host.connects[0].Port, uint16(1))
	test.ExpectEquality(t, p.Camera(), sockets.Handle(0))

	cam := p.Socket(sockets.TypeStream)
	_, _ = p.Connect(cam, sockets.Addr{IP: [4]byte{192, 168, 29, 105}, Port: 2}, 0)
	test.ExpectEquality(t, host.connects[1].IP, [4]byte{127, 0, 0, 1})
	test.ExpectEquality(t, p.Camera(), cam)

	_, _ = p.Connect(h, sockets.Addr{IP: [4]byte{192, 168, 13, 1}, Port: 3}, 0)
	test.ExpectEquality(t, host.connects[2].IP, [4]byte{10, 0, 0, 45})

	_, _ = p.Connect(h, sockets.Addr{IP: [4]byte{192, 168, 1, 1}, Port: 4}, 0)
	test.ExpectEquality(t, host.connects[3].IP, [4]byte{192, 168, 1, 1})

	test.ExpectEquality(t, p.Close(cam), int32(0))
	test.ExpectEquality(t, p.Camera(), sockets.Handle(0))
}

func TestAccept(t *testing.T) {
	p, host := newProxy(t, "SBNJ")

	h := p.Socket(sockets.TypeStream)
	test.ExpectEquality(t, p.Bind(h, sockets.Addr{IP: [4]byte{192, 168, 11, 1}, Port: 7000}), int32(0))
	test.ExpectEquality(t, host.bound[0], sockets.Addr{Port: 7000})
	test.ExpectEquality(t, p.Listen(h, 5), int32(0))

	start := time.Now()
	nh, _, err := p.Accept(h)
	elapsed := time.Since(start)
	test.ExpectSuccess(t, curated.Is(err, sockets.WouldBlock))
	test.ExpectEquality(t, nh, sockets.InvalidHandle)
	test.ExpectEquality(t, p.LastError(), sockets.StatusWouldBlock.Guest())
	test.ExpectSuccess(t, elapsed >= 10*time.Millisecond, elapsed)
	test.ExpectSuccess(t, elapsed < 250*time.Millisecond, elapsed)

	host.ready[101] = true
	nh, addr, err := p.Accept(h)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, nh, sockets.Handle(2))
	test.ExpectEquality(t, addr.String(), "10.0.0.2:5000")
	test.ExpectEquality(t, p.LastError(), sockets.StatusSuccess.Guest())

	_, _, err = p.Accept(9)
	test.ExpectSuccess(t, curated.Is(err, sockets.BadHandle))
	test.ExpectEquality(t, p.LastError(), sockets.StatusBadDescriptor.Guest())
}

func TestSendRecv(t *testing.T) {
	p, _ := newProxy(t, "SBNJ")

	h := p.Socket(sockets.TypeStream)
	test.ExpectEquality(t, p.Send(h, []byte("abc")), int32(3))

	b := make([]byte, 16)
	test.ExpectEquality(t, p.Recv(h, b), int32(5))
	test.ExpectEquality(t, string(b[:5]), "hello")

	test.ExpectEquality(t, p.Send(33, []byte("abc")), int32(-1))
	test.ExpectEquality(t, p.Recv(0, b), int32(-1))
	test.ExpectEquality(t, p.LastError(), sockets.StatusBadDescriptor.Guest())
}

func TestSelect(t *testing.T) {
	p, host := newProxy(t, "SBNJ")

	h := p.Socket(sockets.TypeStream)
	n, err := p.Select(h, sockets.Readable, time.Millisecond)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, int32(0))

	host.ready[101] = true
	n, err = p.Select(h, sockets.Readable, time.Millisecond)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, int32(1))

	n, _ = p.Select(5, sockets.Readable, time.Millisecond)
	test.ExpectEquality(t, n, int32(-1))
}

func TestOptions(t *testing.T) {
	p, host := newProxy(t, "SBNJ")

	h := p.Socket(sockets.TypeStream)
	test.ExpectEquality(t, p.SetSockOpt(h, sockets.LevelTCP, sockets.OptionNoDelay, 1), int32(0))
	test.ExpectEquality(t, p.SetSockOpt(h, sockets.LevelSocket, 0x7777, 3), int32(0))
	test.ExpectEquality(t, host.options[0], [3]int{6, 1, 1})
	test.ExpectEquality(t, host.options[1], [3]int{0xffff, 0x7777, 3})

	tm := sockets.Timeouts{Connect: 5000, Send: 100, Recv: 200}
	test.ExpectEquality(t, p.SetTimeouts(h, tm), int32(0))
	test.ExpectEquality(t, p.Timeouts(), tm)
	test.ExpectEquality(t, p.ConnectTimeout(), 5*time.Millisecond)
	test.ExpectEquality(t, host.send[0], 100*time.Millisecond)
	test.ExpectEquality(t, host.recv[0], 200*time.Millisecond)

	// timeouts change even if the handle is invalid
	tm.Connect = 1
	test.ExpectEquality(t, p.SetTimeouts(0, tm), int32(0))
	test.ExpectEquality(t, p.Timeouts().Connect, uint32(1))
	test.ExpectEquality(t, len(host.send), 1)
}

func TestConnectTimeoutPreference(t *testing.T) {
	prefs, err := preferences.NewPreferencesFs(afero.NewMemMapFs(), "/prefs")
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, prefs.ConnectTimeout.Set(5000))
	test.DemandSuccess(t, prefs.Network.Companion.Set("10.9.8.7"))
	env, err := environment.NewEnvironment(environment.MainEmulation, prefs)
	test.DemandSuccess(t, err)

	host := newFakeHost()
	p := sockets.NewProxy(env, host, profileFor("SBGG"))
	test.ExpectEquality(t, p.ConnectTimeout(), 5*time.Millisecond)

	h := p.Socket(sockets.TypeStream)
	_, _ = p.Connect(h, sockets.Addr{IP: [4]byte{192, 168, 11, 111}}, 0)
	test.ExpectEquality(t, host.connects[0].IP, [4]byte{10, 9, 8, 7})
}
