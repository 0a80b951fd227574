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

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/hardware/mediaboard/sockets"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/test"
)

func profileFor(id string) profile.Profile {
	return profile.Resolve(id)
}

func TestTable(t *testing.T) {
	var tab sockets.Table

	for i := 1; i < sockets.Slots; i++ {
		h, err := tab.Allocate(1000 + i)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, h, sockets.Handle(i))
	}
	test.ExpectEquality(t, tab.Used(), 63)

	h, err := tab.Allocate(2000)
	test.ExpectSuccess(t, curated.Is(err, sockets.TableFull))
	test.ExpectEquality(t, h, sockets.InvalidHandle)
	test.ExpectFailure(t, tab.Reserve())

	fd, err := tab.Release(30)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fd, 1030)

	_, err = tab.Lookup(30)
	test.ExpectSuccess(t, curated.Is(err, sockets.BadHandle))
	_, err = tab.Release(30)
	test.ExpectFailure(t, err)

	test.ExpectSuccess(t, tab.Reserve())
	h, err = tab.Allocate(2000)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, h, sockets.Handle(30))

	fd, err = tab.Lookup(30)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, fd, 2000)

	// slot zero is never valid
	_, err = tab.Lookup(0)
	test.ExpectFailure(t, err)
	_, err = tab.Lookup(-1)
	test.ExpectFailure(t, err)
	_, err = tab.Lookup(64)
	test.ExpectFailure(t, err)
}

func TestCheckHandle(t *testing.T) {
	test.ExpectEquality(t, sockets.CheckHandle(0x3f), sockets.Handle(63))
	test.ExpectEquality(t, sockets.CheckHandle(0x40), sockets.Handle(0))
	test.ExpectEquality(t, sockets.CheckHandle(0xffffffff), sockets.Handle(0))
	test.ExpectEquality(t, sockets.InvalidHandle.Guest(), uint32(0xffffffff))
}

func TestSnapshot(t *testing.T) {
	var tab sockets.Table
	_, _ = tab.Allocate(7)
	_, _ = tab.Allocate(8)
	_, _ = tab.Release(1)
	test.ExpectEquality(t, tab.String(), "2: fd 8\n")
}

func TestStatus(t *testing.T) {
	test.ExpectEquality(t, sockets.StatusSuccess, sockets.StatusWouldBlock)
	test.ExpectEquality(t, sockets.StatusError.Guest(), uint32(0xffffffff))
	test.ExpectEquality(t, sockets.StatusRefused.String(), "connection refused")
	test.ExpectEquality(t, sockets.Status(1234).String(), "status 1234")
}

func TestSockaddr(t *testing.T) {
	b := []byte{0x00, 0x02, 0x1f, 0x90, 192, 168, 29, 104, 0, 0, 0, 0, 0, 0, 0, 0}
	a, fam := sockets.DecodeSockaddr(b)
	test.ExpectEquality(t, fam, uint16(2))
	test.ExpectEquality(t, a.String(), "192.168.29.104:8080")
	test.ExpectEquality(t, a.Uint32(), uint32(0xc0a81d68))

	c := make([]byte, sockets.SockaddrSize)
	sockets.EncodeSockaddr(c, a)
	test.ExpectBytes(t, c, b)

	// short buffers are ignored
	a, fam = sockets.DecodeSockaddr(b[:4])
	test.ExpectEquality(t, a, sockets.Addr{})
	test.ExpectEquality(t, fam, uint16(0))
}
