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
	"fmt"
	"strings"

	"github.com/amboard/amboard/curated"
)

// Slots is the number of entries in the descriptor table. Slot zero is never
// allocated.
const Slots = 64

// Handle is a guest visible socket descriptor.
type Handle int32

// InvalidHandle is returned when a handle could not be allocated.
const InvalidHandle Handle = -1

// CheckHandle converts a word from the guest mailbox to a Handle. Values
// outside of the table refer to slot zero, which is never valid.
func CheckHandle(v uint32) Handle {
	if v < Slots {
		return Handle(v)
	}
	return 0
}

// Guest returns the handle as it is written to the mailbox.
func (h Handle) Guest() uint32 {
	return uint32(h)
}

// Patterns for errors returned by the Table.
const (
	TableFull = "sockets: descriptor table is full"
	BadHandle = "sockets: bad handle (%d)"
)

type entry struct {
	used bool
	fd   int

	// non-nil if a connect has been started but not yet completed
	pending *connect
}

// Table maps guest handles to host descriptors.
type Table struct {
	entries [Slots]entry
}

// Allocate takes the first free slot for the host descriptor.
func (t *Table) Allocate(fd int) (Handle, error) {
	for i := 1; i < Slots; i++ {
		if !t.entries[i].used {
			t.entries[i] = entry{used: true, fd: fd}
			return Handle(i), nil
		}
	}
	return InvalidHandle, curated.Errorf(TableFull)
}

// Reserve checks that a slot is available without allocating it.
func (t *Table) Reserve() error {
	for i := 1; i < Slots; i++ {
		if !t.entries[i].used {
			return nil
		}
	}
	return curated.Errorf(TableFull)
}

func (t *Table) entry(h Handle) (*entry, error) {
	if h <= 0 || h >= Slots || !t.entries[h].used {
		return nil, curated.Errorf(BadHandle, h)
	}
	return &t.entries[h], nil
}

// Lookup returns the host descriptor for the handle.
func (t *Table) Lookup(h Handle) (int, error) {
	e, err := t.entry(h)
	if err != nil {
		return -1, err
	}
	return e.fd, nil
}

// Release clears the slot and returns the host descriptor that was in it.
func (t *Table) Release(h Handle) (int, error) {
	e, err := t.entry(h)
	if err != nil {
		return -1, err
	}
	fd := e.fd
	*e = entry{}
	return fd, nil
}

// Used returns the number of allocated slots.
func (t *Table) Used() int {
	var n int
	for i := 1; i < Slots; i++ {
		if t.entries[i].used {
			n++
		}
	}
	return n
}

// Descriptor is a copy of a single allocated slot.
type Descriptor struct {
	Handle  Handle
	FD      int
	Pending bool
}

func (d Descriptor) String() string {
	if d.Pending {
		return fmt.Sprintf("%d: fd %d (connecting)", d.Handle, d.FD)
	}
	return fmt.Sprintf("%d: fd %d", d.Handle, d.FD)
}

// Snapshot returns every allocated slot in handle order.
func (t *Table) Snapshot() []Descriptor {
	var d []Descriptor
	for i := 1; i < Slots; i++ {
		e := t.entries[i]
		if e.used {
			d = append(d, Descriptor{Handle: Handle(i), FD: e.fd, Pending: e.pending != nil})
		}
	}
	return d
}

func (t *Table) String() string {
	s := strings.Builder{}
	for _, d := range t.Snapshot() {
		s.WriteString(d.String())
		s.WriteString("\n")
	}
	return s.String()
}
