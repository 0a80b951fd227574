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

package interrupts

import (
	"fmt"
	"sync"
)

// AutoClear is the number of polls of IsSet() after which a raised line is
// cleared without being acknowledged.
const AutoClear = 12

// Updater is called whenever the state of the line changes. The host
// emulator uses it to update the interrupt controller of the guest processor.
// The Updater is called without the lock of the line held.
type Updater func(l *Line)

// Line is an interrupt line between the board devices and the interrupt
// controller of the guest processor. The status register of the line records
// the reason for the most recent interrupt.
//
// A Line is shared by the media board and the backup memory and is safe for
// use by both.
type Line struct {
	name string

	crit   sync.Mutex
	set    bool
	timer  int
	status uint8

	update Updater
}

// NewLine is the preferred method of initialisation for the Line type. The
// update argument can be nil.
func NewLine(name string, update Updater) *Line {
	return &Line{
		name:   name,
		update: update,
	}
}

func (l *Line) String() string {
	l.crit.Lock()
	defer l.crit.Unlock()
	if l.set {
		return fmt.Sprintf("%s: set (%02x) [%d]", l.name, l.status, l.timer)
	}
	return fmt.Sprintf("%s: clear (%02x)", l.name, l.status)
}

// Raise sets the line and the status register.
func (l *Line) Raise(status uint8) {
	l.crit.Lock()
	l.set = true
	l.timer = 0
	l.status = status
	l.crit.Unlock()
	l.notify()
}

// IsSet returns true if the line is set. A line that has been polled more
// than AutoClear times is cleared but the final poll still returns true.
func (l *Line) IsSet() bool {
	l.crit.Lock()
	if !l.set {
		l.crit.Unlock()
		return false
	}
	l.timer++
	cleared := l.timer > AutoClear
	if cleared {
		l.set = false
	}
	l.crit.Unlock()

	if cleared {
		l.notify()
	}
	return true
}

// Acknowledge clears the line. The status register is not changed.
func (l *Line) Acknowledge() {
	l.crit.Lock()
	was := l.set
	l.set = false
	l.crit.Unlock()

	if was {
		l.notify()
	}
}

// Status returns the value of the status register.
func (l *Line) Status() uint8 {
	l.crit.Lock()
	defer l.crit.Unlock()
	return l.status
}

// SetStatus changes the status register without raising the line.
func (l *Line) SetStatus(status uint8) {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.status = status
}

// ClearStatus clears the bits in the status register indicated by mask.
func (l *Line) ClearStatus(mask uint8) {
	l.crit.Lock()
	defer l.crit.Unlock()
	l.status &^= mask
}

func (l *Line) notify() {
	if l.update != nil {
		l.update(l)
	}
}

// State is a copy of the line for snapshots and inspection.
type State struct {
	Set    bool
	Timer  int
	Status uint8
}

// Snapshot returns a copy of the line state.
func (l *Line) Snapshot() State {
	l.crit.Lock()
	defer l.crit.Unlock()
	return State{Set: l.set, Timer: l.timer, Status: l.status}
}

// Plumb restores the line state from a snapshot.
func (l *Line) Plumb(s State) {
	l.crit.Lock()
	l.set = s.Set
	l.timer = s.Timer
	l.status = s.Status
	l.crit.Unlock()
	l.notify()
}
