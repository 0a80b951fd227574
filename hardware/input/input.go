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

package input

import (
	"fmt"
	"sync"

	"github.com/amboard/amboard/curated"
)

// NumPads is the number of pads the host can connect.
const NumPads = 4

// List of patterns for errors returned by the input package.
const (
	BadPad     = "input: no such pad: %d"
	QueueFull  = "input: pushed event queue is full: input dropped"
	BadEvent   = "input: unknown action: %v"
	Attachment = "input: %s"
)

// Action identifies the type of an Event.
type Action int

// List of valid Action values.
const (
	Press Action = iota
	Release
	SetAxis
	Connect
	Disconnect
	SetSteering
)

func (a Action) String() string {
	switch a {
	case Press:
		return "press"
	case Release:
		return "release"
	case SetAxis:
		return "axis"
	case Connect:
		return "connect"
	case Disconnect:
		return "disconnect"
	case SetSteering:
		return "steering"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Event is a change to the state of a pad.
type Event struct {
	Pad    int
	Action Action

	// the button for Press and Release actions
	Button Buttons

	// the axis and value for SetAxis actions. the value is also used as a
	// boolean for the SetSteering action
	Axis  Axis
	Value uint8
}

func (ev Event) String() string {
	switch ev.Action {
	case Press, Release:
		return fmt.Sprintf("pad %d: %s %s", ev.Pad, ev.Action, ev.Button)
	case SetAxis:
		return fmt.Sprintf("pad %d: %s %d=%02x", ev.Pad, ev.Action, ev.Axis, ev.Value)
	}
	return fmt.Sprintf("pad %d: %s", ev.Pad, ev.Action)
}

// Input is an implementation of the Pads interface. Events are
// applied with HandleInputEvent() or queued with PushEvent(), in which case
// they are applied the next time the state of a pad is requested.
//
// Rumble requests are delivered to the OnRumble field, if it is not nil.
type Input struct {
	crit sync.Mutex

	pads     [NumPads]PadStatus
	steering [NumPads]bool

	// the most recent rumble strength for each pad
	rumble [NumPads]float64

	playback EventPlayback
	recorder EventRecorder

	// events pushed onto the input queue
	pushed chan Event

	// called by Rumble() if not nil
	OnRumble func(pad int, strength float64)
}

// NewInput is the preferred method of initialisation for the Input type.
// Every pad is connected and at rest.
func NewInput() *Input {
	inp := &Input{
		pushed: make(chan Event, 64),
	}
	for i := range inp.pads {
		inp.pads[i] = NewPadStatus()
	}
	return inp
}

// HandleInputEvent applies the event to the state of the pads.
func (inp *Input) HandleInputEvent(ev Event) error {
	inp.crit.Lock()
	defer inp.crit.Unlock()
	return inp.handle(ev)
}

func (inp *Input) handle(ev Event) error {
	if ev.Pad < 0 || ev.Pad >= NumPads {
		return curated.Errorf(BadPad, ev.Pad)
	}

	if inp.recorder != nil {
		if err := inp.recorder.RecordEvent(ev); err != nil {
			return err
		}
	}

	p := &inp.pads[ev.Pad]

	switch ev.Action {
	case Press:
		p.Buttons |= ev.Button & buttonsAllBits
	case Release:
		p.Buttons &^= ev.Button
	case SetAxis:
		p.setAxis(ev.Axis, ev.Value)
	case Connect:
		*p = NewPadStatus()
	case Disconnect:
		*p = PadStatus{}
	case SetSteering:
		inp.steering[ev.Pad] = ev.Value != 0
	default:
		return curated.Errorf(BadEvent, ev.Action)
	}

	return nil
}

// Status implements the Pads interface.
func (inp *Input) Status(pad int) PadStatus {
	inp.crit.Lock()
	defer inp.crit.Unlock()

	// errors from pushed and playback events are not reported to the caller.
	// the event is dropped and the state of the pad is unchanged
	_ = inp.handlePushed()
	_ = inp.handlePlayback()

	if pad < 0 || pad >= NumPads {
		return PadStatus{}
	}
	return inp.pads[pad]
}

// IsSteering implements the Pads interface.
func (inp *Input) IsSteering(pad int) bool {
	inp.crit.Lock()
	defer inp.crit.Unlock()
	if pad < 0 || pad >= NumPads {
		return false
	}
	return inp.steering[pad]
}

// Rumble implements the Pads interface.
func (inp *Input) Rumble(pad int, strength float64) {
	inp.crit.Lock()
	if pad >= 0 && pad < NumPads {
		inp.rumble[pad] = strength
	}
	f := inp.OnRumble
	inp.crit.Unlock()

	if f != nil {
		f(pad, strength)
	}
}

// LastRumble returns the most recent rumble strength for the pad.
func (inp *Input) LastRumble(pad int) float64 {
	inp.crit.Lock()
	defer inp.crit.Unlock()
	if pad < 0 || pad >= NumPads {
		return 0
	}
	return inp.rumble[pad]
}
