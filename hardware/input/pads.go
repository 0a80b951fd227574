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
	"strings"
)

// Buttons is a bitmask of the buttons on a pad. The bit layout is that of
// the controllers connected to the serial interface of the host machine.
type Buttons uint16

// List of valid Buttons bits.
const (
	ButtonLeft     Buttons = 0x0001
	ButtonRight    Buttons = 0x0002
	ButtonDown     Buttons = 0x0004
	ButtonUp       Buttons = 0x0008
	TriggerZ       Buttons = 0x0010
	TriggerR       Buttons = 0x0020
	TriggerL       Buttons = 0x0040
	ButtonA        Buttons = 0x0100
	ButtonB        Buttons = 0x0200
	ButtonX        Buttons = 0x0400
	ButtonY        Buttons = 0x0800
	ButtonStart    Buttons = 0x1000
	ButtonsNone    Buttons = 0x0000
	buttonsAllBits Buttons = 0x1f7f
)

var buttonNames = []struct {
	b Buttons
	s string
}{
	{ButtonStart, "start"},
	{ButtonA, "a"},
	{ButtonB, "b"},
	{ButtonX, "x"},
	{ButtonY, "y"},
	{TriggerL, "l"},
	{TriggerR, "r"},
	{TriggerZ, "z"},
	{ButtonUp, "up"},
	{ButtonDown, "down"},
	{ButtonLeft, "left"},
	{ButtonRight, "right"},
}

func (b Buttons) String() string {
	var s []string
	for _, n := range buttonNames {
		if b&n.b == n.b {
			s = append(s, n.s)
		}
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, "+")
}

// ParseButton returns the button with the name used by Buttons.String().
func ParseButton(s string) (Buttons, error) {
	for _, n := range buttonNames {
		if strings.EqualFold(s, n.s) {
			return n.b, nil
		}
	}
	return ButtonsNone, fmt.Errorf("input: unknown button %q", s)
}

// Axis identifies an analog axis of a pad.
type Axis int

// List of valid Axis values.
const (
	StickX Axis = iota
	StickY
	SubStickX
	SubStickY
	AnalogL
	AnalogR
	numAxes
)

// Centre is the resting value of the sticks.
const Centre = 0x80

// PadStatus is the state of a single pad.
type PadStatus struct {
	Buttons Buttons

	StickX    uint8
	StickY    uint8
	SubStickX uint8
	SubStickY uint8

	TriggerLeft  uint8
	TriggerRight uint8

	Connected bool
}

// NewPadStatus returns a connected pad with the sticks centred and no
// buttons pressed.
func NewPadStatus() PadStatus {
	return PadStatus{
		StickX:    Centre,
		StickY:    Centre,
		SubStickX: Centre,
		SubStickY: Centre,
		Connected: true,
	}
}

func (ps PadStatus) String() string {
	if !ps.Connected {
		return "disconnected"
	}
	return fmt.Sprintf("%s stick=%02x,%02x c=%02x,%02x l=%02x r=%02x", ps.Buttons,
		ps.StickX, ps.StickY, ps.SubStickX, ps.SubStickY, ps.TriggerLeft, ps.TriggerRight)
}

// Pressed returns true if all the buttons in b are pressed.
func (ps PadStatus) Pressed(b Buttons) bool {
	return ps.Buttons&b == b
}

func (ps *PadStatus) setAxis(a Axis, v uint8) {
	switch a {
	case StickX:
		ps.StickX = v
	case StickY:
		ps.StickY = v
	case SubStickX:
		ps.SubStickX = v
	case SubStickY:
		ps.SubStickY = v
	case AnalogL:
		ps.TriggerLeft = v
	case AnalogR:
		ps.TriggerRight = v
	}
}

// Pads is the interface to the pads of the host as seen by the JVS
// controller. Pads are numbered from zero.
type Pads interface {
	// the state of the pad. a pad that does not exist is reported as
	// disconnected
	Status(pad int) PadStatus

	// whether the pad is a steering wheel
	IsSteering(pad int) bool

	// force feedback. strength is in the range -1.0 to 1.0
	Rumble(pad int, strength float64)
}
