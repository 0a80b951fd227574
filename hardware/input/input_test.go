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

package input_test

import (
	"testing"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/hardware/input"
	"github.com/amboard/amboard/test"
)

func TestButtons(t *testing.T) {
	inp := input.NewInput()
	test.DemandImplements[input.Pads](t, inp)

	test.ExpectSuccess(t, inp.HandleInputEvent(input.Event{Pad: 0, Action: input.Press, Button: input.ButtonStart}))
	test.ExpectSuccess(t, inp.HandleInputEvent(input.Event{Pad: 0, Action: input.Press, Button: input.TriggerZ}))
	ps := inp.Status(0)
	test.ExpectSuccess(t, ps.Pressed(input.ButtonStart|input.TriggerZ))
	test.ExpectFailure(t, ps.Pressed(input.ButtonA))
	test.ExpectEquality(t, ps.Buttons.String(), "start+z")

	test.ExpectSuccess(t, inp.HandleInputEvent(input.Event{Pad: 0, Action: input.Release, Button: input.ButtonStart}))
	test.ExpectEquality(t, inp.Status(0).Buttons, input.TriggerZ)

	// other pads are unaffected
	test.ExpectEquality(t, inp.Status(1).Buttons, input.ButtonsNone)
}

func TestAxes(t *testing.T) {
	inp := input.NewInput()
	ps := inp.Status(0)
	test.ExpectEquality(t, ps.StickX, uint8(input.Centre))
	test.ExpectSuccess(t, ps.Connected)

	test.ExpectSuccess(t, inp.HandleInputEvent(input.Event{Pad: 1, Action: input.SetAxis, Axis: input.StickX, Value: 0x10}))
	test.ExpectSuccess(t, inp.HandleInputEvent(input.Event{Pad: 1, Action: input.SetAxis, Axis: input.AnalogR, Value: 0xff}))
	ps = inp.Status(1)
	test.ExpectEquality(t, ps.StickX, uint8(0x10))
	test.ExpectEquality(t, ps.TriggerRight, uint8(0xff))
}

func TestConnection(t *testing.T) {
	inp := input.NewInput()
	test.ExpectSuccess(t, inp.HandleInputEvent(input.Event{Pad: 1, Action: input.Disconnect}))
	test.ExpectFailure(t, inp.Status(1).Connected)
	test.ExpectEquality(t, inp.Status(1).String(), "disconnected")
	test.ExpectSuccess(t, inp.HandleInputEvent(input.Event{Pad: 1, Action: input.Connect}))
	test.ExpectSuccess(t, inp.Status(1).Connected)

	test.ExpectFailure(t, inp.IsSteering(1))
	test.ExpectSuccess(t, inp.HandleInputEvent(input.Event{Pad: 1, Action: input.SetSteering, Value: 1}))
	test.ExpectSuccess(t, inp.IsSteering(1))

	// out of range pads
	test.ExpectFailure(t, inp.Status(input.NumPads).Connected)
	err := inp.HandleInputEvent(input.Event{Pad: input.NumPads, Action: input.Press})
	test.ExpectSuccess(t, curated.Is(err, input.BadPad))
}

func TestPushed(t *testing.T) {
	inp := input.NewInput()
	test.ExpectSuccess(t, inp.PushEvent(input.Event{Pad: 2, Action: input.Press, Button: input.ButtonA}))
	test.ExpectSuccess(t, inp.Status(2).Pressed(input.ButtonA))

	var err error
	for i := 0; i < 100 && err == nil; i++ {
		err = inp.PushEvent(input.Event{Pad: 0, Action: input.Press, Button: input.ButtonB})
	}
	test.ExpectSuccess(t, curated.Is(err, input.QueueFull))
}

func TestRumble(t *testing.T) {
	inp := input.NewInput()
	var got float64
	inp.OnRumble = func(pad int, strength float64) {
		got = strength
	}
	inp.Rumble(1, 0.5)
	test.ExpectApproximate(t, got, 0.5, 0.001)
	test.ExpectApproximate(t, inp.LastRumble(1), 0.5, 0.001)
}

type recorder struct {
	events []input.Event
}

func (r *recorder) RecordEvent(ev input.Event) error {
	r.events = append(r.events, ev)
	return nil
}

type playback struct {
	events []input.Event
}

func (pb *playback) GetPlayback() (input.Event, bool, error) {
	if len(pb.events) == 0 {
		return input.Event{}, false, nil
	}
	ev := pb.events[0]
	pb.events = pb.events[1:]
	return ev, true, nil
}

func TestRecording(t *testing.T) {
	inp := input.NewInput()
	rec := &recorder{}
	test.ExpectSuccess(t, inp.AttachRecorder(rec))
	test.ExpectFailure(t, inp.AttachPlayback(&playback{}))

	test.ExpectSuccess(t, inp.HandleInputEvent(input.Event{Pad: 0, Action: input.Press, Button: input.ButtonX}))
	test.ExpectEquality(t, len(rec.events), 1)
	test.ExpectEquality(t, rec.events[0].String(), "pad 0: press x")

	// playback onto a new input
	inp = input.NewInput()
	test.ExpectSuccess(t, inp.AttachPlayback(&playback{events: rec.events}))
	test.ExpectSuccess(t, inp.Status(0).Pressed(input.ButtonX))
}

func TestParseButton(t *testing.T) {
	b, err := input.ParseButton("START")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, b, input.ButtonStart)
	_, err = input.ParseButton("select")
	test.ExpectFailure(t, err)
}
