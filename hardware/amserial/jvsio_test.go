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

package amserial_test

import (
	"testing"

	"github.com/amboard/amboard/hardware/input"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/test"
)

func TestBoardID(t *testing.T) {
	for _, id := range []string{"SBGG", "SBKP", "SBLJ"} {
		b := newBoard(t, id, nil)
		p := profile.Resolve(id)

		f := b.jvs(0x10)
		expected := append([]byte{0x01, 0x01}, []byte(p.BoardID)...)
		expected = append(expected, 0x00)
		test.ExpectBytes(t, f.Payload, expected, id)
	}
}

func TestRevisions(t *testing.T) {
	b := newBoard(t, "SBEJ", nil)
	f := b.jvs(0x11, 0x12, 0x13)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x11, 0x01, 0x20, 0x01, 0x10})
}

func TestCapabilities(t *testing.T) {
	b := newBoard(t, "SBKP", nil)
	f := b.jvs(0x14)
	expected := append([]byte{0x01, 0x01}, profile.Resolve("SBKP").Capabilities...)
	test.ExpectBytes(t, f.Payload, expected)
}

func TestMainID(t *testing.T) {
	b := newBoard(t, "SBEJ", nil)
	f := b.jvs(0x15, 'A', 'B', 0x00, 0x11)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x01, 0x11})
}

func TestCoins(t *testing.T) {
	b := newBoard(t, "SBKP", nil)

	f := b.jvs(0x21, 0x02)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x00, 0x00, 0x00, 0x00})

	// a coin is counted when the button is first pressed
	b.press(0, input.TriggerZ)
	f = b.jvs(0x21, 0x02)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x00, 0x01, 0x00, 0x00})
	f = b.jvs(0x21, 0x02)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x00, 0x01, 0x00, 0x00})

	b.release(0, input.TriggerZ)
	b.jvs(0x21, 0x02)
	b.press(0, input.TriggerZ)
	b.press(1, input.TriggerZ)
	f = b.jvs(0x21, 0x02)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x00, 0x02, 0x00, 0x01})

	// add and subtract
	b.jvs(0x35, 0x00, 0x00, 0x05)
	b.jvs(0x30, 0x01, 0x00, 0x01)
	test.ExpectEquality(t, b.c.Snapshot().Coins, [2]uint16{7, 0})

	// slots that do not exist are ignored
	f = b.jvs(0x35, 0x02, 0x00, 0x05)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01})
	test.ExpectEquality(t, b.c.Snapshot().Coins, [2]uint16{7, 0})
}

func TestResetAndAddress(t *testing.T) {
	b := newBoard(t, "SBEJ", nil)
	test.ExpectEquality(t, b.c.Snapshot().Dip1, uint8(0xfe))

	f := b.jvs(0xf0, 0xd9)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01})
	test.ExpectEquality(t, b.c.Snapshot().Dip1, uint8(0xff))

	f = b.jvs(0xf1, 0x01)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01})
	test.ExpectEquality(t, b.c.Snapshot().Dip1, uint8(0xfe))

	f = b.jvs(0xf1, 0x02)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x00})
}

func TestSwitches(t *testing.T) {
	b := newBoard(t, "SBKP", nil)

	f := b.jvs(0x20, 0x02, 0x02)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00})

	// every player reads the first pad
	b.press(0, input.ButtonStart)
	b.press(0, input.ButtonA)
	f = b.jvs(0x20, 0x02, 0x02)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x00, 0x80, 0x20, 0x80, 0x20})

	// test button
	b.press(0, input.TriggerZ)
	f = b.jvs(0x20, 0x01, 0x03)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x80, 0x80, 0x20, 0x00})
}

func TestSwitchesOwnPad(t *testing.T) {
	b := newBoard(t, "SBEJ", nil)
	b.press(1, input.ButtonA)
	f := b.jvs(0x20, 0x02, 0x02)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x00, 0x00, 0x00, 0x02, 0x00})
}

func TestFZeroSwitches(t *testing.T) {
	b := newBoard(t, "SBGG", nil)

	// seatbelt is fastened and the motion reply is the initial value
	f := b.jvs(0x20, 0x02, 0x02)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x00, 0x01, 0xf0, 0x00, 0x00})

	b.press(0, input.ButtonY)
	b.press(0, input.ButtonA)
	f = b.jvs(0x20, 0x02, 0x02)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x00, 0x03, 0xf0, 0x20, 0x00})
}

func TestAnalog(t *testing.T) {
	b := newBoard(t, "SBKP", nil)
	test.DemandSuccess(t, b.pads.HandleInputEvent(input.Event{Pad: 0, Action: input.SetAxis, Axis: input.StickX, Value: 0x20}))
	f := b.jvs(0x22, 0x03)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00})
}

func TestPosition(t *testing.T) {
	b := newBoard(t, "SBFX", nil)
	f := b.jvs(0x25, 0x01)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0xff, 0xff, 0xff, 0xff})

	b.press(0, input.TriggerR)
	f = b.jvs(0x25, 0x01)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x00, 0x8c, 0x01, 0x95})
}

func TestMotion(t *testing.T) {
	b := newBoard(t, "SBGG", nil)

	// ten motion commands change the motion reply
	for range 10 {
		f := b.jvs(0x32, 0x03, 0x00, 0x01, 0xc0)
		test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01})
	}
	test.ExpectEquality(t, b.c.Snapshot().Delay, 10)
	test.ExpectEquality(t, b.c.Snapshot().RxReply, uint8(0xfb))

	b.jvs(0x32, 0x03, 0x00, 0x03, 0xc0)
	test.ExpectEquality(t, b.c.Snapshot().RxReply, uint8(0xf0))

	// reset clears the count
	b.jvs(0xf0, 0xd9)
	test.ExpectEquality(t, b.c.Snapshot().Delay, 0)
}

func TestLamps(t *testing.T) {
	b := newBoard(t, "SBKP", nil)

	// the lamp byte is followed by the command revision in the same frame
	f := b.jvs(0x32, 0x02, 0x04, 0x11)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0x01, 0x11})
	test.ExpectEquality(t, b.c.Snapshot().Delay, 0)
}

func TestNAMCO(t *testing.T) {
	b := newBoard(t, "SBKP", nil)
	f := b.jvs(0x70, 0x18, 0x00, 0x00, 0x00, 0x00)
	test.ExpectBytes(t, f.Payload, []byte{0x01, 0x01, 0xff})
}

func TestBadFrame(t *testing.T) {
	b := newBoard(t, "SBEJ", nil)

	// checksum should be 0x14. the command revision is still returned
	rep := b.exchange(0x40, 0x05, 0xe0, 0x01, 0x02, 0x11, 0x15)
	test.DemandEquality(t, rep[0], uint8(0x40))
	test.ExpectBytes(t, rep[2:2+int(rep[1])], []byte{0xe0, 0x00, 0x04, 0x01, 0x01, 0x11, 0x17})

	// no sync byte. only the status is returned
	rep = b.exchange(0x40, 0x04, 0x01, 0x02, 0x11, 0x14)
	test.DemandEquality(t, rep[0], uint8(0x40))
	test.ExpectBytes(t, rep[2:2+int(rep[1])], []byte{0xe0, 0x00, 0x02, 0x01, 0x03})
}

func TestKeyOfAvalonCard(t *testing.T) {
	b := newBoard(t, "SBFX", nil)
	test.ExpectEquality(t, b.c.Snapshot().IC.Status, uint16(0))

	b.press(0, input.TriggerL)
	b.jvs(0x20, 0x02, 0x02)
	test.ExpectEquality(t, b.c.Snapshot().IC.Status, uint16(0x8000))
	b.jvs(0x20, 0x02, 0x02)
	test.ExpectEquality(t, b.c.Snapshot().IC.Status, uint16(0))
}
