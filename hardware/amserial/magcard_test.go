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

	"github.com/amboard/amboard/hardware/amserial"
	"github.com/amboard/amboard/notifications"
	"github.com/amboard/amboard/test"
)

var (
	cardAck  = []byte{0x32, 0x01, 0x06}
	cardPoll = []byte{0x32, 0x01, 0x05}
)

func serialB(data ...byte) []byte {
	return append([]byte{0x32, uint8(len(data))}, data...)
}

func TestCardStatus(t *testing.T) {
	b := newBoard(t, "SBKP", nil)

	test.ExpectBytes(t, b.exchange(serialB()...), []byte{0x32, 0x00})

	// init
	test.ExpectBytes(t, b.exchange(serialB(0x02, 0x05, 0x10, 0x00, 0x00, 0x03, 0x00)...), cardAck)
	test.ExpectBytes(t, b.exchange(cardPoll...), []byte{
		0x32, 0x09, 0x02, 0x07, 0x10, 0x00, 0x30, 0x30, 0x00, 0x03, 0x14,
	})
}

func TestCardWriteRead(t *testing.T) {
	b := newBoard(t, "SBKP", nil)

	test.ExpectFailure(t, b.files.Exists(amserial.MagCardName("SBKP")))

	write := serialB(0x02, 0x0d, 0x53, 0, 0, 0, 0, 0, 0, 0xaa, 0xbb, 0xcc, 0xdd, 0x03, 0x00)
	test.ExpectBytes(t, b.exchange(write...), cardAck)

	data, err := b.files.ReadFile(amserial.MagCardName("SBKP"))
	test.DemandSuccess(t, err)
	test.ExpectBytes(t, data, []byte{0xaa, 0xbb, 0xcc, 0xdd})
	test.ExpectEquality(t, b.c.Snapshot().Card.Bit, uint8(2))

	// get state reports the written card
	test.ExpectBytes(t, b.exchange(serialB(0x02, 0x05, 0x20, 0x00, 0x00, 0x03, 0x00)...), cardAck)
	test.ExpectBytes(t, b.exchange(cardPoll...), []byte{
		0x32, 0x09, 0x02, 0x07, 0x20, 0x22, 0x00, 0x30, 0x00, 0x03, 0x36,
	})

	// read command split over two requests
	test.ExpectBytes(t, b.exchange(serialB(0x02, 0x07, 0x33, 0x30)...), cardAck)
	test.ExpectEquality(t, b.c.Snapshot().Card.ReadLength, 0)
	test.ExpectBytes(t, b.exchange(serialB(0x30, 0x30, 0x30, 0x03, 0x00)...), cardAck)
	test.ExpectEquality(t, b.c.Snapshot().Card.ReadLength, 12)

	test.ExpectBytes(t, b.exchange(cardPoll...), []byte{
		0x32, 0x0c, 0x02, 0x0a, 0x33, 0x31, 0x30, 0x30, 0xaa, 0xbb, 0xcc, 0xdd, 0x03, 0x0b,
	})
	test.ExpectEquality(t, b.c.Snapshot().Card.ReadLength, 0)
	test.ExpectSuccess(t, b.c.Snapshot().Card.Inserted)
	test.ExpectBytes(t, b.c.MagCard().Memory(), []byte{0xaa, 0xbb, 0xcc, 0xdd})
}

func TestCardInsertedFromFile(t *testing.T) {
	b := newBoard(t, "SBGG", nil)
	test.DemandSuccess(t, b.files.WriteFile(amserial.MagCardName("SBGG"), []byte{1, 2, 3}))

	b.exchange(serialB(0x02, 0x05, 0x20, 0x00, 0x00, 0x03, 0x00)...)
	s := b.c.Snapshot().Card
	test.ExpectSuccess(t, s.Inserted)
	test.ExpectEquality(t, s.Size, 3)

	b.exchange(serialB(0x02, 0x05, 0x20, 0x00, 0x00, 0x03, 0x00)...)
	test.ExpectEquality(t, b.noticed(notifications.NotifyCardInserted), 1)
}

func TestCardEject(t *testing.T) {
	b := newBoard(t, "SBKP", nil)

	b.exchange(serialB(0x02, 0x0d, 0x53, 0, 0, 0, 0, 0, 0, 0xaa, 0xbb, 0xcc, 0xdd, 0x03, 0x00)...)
	test.ExpectEquality(t, b.c.Snapshot().Card.Bit, uint8(2))

	b.exchange(serialB(0x02, 0x05, 0x80, 0x00, 0x00, 0x03, 0x00)...)
	test.ExpectEquality(t, b.c.Snapshot().Card.Bit, uint8(0))
	test.ExpectEquality(t, b.noticed(notifications.NotifyCardEjected), 1)
	test.ExpectBytes(t, b.exchange(cardPoll...), []byte{
		0x32, 0x09, 0x02, 0x07, 0x80, 0x31, 0x30, 0x30, 0x00, 0x03, 0xb5,
	})

	// shutter
	b.exchange(serialB(0x02, 0x07, 0xd0, 0x00, 0x00, 0x00, 0x30, 0x03, 0x00)...)
	test.ExpectFailure(t, b.c.Snapshot().Card.Shutter)
}

func TestCardChunkedRead(t *testing.T) {
	b := newBoard(t, "SBGG", nil)

	card := make([]byte, amserial.MagCardSize)
	for i := range card {
		card[i] = uint8(i)
	}
	test.DemandSuccess(t, b.files.WriteFile(amserial.MagCardName("SBGG"), card))

	b.exchange(serialB(0x02, 0x07, 0x33, 0x30, 0x30, 0x30, 0x30, 0x03, 0x00)...)
	total := b.c.Snapshot().Card.ReadLength
	test.ExpectEquality(t, total, amserial.MagCardSize+8)

	// the F-Zero reader sends the card data in small pieces
	var read []byte
	for b.c.Snapshot().Card.ReadLength > 0 {
		rep := b.exchange(cardPoll...)
		test.DemandEquality(t, rep[0], uint8(0x32))
		test.DemandEquality(t, int(rep[1]) <= 0x2f, true)
		read = append(read, rep[2:]...)
	}
	test.ExpectEquality(t, len(read), total)
	test.ExpectBytes(t, read[6:6+amserial.MagCardSize], card)
}
