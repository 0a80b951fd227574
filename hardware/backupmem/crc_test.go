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

package backupmem

import (
	"testing"

	"github.com/amboard/amboard/test"
)

func TestCRC(t *testing.T) {
	test.ExpectEquality(t, crc(0x01, 0x00, 0x10), 0x18)
	test.ExpectEquality(t, crc(0x02, 0xab, 0x00), 0xb8)
	test.ExpectEquality(t, crc(0x03, 0x00, 0x00), 0xce)
	test.ExpectEquality(t, crc(0xff, 0x00, 0x00), 0xc4)
	test.ExpectEquality(t, crc(0x82, 0x00, 0x00), 0x0f)
	test.ExpectEquality(t, crc(0x00, 0x00, 0x00), 0x00)
}

func TestChecksum(t *testing.T) {
	test.ExpectEquality(t, checksum(nil), 0)
	test.ExpectEquality(t, checksum([]byte{0xff, 0xff, 0x02}), 0x200)
}
