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

package jvsbridge

import (
	"github.com/amboard/amboard/curated"
	"github.com/pkg/term"
)

// DefaultBaud is the speed of the JVS bus.
const DefaultBaud = 115200

// OpenPort opens the serial device in raw mode at the baud rate.
func OpenPort(device string, baud int) (*term.Term, error) {
	if baud == 0 {
		baud = DefaultBaud
	}
	t, err := term.Open(device, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, curated.Errorf(PortError, err)
	}
	return t, nil
}
