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

// Package amserial emulates the baseboard as it is seen by the serial
// interface of the host machine. The host sends the baseboard a buffer of
// GCAM commands and the baseboard replies in the same buffer.
//
// The GCAM commands include the JVS commands, which are handled by an
// emulated JVS I/O board, and the commands for the two serial ports of the
// baseboard. Depending on the game, the serial ports are connected to a
// steering wheel, a force feedback motor, an IC card reader, a deck reader
// or a magnetic card reader.
//
// The reply to a buffer is returned by the following call to RunBuffer().
// The games rely on this delay.
package amserial
