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

// Package backupmem emulates the backup memory controller of the baseboard.
// The controller is a serial device on the expansion bus. Each transfer
// starts with a chip select followed by a four byte command, the last byte of
// which is a checksum of the first three. The bytes that follow the command
// depend on the command.
//
// The backup memory itself is a Store, which is normally a file beneath the
// base directory of the machine.
package backupmem
