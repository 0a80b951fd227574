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

// Package jvs implements the framing used by JVS I/O boards. A frame starts
// with the sync byte, which is followed by the node address, the length and
// the payload. The last byte of a frame is the checksum, which is the sum of
// the node, the length and the payload bytes.
//
// The sync byte and the escape byte cannot appear in the body of a frame. A
// body byte with either value is sent as the escape byte followed by the value
// minus one.
//
// The Message type encodes frames and Decode() decodes them.
package jvs
