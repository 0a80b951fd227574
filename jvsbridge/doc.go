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

// Package jvsbridge connects the emulated JVS I/O board of the baseboard to
// a real JVS bus. Frames read from the serial line are passed to the
// baseboard as GCAM JVS commands and the replies are written back to the
// line.
//
// The serial line is opened with github.com/pkg/term by OpenPort(). Any
// io.ReadWriter can be used in place of a serial line.
package jvsbridge
