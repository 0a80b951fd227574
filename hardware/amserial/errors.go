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

package amserial

// List of patterns for errors and log entries of the amserial package.
const (
	UnknownCommand = "amserial: unknown command: %#02x"
	UnknownDirect  = "amserial: unknown direct command: %#08x"
	UnknownGCAM    = "amserial: unknown GCAM command: %#02x"
	UnhandledJVS   = "amserial: unhandled JVS command: node %d: %#02x"
	BadFrame       = "amserial: JVS frame: %v"
	ReplyOverrun   = "amserial: reply overrun: %v"
	CardError      = "amserial: card: %v"
)

// log tags
const (
	logTag     = "amserial"
	logTagJVS  = "amserial [jvs]"
	logTagCard = "amserial [card]"
	logTagIC   = "amserial [iccard]"
)
