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

package mediaboard

// Patterns for errors raised by the Processor. Errors with the Unhandled
// patterns are sent to the environment as alerts.
const (
	UnhandledRead    = "mediaboard: unhandled read: %#08x"
	UnhandledWrite   = "mediaboard: unhandled write: %#08x"
	UnhandledCommand = "mediaboard: unhandled command: %#03x"
	UnhandledExecute = "mediaboard: unhandled execute: %#03x"
	OutOfBounds      = "mediaboard: %s: offset %#x length %#x is out of bounds"
)
