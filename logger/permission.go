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

package logger

// Permission is satisfied by anything that can decide whether a log request
// is accepted. The environment of each machine is a Permission and refuses
// entries from machines that are not the main emulation.
type Permission interface {
	AllowLogging() bool
}

// Allow is the Permission that accepts every log request.
var Allow Permission = always(true)

type always bool

func (a always) AllowLogging() bool {
	return bool(a)
}
