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

// Package input coordinates the pads of the host with the JVS controller.
//
// The JVS controller only ever sees the Pads interface. The Input type is the
// implementation used by the command line tool and by tests. Events can be
// applied immediately with HandleInputEvent() or pushed from another
// goroutine with PushEvent().
//
// Events can be recorded with an EventRecorder and replayed with an
// EventPlayback. The two cannot be attached at the same time.
package input
