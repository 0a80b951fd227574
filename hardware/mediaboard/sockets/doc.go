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

// Package sockets virtualises the BSD socket interface of the media board.
//
// Guest software uses socket descriptors as indexes into tables of its own
// and so expects them to be small integers. The Table maps these guest
// handles, which are always in the range 1 to 63, to the descriptors of the
// Host.
//
// The Proxy implements the socket commands of the media board on top of the
// Table. Blocking operations are bounded: Connect runs as a pending operation
// that is polled until complete and Accept waits no longer than the accept
// timeout before reporting that it would block.
//
// Failures are never returned to the guest as errors. They are recorded as a
// Status that the guest retrieves with the GetLastError command.
//
// UnixHost is the Host implementation for unix-like systems. It is a thin
// layer over golang.org/x/sys/unix.
package sockets
