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

// Package mediaboard emulates the command processor of the media board. The
// guest talks to the board through the disc interface with Inquiry, Read,
// Write and Execute commands. Most of the work is done by the ordered region
// tables in regions.go, which route a Read or a Write to the stores, the
// mailbox or the network arenas.
//
// The mailbox carries three command protocols. The legacy protocol is started
// by the Execute command, the network protocol by a read of the execute
// address and the trigger protocol by a write to the trigger address. Socket
// commands in the legacy and network protocols are delegated to the Proxy in
// the sockets sub-package.
package mediaboard
