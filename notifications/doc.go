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

// Package notifications allow communication from the board controllers
// directly to the host application. The media board uses them to report
// conditions that the emulation cannot recover from, such as an unknown
// command, and the card readers use them to report the insertion and
// ejection of cards.
//
// Notifications are normally passed onto the user. For some notifications
// however, it is appropriate for the host to deal with the notification
// invisibly.
package notifications
