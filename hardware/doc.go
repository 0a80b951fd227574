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


// Package hardware is the base package for the Triforce peripheral board
// emulation. Its sub-packages contain the three boards and the collaborators
// they need.
//
// The triforce package ties the boards of one game together. The mediaboard,
// backupmem and amserial packages are the boards themselves and may be used on
// their own. The CPU, the interrupt controller and host storage are reached
// through the memory, interrupts and storage packages.
package hardware
