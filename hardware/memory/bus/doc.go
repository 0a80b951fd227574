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

// Package bus is used to define access patterns for the different areas of
// the emulation to guest memory. The board devices move blocks of data with
// the DataBus, read and write single values with the WordBus and, in the case
// of the media board, patch guest code with the CodeBus.
//
// The DebugBus is for the exclusive use of tests and inspection tools. It is
// not used by the board devices.
package bus
