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

// Package storage provides the byte stores used by the board devices. All
// stores are files on an afero filesystem beneath a single base directory.
// Tests use afero.NewMemMapFs() so that nothing is written to disk.
//
// The Store type gives random access to a file in the manner the board
// devices expect: a seek followed by a read or a write, with an explicit
// flush. The Dir type is used to open stores and to read and write small
// files, such as card images, in a single operation.
package storage
