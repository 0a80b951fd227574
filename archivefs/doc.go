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

// Package archivefs gives access to files on an afero filesystem where any
// component of the path may be an archive. Zip, 7z and rar archives are
// recognised by their contents rather than by their file extension.
//
// The media board firmware is loaded with Load(). The boot image can be given
// directly, or as an archive containing it:
//
//	data, err := archivefs.Load(afero.NewOsFs(), "roms/segaboot.7z", "segaboot.gcm", 0x200000)
//
// The Path type is used to navigate a filesystem, including the insides of
// archives, with List() and Set().
package archivefs
