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

// Package triforce assembles the peripheral boards of a Triforce machine for
// one game. The Machine opens every store the boards need beneath the base
// directory and serialises calls from the host emulator so that the boards
// can be driven from more than one goroutine.
//
// Stores are named after the game ID:
//
//	trinetcfg.bin        media board network configuration
//	trinetctrl.bin       media board network control
//	triextra.bin         media board extra region
//	tridimm_<ID>.bin     media board DIMM memory
//	backup_<ID>.bin      media board backup region
//	tribackup_<ID>.bin   backup memory on the EXI bus
//	tricard_<ID>.bin     magnetic card
//	triiccard_<ID>.bin   IC card
package triforce
