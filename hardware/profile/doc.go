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

// Package profile resolves a Triforce game ID to the set of behaviours the
// board hardware must exhibit for that game. The mapping is a table embedded
// in the binary as YAML.
//
// Resolve() is a pure function:
//
//	p := profile.Resolve("SBGG")
//	fmt.Println(p.Title) // FZeroAX
//	if p.Quirks.Has(profile.QuirkMotor) {
//		...
//	}
package profile
