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


// Package version reports the build of the amboard command.
package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is used when referring to the application.
const ApplicationName = "AMBoard"

// set by the linker for numbered releases
var number string

// Info is the version information of the running binary.
type Info struct {
	// the release number. "unreleased" when the binary was built from a vcs
	// checkout and "local" when there is no information at all
	Number string

	// vcs revision, suffixed with "+dirty" when the working tree had changes
	Revision string

	// true if Number came from the linker
	Release bool
}

func (inf Info) String() string {
	if inf.Release {
		return inf.Number
	}
	return fmt.Sprintf("%s (%s)", inf.Number, inf.Revision)
}

// Version returns the version information.
func Version() Info {
	info, _ := debug.ReadBuildInfo()
	return fromBuild(info, number)
}

func fromBuild(info *debug.BuildInfo, number string) Info {
	var vcs, modified bool
	var rev string

	if info != nil {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs":
				vcs = true
			case "vcs.revision":
				rev = s.Value
			case "vcs.modified":
				modified = s.Value == "true"
			}
		}
	}

	inf := Info{Number: number, Revision: rev, Release: number != ""}

	if rev == "" {
		inf.Revision = "no revision information"
	} else if modified {
		inf.Revision = rev + "+dirty"
	}

	if number == "" {
		if vcs {
			inf.Number = "unreleased"
		} else {
			inf.Number = "local"
		}
	}

	return inf
}
