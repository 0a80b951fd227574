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


package version

import (
	"runtime/debug"
	"testing"

	"github.com/amboard/amboard/test"
)

func TestFromBuild(t *testing.T) {
	inf := fromBuild(nil, "")
	test.ExpectEquality(t, inf.Number, "local")
	test.ExpectEquality(t, inf.Revision, "no revision information")
	test.ExpectFailure(t, inf.Release)

	info := &debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs", Value: "git"},
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.modified", Value: "true"},
	}}
	inf = fromBuild(info, "")
	test.ExpectEquality(t, inf.String(), "unreleased (abc123+dirty)")

	inf = fromBuild(info, "v1.0.0")
	test.ExpectSuccess(t, inf.Release)
	test.ExpectEquality(t, inf.String(), "v1.0.0")
}
