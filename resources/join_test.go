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

package resources_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/amboard/amboard/resources"
	"github.com/amboard/amboard/test"
	"github.com/spf13/afero"
)

func TestJoinPath(t *testing.T) {
	fs := afero.NewMemMapFs()

	pth, err := resources.JoinPathBase(fs, "/base", "cards", "tricard_SBGG.bin")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join("/base", "cards", "tricard_SBGG.bin"))

	ok, err := afero.DirExists(fs, filepath.Join("/base", "cards"))
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, ok)

	// the file itself is not created
	ok, err = afero.Exists(fs, pth)
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, ok)

	// base is not prepended twice
	pth, err = resources.JoinPathBase(fs, "/base", pth)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, pth, filepath.Join("/base", "cards", "tricard_SBGG.bin"))

	// no base
	pth, err = resources.JoinPathBase(fs, "", "trinetcfg.bin")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, pth, "trinetcfg.bin")
}

func TestUniqueFilename(t *testing.T) {
	fn := resources.UniqueFilename("state", "SBGG")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "state_SBGG_"))
	fn = resources.UniqueFilename("state", "  ")
	test.ExpectSuccess(t, strings.HasPrefix(fn, "state_2"))
}
