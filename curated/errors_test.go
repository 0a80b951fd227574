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

package curated_test

import (
	"errors"
	"syscall"
	"testing"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/test"
)

const testPattern = "test pattern: %d"
const wrapPattern = "wrap: %v"

func TestIs(t *testing.T) {
	e := curated.Errorf(testPattern, 10)
	test.ExpectSuccess(t, curated.IsAny(e))
	test.ExpectSuccess(t, curated.Is(e, testPattern))
	test.ExpectFailure(t, curated.Is(e, wrapPattern))
	test.ExpectEquality(t, e.Error(), "test pattern: 10")

	test.ExpectFailure(t, curated.IsAny(nil))
	test.ExpectFailure(t, curated.IsAny(errors.New("plain")))
	test.ExpectFailure(t, curated.Is(errors.New("plain"), testPattern))
}

func TestHas(t *testing.T) {
	e := curated.Errorf(testPattern, 10)
	f := curated.Errorf(wrapPattern, e)
	test.ExpectFailure(t, curated.Is(f, testPattern))
	test.ExpectSuccess(t, curated.Has(f, testPattern))
	test.ExpectSuccess(t, curated.Has(f, wrapPattern))
	test.ExpectFailure(t, curated.Has(f, "other: %v"))
}

func TestDeduplication(t *testing.T) {
	e := curated.Errorf("storage: %v", curated.Errorf("storage: file is read only"))
	test.ExpectEquality(t, e.Error(), "storage: file is read only")
}

func TestUnwrap(t *testing.T) {
	e := curated.Errorf("sockets: host error: %v", syscall.ECONNREFUSED)
	test.ExpectSuccess(t, errors.Is(e, syscall.ECONNREFUSED))
	test.ExpectFailure(t, errors.Is(e, syscall.EBADF))

	var errno syscall.Errno
	test.ExpectSuccess(t, errors.As(e, &errno))
	test.ExpectEquality(t, errno, syscall.ECONNREFUSED)
}
