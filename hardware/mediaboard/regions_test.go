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

package mediaboard

import (
	"testing"

	"github.com/amboard/amboard/environment"
	"github.com/amboard/amboard/hardware/memory"
	"github.com/amboard/amboard/hardware/preferences"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/test"
	"github.com/spf13/afero"
)

func names(regions []region) []string {
	n := make([]string, len(regions))
	for i, r := range regions {
		n[i] = r.name
	}
	return n
}

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	prefs, err := preferences.NewPreferencesFs(afero.NewMemMapFs(), "/prefs")
	test.DemandSuccess(t, err)
	env, err := environment.NewEnvironment(environment.MainEmulation, prefs)
	test.DemandSuccess(t, err)
	return NewProcessor(env, profile.Resolve("SBGG"), memory.NewRAM(env, 0), nil, Stores{}, nil)
}

func TestRegionOrder(t *testing.T) {
	p := newTestProcessor(t)

	reads := []string{
		"status", "netcfg", "extra", "dimm1", "mailbox1", "netbuf4", "netbuf5",
		"netcmd", "netcmd2", "netbuf1", "netbuf2", "netbuf3", "mailbox2",
		"execute2", "mailbox2_2", "dimm2", "netctrl", "max",
	}
	test.ExpectEquality(t, len(p.reads), len(reads))
	for i, n := range names(p.reads) {
		test.ExpectEquality(t, n, reads[i])
	}

	writes := []string{
		"magic1", "magic2", "firmware", "netcfg", "extra", "backup", "dimm1",
		"netcmd", "netcmd2", "netbuf1", "netbuf2", "netbuf3", "mailbox1",
		"mailbox2", "mailbox2_2", "firmwarelog", "dimm2", "netctrl", "max",
	}
	test.ExpectEquality(t, len(p.writes), len(writes))
	for i, n := range names(p.writes) {
		test.ExpectEquality(t, n, writes[i])
	}
}

func TestRegionLookup(t *testing.T) {
	p := newTestProcessor(t)

	lookupName := func(regions []region, offset uint32, length uint32) string {
		r, ok := lookup(regions, offset, length)
		if !ok {
			return ""
		}
		return r.name
	}

	test.ExpectEquality(t, lookupName(p.reads, 0x1fa00000, 4), "netcmd")
	test.ExpectEquality(t, lookupName(p.reads, 0x1fb00000, 4), "netbuf5")
	test.ExpectEquality(t, lookupName(p.reads, 0x1fd00000, 4), "netbuf2")
	test.ExpectEquality(t, lookupName(p.reads, 0x1f800000, 4), "dimm1")
	test.ExpectEquality(t, lookupName(p.reads, 0x1f900040, 4), "netcmd")
	test.ExpectEquality(t, lookupName(p.reads, 0x88000000, 0x20), "execute2")
	test.ExpectEquality(t, lookupName(p.reads, 0x89000200, 4), "mailbox2_2")
	test.ExpectEquality(t, lookupName(p.reads, 0x90000000, 4), "status")
	test.ExpectEquality(t, lookupName(p.reads, 0x00000000, 0x20), "")
	test.ExpectEquality(t, lookupName(p.reads, 0x57058000, 4), "max")

	// the firmware region only matches while the firmware is mapped
	test.ExpectEquality(t, lookupName(p.writes, 0x00400000, 4), "backup")
	p.FirmwareMap(true)
	test.ExpectEquality(t, lookupName(p.writes, 0x00400000, 4), "firmware")
	test.ExpectEquality(t, lookupName(p.writes, 0x00600000, 0x20), "magic1")
	test.ExpectEquality(t, lookupName(p.writes, 0x00600000, 4), "firmware")

	test.ExpectEquality(t, lookupName(p.writes, 0x1f801240, 4), "")
	test.ExpectEquality(t, lookupName(p.writes, 0x1fa1ffff, 1), "netbuf1")
	test.ExpectEquality(t, lookupName(p.writes, 0x84000040, 0x20), "mailbox2")
	test.ExpectEquality(t, lookupName(p.writes, 0x84818000, 4), "firmwarelog")
}

func TestMailbox(t *testing.T) {
	var mb Mailbox

	mb.SetU32(0x10, 0x11223344)
	test.ExpectEquality(t, mb.U8(0x10), uint8(0x44))
	test.ExpectEquality(t, mb.U16(0x12), uint16(0x1122))
	test.ExpectEquality(t, mb.Word(4), uint32(0x11223344))

	// accesses beyond the end of the mailbox
	mb.SetU32(MailboxSize-2, 0xffffffff)
	test.ExpectEquality(t, mb.U32(MailboxSize-2), uint32(0))
	test.ExpectEquality(t, mb.U16(MailboxSize-2), uint16(0))
	mb.SetU8(-1, 1)
	test.ExpectEquality(t, mb.U8(-1), uint8(0))

	b, ok := mb.Slice(0x2f0, 0x20)
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, len(b), 0x10)
	_, ok = mb.Slice(MailboxSize, 1)
	test.ExpectFailure(t, ok)

	mb.Clear(0x10, 2)
	test.ExpectEquality(t, mb.Word(4), uint32(0x11220000))
}

func TestArena(t *testing.T) {
	a := newArena("test", 0x100)

	b, err := a.Slice(0xf0, 0x10)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(b), 0x10)

	_, err = a.Slice(0xf0, 0x11)
	test.ExpectFailure(t, err)

	_, err = a.Window(0x1000, 0x1001, 1)
	test.ExpectFailure(t, err)

	b, err = a.Window(0x1010, 0x1000, 4)
	test.DemandSuccess(t, err)
	copy(b, "abc\x00")
	test.ExpectEquality(t, a.CString(0x10), "abc")
	test.ExpectEquality(t, a.CString(0x1000), "")
}
