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

// handler services a Read or a Write for a region. the cmd argument is the
// decrypted command, offset is the disc offset and address/length describe
// the guest DMA window
type handler func(cmd *[3]uint32, offset uint32, address uint32, length uint32) uint32

// region is an entry in one of the ordered region tables. the first region
// to match a request services it
type region struct {
	name   string
	match  func(offset uint32, length uint32) bool
	handle handler
}

// span matches offsets in the half-open range [base, bound)
func span(base, bound uint32) func(uint32, uint32) bool {
	return func(offset uint32, _ uint32) bool {
		return offset >= base && offset < bound
	}
}

// through matches offsets in the closed range [base, last]
func through(base, last uint32) func(uint32, uint32) bool {
	return func(offset uint32, _ uint32) bool {
		return offset >= base && offset <= last
	}
}

// exactly matches a single offset with a single length
func exactly(at, size uint32) func(uint32, uint32) bool {
	return func(offset uint32, length uint32) bool {
		return offset == at && length == size
	}
}

// beyond matches all offsets from base upwards
func beyond(base uint32) func(uint32, uint32) bool {
	return func(offset uint32, _ uint32) bool {
		return offset >= base
	}
}

// readRegions returns the region table for the Read command. the order of
// the table matters because some ranges overlap. for example, netbuf1 is
// inside the range of netcmd and a read of netbuf1 is served by netcmd
func (p *Processor) readRegions() []region {
	return []region{
		{name: "status", match: func(offset uint32, _ uint32) bool {
			return offset&offStatusMask == offStatus
		}, handle: p.readStatus},
		{name: "netcfg", match: exactly(offNetConfig, 0x80), handle: p.readStore(&p.stores.NetConfig, fixed(0))},
		{name: "extra", match: exactly(offExtra, 0x20), handle: p.readStore(&p.stores.Extra, fixed(0))},
		{name: "dimm1", match: through(offDIMM, 0x1f800000), handle: p.readStore(&p.stores.DIMM, relative(offDIMM))},
		{name: "mailbox1", match: span(offMailboxV1, 0x1f900040), handle: p.readMailbox(offMailboxV1)},
		{name: "netbuf4", match: span(offNetBuffer4, 0x891c0000), handle: p.readArena(p.netbuf, offNetBuffer4)},
		{name: "netbuf5", match: span(offNetBuffer5, 0x1fb10000), handle: p.readArena(p.netbuf, offNetBuffer5)},
		{name: "netcmd", match: span(offNetCommand, 0x1fd00000), handle: p.readArena(p.netcmd, offNetCommand)},
		{name: "netcmd2", match: span(offNetCommand2, 0x89060200), handle: p.readArena(p.netcmd, offNetCommand2)},
		{name: "netbuf1", match: span(offNetBuffer1, 0x1fa10000), handle: p.readArena(p.netbuf, offNetBuffer1)},
		{name: "netbuf2", match: span(offNetBuffer2, 0x1fd10000), handle: p.readArena(p.netbuf, offNetBuffer2)},
		{name: "netbuf3", match: span(offNetBuffer3, 0x89110000), handle: p.readArena(p.netbuf, offNetBuffer3)},
		{name: "mailbox2", match: span(offMailboxV2, 0x84000060), handle: p.readMailbox(offMailboxV2)},
		{name: "execute2", match: func(offset uint32, _ uint32) bool {
			return offset == offExecute2
		}, handle: p.executeNetwork},
		{name: "mailbox2_2", match: through(offMailboxV2_2, 0x89000200), handle: p.readMailbox(offMailboxV2_2)},
		{name: "dimm2", match: through(offDIMM2, 0xff800000), handle: p.readStore(&p.stores.DIMM, relative(offDIMM2))},
		{name: "netctrl", match: exactly(offNetControl, 0x20), handle: p.readStore(&p.stores.NetControl, fixed(0))},
		{name: "max", match: beyond(offMaxDisc), handle: p.unhandled(UnhandledRead)},
	}
}

// writeRegions returns the region table for the Write command. the firmware
// region only matches while the firmware is mapped
func (p *Processor) writeRegions() []region {
	return []region{
		{name: "magic1", match: exactly(offMagic1, 0x20), handle: p.armFirmware},
		{name: "magic2", match: exactly(offMagic2, 0x20), handle: p.armFirmware},
		{name: "firmware", match: func(offset uint32, _ uint32) bool {
			return p.firmwareMapped && offset >= offFirmware && offset <= offMagic1
		}, handle: p.writeFirmware},
		{name: "netcfg", match: exactly(offNetConfig, 0x80), handle: p.writeStore(&p.stores.NetConfig, fixed(0))},
		{name: "extra", match: exactly(offExtra, 0x20), handle: p.writeStore(&p.stores.Extra, fixed(0))},
		{name: "backup", match: through(offBackup, 0x800000), handle: p.writeStore(&p.stores.Backup, fixed(0))},
		{name: "dimm1", match: through(offDIMM, 0x1f800000), handle: p.writeStore(&p.stores.DIMM, relative(offDIMM))},
		{name: "netcmd", match: span(offNetCommand, 0x1f801240), handle: p.writeArena(p.netcmd, offNetCommand)},
		{name: "netcmd2", match: through(offNetCommand2, 0x890601ff), handle: p.writeArena(p.netcmd, offNetCommand2)},
		{name: "netbuf1", match: through(offNetBuffer1, 0x1fa1ffff), handle: p.writeArena(p.netbuf, offNetBuffer1)},
		{name: "netbuf2", match: through(offNetBuffer2, 0x1fd0ffff), handle: p.writeArena(p.netbuf, offNetBuffer2)},
		{name: "netbuf3", match: through(offNetBuffer3, 0x8910ffff), handle: p.writeArena(p.netbuf, offNetBuffer3)},
		{name: "mailbox1", match: through(offMailboxV1, 0x1f90003f), handle: p.writeMailbox(offMailboxV1)},
		{name: "mailbox2", match: through(offMailboxV2, 0x8400005f), handle: p.writeMailboxTrigger},
		{name: "mailbox2_2", match: through(offMailboxV2_2, 0x89000200), handle: p.writeMailbox(offMailboxV2_2)},
		{name: "firmwarelog", match: through(offFirmwareLog, 0x84818000), handle: p.writeLog},
		{name: "dimm2", match: through(offDIMM2, 0xff800000), handle: p.writeStore(&p.stores.DIMM, relative(offDIMM2))},
		{name: "netctrl", match: exactly(offNetControl, 0x20), handle: p.writeStore(&p.stores.NetControl, fixed(0))},
		{name: "max", match: beyond(offMaxDisc), handle: p.unhandled(UnhandledWrite)},
	}
}

// fixed seeks to the same store position for every offset in the region.
// writes to the backup region all land at the start of the store
func fixed(pos int64) func(uint32) int64 {
	return func(uint32) int64 {
		return pos
	}
}

// relative seeks to the offset from the base of the region
func relative(base uint32) func(uint32) int64 {
	return func(offset uint32) int64 {
		return int64(offset - base)
	}
}

// lookup returns the first region in the table that matches
func lookup(regions []region, offset uint32, length uint32) (region, bool) {
	for _, r := range regions {
		if r.match(offset, length) {
			return r, true
		}
	}
	return region{}, false
}
