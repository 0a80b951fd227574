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

import "fmt"

// Keys are the command encryption keys set by the disc interface.
type Keys struct {
	A, B, C uint32
}

func (k Keys) String() string {
	return fmt.Sprintf("%08x %08x %08x", k.A, k.B, k.C)
}

// SetKeys changes the command encryption keys.
func (p *Processor) SetKeys(a, b, c uint32) {
	p.keys = Keys{A: a, B: b, C: c}
}

// words zeroed by the unlock patch
var unlockWords = [...]uint32{
	0x8131ecf4, 0x8131ecf8, 0x8131ecfc,
	0x8131ebe0,
	0x8131ed6c, 0x8131ed70, 0x8131ed74,
}

// functions returned from immediately by the unlock patch
var unlockReturns = [...]uint32{0x813025c8, 0x81302674}

// functions replaced by the host's OSReport. the second is in the apploader
var unlockReports = [...]uint32{0x813048b8, 0x8130095c}

// unlock neutralises the key check of an unkeyed guest
func (p *Processor) unlock() {
	for _, a := range unlockWords {
		p.mem.WriteUint32(a, 0)
	}
	for _, a := range unlockReturns {
		p.mem.WriteUint32(a, instrBLR)
		p.mem.Invalidate(a)
	}
	for _, a := range unlockReports {
		p.mem.Patch(a, "OSReport")
	}
}

// decrypt the command words in place and evolve the keys
func (p *Processor) decrypt(cmd *[3]uint32) {
	if p.keys.A == 0 && p.mem.ReadUint32(addrKeyCheck) != 0 {
		p.unlock()
	}

	cmd[0] ^= p.keys.A
	cmd[1] ^= p.keys.B

	seed := cmd[0] >> 16
	p.keys.A *= seed
	p.keys.B *= seed
	p.keys.C *= seed

	cmd[0] <<= 24
	cmd[1] <<= 2

	if cmd[1] == offSegaBootRead {
		p.segaBoot = true
	}
}
