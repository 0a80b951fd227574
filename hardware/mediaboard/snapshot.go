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

import "github.com/amboard/amboard/hardware/mediaboard/sockets"

// State is a copy of the state of the Processor.
type State struct {
	Keys           Keys
	FirmwareMapped bool
	SegaBoot       bool
	Status         uint32
	Progress       uint32
	Mailbox        Mailbox

	Descriptors []sockets.Descriptor
	LastError   uint32
}

// Snapshot returns a copy of the state of the Processor.
func (p *Processor) Snapshot() State {
	s := State{
		Keys:           p.keys,
		FirmwareMapped: p.firmwareMapped,
		SegaBoot:       p.segaBoot,
		Status:         p.status,
		Progress:       p.progress,
		Mailbox:        p.mailbox,
	}
	if p.net != nil {
		s.Descriptors = p.net.Snapshot()
		s.LastError = p.net.LastError()
	}
	return s
}
