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

package input

import "github.com/amboard/amboard/curated"

// EventPlayback implementations provide events to replay. GetPlayback()
// returns false when there are no more events for the current request.
type EventPlayback interface {
	GetPlayback() (Event, bool, error)
}

// EventRecorder implementations receive every event applied to the pads.
type EventRecorder interface {
	RecordEvent(Event) error
}

// AttachRecorder adds a recorder to the input. A recorder cannot be attached
// while a playback is attached.
func (inp *Input) AttachRecorder(r EventRecorder) error {
	inp.crit.Lock()
	defer inp.crit.Unlock()
	if inp.playback != nil {
		return curated.Errorf(Attachment, "emulator already has a playback attached")
	}
	inp.recorder = r
	return nil
}

// AttachPlayback adds a playback to the input. A playback cannot be attached
// while a recorder is attached.
func (inp *Input) AttachPlayback(pb EventPlayback) error {
	inp.crit.Lock()
	defer inp.crit.Unlock()
	if inp.recorder != nil {
		return curated.Errorf(Attachment, "emulator already has a recorder attached")
	}
	inp.playback = pb
	return nil
}

// handlePlayback must be called with the critical section held.
func (inp *Input) handlePlayback() error {
	if inp.playback == nil {
		return nil
	}

	for {
		ev, ok, err := inp.playback.GetPlayback()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := inp.handle(ev); err != nil {
			return err
		}
	}
}
