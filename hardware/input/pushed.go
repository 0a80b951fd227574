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

// PushEvent queues the event. The event is applied the next time the state
// of a pad is requested. Safe to call from any goroutine.
func (inp *Input) PushEvent(ev Event) error {
	select {
	case inp.pushed <- ev:
	default:
		return curated.Errorf(QueueFull)
	}
	return nil
}

// handlePushed must be called with the critical section held.
func (inp *Input) handlePushed() error {
	for {
		select {
		case ev := <-inp.pushed:
			if err := inp.handle(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
