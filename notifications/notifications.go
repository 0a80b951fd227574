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

package notifications

// Notice describes events that the guest software cannot see but which the
// user of the emulation might want to know about.
type Notice string

// List of defined notifications.
const (
	// a condition the board emulation has no response for. the guest is given
	// a neutral reply and emulation continues
	NotifyAlert Notice = "NotifyAlert"

	// the backup memory file was in use and a temporary file has been opened
	// in its place
	NotifyBackupFallback Notice = "NotifyBackupFallback"

	// magnetic card inserted or ejected by the guest
	NotifyCardInserted Notice = "NotifyCardInserted"
	NotifyCardEjected  Notice = "NotifyCardEjected"

	// the media board firmware has been mapped into the DIMM address space
	NotifyFirmwareMapped Notice = "NotifyFirmwareMapped"
)

// Notify is used for direct communication between the hardware and the host
// application. The detail argument may be nil.
type Notify interface {
	Notify(notice Notice, detail error) error
}

// NotifyFunc allows an ordinary function to be used as a Notify implementation.
type NotifyFunc func(notice Notice, detail error) error

// Notify implements the Notify interface.
func (f NotifyFunc) Notify(notice Notice, detail error) error {
	return f(notice, detail)
}
