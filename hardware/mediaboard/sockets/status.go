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

package sockets

import "fmt"

// Status is the last-error code reported to the guest. The values are those
// used by the media board firmware and are similar to, but not the same as,
// the WinSock error codes.
type Status int32

// List of valid Status values.
const (
	StatusBadArgument    Status = -4
	StatusUnsupported    Status = -3
	StatusSendFailed     Status = -2
	StatusError          Status = -1
	StatusInterrupted    Status = 4
	StatusBadDescriptor  Status = 9
	StatusSendBlocked    Status = 11
	StatusAccess         Status = 13
	StatusFault          Status = 14
	StatusFileTableFull  Status = 23
	StatusTooManyFiles   Status = 24
	StatusMessageSize    Status = 36
	StatusNoSupport      Status = 47
	StatusAddrInUse      Status = 48
	StatusAddrNotAvail   Status = 49
	StatusNotSocket      Status = 50
	StatusNetUnreachable Status = 51
	StatusNoBuffers      Status = 55
	StatusConnected      Status = 56
	StatusNotConnected   Status = 57
	StatusTimedOut       Status = 60
	StatusRefused        Status = 61
	StatusHostUnreach    Status = 65
	StatusHostDown       Status = 67
	StatusInProgress     Status = 69
	StatusWouldBlock     Status = 70

	// success and would-block share a value in the firmware
	StatusSuccess Status = 70
)

var statusNames = map[Status]string{
	StatusBadArgument:    "bad argument",
	StatusUnsupported:    "unsupported command",
	StatusSendFailed:     "send failed",
	StatusError:          "error",
	StatusInterrupted:    "interrupted",
	StatusBadDescriptor:  "bad descriptor",
	StatusSendBlocked:    "send blocked",
	StatusAccess:         "access denied",
	StatusFault:          "bad address",
	StatusFileTableFull:  "file table full",
	StatusTooManyFiles:   "too many open files",
	StatusMessageSize:    "message too long",
	StatusNoSupport:      "address family not supported",
	StatusAddrInUse:      "address in use",
	StatusAddrNotAvail:   "address not available",
	StatusNotSocket:      "not a socket",
	StatusNetUnreachable: "network unreachable",
	StatusNoBuffers:      "no buffer space",
	StatusConnected:      "already connected",
	StatusNotConnected:   "not connected",
	StatusTimedOut:       "timed out",
	StatusRefused:        "connection refused",
	StatusHostUnreach:    "host unreachable",
	StatusHostDown:       "host down",
	StatusInProgress:     "operation in progress",
	StatusWouldBlock:     "would block",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status %d", int32(s))
}

// Error implements the error interface. Host implementations include a
// Status among the values of the errors they return so that the Proxy can
// report something more specific than StatusError.
func (s Status) Error() string {
	return s.String()
}

// Guest returns the status as it is written to the mailbox.
func (s Status) Guest() uint32 {
	return uint32(s)
}
