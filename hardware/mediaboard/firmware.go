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
	"github.com/amboard/amboard/archivefs"
	"github.com/amboard/amboard/logger"
	"github.com/spf13/afero"
)

// FirmwareSize is the size of the firmware memory.
const FirmwareSize = 2 * 1024 * 1024

// the largest boot image that will be loaded. only the first FirmwareSize
// bytes are used
const maxBootImage = 16 * FirmwareSize

// LoadFirmware loads a boot image from a plain file or from inside an
// archive. The want argument is the name of the boot image inside an archive.
func LoadFirmware(afs afero.Fs, filename string, want string) ([]byte, error) {
	data, err := archivefs.Load(afs, filename, want, maxBootImage)
	if err != nil {
		return nil, err
	}
	return data[:min(len(data), FirmwareSize)], nil
}

// SetFirmware copies the boot image into firmware memory. Firmware memory
// beyond the end of the image is 0xff.
func (p *Processor) SetFirmware(data []byte) {
	for i := range p.firmware {
		p.firmware[i] = 0xff
	}
	n := copy(p.firmware, data)
	logger.Logf(p.env, logTag, "firmware: %d bytes", n)
}

// Firmware returns the firmware memory. The returned slice must not be
// modified.
func (p *Processor) Firmware() []byte {
	return p.firmware
}

// armFirmware is the handler for the magic writes that precede the
// reprogramming of the firmware
func (p *Processor) armFirmware(_ *[3]uint32, offset uint32, _ uint32, _ uint32) uint32 {
	logger.Logf(p.env, logTag, "firmware mapped by write to %08x", offset)
	p.mapFirmware()
	return Handled
}

func (p *Processor) writeFirmware(_ *[3]uint32, offset uint32, address uint32, length uint32) uint32 {
	p.copyIn(p.firmware, "firmware", offset-offFirmware, address, length)
	return Handled
}
