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

package backupmem

import (
	"encoding/binary"
	"fmt"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/environment"
	"github.com/amboard/amboard/hardware/interrupts"
	"github.com/amboard/amboard/hardware/memory"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/hardware/storage"
	"github.com/amboard/amboard/logger"
	"github.com/amboard/amboard/notifications"
)

const logTag = "backupmem"

// ChecksumMismatch is the pattern used when the checksum byte of a command is
// not correct. The command is serviced anyway.
const ChecksumMismatch = "backupmem: checksum %02x but expected %02x"

// Command bytes.
const (
	CmdOffsetSet    = 0x01
	CmdWrite        = 0x02
	CmdRead         = 0x03
	CmdDMASet       = 0x05
	CmdReadISR      = 0x82
	CmdWriteISR     = 0x83
	CmdReadIMR      = 0x86
	CmdWriteIMR     = 0x87
	CmdWriteLANCNT  = 0xff
	CmdReadSerialID = 0x00
)

// the serial ID is repeated for as long as the transfer lasts
const serialID = "\x06\x04\x10\x00"

// Store is the byte store behind the backup memory. It is satisfied by
// storage.Store.
type Store interface {
	Seek(offset int64) error
	ReadBytes(p []byte) (int, error)
	WriteBytes(p []byte) error
	Flush() error
	Size() (int64, error)
	Close() error
}

// StoreName returns the name of the backup memory file for a game ID.
func StoreName(id string) string {
	return fmt.Sprintf("tribackup_%s.bin", id)
}

// OpenStore opens the backup memory file for the game ID. If the file cannot
// be opened, because another instance has it open for example, the alert is
// raised and a file with a random name is used instead.
func OpenStore(env *environment.Environment, dir *storage.Dir, id string) (*storage.Store, error) {
	st, err := dir.OpenOrCreate(StoreName(id))
	if err == nil {
		return st, nil
	}
	env.Alert(err)

	name := fmt.Sprintf("tribackup_tmp_%d%s.bin", env.Random.Intn(0x7fffffff), id)
	logger.Logf(env, logTag, "using %s for backup memory", name)
	st, err = dir.OpenOrCreate(name)
	if err != nil {
		return nil, err
	}
	_ = env.Notify(notifications.NotifyBackupFallback, nil)
	return st, nil
}

// Controller emulates the backup memory controller.
type Controller struct {
	env  *environment.Environment
	mem  memory.Bus
	irq  *interrupts.Line
	data Store

	position int
	command  [4]uint8

	// the offset set by the OffsetSet command. both the byte commands and the
	// DMA transfers use it
	offset uint32

	// set by the DMA set command but otherwise unused
	dmaOffset uint32
	dmaLength uint8
}

// NewController is the preferred method of initialisation for the Controller
// type. The FIRM patch is applied to the store if the profile requires it.
func NewController(env *environment.Environment, prof profile.Profile, mem memory.Bus,
	irq *interrupts.Line, data Store) (*Controller, error) {

	c := &Controller{
		env:  env,
		mem:  mem,
		irq:  irq,
		data: data,
	}

	if prof.Quirks.Has(profile.QuirkFirmPatch) {
		if err := c.patch(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Controller) String() string {
	return fmt.Sprintf("pos %d cmd % 02x offset %04x", c.position, c.command, c.offset)
}

// patch applies the FIRM patch to the contents of the store
func (c *Controller) patch() error {
	sz, err := c.data.Size()
	if err != nil {
		return err
	}
	if sz == 0 {
		return nil
	}

	data := make([]byte, sz)
	if err := c.data.Seek(0); err != nil {
		return err
	}
	if _, err := c.data.ReadBytes(data); err != nil {
		return err
	}

	if !PatchFirm(data) {
		logger.Logf(c.env, logTag, "backup of %d bytes too small for FIRM patch", sz)
		return nil
	}

	if err := c.data.Seek(0); err != nil {
		return err
	}
	if err := c.data.WriteBytes(data); err != nil {
		return err
	}
	logger.Logf(c.env, logTag, "FIRM version set to %04x", firmVersion)
	return c.data.Flush()
}

// SetCS changes the chip select. Selecting the device starts a new transfer.
func (c *Controller) SetCS(cs bool) {
	if cs {
		c.position = 0
	}
}

// IsPresent always returns true.
func (c *Controller) IsPresent() bool {
	return true
}

// IsInterruptSet returns the state of the shared interrupt line.
func (c *Controller) IsInterruptSet() bool {
	return c.irq.IsSet()
}

// crc returns the checksum byte for the first three bytes of a command
func crc(c0, c1, c2 uint8) uint8 {
	sum := uint32(c0)<<24 | uint32(c1)<<16 | uint32(c2)<<8
	check := uint32(0x8d800000)
	for bit := uint32(0x80000000); bit >= 0x100; bit >>= 1 {
		if sum&bit != 0 {
			sum ^= check
		}
		check >>= 1
	}
	return uint8(sum)
}

// TransferByte exchanges one byte with the controller.
func (c *Controller) TransferByte(b uint8) uint8 {
	defer func() {
		c.position++
	}()

	if c.position < 4 {
		c.command[c.position] = b
		b = 0xff
	}

	if c.position >= 2 && c.command[0] == 0 && c.command[1] == 0 {
		return serialID[(c.position-2)&3]
	}

	switch {
	case c.position == 3:
		if w := crc(c.command[0], c.command[1], c.command[2]); w != c.command[3] {
			logger.Log(c.env, logTag, curated.Errorf(ChecksumMismatch, c.command[3], w))
		}
		return b
	case c.position == 4:
		return c.execute()
	case c.position > 4:
		return c.stream(b)
	}

	return 0xff
}

// execute the command in the byte after the command
func (c *Controller) execute() uint8 {
	switch c.command[0] {
	case CmdOffsetSet:
		c.offset = uint32(c.command[1])<<8 | uint32(c.command[2])
		logger.Logf(c.env, logTag, "offset set: %04x", c.offset)
		if err := c.data.Seek(int64(c.offset)); err != nil {
			logger.Log(c.env, logTag, err)
		}
		return 0x01

	case CmdWrite:
		logger.Logf(c.env, logTag, "write: %04x %02x", c.offset, c.command[1])
		if err := c.data.WriteBytes(c.command[1:2]); err != nil {
			logger.Log(c.env, logTag, err)
		} else if err := c.data.Flush(); err != nil {
			logger.Log(c.env, logTag, err)
		}
		return 0x01

	case CmdRead:
		logger.Logf(c.env, logTag, "read: %04x", c.offset)
		return 0x01

	case CmdDMASet:
		c.dmaOffset = uint32(c.command[1])<<8 | uint32(c.command[2])
		c.dmaLength = c.command[3]
		logger.Logf(c.env, logTag, "dma set: %04x %02x", c.dmaOffset, c.dmaLength)
		return 0x01

	case CmdReadISR:
		logger.Logf(c.env, logTag, "read ISR: %02x %02x: %02x", c.command[1], c.command[2], c.irq.Status())
		return 0x04

	case CmdWriteISR:
		logger.Logf(c.env, logTag, "write ISR: %02x %02x", c.command[1], c.command[2])
		c.irq.ClearStatus(c.command[2])
		return 0x04

	case CmdReadIMR:
		logger.Logf(c.env, logTag, "read IMR: %02x %02x", c.command[1], c.command[2])
		return 0x04

	case CmdWriteIMR:
		logger.Logf(c.env, logTag, "write IMR: %02x %02x", c.command[1], c.command[2])
		return 0x04

	case CmdWriteLANCNT:
		logger.Logf(c.env, logTag, "write LANCNT: %02x %02x", c.command[1], c.command[2])
		switch {
		case c.command[1] == 0 && c.command[2] == 0:
			c.irq.Raise(0x02)
		case c.command[1] == 2 && c.command[2] == 1:
			c.irq.SetStatus(0)
		}
		return 0x08
	}

	logger.Logf(c.env, logTag, "unknown command: % 02x", c.command[:3])
	return 0x04
}

// stream services the bytes after the byte that executes the command
func (c *Controller) stream(b uint8) uint8 {
	switch c.command[0] {
	case CmdRead:
		var p [1]byte
		if err := c.data.Flush(); err != nil {
			logger.Log(c.env, logTag, err)
		}
		if _, err := c.data.ReadBytes(p[:]); err != nil {
			logger.Log(c.env, logTag, err)
		}
		return p[0]

	case CmdDMASet:
		return 0x01

	case CmdReadISR:
		if c.position == 6 {
			c.irq.Acknowledge()
			return c.irq.Status()
		}
		return 0x04

	case CmdReadIMR:
		switch c.position {
		case 5:
			return 0xff
		case 6:
			return 0x81
		}
		return b
	}

	logger.Logf(c.env, logTag, "unknown command at position %d: %02x", c.position, c.command[0])
	return b
}

// DMAWrite copies guest memory to the backup memory at the current offset.
func (c *Controller) DMAWrite(address uint32, size uint32) {
	logger.Logf(c.env, logTag, "dma write: %08x %x", address, size)

	p := make([]byte, size)
	c.mem.Read(address, p)

	if err := c.data.Seek(int64(c.offset)); err != nil {
		logger.Log(c.env, logTag, err)
		return
	}
	if err := c.data.WriteBytes(p); err != nil {
		logger.Log(c.env, logTag, err)
		return
	}
	if err := c.data.Flush(); err != nil {
		logger.Log(c.env, logTag, err)
	}
}

// DMARead copies the backup memory at the current offset to guest memory.
func (c *Controller) DMARead(address uint32, size uint32) {
	logger.Logf(c.env, logTag, "dma read: %08x %x", address, size)

	if err := c.data.Seek(int64(c.offset)); err != nil {
		logger.Log(c.env, logTag, err)
		return
	}
	if err := c.data.Flush(); err != nil {
		logger.Log(c.env, logTag, err)
	}

	p := make([]byte, size)
	if _, err := c.data.ReadBytes(p); err != nil {
		logger.Log(c.env, logTag, err)
	}
	c.mem.Write(address, p)
}

// State is a copy of the state of the Controller.
type State struct {
	Position  int
	Command   [4]uint8
	Offset    uint32
	DMAOffset uint32
	DMALength uint8
	Interrupt interrupts.State
}

// Snapshot returns a copy of the state of the Controller.
func (c *Controller) Snapshot() State {
	return State{
		Position:  c.position,
		Command:   c.command,
		Offset:    c.offset,
		DMAOffset: c.dmaOffset,
		DMALength: c.dmaLength,
		Interrupt: c.irq.Snapshot(),
	}
}

// Shutdown closes the backup memory.
func (c *Controller) Shutdown() {
	if c.data == nil {
		return
	}
	if err := c.data.Close(); err != nil {
		logger.Log(c.env, logTag, err)
	}
	c.data = nil
}

// the size of the part of the backup covered by the FIRM patch
const firmSize = 0x400

// the FIRM version written by PatchFirm()
const firmVersion = 0x1703

// PatchFirm sets the FIRM version in a backup memory image and updates the
// checksums of the two copies of the header. It returns false if the image is
// too small, in which case it is not changed.
func PatchFirm(data []byte) bool {
	if len(data) < firmSize {
		return false
	}

	binary.LittleEndian.PutUint16(data[0x12:], firmVersion)
	binary.LittleEndian.PutUint16(data[0x212:], firmVersion)

	binary.BigEndian.PutUint16(data[0x0a:], checksum(data[0x0c:0x200]))
	binary.BigEndian.PutUint16(data[0x20a:], checksum(data[0x20c:0x400]))

	return true
}

// checksum is the 16-bit sum of the bytes
func checksum(p []byte) uint16 {
	var sum uint16
	for _, b := range p {
		sum += uint16(b)
	}
	return sum
}
