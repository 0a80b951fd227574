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
	"fmt"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/environment"
	"github.com/amboard/amboard/hardware/interrupts"
	"github.com/amboard/amboard/hardware/mediaboard/sockets"
	"github.com/amboard/amboard/hardware/memory"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/logger"
	"github.com/amboard/amboard/notifications"
)

const logTag = "mediaboard"

// Store is the byte store behind one of the persistent regions of the board.
// It is satisfied by storage.Store.
type Store interface {
	Seek(offset int64) error
	ReadBytes(p []byte) (int, error)
	WriteBytes(p []byte) error
	Flush() error
	Close() error
}

// Stores are the persistent regions of the board. Any of them can be nil, in
// which case requests for that region are logged and ignored.
type Stores struct {
	NetConfig  Store
	NetControl Store
	Extra      Store
	DIMM       Store
	Backup     Store
}

// Processor emulates the command processor of the media board.
type Processor struct {
	env  *environment.Environment
	prof profile.Profile
	mem  memory.Bus
	exi  *interrupts.Line
	net  *sockets.Proxy

	stores Stores

	keys Keys

	firmware       []byte
	firmwareMapped bool
	segaBoot       bool

	// disc image held in DIMM memory. allocated by InitDIMM()
	dimm []byte

	mailbox Mailbox
	netcmd  *Arena
	netbuf  *Arena

	// the GetMediaBoardStatus command reports the loading of the game program
	// as a slowly increasing percentage
	status   uint32
	progress uint32

	reads  []region
	writes []region
}

// NewProcessor is the preferred method of initialisation for the Processor
// type. The interrupt line is raised by the network and trigger protocols.
func NewProcessor(env *environment.Environment, prof profile.Profile, mem memory.Bus,
	exi *interrupts.Line, stores Stores, net *sockets.Proxy) *Processor {

	p := &Processor{
		env:      env,
		prof:     prof,
		mem:      mem,
		exi:      exi,
		net:      net,
		stores:   stores,
		firmware: make([]byte, FirmwareSize),
		netcmd:   newArena("netcmd", NetworkCommandSize),
		netbuf:   newArena("netbuf", NetworkBufferSize),
		status:   statusLoadingGameProgram,
		progress: 80,
	}

	for i := range p.firmware {
		p.firmware[i] = 0xff
	}

	p.reads = p.readRegions()
	p.writes = p.writeRegions()

	return p
}

func (p *Processor) String() string {
	return fmt.Sprintf("%s keys %s firmware mapped %v segaboot %v", p.prof.ID, p.keys, p.firmwareMapped, p.segaBoot)
}

// alert sends an unhandled condition to the environment
func (p *Processor) alert(pattern string, v uint32) {
	err := curated.Errorf(pattern, v)
	logger.Log(p.env, logTag, err)
	p.env.Alert(err)
}

// ExecuteCommand services a single disc interface command. The command words
// are decrypted in place. The address and length arguments describe the guest
// DMA window.
//
// The result is Handled or PassThrough except for the Inquiry command, which
// returns the protocol version of the board. PassThrough indicates that the
// disc interface should service the read from the disc image.
func (p *Processor) ExecuteCommand(cmd *[3]uint32, address uint32, length uint32) uint32 {
	// pending connections make progress once per transaction
	if p.net != nil {
		p.net.Poll()
	}

	p.decrypt(cmd)

	command := cmd[0]
	offset := cmd[1]

	logger.Logf(p.env, logTag, "%08x %08x DMA=addr:%08x,len:%08x keys: %s", command, offset, address, length, p.keys)

	// set by OSResetSystem but not while in segaboot
	if offset == offTestMode {
		if p.mem.ReadUint32(addrTestFlag) == 1 && p.mem.ReadUint32(addrTestMagic) != testMagic {
			p.mapFirmware()
		}
	}

	switch command >> 24 {
	case CmdInquiry:
		if p.firmwareMapped {
			p.firmwareMapped = false
			p.segaBoot = false
		}
		return p.prof.Version

	case CmdRead:
		if r, ok := lookup(p.reads, offset, length); ok {
			return r.handle(cmd, offset, address, length)
		}
		return p.readImage(cmd, offset, address, length)

	case CmdWrite:
		if r, ok := lookup(p.writes, offset, length); ok {
			return r.handle(cmd, offset, address, length)
		}
		return Handled

	case CmdExecute:
		if offset == 0 && length == 0 {
			p.executeLegacy()
			return Handled
		}
		p.alert(UnhandledExecute, uint32(p.mailbox.Command(MailboxIn)))
		return Handled
	}

	p.alert(UnhandledCommand, command>>24)
	return Handled
}

// readImage services a read that is not in any region. the read is served
// from the firmware while it is mapped and otherwise from the disc image in
// DIMM memory
func (p *Processor) readImage(cmd *[3]uint32, offset uint32, address uint32, length uint32) uint32 {
	if p.firmwareMapped {
		if p.segaBoot {
			cmd[1] &^= 0x00100000
			cmd[1] -= 0x20
		}
		p.copyOut(p.firmware, "firmware", offset, address, length)
		return Handled
	}

	if p.dimm != nil {
		p.copyOut(p.dimm, "dimm image", offset, address, length)
		return Handled
	}

	return PassThrough
}

// copyOut copies part of a buffer to the guest
func (p *Processor) copyOut(buf []byte, name string, offset uint32, address uint32, length uint32) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(buf)) {
		logger.Log(p.env, logTag, curated.Errorf(OutOfBounds, name, offset, length))
		return
	}
	p.mem.Write(address, buf[offset:end])
}

// copyIn copies part of guest memory to a buffer
func (p *Processor) copyIn(buf []byte, name string, offset uint32, address uint32, length uint32) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(buf)) {
		logger.Log(p.env, logTag, curated.Errorf(OutOfBounds, name, offset, length))
		return
	}
	p.mem.Read(address, buf[offset:end])
}

func (p *Processor) unhandled(pattern string) handler {
	return func(_ *[3]uint32, offset uint32, _ uint32, _ uint32) uint32 {
		p.alert(pattern, offset)
		return Handled
	}
}

func (p *Processor) readStore(st *Store, seek func(uint32) int64) handler {
	return func(_ *[3]uint32, offset uint32, address uint32, length uint32) uint32 {
		if *st == nil {
			logger.Logf(p.env, logTag, "read %08x: no store", offset)
			return Handled
		}
		buf := make([]byte, length)
		if err := (*st).Seek(seek(offset)); err != nil {
			logger.Log(p.env, logTag, err)
			return Handled
		}
		if _, err := (*st).ReadBytes(buf); err != nil {
			logger.Log(p.env, logTag, err)
		}
		p.mem.Write(address, buf)
		return Handled
	}
}

func (p *Processor) writeStore(st *Store, seek func(uint32) int64) handler {
	return func(_ *[3]uint32, offset uint32, address uint32, length uint32) uint32 {
		if *st == nil {
			logger.Logf(p.env, logTag, "write %08x: no store", offset)
			return Handled
		}
		buf := make([]byte, length)
		p.mem.Read(address, buf)
		if err := (*st).Seek(seek(offset)); err != nil {
			logger.Log(p.env, logTag, err)
			return Handled
		}
		if err := (*st).WriteBytes(buf); err != nil {
			logger.Log(p.env, logTag, err)
			return Handled
		}
		if err := (*st).Flush(); err != nil {
			logger.Log(p.env, logTag, err)
		}
		return Handled
	}
}

func (p *Processor) readArena(a *Arena, base uint32) handler {
	return func(_ *[3]uint32, offset uint32, address uint32, length uint32) uint32 {
		b, err := a.Window(offset, base, length)
		if err != nil {
			logger.Log(p.env, logTag, err)
			return Handled
		}
		p.mem.Write(address, b)
		return Handled
	}
}

func (p *Processor) writeArena(a *Arena, base uint32) handler {
	return func(_ *[3]uint32, offset uint32, address uint32, length uint32) uint32 {
		b, err := a.Window(offset, base, length)
		if err != nil {
			logger.Log(p.env, logTag, err)
			return Handled
		}
		p.mem.Read(address, b)
		return Handled
	}
}

func (p *Processor) readMailbox(base uint32) handler {
	return func(_ *[3]uint32, offset uint32, address uint32, length uint32) uint32 {
		logger.Logf(p.env, logTag, "read mailbox %08x (%08x)", base, offset-base)
		p.copyOut(p.mailbox[:], "mailbox", offset-base, address, length)
		return Handled
	}
}

func (p *Processor) writeMailbox(base uint32) handler {
	return func(_ *[3]uint32, offset uint32, address uint32, length uint32) uint32 {
		logger.Logf(p.env, logTag, "write mailbox %08x (%08x)", base, offset-base)
		p.copyIn(p.mailbox[:], "mailbox", offset-base, address, length)
		return Handled
	}
}

// writeMailboxTrigger writes to the second mailbox window. a write of 1 to
// the trigger address starts the trigger protocol instead of being copied to
// the mailbox
func (p *Processor) writeMailboxTrigger(cmd *[3]uint32, offset uint32, address uint32, length uint32) uint32 {
	if offset == offTrigger && p.mem.ReadUint8(address) == 1 {
		p.executeTrigger(address, length)
		return Handled
	}
	return p.writeMailbox(offMailboxV2)(cmd, offset, address, length)
}

func (p *Processor) writeLog(_ *[3]uint32, offset uint32, _ uint32, length uint32) uint32 {
	logger.Logf(p.env, logTag, "firmware log %08x (%d bytes)", offset-offFirmwareLog, length)
	return Handled
}

// readStatus writes the value of a status register to the guest
func (p *Processor) readStatus(_ *[3]uint32, offset uint32, address uint32, length uint32) uint32 {
	reg, ok := statusRegisters[offset]
	if !ok {
		p.alert(UnhandledRead, offset)
		return Handled
	}
	if reg.fill {
		p.mem.Fill(address, int(length), reg.value)
	}
	p.mem.Write(address, reg.data)
	return Handled
}

// statusRegister describes the bytes written for a read of a status register
type statusRegister struct {
	// the DMA window is filled with value before data is written
	fill  bool
	value uint8

	data []byte
}

var statusRegisters = map[uint32]statusRegister{
	0x80000000: {data: []byte{0x00, 0x01}},
	0x80000020: {fill: true, value: 0x00},
	0x80000040: {fill: true, value: 0xff, data: []byte{0x00, 0x00, 0x00, 0x20, 'G', 'C', 'A', 'M'}},
	0x80000100: {data: []byte{0x1f, 0x1f, 0x1f, 0x00}},
	0x80000120: {data: []byte{0xfa, 0x01, 0x00, 0x00}},
	0x80000140: {data: []byte{0x01, 0x00, 0x00, 0x00}},
	0x80000160: {data: []byte{0x00, 0x00, 0x1e, 0x00}},
	0x80000180: {data: []byte{0x00, 0x00, 0x00, 0x00}},
	0x800001a0: {data: []byte{0xff, 0xff, 0xff, 0xff}},
}

// InitDIMM allocates DIMM memory for a disc image of the specified size and
// unmaps the firmware. The memory is only allocated once. A size of zero
// returns nil.
func (p *Processor) InitDIMM(size uint32) []byte {
	if size == 0 {
		return nil
	}
	if p.dimm == nil {
		p.dimm = make([]byte, size)
	}
	p.firmwareMapped = false
	return p.dimm
}

// FirmwareMap sets whether reads are served from the firmware.
func (p *Processor) FirmwareMap(on bool) {
	p.firmwareMapped = on
}

// reads are served from the firmware until the next DIMM access
func (p *Processor) mapFirmware() {
	if !p.firmwareMapped {
		_ = p.env.Notify(notifications.NotifyFirmwareMapped, nil)
	}
	p.firmwareMapped = true
}

// FirmwareMapped returns true if reads are being served from the firmware.
func (p *Processor) FirmwareMapped() bool {
	return p.firmwareMapped
}

// SegaBoot returns true if the boot loader has been detected.
func (p *Processor) SegaBoot() bool {
	return p.segaBoot
}

// GetMediaType returns the media type code of the game.
func (p *Processor) GetMediaType() uint32 {
	if p.prof.Media == profile.FlashStorage {
		return mediaNAND
	}
	return mediaGDROM
}

// Profile returns the profile of the game.
func (p *Processor) Profile() profile.Profile {
	return p.prof
}

// Mailbox returns a copy of the mailbox.
func (p *Processor) Mailbox() Mailbox {
	return p.mailbox
}

// Shutdown closes every store and every open socket and releases the DIMM
// memory.
func (p *Processor) Shutdown() {
	for _, st := range []*Store{&p.stores.NetConfig, &p.stores.NetControl, &p.stores.Extra, &p.stores.DIMM, &p.stores.Backup} {
		if *st == nil {
			continue
		}
		if err := (*st).Close(); err != nil {
			logger.Log(p.env, logTag, err)
		}
		*st = nil
	}
	p.dimm = nil
	if p.net != nil {
		p.net.Shutdown()
	}
}
