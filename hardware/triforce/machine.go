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

package triforce

import (
	"fmt"
	"strings"
	"sync"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/environment"
	"github.com/amboard/amboard/hardware/amserial"
	"github.com/amboard/amboard/hardware/backupmem"
	"github.com/amboard/amboard/hardware/input"
	"github.com/amboard/amboard/hardware/interrupts"
	"github.com/amboard/amboard/hardware/mediaboard"
	"github.com/amboard/amboard/hardware/mediaboard/sockets"
	"github.com/amboard/amboard/hardware/memory"
	"github.com/amboard/amboard/hardware/preferences"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/hardware/storage"
	"github.com/amboard/amboard/logger"
	"github.com/spf13/afero"
)

// Collaborators are the parts of the host emulator used by the boards.
type Collaborators struct {
	// guest memory. required
	Mem memory.Bus

	// interrupt lines of the media board and of the backup memory. the
	// boards share one line unless both are given. a single line given for
	// one board is used by both
	MediaIRQ  *interrupts.Line
	BackupIRQ *interrupts.Line

	// nil means no pad is connected
	Pads input.Pads

	// nil means the host's sockets
	Host sockets.Host

	// nil means the host filesystem
	Fs afero.Fs
}

// Machine is the set of peripheral boards for one game.
type Machine struct {
	env  *environment.Environment
	prof profile.Profile
	dir  *storage.Dir

	// one lock for each board. calls to different boards do not wait for
	// each other
	mediaCrit sync.Mutex
	media     *mediaboard.Processor
	mediaIRQ  *interrupts.Line

	backupCrit sync.Mutex
	backup     *backupmem.Controller
	backupIRQ  *interrupts.Line

	serialCrit sync.Mutex
	serial     *amserial.Controller

	// set by Shutdown()
	closed bool
}

// the stores of the media board
var mediaStores = []struct {
	name  string
	store func(s *mediaboard.Stores) *mediaboard.Store
}{
	{"trinetcfg.bin", func(s *mediaboard.Stores) *mediaboard.Store { return &s.NetConfig }},
	{"trinetctrl.bin", func(s *mediaboard.Stores) *mediaboard.Store { return &s.NetControl }},
	{"triextra.bin", func(s *mediaboard.Stores) *mediaboard.Store { return &s.Extra }},
	{"tridimm_%s.bin", func(s *mediaboard.Stores) *mediaboard.Store { return &s.DIMM }},
	{"backup_%s.bin", func(s *mediaboard.Stores) *mediaboard.Store { return &s.Backup }},
}

// storeName adds the game ID to the names that need it
func storeName(pattern string, id string) string {
	if strings.Contains(pattern, "%s") {
		return fmt.Sprintf(pattern, id)
	}
	return pattern
}

// NewMachine is the preferred method of initialisation for the Machine type.
// The stores are opened beneath the base directory preference. A store that
// cannot be opened is logged and the region it backs is ignored, except for
// the backup memory which must be available.
func NewMachine(env *environment.Environment, id string, col Collaborators) (*Machine, error) {
	if col.Mem == nil {
		return nil, curated.Errorf(NoMemory)
	}
	if col.Fs == nil {
		col.Fs = afero.NewOsFs()
	}
	if col.Host == nil {
		col.Host = sockets.NewUnixHost()
	}
	if col.Pads == nil {
		col.Pads = input.NewInput()
	}

	m := &Machine{
		env:       env,
		prof:      profile.Resolve(id),
		dir:       storage.NewDir(col.Fs, env.Prefs.BaseDir.String()),
		mediaIRQ:  col.MediaIRQ,
		backupIRQ: col.BackupIRQ,
	}
	switch {
	case m.mediaIRQ == nil && m.backupIRQ == nil:
		m.mediaIRQ = interrupts.NewLine("baseboard", nil)
		m.backupIRQ = m.mediaIRQ
	case m.mediaIRQ == nil:
		m.mediaIRQ = m.backupIRQ
	case m.backupIRQ == nil:
		m.backupIRQ = m.mediaIRQ
	}

	if !m.prof.Known {
		err := curated.Errorf(UnknownGame, id)
		logger.Log(env, logTag, err)
		env.Alert(err)
	}

	logger.Logf(env, logTag, "%s: %s", m.prof.ID, m.prof.Title)

	var stores mediaboard.Stores
	for _, s := range mediaStores {
		name := storeName(s.name, m.prof.ID)
		st, err := m.dir.OpenOrCreate(name)
		if err != nil {
			logger.Log(env, logTag, err)
			continue
		}
		*s.store(&stores) = st
	}

	net := sockets.NewProxy(env, col.Host, m.prof)
	m.media = mediaboard.NewProcessor(env, m.prof, col.Mem, m.mediaIRQ, stores, net)
	m.loadFirmware()

	bst, err := backupmem.OpenStore(env, m.dir, m.prof.ID)
	if err != nil {
		m.media.Shutdown()
		return nil, err
	}
	m.backup, err = backupmem.NewController(env, m.prof, col.Mem, m.backupIRQ, bst)
	if err != nil {
		_ = bst.Close()
		m.media.Shutdown()
		return nil, err
	}

	m.serial = amserial.NewController(env, m.prof, col.Pads, m.dir)

	return m, nil
}

// loadFirmware loads the boot image named by the firmware preference from
// the base directory. A missing boot image leaves the firmware memory erased
func (m *Machine) loadFirmware() {
	name := m.env.Prefs.Firmware.String()
	if name == "" || !m.dir.Exists(name) {
		logger.Logf(m.env, logTag, "no boot image (%s)", name)
		return
	}

	pth, err := m.dir.Path(name)
	if err != nil {
		logger.Log(m.env, logTag, err)
		return
	}

	data, err := mediaboard.LoadFirmware(m.dir.Fs(), pth, preferences.DefaultFirmware)
	if err != nil {
		logger.Log(m.env, logTag, err)
		return
	}
	m.media.SetFirmware(data)
}

func (m *Machine) String() string {
	return fmt.Sprintf("%s: %s", m.prof.ID, m.prof.Title)
}

// Profile returns the profile of the game.
func (m *Machine) Profile() profile.Profile {
	return m.prof
}

// Dir returns the directory of the stores.
func (m *Machine) Dir() *storage.Dir {
	return m.dir
}

// MediaIRQ returns the interrupt line of the media board.
func (m *Machine) MediaIRQ() *interrupts.Line {
	return m.mediaIRQ
}

// BackupIRQ returns the interrupt line of the backup memory.
func (m *Machine) BackupIRQ() *interrupts.Line {
	return m.backupIRQ
}

// isClosed is called with the lock of the board held
func (m *Machine) isClosed() bool {
	if m.closed {
		logger.Log(m.env, logTag, curated.Errorf(Closed))
	}
	return m.closed
}

// ExecuteCommand passes the disc interface command to the media board.
func (m *Machine) ExecuteCommand(cmd *[3]uint32, address uint32, length uint32) uint32 {
	m.mediaCrit.Lock()
	defer m.mediaCrit.Unlock()
	if m.isClosed() {
		return mediaboard.Handled
	}
	return m.media.ExecuteCommand(cmd, address, length)
}

// SetKeys sets the keys of the media board command decryption.
func (m *Machine) SetKeys(a, b, c uint32) {
	m.mediaCrit.Lock()
	defer m.mediaCrit.Unlock()
	m.media.SetKeys(a, b, c)
}

// InitDIMM allocates the DIMM memory of the media board.
func (m *Machine) InitDIMM(size uint32) []byte {
	m.mediaCrit.Lock()
	defer m.mediaCrit.Unlock()
	return m.media.InitDIMM(size)
}

// GetMediaType returns the storage medium of the game.
func (m *Machine) GetMediaType() uint32 {
	m.mediaCrit.Lock()
	defer m.mediaCrit.Unlock()
	return m.media.GetMediaType()
}

// Firmware returns a copy of the firmware memory of the media board.
func (m *Machine) Firmware() []byte {
	m.mediaCrit.Lock()
	defer m.mediaCrit.Unlock()
	f := m.media.Firmware()
	d := make([]byte, len(f))
	copy(d, f)
	return d
}

// SetCS sets the chip select of the backup memory.
func (m *Machine) SetCS(cs bool) {
	m.backupCrit.Lock()
	defer m.backupCrit.Unlock()
	m.backup.SetCS(cs)
}

// IsBackupInterruptSet returns the state of the backup memory interrupt.
func (m *Machine) IsBackupInterruptSet() bool {
	m.backupCrit.Lock()
	defer m.backupCrit.Unlock()
	return m.backup.IsInterruptSet()
}

// TransferByte exchanges a byte with the backup memory.
func (m *Machine) TransferByte(b uint8) uint8 {
	m.backupCrit.Lock()
	defer m.backupCrit.Unlock()
	if m.isClosed() {
		return 0
	}
	return m.backup.TransferByte(b)
}

// BackupDMAWrite transfers guest memory to the backup memory.
func (m *Machine) BackupDMAWrite(address uint32, size uint32) {
	m.backupCrit.Lock()
	defer m.backupCrit.Unlock()
	if m.isClosed() {
		return
	}
	m.backup.DMAWrite(address, size)
}

// BackupDMARead transfers the backup memory to guest memory.
func (m *Machine) BackupDMARead(address uint32, size uint32) {
	m.backupCrit.Lock()
	defer m.backupCrit.Unlock()
	if m.isClosed() {
		return
	}
	m.backup.DMARead(address, size)
}

// RunBuffer passes the serial interface buffer to the baseboard.
func (m *Machine) RunBuffer(buf []byte, length int) int {
	m.serialCrit.Lock()
	defer m.serialCrit.Unlock()
	if m.isClosed() {
		return 0
	}
	return m.serial.RunBuffer(buf, length)
}

// GetData is the response of the baseboard to a poll.
func (m *Machine) GetData() (uint32, uint32) {
	m.serialCrit.Lock()
	defer m.serialCrit.Unlock()
	return m.serial.GetData()
}

// SendCommand passes a direct command to the baseboard.
func (m *Machine) SendCommand(cmd uint32, poll uint8) {
	m.serialCrit.Lock()
	defer m.serialCrit.Unlock()
	m.serial.SendCommand(cmd, poll)
}

// State is a copy of the state of every board.
type State struct {
	Profile profile.Profile
	Media   mediaboard.State
	Backup  backupmem.State
	Serial  amserial.State
}

// Snapshot returns a copy of the state of every board. Each board is copied
// with its own lock held.
func (m *Machine) Snapshot() State {
	s := State{Profile: m.prof}

	m.mediaCrit.Lock()
	s.Media = m.media.Snapshot()
	m.mediaCrit.Unlock()

	m.backupCrit.Lock()
	s.Backup = m.backup.Snapshot()
	m.backupCrit.Unlock()

	m.serialCrit.Lock()
	s.Serial = m.serial.Snapshot()
	m.serialCrit.Unlock()

	return s
}

// Shutdown closes every store and every socket. The Machine can not be used
// after Shutdown() and a second call does nothing.
func (m *Machine) Shutdown() {
	m.mediaCrit.Lock()
	m.backupCrit.Lock()
	m.serialCrit.Lock()
	defer m.mediaCrit.Unlock()
	defer m.backupCrit.Unlock()
	defer m.serialCrit.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	m.media.Shutdown()
	m.backup.Shutdown()

	logger.Logf(m.env, logTag, "%s: shutdown", m.prof.ID)
}
