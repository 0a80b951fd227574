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

package preferences

import (
	"fmt"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/prefs"
	"github.com/amboard/amboard/resources"
	"github.com/spf13/afero"
)

// Regions accepted by the Region preference. The value selects the region
// block returned by the baseboard to the GCAM 0x1f command.
const (
	RegionJapan  = "japan"
	RegionUSA    = "usa"
	RegionExport = "export"
)

// Default values for the timeouts used by the socket proxy.
const (
	DefaultConnectTimeout = 20000 // microseconds
	DefaultAcceptTimeout  = 10    // milliseconds
)

// DefaultFirmware is the name of the boot image loaded into the media board
// firmware buffer.
const DefaultFirmware = "segaboot.gcm"

// Preferences defines and collates all the preference values used by the
// Triforce machine.
type Preferences struct {
	dsk *prefs.Disk

	// directory in which the backup, card and network store files are kept.
	// the empty string means the resources path is used
	BaseDir prefs.String

	// region reported by the baseboard
	Region prefs.String

	// bounds on the blocking socket operations
	ConnectTimeout prefs.Int
	AcceptTimeout  prefs.Int

	// boot image loaded into the media board firmware buffer
	Firmware prefs.String

	// the second pad is a steering wheel with force feedback
	Steering prefs.Bool

	// echo log entries to the terminal
	Echo prefs.Bool

	// destination addresses for the guest's hardcoded network peers
	Network *NetworkPreferences
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the Preferences
// type. The preferences file is in the resources path of the host filesystem.
func NewPreferences() (*Preferences, error) {
	afs := afero.NewOsFs()
	pth, err := resources.JoinPath(afs, prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesFs(afs, pth)
}

// NewPreferencesFs is the same as NewPreferences except that the preferences
// file is at the specified path of the filesystem.
func NewPreferencesFs(afs afero.Fs, pth string) (*Preferences, error) {
	p := &Preferences{}

	p.Region.SetHookPre(func(v prefs.Value) error {
		switch v.(string) {
		case RegionJapan, RegionUSA, RegionExport:
			return nil
		}
		return fmt.Errorf("unknown region (%v)", v)
	})

	positive := func(v prefs.Value) error {
		if v.(int) < 0 {
			return fmt.Errorf("timeout cannot be negative (%v)", v)
		}
		return nil
	}
	p.ConnectTimeout.SetHookPre(positive)
	p.AcceptTimeout.SetHookPre(positive)

	var err error

	p.Network, err = newNetworkPreferences()
	if err != nil {
		return nil, err
	}

	p.SetDefaults()

	p.dsk, err = prefs.NewDiskFs(afs, pth)
	if err != nil {
		return nil, err
	}

	for k, v := range map[string]prefsValue{
		"triforce.basedir":           &p.BaseDir,
		"triforce.region":            &p.Region,
		"triforce.connecttimeout":    &p.ConnectTimeout,
		"triforce.accepttimeout":     &p.AcceptTimeout,
		"triforce.firmware":          &p.Firmware,
		"triforce.steering":          &p.Steering,
		"triforce.echo":              &p.Echo,
		"triforce.rewrite.companion": &p.Network.Companion,
		"triforce.rewrite.camera":    &p.Network.Camera,
		"triforce.rewrite.avalon":    &p.Network.Avalon,
	} {
		if err := p.dsk.Add(k, v); err != nil {
			return nil, err
		}
	}

	err = p.dsk.Load(true)
	if err != nil {
		// ignore missing prefs file errors
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// the subset of the prefs types used by this package
type prefsValue interface {
	fmt.Stringer
	Set(prefs.Value) error
	Get() prefs.Value
	Reset() error
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	_ = p.BaseDir.Set("")
	_ = p.Region.Set(RegionUSA)
	_ = p.ConnectTimeout.Set(DefaultConnectTimeout)
	_ = p.AcceptTimeout.Set(DefaultAcceptTimeout)
	_ = p.Firmware.Set(DefaultFirmware)
	_ = p.Steering.Set(false)
	_ = p.Echo.Set(false)
	p.Network.SetDefaults()
}

// Load current preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
