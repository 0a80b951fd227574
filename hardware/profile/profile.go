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

package profile

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var profilesYAML []byte

// Title enumerates the games with behaviour specific to them.
type Title int

// List of valid Title values.
const (
	FZeroAX Title = iota
	FZeroAXMonster
	MarioKartGP
	MarioKartGP2
	VirtuaStriker3
	VirtuaStriker4
	KeyOfAvalon
	GekitouProYakyuu
	FirmwareUpdate
)

var titleNames = map[string]Title{
	"FZeroAX":          FZeroAX,
	"FZeroAXMonster":   FZeroAXMonster,
	"MarioKartGP":      MarioKartGP,
	"MarioKartGP2":     MarioKartGP2,
	"VirtuaStriker3":   VirtuaStriker3,
	"VirtuaStriker4":   VirtuaStriker4,
	"KeyOfAvalon":      KeyOfAvalon,
	"GekitouProYakyuu": GekitouProYakyuu,
	"FirmwareUpdate":   FirmwareUpdate,
}

func (t Title) String() string {
	for k, v := range titleNames {
		if v == t {
			return k
		}
	}
	return fmt.Sprintf("Title(%d)", int(t))
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (t *Title) UnmarshalYAML(n *yaml.Node) error {
	v, ok := titleNames[n.Value]
	if !ok {
		return fmt.Errorf("profile: unknown title %q", n.Value)
	}
	*t = v
	return nil
}

// Media is the storage medium of the media board.
type Media int

// List of valid Media values.
const (
	OpticalDisc Media = iota
	FlashStorage
)

func (m Media) String() string {
	switch m {
	case OpticalDisc:
		return "GD-ROM"
	case FlashStorage:
		return "NAND"
	}
	return "unknown"
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (m *Media) UnmarshalYAML(n *yaml.Node) error {
	switch strings.ToLower(n.Value) {
	case "gdrom":
		*m = OpticalDisc
	case "nand":
		*m = FlashStorage
	default:
		return fmt.Errorf("profile: unknown media %q", n.Value)
	}
	return nil
}

// Protocol versions returned by the media board inquiry command.
const (
	Version1 uint32 = 0x21484100
	Version2 uint32 = 0x29484100
)

// Quirks is a bitmask of title specific behaviours.
type Quirks uint32

// List of valid Quirks bits.
const (
	// force feedback motor on serial port A. analog steering and dip switch
	// handling particular to F-Zero cabinets
	QuirkMotor Quirks = 1 << iota

	// steering wheel handshake on serial port A
	QuirkWheel

	// IC card reader with the deck reader fallback on serial port A
	QuirkICCard

	// handshake on serial port A particular to Gekitou Pro Yakyuu
	QuirkGekitouSerial

	// magnetic card reader behaviour of the F-Zero AX cabinet
	QuirkMagCardFZero

	// higher FIRM version patched into the backup memory
	QuirkFirmPatch

	// select timeout forced short on the legacy execute path
	QuirkSelectClampLegacy

	// select timeout forced short on the network execute path
	QuirkSelectClampNetwork

	// select with nfds 256 refers to the camera descriptor
	QuirkCameraSelect
)

var quirkNames = map[string]Quirks{
	"motor":              QuirkMotor,
	"wheel":              QuirkWheel,
	"iccard":             QuirkICCard,
	"gekitouserial":      QuirkGekitouSerial,
	"magcardfzero":       QuirkMagCardFZero,
	"firmpatch":          QuirkFirmPatch,
	"selectclamplegacy":  QuirkSelectClampLegacy,
	"selectclampnetwork": QuirkSelectClampNetwork,
	"cameraselect":       QuirkCameraSelect,
}

// Has returns true if all the bits in q are set.
func (qs Quirks) Has(q Quirks) bool {
	return qs&q == q
}

// Names returns the sorted names of the quirks that are set.
func (qs Quirks) Names() []string {
	var names []string
	for s, q := range quirkNames {
		if qs.Has(q) {
			names = append(names, s)
		}
	}
	slices.Sort(names)
	return names
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (qs *Quirks) UnmarshalYAML(n *yaml.Node) error {
	var names []string
	if err := n.Decode(&names); err != nil {
		return err
	}
	for _, s := range names {
		q, ok := quirkNames[s]
		if !ok {
			return fmt.Errorf("profile: unknown quirk %q", s)
		}
		*qs |= q
	}
	return nil
}

// Profile describes how the board should behave for a single game.
type Profile struct {
	// the four character ID as it was given to Resolve()
	ID string

	Title   Title
	Media   Media
	Version uint32
	Quirks  Quirks

	// JVS I/O board identification
	BoardID      string
	Capabilities []byte

	// connect timeout in microseconds. zero means the connect timeout in the
	// preferences is used
	ConnectTimeout uint32

	// false if the ID was not in the table and the default profile has been
	// used instead
	Known bool
}

func (p Profile) String() string {
	return fmt.Sprintf("%s [%s] %s %#08x", p.ID, p.Title, p.Media, p.Version)
}

type board struct {
	BoardID string `yaml:"boardid"`
}

type entry struct {
	Title        Title    `yaml:"title"`
	IDs          []string `yaml:"ids"`
	Default      bool     `yaml:"default"`
	Media        Media    `yaml:"media"`
	Version      uint32   `yaml:"version"`
	Quirks       Quirks   `yaml:"quirks"`
	Board        board    `yaml:"board"`
	Capabilities []byte   `yaml:"capabilities"`

	ConnectTimeout uint32 `yaml:"connecttimeout"`
}

type table struct {
	Boards map[string]board `yaml:"boards"`
	Titles []entry          `yaml:"titles"`
}

var (
	byID    map[string]*entry
	byTitle map[Title]*entry
	deflt   *entry
)

func init() {
	if err := load(profilesYAML); err != nil {
		panic(err)
	}
}

func load(data []byte) error {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("profile: %w", err)
	}

	byID = make(map[string]*entry)
	byTitle = make(map[Title]*entry)
	deflt = nil

	for i := range t.Titles {
		e := &t.Titles[i]
		byTitle[e.Title] = e
		for _, id := range e.IDs {
			if _, ok := byID[id]; ok {
				return fmt.Errorf("profile: duplicate ID %s", id)
			}
			byID[id] = e
		}
		if e.Default {
			if deflt != nil {
				return fmt.Errorf("profile: more than one default title")
			}
			deflt = e
		}
	}

	if deflt == nil {
		return fmt.Errorf("profile: no default title")
	}

	return nil
}

// Resolve the four character game ID to a Profile. IDs longer than four
// characters are treated as the ID "0000". Unknown IDs resolve to the
// default title with the Known field set to false.
func Resolve(id string) Profile {
	if len(id) > 4 {
		id = "0000"
	}

	e, ok := byID[id]
	if !ok {
		e = deflt
	}

	return e.profile(id, ok)
}

// ForTitle returns the Profile for the title. The ID field is the first ID
// listed for the title.
func ForTitle(t Title) (Profile, bool) {
	e, ok := byTitle[t]
	if !ok {
		return Profile{}, false
	}
	return e.profile(e.IDs[0], true), true
}

func (e *entry) profile(id string, known bool) Profile {
	caps := make([]byte, len(e.Capabilities))
	copy(caps, e.Capabilities)
	return Profile{
		ID:           id,
		Title:        e.Title,
		Media:        e.Media,
		Version:      e.Version,
		Quirks:       e.Quirks,
		BoardID:      e.Board.BoardID,
		Capabilities: caps,

		ConnectTimeout: e.ConnectTimeout,
		Known:          known,
	}
}
