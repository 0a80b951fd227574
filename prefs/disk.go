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

package prefs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/amboard/amboard/curated"
	"github.com/spf13/afero"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is inserted at the beginning of a preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// the separator between a key and its value in the preferences file
const separator = " :: "

// Sentinal error patterns.
const (
	NoPrefsFile      = "prefs: no preferences file (%s)"
	UnsupportedEntry = "prefs: unsupported preferences entry (%s)"
	DiskError        = "prefs: %v"
)

// Disk represents preference values as stored on disk.
type Disk struct {
	fs      afero.Fs
	path    string
	entries map[string]pref
}

func (dsk Disk) String() string {
	s := strings.Builder{}
	for _, k := range dsk.keys() {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, separator, dsk.entries[k]))
	}
	return s.String()
}

func (dsk Disk) keys() []string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewDisk is the preferred method of initialisation for the Disk type. The
// preferences file is on the host filesystem.
func NewDisk(path string) (*Disk, error) {
	return NewDiskFs(afero.NewOsFs(), path)
}

// NewDiskFs is the same as NewDisk except that the preferences file is kept
// on the specified filesystem.
func NewDiskFs(afs afero.Fs, path string) (*Disk, error) {
	if afs == nil || path == "" {
		return nil, curated.Errorf(DiskError, "no path to preferences file")
	}
	return &Disk{
		fs:      afs,
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Add preference value to list of values to store/load from Disk. The key
// value is used to identify the value in the preferences file.
func (dsk *Disk) Add(key string, p pref) error {
	switch p.(type) {
	case *Bool, *String, *Int, *Float, *Generic:
	default:
		return curated.Errorf(UnsupportedEntry, key)
	}
	if strings.Contains(key, separator) || strings.ContainsAny(key, "\n") {
		return curated.Errorf(UnsupportedEntry, key)
	}
	dsk.entries[key] = p
	return nil
}

// Reset all preferences to their default values.
func (dsk *Disk) Reset() error {
	for _, k := range dsk.keys() {
		if err := dsk.entries[k].Reset(); err != nil {
			return curated.Errorf(DiskError, err)
		}
	}
	return nil
}

// Save current preference values to disk. Entries in the file that this Disk
// instance doesn't know about are preserved.
func (dsk *Disk) Save() error {
	data, err := dsk.read()
	if err != nil && !curated.Is(err, NoPrefsFile) {
		return err
	}

	for k, v := range dsk.entries {
		data[k] = v.String()
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	s.WriteString(WarningBoilerPlate)
	s.WriteString("\n")
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, separator, data[k]))
	}

	err = afero.WriteFile(dsk.fs, dsk.path, []byte(s.String()), 0o600)
	if err != nil {
		return curated.Errorf(DiskError, err)
	}

	return nil
}

// Load preference values from disk. Values found on the command line stack
// take priority over values in the file.
//
// The saveOnFirstUse argument causes a missing preferences file to be created
// with the default values. A NoPrefsFile error is returned in either case.
func (dsk *Disk) Load(saveOnFirstUse bool) error {
	data, err := dsk.read()
	if err != nil {
		if !curated.Is(err, NoPrefsFile) {
			return err
		}
		if saveOnFirstUse {
			if err := dsk.Save(); err != nil {
				return err
			}
		}
	}

	for _, k := range dsk.keys() {
		p := dsk.entries[k]

		if ok, v := GetCommandLinePref(k); ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf(DiskError, err)
			}
			continue
		}

		if v, ok := data[k]; ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf(DiskError, err)
			}
		}
	}

	// the missing file error
	return err
}

// read every key/value pair in the preferences file
func (dsk *Disk) read() (map[string]string, error) {
	data := make(map[string]string)

	f, err := dsk.fs.Open(dsk.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return data, curated.Errorf(NoPrefsFile, dsk.path)
		}
		return data, curated.Errorf(DiskError, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	// the first line must be the warning boilerplate
	if !scanner.Scan() || scanner.Text() != WarningBoilerPlate {
		return data, curated.Errorf(DiskError, "not a valid preferences file")
	}

	for scanner.Scan() {
		k, v, ok := strings.Cut(scanner.Text(), separator)
		if !ok {
			continue
		}
		data[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	if err := scanner.Err(); err != nil {
		return data, curated.Errorf(DiskError, err)
	}

	return data, nil
}
