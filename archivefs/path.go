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

package archivefs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Node represents a single part of a full path
type Node struct {
	Name string

	// a directory has the the field of IsDir set to true
	IsDir bool

	// a recognised archive file has IsArchive set to true. note that an archive
	// file is also considered to be directory
	IsArchive bool
}

func (e Node) String() string {
	return e.Name
}

// Path represents a single destination in the file system. The destination
// can be inside an archive.
type Path struct {
	fs      afero.Fs
	current string
	isDir   bool

	arc archive

	// if the path is inside an archive, we split the in-archive path into the
	// path to a file and the file itself
	inArcPath string
	inArcFile string
}

// NewPath is the preferred method of initialisation for the Path type.
func NewPath(afs afero.Fs) *Path {
	return &Path{fs: afs}
}

// String returns the current path
func (afs *Path) String() string {
	return afs.current
}

// Base returns the last element of the current path
func (afs *Path) Base() string {
	return filepath.Base(afs.current)
}

// Dir returns all but the last element of path
func (afs *Path) Dir() string {
	if afs.isDir {
		return afs.current
	}
	return filepath.Dir(afs.current)
}

// IsDir returns true if Path is currently set to a directory. For the purposes
// of archivefs, the root of an archive is treated as a directory
func (afs *Path) IsDir() bool {
	return afs.isDir
}

// InArchive returns true if path is currently inside an archive
func (afs *Path) InArchive() bool {
	return afs.arc != nil
}

// Open and return an io.ReadSeeker for the filename previously set by the Set()
// function.
//
// Returns the io.ReadSeeker, the size of the data behind the ReadSeeker and any
// errors.
func (afs *Path) Open() (io.ReadSeeker, int, error) {
	if afs.isDir {
		return nil, 0, fmt.Errorf("archivefs: open: %s is a directory", afs.current)
	}

	if afs.arc != nil {
		f, err := afs.arc.open(path.Join(afs.inArcPath, afs.inArcFile))
		if err != nil {
			return nil, 0, fmt.Errorf("archivefs: open: %w", err)
		}
		defer f.Close()

		b, err := io.ReadAll(f)
		if err != nil {
			return nil, 0, fmt.Errorf("archivefs: open: %w", err)
		}

		return bytes.NewReader(b), len(b), nil
	}

	b, err := afero.ReadFile(afs.fs, afs.current)
	if err != nil {
		return nil, 0, fmt.Errorf("archivefs: open: %w", err)
	}

	return bytes.NewReader(b), len(b), nil
}

// Close any open archive and reset path
func (afs *Path) Close() {
	afs.current = ""
	afs.isDir = false
	afs.inArcPath = ""
	afs.inArcFile = ""
	if afs.arc != nil {
		afs.arc.close()
		afs.arc = nil
	}
}

// List returns the child entries for the current path location. If the current
// path is a file then the list will be the contents of the containing directory
// of that file
func (afs *Path) List() ([]Node, error) {
	var ent []Node

	if afs.arc != nil {
		for _, e := range children(afs.arc, afs.inArcPath) {
			ent = append(ent, Node{
				Name:  e.name,
				IsDir: e.isDir,
			})
		}
	} else {
		p := afs.current
		if !afs.isDir {
			p = filepath.Dir(p)
		}

		dir, err := afero.ReadDir(afs.fs, p)
		if err != nil {
			return []Node{}, fmt.Errorf("archivefs: entries: %w", err)
		}

		for _, d := range dir {
			if d.IsDir() {
				ent = append(ent, Node{
					Name:  d.Name(),
					IsDir: true,
				})
				continue
			}

			arc, err := openArchive(afs.fs, filepath.Join(p, d.Name()))
			if err == nil {
				arc.close()
				ent = append(ent, Node{
					Name:      d.Name(),
					IsDir:     true,
					IsArchive: true,
				})
			} else {
				ent = append(ent, Node{
					Name: d.Name(),
				})
			}
		}
	}

	Sort(ent)

	return ent, nil
}

// Set the path. Any component of the path can be an archive and the
// components that follow are then looked for inside the archive.
func (afs *Path) Set(pth string) error {
	afs.Close()

	// clean path and split into parts
	pth = filepath.Clean(pth)
	lst := strings.Split(pth, string(filepath.Separator))

	// strings.Split will remove a leading filepath.Separator. we need to add
	// one back so that filepath.Join() works as expected
	if lst[0] == "" {
		lst[0] = string(filepath.Separator)
	}

	// reuse path string
	pth = ""

	for _, l := range lst {
		pth = filepath.Join(pth, l)

		if afs.arc != nil {
			if afs.inArcFile != "" {
				afs.Close()
				return fmt.Errorf("archivefs: set: %s is not a directory", pth)
			}

			p := path.Join(afs.inArcPath, l)
			isFile, isDir := lookup(afs.arc, p)
			switch {
			case isDir:
				afs.isDir = true
				afs.inArcPath = p
			case isFile:
				afs.isDir = false
				afs.inArcFile = l
			default:
				afs.Close()
				return fmt.Errorf("archivefs: set: %s: %w", pth, afero.ErrFileNotFound)
			}
			continue
		}

		fi, err := afs.fs.Stat(pth)
		if err != nil {
			afs.Close()
			return fmt.Errorf("archivefs: set: %w", err)
		}

		afs.isDir = fi.IsDir()
		if afs.isDir {
			continue
		}

		afs.arc, err = openArchive(afs.fs, pth)
		if err == nil {
			// the root of an archive file is considered to be a directory
			afs.isDir = true
			continue
		}
		afs.arc = nil

		if !errors.Is(err, errNotArchive) {
			afs.Close()
			return fmt.Errorf("archivefs: set: %w", err)
		}
	}

	// make sure path is clean
	afs.current = filepath.Clean(pth)

	return nil
}
