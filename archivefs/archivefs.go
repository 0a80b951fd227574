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
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/amboard/amboard/curated"
	"github.com/spf13/afero"
)

// List of patterns for errors returned by Load().
const (
	NoImage  = "archivefs: no %s in %s"
	TooLarge = "archivefs: %s is larger than %d bytes"
)

// Open and return an io.ReadSeeker for the specified filename. Filename can be
// inside an archive supported by archivefs
//
// Returns the io.ReadSeeker, the size of the data behind the ReadSeeker and any
// errors.
func Open(afs afero.Fs, filename string) (io.ReadSeeker, int, error) {
	pth := NewPath(afs)
	err := pth.Set(filename)
	if err != nil {
		return nil, 0, err
	}
	defer pth.Close()
	return pth.Open()
}

// Load the data in filename. If filename is an archive then the first file in
// the archive with the base name want is loaded. If want is empty then the
// first file in the archive is loaded.
//
// The data must be no larger than maxSize bytes.
func Load(afs afero.Fs, filename string, want string, maxSize int) ([]byte, error) {
	pth := NewPath(afs)
	err := pth.Set(filename)
	if err != nil {
		return nil, err
	}
	defer pth.Close()

	if pth.IsDir() {
		if !pth.InArchive() {
			return nil, curated.Errorf(NoImage, want, filename)
		}

		name, ok := find(pth.arc, pth.inArcPath, want)
		if !ok {
			return nil, curated.Errorf(NoImage, want, filename)
		}
		pth.inArcPath, pth.inArcFile = path.Split(name)
		pth.inArcPath = strings.TrimSuffix(pth.inArcPath, "/")
		pth.isDir = false
	}

	r, sz, err := pth.Open()
	if err != nil {
		return nil, err
	}
	if sz > maxSize {
		return nil, curated.Errorf(TooLarge, filename, maxSize)
	}

	data := make([]byte, sz)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("archivefs: load: %w", err)
	}

	return data, nil
}

// find the first file in the archive beneath dir with the base name want
func find(arc archive, dir string, want string) (string, bool) {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}
	for _, n := range arc.names() {
		if strings.HasSuffix(n, "/") || !strings.HasPrefix(n, prefix) {
			continue
		}
		if want == "" || strings.EqualFold(path.Base(n), want) {
			return n, true
		}
	}
	return "", false
}
