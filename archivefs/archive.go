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
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
	"github.com/spf13/afero"
)

// magic bytes for the supported archive types
var (
	magicZIP    = []byte{0x50, 0x4b, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4b, 0x05, 0x06}
	magic7z     = []byte{0x37, 0x7a, 0xbc, 0xaf, 0x27, 0x1c}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21}
)

// errNotArchive is returned by openArchive() if the file is not a recognised
// archive type
var errNotArchive = errors.New("not an archive")

// archive is the common interface to the supported archive types. names use
// forward slashes regardless of the host filesystem
type archive interface {
	// every entry in the archive. directories have a trailing slash
	names() []string

	// open the named file
	open(name string) (io.ReadCloser, error)

	close() error
}

// openArchive detects the archive type by its magic bytes
func openArchive(afs afero.Fs, filename string) (archive, error) {
	f, err := afs.Open(filename)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.IsDir() {
		f.Close()
		return nil, errNotArchive
	}

	header := make([]byte, 8)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, err
	}
	header = header[:n]

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	var arc archive

	switch {
	case bytes.HasPrefix(header, magicZIP) || bytes.HasPrefix(header, magicZIPEnd):
		arc, err = newZipArchive(f, fi.Size())
	case bytes.HasPrefix(header, magic7z):
		arc, err = newSevenZipArchive(f, fi.Size())
	case bytes.HasPrefix(header, magicRAR):
		arc, err = newRarArchive(f)
	default:
		err = errNotArchive
	}

	if err != nil {
		f.Close()
		return nil, err
	}

	return arc, nil
}

type zipArchive struct {
	f afero.File
	r *zip.Reader
}

func newZipArchive(f afero.File, size int64) (archive, error) {
	r, err := zip.NewReader(f, size)
	if err != nil {
		return nil, fmt.Errorf("zip: %w", err)
	}
	return &zipArchive{f: f, r: r}, nil
}

func (arc *zipArchive) names() []string {
	var n []string
	for _, f := range arc.r.File {
		n = append(n, f.Name)
	}
	return n
}

func (arc *zipArchive) open(name string) (io.ReadCloser, error) {
	for _, f := range arc.r.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("zip: %s: %w", name, afero.ErrFileNotFound)
}

func (arc *zipArchive) close() error {
	return arc.f.Close()
}

type sevenZipArchive struct {
	f afero.File
	r *sevenzip.Reader
}

func newSevenZipArchive(f afero.File, size int64) (archive, error) {
	r, err := sevenzip.NewReader(f, size)
	if err != nil {
		return nil, fmt.Errorf("7z: %w", err)
	}
	return &sevenZipArchive{f: f, r: r}, nil
}

func (arc *sevenZipArchive) names() []string {
	var n []string
	for _, f := range arc.r.File {
		name := f.Name
		if f.FileInfo().IsDir() && !strings.HasSuffix(name, "/") {
			name += "/"
		}
		n = append(n, name)
	}
	return n
}

func (arc *sevenZipArchive) open(name string) (io.ReadCloser, error) {
	for _, f := range arc.r.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("7z: %s: %w", name, afero.ErrFileNotFound)
}

func (arc *sevenZipArchive) close() error {
	return arc.f.Close()
}

// rar archives can only be read sequentially. the list of names is made when
// the archive is opened and the archive is read again from the start for
// every call to open()
type rarArchive struct {
	f   afero.File
	ent []string
}

func newRarArchive(f afero.File) (archive, error) {
	arc := &rarArchive{f: f}

	r, err := arc.rewind()
	if err != nil {
		return nil, err
	}

	for {
		header, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rar: %w", err)
		}
		name := header.Name
		if header.IsDir && !strings.HasSuffix(name, "/") {
			name += "/"
		}
		arc.ent = append(arc.ent, name)
	}

	return arc, nil
}

func (arc *rarArchive) rewind() (*rardecode.Reader, error) {
	if _, err := arc.f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rar: %w", err)
	}
	r, err := rardecode.NewReader(arc.f)
	if err != nil {
		return nil, fmt.Errorf("rar: %w", err)
	}
	return r, nil
}

func (arc *rarArchive) names() []string {
	return arc.ent
}

func (arc *rarArchive) open(name string) (io.ReadCloser, error) {
	r, err := arc.rewind()
	if err != nil {
		return nil, err
	}
	for {
		header, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rar: %w", err)
		}
		if header.Name == name && !header.IsDir {
			return io.NopCloser(r), nil
		}
	}
	return nil, fmt.Errorf("rar: %s: %w", name, afero.ErrFileNotFound)
}

func (arc *rarArchive) close() error {
	return arc.f.Close()
}

// entry describes a name in an archive relative to a directory in the archive
type entry struct {
	name  string
	isDir bool
}

// children returns the immediate children of dir. dir is empty for the root of
// the archive. directories that are implied by the name of a file are
// included
func children(arc archive, dir string) []entry {
	var ent []entry
	seen := make(map[string]bool)

	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	for _, n := range arc.names() {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		rest := strings.TrimPrefix(n, prefix)
		if rest == "" {
			continue
		}

		name, _, isDir := strings.Cut(rest, "/")
		if seen[name] {
			continue
		}
		seen[name] = true
		ent = append(ent, entry{name: name, isDir: isDir})
	}

	return ent
}

// lookup returns true if name is a file in the archive. the second return
// value is true if name is a directory in the archive
func lookup(arc archive, name string) (bool, bool) {
	name = path.Clean(name)
	for _, n := range arc.names() {
		if n == name {
			return true, false
		}
		if strings.HasPrefix(n, name+"/") {
			return false, true
		}
	}
	return false, false
}
