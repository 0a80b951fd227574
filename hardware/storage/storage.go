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

package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/resources"
	"github.com/spf13/afero"
)

// StoreError is the pattern used for all errors returned by the storage
// package.
const StoreError = "storage: %s: %v"

// Store is a random access byte store. The board devices use it for the DIMM
// image, the backup memory and the network configuration.
type Store struct {
	f    afero.File
	name string
}

// Name returns the name of the file underlying the store.
func (st *Store) Name() string {
	return st.name
}

func (st *Store) String() string {
	return st.name
}

// Seek moves the position of the next read or write to the offset from the
// start of the store.
func (st *Store) Seek(offset int64) error {
	if _, err := st.f.Seek(offset, io.SeekStart); err != nil {
		return curated.Errorf(StoreError, st.name, err)
	}
	return nil
}

// ReadBytes reads len(p) bytes from the current position. Bytes beyond the
// end of the store are returned as zero. The number of bytes actually read
// from the store is returned.
func (st *Store) ReadBytes(p []byte) (int, error) {
	n, err := io.ReadFull(st.f, p)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return n, curated.Errorf(StoreError, st.name, err)
	}
	clear(p[n:])
	return n, nil
}

// WriteBytes writes p at the current position.
func (st *Store) WriteBytes(p []byte) error {
	if _, err := st.f.Write(p); err != nil {
		return curated.Errorf(StoreError, st.name, err)
	}
	return nil
}

// Flush commits the contents of the store to the filesystem.
func (st *Store) Flush() error {
	if err := st.f.Sync(); err != nil {
		return curated.Errorf(StoreError, st.name, err)
	}
	return nil
}

// Size returns the current size of the store.
func (st *Store) Size() (int64, error) {
	fi, err := st.f.Stat()
	if err != nil {
		return 0, curated.Errorf(StoreError, st.name, err)
	}
	return fi.Size(), nil
}

// ReadAt implements the io.ReaderAt interface.
func (st *Store) ReadAt(p []byte, off int64) (int, error) {
	return st.f.ReadAt(p, off)
}

// Close the store. Closing a nil store is not an error.
func (st *Store) Close() error {
	if st == nil || st.f == nil {
		return nil
	}
	err := st.f.Close()
	st.f = nil
	if err != nil {
		return curated.Errorf(StoreError, st.name, err)
	}
	return nil
}

// Dir is a directory of stores.
type Dir struct {
	fs   afero.Fs
	base string
}

// NewDir is the preferred method of initialisation for the Dir type. An
// empty base means the resources base path.
func NewDir(fs afero.Fs, base string) *Dir {
	if base == "" {
		base = resources.BasePath()
	}
	return &Dir{fs: fs, base: base}
}

// Fs returns the filesystem of the directory.
func (d *Dir) Fs() afero.Fs {
	return d.fs
}

// Path returns the full path of the named file.
func (d *Dir) Path(name string) (string, error) {
	p, err := resources.JoinPathBase(d.fs, d.base, name)
	if err != nil {
		return "", curated.Errorf(StoreError, name, err)
	}
	return p, nil
}

// Exists returns true if the named file exists.
func (d *Dir) Exists(name string) bool {
	ok, err := afero.Exists(d.fs, filepath.Join(d.base, name))
	return err == nil && ok
}

// Open opens an existing file for reading and writing.
func (d *Dir) Open(name string) (*Store, error) {
	p, err := d.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := d.fs.OpenFile(p, os.O_RDWR, 0o600)
	if err != nil {
		return nil, curated.Errorf(StoreError, name, err)
	}
	return &Store{f: f, name: p}, nil
}

// OpenOrCreate opens the named file for reading and writing. If the file does
// not exist it is created.
func (d *Dir) OpenOrCreate(name string) (*Store, error) {
	if d.Exists(name) {
		return d.Open(name)
	}
	return d.Create(name)
}

// Create the named file for reading and writing. Any existing file is
// truncated.
func (d *Dir) Create(name string) (*Store, error) {
	p, err := d.Path(name)
	if err != nil {
		return nil, err
	}
	f, err := d.fs.OpenFile(p, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, curated.Errorf(StoreError, name, err)
	}
	return &Store{f: f, name: p}, nil
}

// ReadFile returns the entire contents of the named file.
func (d *Dir) ReadFile(name string) ([]byte, error) {
	data, err := afero.ReadFile(d.fs, filepath.Join(d.base, name))
	if err != nil {
		return nil, curated.Errorf(StoreError, name, err)
	}
	return data, nil
}

// WriteFile replaces the contents of the named file.
func (d *Dir) WriteFile(name string, data []byte) error {
	p, err := d.Path(name)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(d.fs, p, data, 0o600); err != nil {
		return curated.Errorf(StoreError, name, err)
	}
	return nil
}
