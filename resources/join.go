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

package resources

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// the base path for all resources. note that we don't use this value directly
// except in the BasePath() function. that function should be used instead.
const baseResourcePath = ".amboard"

// BasePath returns baseResourcePath if it exists in the current directory.
// Otherwise the path is in the user's configuration directory.
func BasePath() string {
	if _, err := os.Stat(baseResourcePath); err == nil {
		return baseResourcePath
	}

	cnf, err := os.UserConfigDir()
	if err != nil {
		return baseResourcePath
	}
	return filepath.Join(cnf, baseResourcePath[1:])
}

// JoinPath prepends the supplied path with the base path, if required.
//
// The function creates all folders necessary to reach the end of sub-path on
// the filesystem. It does not otherwise touch or create the file.
func JoinPath(afs afero.Fs, path ...string) (string, error) {
	return JoinPathBase(afs, BasePath(), path...)
}

// JoinPathBase is the same as JoinPath except that the base path is
// specified. An empty base means the path is used as it is.
func JoinPathBase(afs afero.Fs, base string, path ...string) (string, error) {
	p := filepath.Join(path...)

	// do not prepend base path if it is already present
	if base != "" && !strings.HasPrefix(p, base) {
		p = filepath.Join(base, p)
	}

	// check if path already exists
	if _, err := afs.Stat(p); err == nil {
		return p, nil
	}

	if err := afs.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return "", err
	}

	return p, nil
}

// UniqueFilename creates a filename that (assuming a functioning clock) should
// not collide with any existing file. Note that the function does not test for
// this.
//
// Format of returned string is:
//
//	prepend_gameid_YYYYMMDD_HHMMSS
//
// If there is no game ID the returned string will be of the format:
//
//	prepend_YYYYMMDD_HHMMSS
func UniqueFilename(prepend string, gameID string) string {
	n := time.Now()
	timestamp := fmt.Sprintf("%04d%02d%02d_%02d%02d%02d", n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second())

	c := strings.TrimSpace(gameID)
	if len(c) > 0 {
		return fmt.Sprintf("%s_%s_%s", prepend, c, timestamp)
	}
	return fmt.Sprintf("%s_%s", prepend, timestamp)
}
