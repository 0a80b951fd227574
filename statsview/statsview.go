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

package statsview

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// DefaultAddress is used when Launch() is given the empty string.
const DefaultAddress = "localhost:12600"

const url = "/debug/statsview"

var launched sync.Once

// Launch a new goroutine running the statsview. Only the first call has any
// effect. The address of the viewer is written to output.
func Launch(output io.Writer, address string) {
	if address == "" {
		address = DefaultAddress
	}

	launched.Do(func() {
		go func() {
			viewer.SetConfiguration(viewer.WithAddr(address))
			mgr := statsview.New()
			mgr.Start()
		}()
		fmt.Fprintf(output, "stats server available at %s%s\n", address, url)
	})
}

// URL returns the full location of the viewer for an address.
func URL(address string) string {
	if address == "" {
		address = DefaultAddress
	}
	return fmt.Sprintf("http://%s%s", address, url)
}
