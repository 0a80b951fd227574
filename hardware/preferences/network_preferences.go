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
	"net/netip"

	"github.com/amboard/amboard/prefs"
)

// Default rewrite destinations for the addresses the guest software connects
// to. The guests expect a fixed cabinet network.
const (
	// 192.168.11.111: the companion cabinet of a linked game
	DefaultCompanion = "127.0.0.1"

	// 192.168.29.0/24: the NAMCO camera
	DefaultCamera = "127.0.0.1"

	// 192.168.13.1: the Key of Avalon satellite server
	DefaultAvalon = "10.0.0.45"
)

// NetworkPreferences are the destination addresses used by the socket proxy
// when it rewrites a guest connect.
type NetworkPreferences struct {
	Companion prefs.String
	Camera    prefs.String
	Avalon    prefs.String
}

func newNetworkPreferences() (*NetworkPreferences, error) {
	p := &NetworkPreferences{}

	ipv4 := func(v prefs.Value) error {
		a, err := netip.ParseAddr(v.(string))
		if err != nil {
			return err
		}
		if !a.Is4() {
			return fmt.Errorf("not an IPv4 address (%v)", v)
		}
		return nil
	}

	p.Companion.SetHookPre(ipv4)
	p.Camera.SetHookPre(ipv4)
	p.Avalon.SetHookPre(ipv4)

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *NetworkPreferences) SetDefaults() {
	_ = p.Companion.Set(DefaultCompanion)
	_ = p.Camera.Set(DefaultCamera)
	_ = p.Avalon.Set(DefaultAvalon)
}

// Addr returns the parsed address of the string preference. The value has
// already been validated by the preference hook.
func Addr(p *prefs.String) [4]byte {
	a, err := netip.ParseAddr(p.String())
	if err != nil || !a.Is4() {
		return [4]byte{127, 0, 0, 1}
	}
	return a.As4()
}
