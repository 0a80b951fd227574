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

package random

import (
	"math/rand/v2"
	"sync/atomic"
	"time"
)

// the base seed for all random numbers
var baseSeed uint64

// initialise base seed
func init() {
	baseSeed = uint64(time.Now().UnixNano())
}

// Random is a random number generator owned by an emulation environment. Each
// call advances a counter that is mixed with the seed, so two instances with
// ZeroSeed set produce the same sequence.
type Random struct {
	calls atomic.Uint64

	// use zero seed rather than the random base seed. this is only really
	// useful for normalised instances where random numbers must be predictable
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom() *Random {
	return &Random{}
}

// new RNG from the standard library
func (rnd *Random) rand() *rand.Rand {
	n := rnd.calls.Add(1)
	if rnd.ZeroSeed {
		return rand.New(rand.NewPCG(0, n))
	}
	return rand.New(rand.NewPCG(baseSeed, n))
}

// Intn returns a non-negative random number in the half-open range [0,n)
func (rnd *Random) Intn(n int) int {
	return rnd.rand().IntN(n)
}

// Reset the sequence to the beginning.
func (rnd *Random) Reset() {
	rnd.calls.Store(0)
}
