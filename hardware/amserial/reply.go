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

package amserial

// BufferSize is the size of the buffer exchanged with the serial interface.
const BufferSize = 0x80

// reply is the outgoing data for a single call to RunBuffer(). bytes beyond
// the end of the buffer are dropped
type reply struct {
	p       [BufferSize]byte
	n       int
	overrun bool
}

func (r *reply) reset() {
	*r = reply{}
}

func (r *reply) put(b ...byte) {
	for _, v := range b {
		if r.n >= len(r.p) {
			r.overrun = true
			return
		}
		r.p[r.n] = v
		r.n++
	}
}

// set changes a byte that has already been put
func (r *reply) set(i int, b byte) {
	if i < r.n {
		r.p[i] = b
	}
}

// reader consumes the incoming data. reads beyond the end of the data return
// zero
type reader struct {
	p []byte
	i int
}

func newReader(p []byte) *reader {
	return &reader{p: p}
}

func (r *reader) more() bool {
	return r.i < len(r.p)
}

func (r *reader) byte() uint8 {
	if r.i >= len(r.p) {
		r.i++
		return 0
	}
	b := r.p[r.i]
	r.i++
	return b
}

// peek returns the byte at offset n from the current position without
// consuming it
func (r *reader) peek(n int) uint8 {
	if r.i+n >= len(r.p) || r.i+n < 0 {
		return 0
	}
	return r.p[r.i+n]
}

func (r *reader) skip(n int) {
	r.i += n
}

// bytes consumes n bytes. the returned slice is always n bytes long
func (r *reader) bytes(n int) []byte {
	b := make([]byte, n)
	if r.i < len(r.p) {
		copy(b, r.p[r.i:])
	}
	r.i += n
	return b
}

// rest returns the unconsumed data
func (r *reader) rest() []byte {
	if r.i >= len(r.p) {
		return nil
	}
	return r.p[r.i:]
}
