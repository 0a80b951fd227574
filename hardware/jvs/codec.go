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

package jvs

import (
	"fmt"

	"github.com/amboard/amboard/curated"
)

// Special bytes.
const (
	Sync   = 0xe0
	Escape = 0xd0
)

// MaxMessage is the maximum size of an encoded message.
const MaxMessage = 0x80

// List of patterns for errors returned by the jvs package.
const (
	ChecksumMismatch = "jvs: checksum %02x but expected %02x"
	Overrun          = "jvs: message overrun"
	NoSync           = "jvs: frame does not start with sync byte (%02x)"
	ShortFrame       = "jvs: frame is too short (%d of %d bytes)"
)

// Frame is a decoded frame. The Payload excludes the length byte and the
// checksum.
type Frame struct {
	Node     uint8
	Length   uint8
	Payload  []byte
	Checksum uint8

	// the sum of the node, the length and the payload
	sum uint8
}

func (f Frame) String() string {
	return fmt.Sprintf("node %d: % 02x", f.Node, f.Payload)
}

// Check returns an error if the checksum of the frame is not correct.
func (f Frame) Check() error {
	if f.sum != f.Checksum {
		return curated.Errorf(ChecksumMismatch, f.Checksum, f.sum)
	}
	return nil
}

// Decode the frame at the start of p. Bytes after the end of the frame are
// ignored.
//
// The length byte counts the encoded payload bytes, escapes included, plus
// one for the checksum. An escape before the checksum is not counted.
func Decode(p []byte) (Frame, error) {
	if len(p) == 0 {
		return Frame{}, curated.Errorf(ShortFrame, 0, 1)
	}
	if p[0] != Sync {
		return Frame{}, curated.Errorf(NoSync, p[0])
	}

	i := 1
	next := func() (byte, bool) {
		if i >= len(p) {
			return 0, false
		}
		b := p[i]
		i++
		if b == Escape && i < len(p) {
			b = p[i] + 1
			i++
		}
		return b, true
	}

	node, ok := next()
	if !ok {
		return Frame{}, curated.Errorf(ShortFrame, len(p), 3)
	}
	length, ok := next()
	if !ok || length == 0 {
		return Frame{}, curated.Errorf(ShortFrame, len(p), 3)
	}

	f := Frame{
		Node:    node,
		Length:  length,
		Payload: make([]byte, 0, length),
	}
	f.sum = node + length

	end := i + int(length) - 1
	for i < end {
		b, ok := next()
		if !ok {
			return Frame{}, curated.Errorf(ShortFrame, len(p), end+1)
		}
		f.Payload = append(f.Payload, b)
		f.sum += b
	}

	f.Checksum, ok = next()
	if !ok {
		return Frame{}, curated.Errorf(ShortFrame, len(p), end+1)
	}

	return f, nil
}

// Message builds a reply frame. A Message can hold more than one frame, each
// one started with Start() and completed with End().
//
// The zero value is ready to use.
type Message struct {
	msg []byte

	// start of the current frame
	start int

	sum uint8
	err error
}

// Reset the message so that it can be reused.
func (m *Message) Reset() {
	m.msg = m.msg[:0]
	m.start = 0
	m.sum = 0
	m.err = nil
}

func (m *Message) push(b ...byte) {
	if len(m.msg)+len(b) > MaxMessage {
		m.fail()
		return
	}
	m.msg = append(m.msg, b...)
}

func (m *Message) fail() {
	if m.err == nil {
		m.err = curated.Errorf(Overrun)
	}
}

// Start a new frame for the node. The length byte is a placeholder until End()
// is called.
func (m *Message) Start(node uint8) {
	m.start = len(m.msg)
	m.sum = 0
	m.push(Sync)
	m.AddData(node, 0)
}

// AddData adds bytes to the current frame.
func (m *Message) AddData(p ...byte) {
	for _, b := range p {
		if b == Sync || b == Escape {
			m.push(Escape, b-1)
		} else {
			m.push(b)
		}
		m.sum += b
	}
}

// AddString adds the bytes of the string followed by a zero byte.
func (m *Message) AddString(s string) {
	m.AddData([]byte(s)...)
	m.AddData(0)
}

// End the current frame. The length byte is set to the number of encoded
// payload bytes plus one for the checksum. Escapes in the payload are counted.
func (m *Message) End() {
	if m.start+2 >= len(m.msg) {
		m.fail()
		return
	}
	n := uint8(len(m.msg) - m.start - 2)
	m.msg[m.start+2] = n
	m.sum += n

	sum := m.sum
	if sum == Sync || sum == Escape {
		m.push(Escape, sum-1)
	} else {
		m.push(sum)
	}
}

// Bytes returns the encoded message. The returned slice is only valid until
// the next change to the message.
func (m *Message) Bytes() []byte {
	return m.msg
}

// Len returns the number of bytes in the encoded message.
func (m *Message) Len() int {
	return len(m.msg)
}

// Err returns the first error encountered while building the message.
func (m *Message) Err() error {
	return m.err
}
