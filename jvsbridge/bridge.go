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

package jvsbridge

import (
	"context"
	"errors"
	"io"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/environment"
	"github.com/amboard/amboard/hardware/amserial"
	"github.com/amboard/amboard/hardware/jvs"
	"github.com/amboard/amboard/logger"
)

// List of patterns for errors returned by the jvsbridge package.
const (
	PortError   = "jvsbridge: port: %v"
	FrameTooBig = "jvsbridge: frame of %d bytes is too large"
	NoReply     = "jvsbridge: no reply to frame"
)

const logTag = "jvsbridge"

// the GCAM command that carries JVS frames
const gcamJVS = 0x40

// the largest frame that fits in a GCAM request
const maxFrame = amserial.BufferSize - 4

// Runner is the serial interface of the baseboard. It is satisfied by
// amserial.Controller and triforce.Machine.
type Runner interface {
	RunBuffer(buf []byte, length int) int
}

// Bridge passes JVS frames between a serial line and the baseboard.
type Bridge struct {
	env    *environment.Environment
	runner Runner
	port   io.ReadWriter

	// frames read from the port by the reader goroutine
	frames chan []byte
	errs   chan error

	buf [amserial.BufferSize]byte
}

// NewBridge is the preferred method of initialisation for the Bridge type.
func NewBridge(env *environment.Environment, runner Runner, port io.ReadWriter) *Bridge {
	return &Bridge{
		env:    env,
		runner: runner,
		port:   port,
		frames: make(chan []byte, 16),
		errs:   make(chan error, 1),
	}
}

// Run the bridge until the context is cancelled or the port is closed. The
// end of the port's data is not an error.
func (b *Bridge) Run(ctx context.Context) error {
	go b.read(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-b.errs:
			// frames read before the error are served before the bridge stops
			if err := b.drain(); err != nil {
				return err
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return curated.Errorf(PortError, err)

		case f := <-b.frames:
			if err := b.serve(f); err != nil {
				return err
			}
		}
	}
}

func (b *Bridge) drain() error {
	for {
		select {
		case f := <-b.frames:
			if err := b.serve(f); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// read frames from the port and send them to the frames channel. runs in its
// own goroutine
func (b *Bridge) read(ctx context.Context) {
	var fr framer
	p := make([]byte, 64)
	for {
		n, err := b.port.Read(p)
		for _, v := range p[:n] {
			if f, ok := fr.push(v); ok {
				select {
				case b.frames <- f:
				case <-ctx.Done():
					return
				}
			}
		}
		if err != nil {
			b.errs <- err
			return
		}
	}
}

// serve a single frame. frames that the baseboard does not reply to are
// logged and dropped
func (b *Bridge) serve(frame []byte) error {
	reply, err := b.Exchange(frame)
	if err != nil {
		logger.Log(b.env, logTag, err)
		return nil
	}
	if _, err := b.port.Write(reply); err != nil {
		return curated.Errorf(PortError, err)
	}
	return nil
}

// Exchange passes an encoded frame to the baseboard and returns the encoded
// reply.
func (b *Bridge) Exchange(frame []byte) ([]byte, error) {
	if len(frame) > maxFrame {
		return nil, curated.Errorf(FrameTooBig, len(frame))
	}

	clear(b.buf[:])
	b.buf[0] = amserial.CmdCommand
	b.buf[1] = uint8(len(frame) + 2)
	b.buf[2] = gcamJVS
	b.buf[3] = uint8(len(frame))
	copy(b.buf[4:], frame)
	b.runner.RunBuffer(b.buf[:], len(frame)+4)

	// the reply is returned with the next request
	clear(b.buf[:])
	b.buf[0] = amserial.CmdCommand
	b.runner.RunBuffer(b.buf[:], 2)

	if b.buf[2] != gcamJVS {
		return nil, curated.Errorf(NoReply)
	}
	n := int(b.buf[3])
	if 4+n > len(b.buf) {
		return nil, curated.Errorf(NoReply)
	}

	reply := make([]byte, n)
	copy(reply, b.buf[4:4+n])
	return reply, nil
}

// framer finds frames in a stream of bytes. bytes before the first sync byte
// are ignored
type framer struct {
	p []byte
}

// push adds a byte to the current frame. the frame is returned once it is
// complete
func (fr *framer) push(v byte) ([]byte, bool) {
	if v == jvs.Sync {
		fr.p = fr.p[:0]
	} else if len(fr.p) == 0 {
		return nil, false
	}

	fr.p = append(fr.p, v)

	// the byte after an escape is needed before the frame can be complete
	if v == jvs.Escape {
		return nil, false
	}

	if len(fr.p) > maxFrame {
		fr.p = fr.p[:0]
		return nil, false
	}

	if _, err := jvs.Decode(fr.p); err != nil {
		if curated.Is(err, jvs.ShortFrame) {
			return nil, false
		}
		fr.p = fr.p[:0]
		return nil, false
	}

	f := make([]byte, len(fr.p))
	copy(f, fr.p)
	fr.p = fr.p[:0]
	return f, true
}
