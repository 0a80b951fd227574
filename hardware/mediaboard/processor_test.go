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

package mediaboard_test

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/environment"
	"github.com/amboard/amboard/hardware/interrupts"
	"github.com/amboard/amboard/hardware/mediaboard"
	"github.com/amboard/amboard/hardware/mediaboard/sockets"
	"github.com/amboard/amboard/hardware/memory"
	"github.com/amboard/amboard/hardware/preferences"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/hardware/storage"
	"github.com/amboard/amboard/test"
	"github.com/spf13/afero"
)

// stubHost is a Host where every operation succeeds immediately
type stubHost struct {
	next     int
	connects []sockets.Addr
	binds    []sockets.Addr
	sent     []byte
	polls    []time.Duration
}

func (h *stubHost) Socket(typ int) (int, error) {
	h.next++
	return 10 + h.next, nil
}

func (h *stubHost) Bind(fd int, addr sockets.Addr) error {
	h.binds = append(h.binds, addr)
	return nil
}

func (h *stubHost) Listen(fd int, backlog int) error { return nil }

func (h *stubHost) Accept(fd int) (int, sockets.Addr, error) {
	h.next++
	return 10 + h.next, sockets.Addr{IP: [4]byte{10, 0, 0, 9}, Port: 9000}, nil
}

func (h *stubHost) Connect(fd int, addr sockets.Addr) (bool, error) {
	h.connects = append(h.connects, addr)
	return false, nil
}

func (h *stubHost) SocketError(fd int) error { return nil }

func (h *stubHost) SetNonblock(fd int, nonblocking bool) error { return nil }

func (h *stubHost) Poll(fd int, r sockets.Readiness, timeout time.Duration) (bool, error) {
	h.polls = append(h.polls, timeout)
	return true, nil
}

func (h *stubHost) Send(fd int, p []byte) (int, error) {
	h.sent = append(h.sent, p...)
	return len(p), nil
}

func (h *stubHost) Recv(fd int, p []byte) (int, error) {
	return copy(p, "world"), nil
}

func (h *stubHost) SetSockOpt(fd int, level int, name int, value int) error { return nil }

func (h *stubHost) SetTimeouts(fd int, send time.Duration, recv time.Duration) error { return nil }

func (h *stubHost) Close(fd int) error { return nil }

// guest addresses used for DMA in the tests
const (
	dmaIn  = 0x80001000
	dmaOut = 0x80002000
)

type board struct {
	t *testing.T

	p      *mediaboard.Processor
	mem    *memory.RAM
	exi    *interrupts.Line
	host   *stubHost
	dir    *storage.Dir
	alerts []error
}

func newBoard(t *testing.T, id string) *board {
	t.Helper()

	prefs, err := preferences.NewPreferencesFs(afero.NewMemMapFs(), "/prefs")
	test.DemandSuccess(t, err)
	env, err := environment.NewEnvironment(environment.MainEmulation, prefs)
	test.DemandSuccess(t, err)

	b := &board{
		t:    t,
		exi:  interrupts.NewLine("exi", nil),
		host: &stubHost{},
		dir:  storage.NewDir(afero.NewMemMapFs(), "/board"),
	}
	env.SetAlertHandler(func(err error) {
		b.alerts = append(b.alerts, err)
	})
	b.mem = memory.NewRAM(env, 0)

	open := func(name string) mediaboard.Store {
		st, err := b.dir.OpenOrCreate(name)
		test.DemandSuccess(t, err)
		return st
	}

	prof := profile.Resolve(id)
	stores := mediaboard.Stores{
		NetConfig:  open("trinetcfg.bin"),
		NetControl: open("trinetctrl.bin"),
		Extra:      open("triextra.bin"),
		DIMM:       open("tridimm_" + id + ".bin"),
		Backup:     open("backup_" + id + ".bin"),
	}

	net := sockets.NewProxy(env, b.host, prof)
	b.p = mediaboard.NewProcessor(env, prof, b.mem, b.exi, stores, net)
	return b
}

// exec sends an unencrypted command. the offset must be a multiple of four
func (b *board) exec(op uint32, offset uint32, address uint32, length uint32) ([3]uint32, uint32) {
	cmd := [3]uint32{op, offset >> 2, 0}
	r := b.p.ExecuteCommand(&cmd, address, length)
	return cmd, r
}

func (b *board) write(offset uint32, data []byte) {
	b.t.Helper()
	b.mem.Write(dmaIn, data)
	_, r := b.exec(mediaboard.CmdWrite, offset, dmaIn, uint32(len(data)))
	test.ExpectEquality(b.t, r, uint32(mediaboard.Handled))
}

func (b *board) read(offset uint32, length int) []byte {
	b.t.Helper()
	_, r := b.exec(mediaboard.CmdRead, offset, dmaOut, uint32(length))
	test.ExpectEquality(b.t, r, uint32(mediaboard.Handled))
	p := make([]byte, length)
	b.mem.Read(dmaOut, p)
	return p
}

// words returns the little-endian encoding of the words
func words(w ...uint32) []byte {
	p := make([]byte, len(w)*4)
	for i, v := range w {
		binary.LittleEndian.PutUint32(p[i*4:], v)
	}
	return p
}

// command runs a legacy mailbox command. args are the inbound words from
// word 1 onwards
func (b *board) command(code uint16, args ...uint32) []byte {
	b.t.Helper()
	in := make([]uint32, 8)
	in[0] = uint32(code) << 16
	copy(in[1:], args)
	b.write(0x1f900020, words(in...))
	_, r := b.exec(mediaboard.CmdExecute, 0, 0, 0)
	test.ExpectEquality(b.t, r, uint32(mediaboard.Handled))
	return b.read(0x1f900000, 0x20)
}

func le32(p []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(p[i*4:])
}

func TestDIMMSize(t *testing.T) {
	b := newBoard(t, "SBGG")

	b.write(0x1f900020, words(0x00011234))
	_, r := b.exec(mediaboard.CmdExecute, 0, 0, 0)
	test.ExpectEquality(t, r, uint32(mediaboard.Handled))

	out := b.read(0x1f900000, 0x20)
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[0:]), uint16(0x1234))
	test.ExpectEquality(t, binary.LittleEndian.Uint16(out[2:]), uint16(0x8001))
	test.ExpectEquality(t, le32(out, 1), uint32(0x20000000))

	// the inbound region is cleared after the command
	mb := b.p.Mailbox()
	test.ExpectBytes(t, mb[0x20:0x40], make([]byte, 0x20))
	test.ExpectEquality(t, len(b.alerts), 0)
}

func TestLegacyCommands(t *testing.T) {
	b := newBoard(t, "SBGG")

	out := b.command(0x000)
	test.ExpectEquality(t, le32(out, 1), uint32(1))

	out = b.command(0x101)
	test.ExpectBytes(t, out[4:8], []byte{0x11, 0x03, 0x01, 0x00})
	test.ExpectEquality(t, le32(out, 2), uint32(1))
	test.ExpectEquality(t, le32(out, 4), uint32(0xff))

	out = b.command(0x102)
	test.ExpectBytes(t, out[4:10], []byte{1, 1, 1, 0, 0, 0})

	out = b.command(0x103)
	test.ExpectEquality(t, string(out[4:20]), "A89E-27A50364511")

	out = b.command(0x104)
	test.ExpectEquality(t, out[4], uint8(1))

	b.command(0x301, 0, 0, 0, dmaOut+0x100)
	test.ExpectEquality(t, b.mem.ReadUint32(dmaOut+0x100), uint32(0x54534554))
	test.ExpectEquality(t, b.mem.ReadUint32(dmaOut+0x104), uint32(0x004b4f20))

	// unknown commands reply with the completion bit only
	out = b.command(0x7ff, 1, 2, 3)
	test.ExpectEquality(t, le32(out, 0), uint32(0x87ff0000))
	test.ExpectEquality(t, le32(out, 1), uint32(0))

	test.ExpectEquality(t, len(b.alerts), 0)
}

func TestStatusProgress(t *testing.T) {
	b := newBoard(t, "SBGG")

	for i := uint32(0); i <= 20; i++ {
		out := b.command(0x100)
		test.ExpectEquality(t, le32(out, 1), uint32(4))
		test.ExpectEquality(t, le32(out, 2), 80+i)
	}

	out := b.command(0x100)
	test.ExpectEquality(t, le32(out, 1), uint32(5))
	test.ExpectEquality(t, le32(out, 2), uint32(100))
}

func TestStatusRegisters(t *testing.T) {
	b := newBoard(t, "SBGG")

	b.mem.Fill(dmaOut, 0x10, 0xee)
	test.ExpectBytes(t, b.read(0x80000000, 4), []byte{0x00, 0x01, 0xee, 0xee})

	test.ExpectBytes(t, b.read(0x80000040, 0x10), []byte{
		0x00, 0x00, 0x00, 0x20, 0x47, 0x43, 0x41, 0x4d,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	})

	b.mem.Fill(dmaOut, 0x10, 0xee)
	test.ExpectBytes(t, b.read(0x80000020, 4), []byte{0, 0, 0, 0})

	test.ExpectBytes(t, b.read(0x80000100, 4), []byte{0x1f, 0x1f, 0x1f, 0x00})
	test.ExpectBytes(t, b.read(0x80000120, 4), []byte{0xfa, 0x01, 0x00, 0x00})
	test.ExpectBytes(t, b.read(0x80000140, 4), []byte{0x01, 0x00, 0x00, 0x00})
	test.ExpectBytes(t, b.read(0x80000160, 4), []byte{0x00, 0x00, 0x1e, 0x00})
	test.ExpectBytes(t, b.read(0x800001a0, 4), []byte{0xff, 0xff, 0xff, 0xff})
	test.ExpectEquality(t, len(b.alerts), 0)

	b.read(0x80000004, 4)
	test.DemandEquality(t, len(b.alerts), 1)
	test.ExpectSuccess(t, curated.Is(b.alerts[0], mediaboard.UnhandledRead))
}

func TestUnlock(t *testing.T) {
	b := newBoard(t, "SBGG")

	b.mem.WriteUint32(0x8131ecf4, 0x12345678)
	b.mem.WriteUint32(0x8131ed74, 0x12345678)

	_, r := b.exec(mediaboard.CmdInquiry, 0, 0, 0)
	test.ExpectEquality(t, r, uint32(0x21484100))

	test.ExpectEquality(t, b.mem.ReadUint32(0x8131ecf4), uint32(0))
	test.ExpectEquality(t, b.mem.ReadUint32(0x8131ed74), uint32(0))
	test.ExpectEquality(t, b.mem.ReadUint32(0x813025c8), uint32(0x4e800020))
	test.ExpectEquality(t, b.mem.ReadUint32(0x81302674), uint32(0x4e800020))

	inv := b.mem.Invalidated()
	test.DemandEquality(t, len(inv), 2)
	test.ExpectEquality(t, inv[0], uint32(0x813025c8))
	test.ExpectEquality(t, inv[1], uint32(0x81302674))
	test.ExpectEquality(t, b.mem.Patches(), "0x8130095c OSReport\n0x813048b8 OSReport\n")

	// the patch is only applied while the check word is non-zero
	b.exec(mediaboard.CmdInquiry, 0, 0, 0)
	test.ExpectEquality(t, len(b.mem.Invalidated()), 0)
}

func TestKeys(t *testing.T) {
	b := newBoard(t, "SBKP")
	b.p.SetKeys(0x00010000, 5, 3)

	cmd := [3]uint32{0x00030012, 0, 0}
	r := b.p.ExecuteCommand(&cmd, 0, 0)
	test.ExpectEquality(t, r, uint32(0x29484100))
	test.ExpectEquality(t, cmd[0], uint32(0x12000000))
	test.ExpectEquality(t, cmd[1], uint32(20))

	s := b.p.Snapshot()
	test.ExpectEquality(t, s.Keys, mediaboard.Keys{A: 0x00020000, B: 10, C: 6})
}

func TestFirmware(t *testing.T) {
	b := newBoard(t, "SBGG")

	// nothing serves the read
	_, r := b.exec(mediaboard.CmdRead, 0x1000, dmaOut, 4)
	test.ExpectEquality(t, r, uint32(mediaboard.PassThrough))

	b.write(0x00600000, make([]byte, 0x20))
	test.ExpectSuccess(t, b.p.FirmwareMapped())

	b.write(0x00400010, []byte{1, 2, 3, 4})
	test.ExpectBytes(t, b.read(0x10, 6), []byte{1, 2, 3, 4, 0xff, 0xff})

	// segaboot adjusts the offset of a firmware read
	cmd, r := b.exec(mediaboard.CmdRead, 0x00100440, dmaOut, 4)
	test.ExpectEquality(t, r, uint32(mediaboard.Handled))
	test.ExpectSuccess(t, b.p.SegaBoot())
	test.ExpectEquality(t, cmd[1], uint32(0x420))

	// inquiry unmaps the firmware
	b.exec(mediaboard.CmdInquiry, 0, 0, 0)
	test.ExpectFailure(t, b.p.FirmwareMapped())
	test.ExpectFailure(t, b.p.SegaBoot())

	// the second magic write
	b.write(0x00700000, make([]byte, 0x20))
	test.ExpectSuccess(t, b.p.FirmwareMapped())

	// the DIMM image unmaps the firmware
	img := b.p.InitDIMM(0x2000)
	test.DemandEquality(t, len(img), 0x2000)
	test.ExpectFailure(t, b.p.FirmwareMapped())
	copy(img[0x1000:], "DISC")
	test.ExpectEquality(t, string(b.read(0x1000, 4)), "DISC")
	test.ExpectEquality(t, len(b.p.InitDIMM(0)), 0)
}

func TestTestMode(t *testing.T) {
	b := newBoard(t, "SBGG")

	b.mem.WriteUint32(0x811fff00, 1)
	b.mem.WriteUint32(0x8006bf70, 0x0a536567)
	b.exec(mediaboard.CmdRead, 0x2440, dmaOut, 4)
	test.ExpectFailure(t, b.p.FirmwareMapped())

	b.mem.WriteUint32(0x8006bf70, 0)
	test.ExpectBytes(t, b.read(0x2440, 4), []byte{0xff, 0xff, 0xff, 0xff})
	test.ExpectSuccess(t, b.p.FirmwareMapped())
}

func TestLoadFirmware(t *testing.T) {
	afs := afero.NewMemMapFs()

	small := []byte("segaboot image!!")
	test.DemandSuccess(t, afero.WriteFile(afs, "/roms/segaboot.gcm", small, 0o644))
	data, err := mediaboard.LoadFirmware(afs, "/roms/segaboot.gcm", "segaboot.gcm")
	test.DemandSuccess(t, err)
	test.ExpectBytes(t, data, small)

	b := newBoard(t, "SBGG")
	b.p.SetFirmware(data)
	b.p.FirmwareMap(true)
	test.ExpectEquality(t, string(b.read(0, len(small))), string(small))
	test.ExpectBytes(t, b.read(uint32(len(small)), 2), []byte{0xff, 0xff})

	large := make([]byte, mediaboard.FirmwareSize+16)
	test.DemandSuccess(t, afero.WriteFile(afs, "/roms/large.gcm", large, 0o644))
	data, err = mediaboard.LoadFirmware(afs, "/roms/large.gcm", "segaboot.gcm")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(data), mediaboard.FirmwareSize)

	_, err = mediaboard.LoadFirmware(afs, "/roms/missing.gcm", "segaboot.gcm")
	test.ExpectFailure(t, err)
}

func TestStores(t *testing.T) {
	b := newBoard(t, "SBGG")

	cfg := make([]byte, 0x80)
	copy(cfg, "network configuration")
	b.write(0, cfg)
	test.ExpectBytes(t, b.read(0, 0x80), cfg)

	data, err := b.dir.ReadFile("trinetcfg.bin")
	test.DemandSuccess(t, err)
	test.ExpectBytes(t, data, cfg)

	// every write to the backup region lands at the start of the store
	b.write(0x6a0, []byte{1, 2, 3, 4})
	b.write(0x1000, []byte{5, 6})
	data, err = b.dir.ReadFile("backup_SBGG.bin")
	test.DemandSuccess(t, err)
	test.ExpectBytes(t, data, []byte{5, 6, 3, 4})

	// the two DIMM windows share the store
	b.write(0x1f000100, []byte("dimm"))
	test.ExpectEquality(t, string(b.read(0xff000100, 4)), "dimm")

	extra := make([]byte, 0x20)
	extra[0] = 1
	b.write(0x1ffeffe0, extra)
	test.ExpectBytes(t, b.read(0x1ffeffe0, 0x20), extra)

	ctrl := make([]byte, 0x20)
	ctrl[0x1f] = 0x55
	b.write(0xffff0000, ctrl)
	test.ExpectBytes(t, b.read(0xffff0000, 0x20), ctrl)
}

func TestArenas(t *testing.T) {
	b := newBoard(t, "SBGG")

	// all network buffer windows share one arena
	b.write(0x1fa00000, []byte("shared"))
	test.ExpectEquality(t, string(b.read(0x89180000, 6)), "shared")
	test.ExpectEquality(t, string(b.read(0x1fb00000, 6)), "shared")
	test.ExpectEquality(t, string(b.read(0x1fd00000, 6)), "shared")

	// a read of the first network buffer is served by the command arena
	test.ExpectBytes(t, b.read(0x1fa00000, 6), make([]byte, 6))

	// the two command windows share one arena
	b.write(0x1f800200, []byte("command"))
	test.ExpectEquality(t, string(b.read(0x89040200, 7)), "command")
	test.ExpectEquality(t, len(b.alerts), 0)
}

func TestUnhandled(t *testing.T) {
	b := newBoard(t, "SBGG")

	b.exec(0x55, 0, 0, 0)
	test.DemandEquality(t, len(b.alerts), 1)
	test.ExpectSuccess(t, curated.Is(b.alerts[0], mediaboard.UnhandledCommand))

	b.exec(mediaboard.CmdExecute, 0x100, 0, 0)
	test.DemandEquality(t, len(b.alerts), 2)
	test.ExpectSuccess(t, curated.Is(b.alerts[1], mediaboard.UnhandledExecute))

	_, r := b.exec(mediaboard.CmdRead, 0x60000000, dmaOut, 4)
	test.ExpectEquality(t, r, uint32(mediaboard.Handled))
	test.DemandEquality(t, len(b.alerts), 3)
	test.ExpectSuccess(t, curated.Is(b.alerts[2], mediaboard.UnhandledRead))

	b.write(0x60000000, []byte{0})
	test.DemandEquality(t, len(b.alerts), 4)
	test.ExpectSuccess(t, curated.Is(b.alerts[3], mediaboard.UnhandledWrite))
}

func TestNetworkExecute(t *testing.T) {
	b := newBoard(t, "SBKP")

	b.write(0x89000200, words(0x01010007))

	b.mem.Fill(dmaOut, 0x20, 0xee)
	_, r := b.exec(mediaboard.CmdRead, 0x88000000, dmaOut, 0x20)
	test.ExpectEquality(t, r, uint32(mediaboard.Handled))

	p := make([]byte, 0x20)
	b.mem.Read(dmaOut, p)
	test.ExpectBytes(t, p, make([]byte, 0x20))
	test.ExpectSuccess(t, b.exi.IsSet())
	test.ExpectEquality(t, b.exi.Status(), uint8(0x10))

	mb := b.p.Mailbox()
	test.ExpectEquality(t, mb.U16(0), uint16(0x0007))
	test.ExpectEquality(t, mb.U16(2), uint16(0x8101))
	test.ExpectEquality(t, mb.Word(1), uint32(0x1305))
	test.ExpectEquality(t, mb.U8(6), uint8(1))
	test.ExpectEquality(t, mb.U8(0x204), uint8(1))
	test.ExpectEquality(t, mb.U32(0x200), uint32(0))

	// mailbox readable through the third window
	out := b.read(0x89000000, 8)
	test.ExpectEquality(t, le32(out, 1), uint32(0x1305))
}

func TestTrigger(t *testing.T) {
	b := newBoard(t, "SBKP")

	b.write(0x84000020, words(0x00010005))

	trigger := make([]byte, 0x60)
	trigger[0] = 1
	b.mem.Write(dmaIn, trigger)
	_, r := b.exec(mediaboard.CmdWrite, 0x84000040, dmaIn, 0x60)
	test.ExpectEquality(t, r, uint32(mediaboard.Handled))

	p := make([]byte, 0x60)
	b.mem.Read(dmaIn, p)
	test.ExpectEquality(t, le32(p, 0), uint32(0x80010005))
	test.ExpectEquality(t, le32(p, 1), uint32(0x1fff8000))
	test.ExpectEquality(t, le32(p, 8), uint32(0x00010005))
	test.ExpectEquality(t, le32(p, 16), uint32(0x80010005))
	test.ExpectEquality(t, le32(p, 17), uint32(0))
	test.ExpectEquality(t, b.exi.Status(), uint8(0x04))

	mb := b.p.Mailbox()
	test.ExpectBytes(t, mb[0x20:0x40], make([]byte, 0x20))

	// a write of any other value to the trigger address is a write to the
	// mailbox
	b.write(0x84000040, []byte{2, 3})
	mb = b.p.Mailbox()
	test.ExpectBytes(t, mb[0x40:0x42], []byte{2, 3})

	b.write(0x84000020, words(0x00200000))
	b.mem.Write(dmaIn, trigger)
	b.exec(mediaboard.CmdWrite, 0x84000040, dmaIn, 0x60)
	test.DemandEquality(t, len(b.alerts), 1)
	test.ExpectSuccess(t, curated.Is(b.alerts[0], mediaboard.UnhandledCommand))
}

func TestSocketCommands(t *testing.T) {
	b := newBoard(t, "SBGG")

	out := b.command(0x40b, 0, 2, 1)
	test.ExpectEquality(t, le32(out, 1), uint32(1))

	// sockaddr for 192.168.11.111:8080
	b.write(0x1f800300, []byte{0x00, 0x02, 0x1f, 0x90, 192, 168, 11, 111, 0, 0, 0, 0, 0, 0, 0, 0})
	out = b.command(0x404, 0, 1, 0x1f800300)
	test.ExpectEquality(t, le32(out, 1), uint32(0))
	test.DemandEquality(t, len(b.host.connects), 1)
	test.ExpectEquality(t, b.host.connects[0].String(), "127.0.0.1:8080")

	b.write(0x1fa00000, []byte("hello"))
	out = b.command(0x40a, 0, 1, 0x1fa00000, 5)
	test.ExpectEquality(t, le32(out, 1), uint32(5))
	test.ExpectEquality(t, string(b.host.sent), "hello")

	out = b.command(0x409, 0, 1, 0x1fb00010, 16)
	test.ExpectEquality(t, le32(out, 1), uint32(5))
	test.ExpectEquality(t, string(b.read(0x1fb00010, 5)), "world")

	// a receive buffer outside of the receive window
	out = b.command(0x409, 0, 1, 0x1000, 16)
	test.ExpectEquality(t, le32(out, 1), uint32(0xffffffff))

	b.write(0x1f800200, []byte("10.1.2.3\x00"))
	out = b.command(0x406)
	test.ExpectEquality(t, le32(out, 1), uint32(0x0a010203))

	out = b.command(0x411, 0, 1)
	test.ExpectEquality(t, le32(out, 1), uint32(70))

	out = b.command(0x414)
	test.ExpectEquality(t, le32(out, 1), uint32(0))

	out = b.command(0x403, 0, 1)
	test.ExpectEquality(t, le32(out, 1), uint32(0))
	test.ExpectEquality(t, len(b.p.Snapshot().Descriptors), 0)
}

func TestBind(t *testing.T) {
	b := newBoard(t, "SBGG")

	out := b.command(0x40b, 0, 2, 1)
	test.DemandEquality(t, le32(out, 1), uint32(1))

	// the bind address is always INADDR_ANY
	b.write(0x1f800300, []byte{0x00, 0x02, 0x1b, 0x58, 192, 168, 11, 1, 0, 0, 0, 0, 0, 0, 0, 0})
	out = b.command(0x402, 0, 1, 0x1f800300, 16)
	test.ExpectEquality(t, le32(out, 1), uint32(0))
	test.DemandEquality(t, len(b.host.binds), 1)
	test.ExpectEquality(t, b.host.binds[0].String(), "0.0.0.0:7000")

	// only AF_INET can be bound
	b.write(0x1f800300, []byte{0x00, 0x0a, 0x1b, 0x58, 192, 168, 11, 1, 0, 0, 0, 0, 0, 0, 0, 0})
	out = b.command(0x402, 0, 1, 0x1f800300, 16)
	test.ExpectEquality(t, le32(out, 1), uint32(0xffffffff))
	test.ExpectEquality(t, len(b.host.binds), 1)
}

func TestSelectClamp(t *testing.T) {
	b := newBoard(t, "SBHA")

	out := b.command(0x40b, 0, 2, 1)
	test.DemandEquality(t, le32(out, 1), uint32(1))

	// timeval of two seconds
	b.write(0x1f800400, []byte{0, 0, 0, 2, 0, 0, 0, 0})
	out = b.command(0x40c, 0, 2, 0x1f800400, 0, 0, 0x1f800500)
	test.ExpectEquality(t, le32(out, 1), uint32(1))

	test.ExpectBytes(t, b.read(0x1f800400, 8), []byte{0, 0, 0, 0, 0, 0, 0x07, 0x08})
	test.ExpectBytes(t, b.read(0x1f800500, 8), []byte{0, 0, 0, 2, 0, 0, 0, 0})
	test.DemandEquality(t, len(b.host.polls), 1)
	test.ExpectEquality(t, b.host.polls[0], 1800*time.Microsecond)

	// select without a descriptor set does not wait
	out = b.command(0x40c, 0, 2)
	test.ExpectEquality(t, le32(out, 1), uint32(0))
	test.ExpectEquality(t, len(b.host.polls), 1)
}

func TestSelect(t *testing.T) {
	b := newBoard(t, "SBGG")

	out := b.command(0x40b, 0, 2, 1)
	test.DemandEquality(t, le32(out, 1), uint32(1))

	// the timeout is not clamped for this game
	b.write(0x1f800400, []byte{0, 0, 0, 0, 0, 0, 0x27, 0x10})
	out = b.command(0x40c, 0, 2, 0, 0x1f800400, 0, 0x1f800500)
	test.ExpectEquality(t, le32(out, 1), uint32(1))
	test.DemandEquality(t, len(b.host.polls), 1)
	test.ExpectEquality(t, b.host.polls[0], 10*time.Millisecond)
}

func TestShutdown(t *testing.T) {
	b := newBoard(t, "SBGG")
	b.command(0x40b, 0, 2, 1)
	test.ExpectEquality(t, len(b.p.Snapshot().Descriptors), 1)
	b.p.Shutdown()
	test.ExpectEquality(t, len(b.p.Snapshot().Descriptors), 0)

	// stores are closed and requests for them are ignored
	b.write(0, make([]byte, 0x80))
}
