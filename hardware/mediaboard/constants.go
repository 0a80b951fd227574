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

package mediaboard

// Top-level disc interface commands.
const (
	CmdInquiry = 0x12
	CmdRead    = 0xa8
	CmdWrite   = 0xaa
	CmdExecute = 0xab
)

// Results of ExecuteCommand().
const (
	Handled     = 0
	PassThrough = 1
)

// Mailbox command codes.
const (
	cmdUnknown000     = 0x000
	cmdGetDIMMSize    = 0x001
	cmdStatus         = 0x100
	cmdBootVersion    = 0x101
	cmdSystemFlags    = 0x102
	cmdSerial         = 0x103
	cmdUnknown104     = 0x104
	cmdNetworkReInit  = 0x204
	cmdTestHardware   = 0x301
	cmdInitLink       = 0x601
	cmdUnknown605     = 0x605
	cmdSetupLink      = 0x606
	cmdSearchDevices  = 0x607
	cmdUnknown608     = 0x608
	cmdUnknown614     = 0x614
	cmdNetworkVersion = 0x101
)

// Socket command codes.
const (
	sockAccept       = 0x401
	sockBind         = 0x402
	sockClose        = 0x403
	sockConnect      = 0x404
	sockGetIPbyDNS   = 0x405
	sockInetAddr     = 0x406
	sockIoctl        = 0x407
	sockListen       = 0x408
	sockRecv         = 0x409
	sockSend         = 0x40a
	sockSocket       = 0x40b
	sockSelect       = 0x40c
	sockShutdown     = 0x40d
	sockSetSockOpt   = 0x40e
	sockGetSockOpt   = 0x40f
	sockSetTimeOuts  = 0x410
	sockGetLastError = 0x411
	sockRouteAdd     = 0x412
	sockRouteDelete  = 0x413
	sockDHCP         = 0x414
	sockModifyIPAddr = 0x415
	sockRecvfrom     = 0x416
	sockSendto       = 0x417
	sockRecvDIMM     = 0x418
	sockSendDIMM     = 0x419
)

// Disc offsets of the regions served by the board.
const (
	offStatus       = 0x80000000
	offStatusMask   = 0x8fff0000
	offNetConfig    = 0x00000000
	offBackup       = 0x000006a0
	offFirmware     = 0x00400000
	offMagic1       = 0x00600000
	offMagic2       = 0x00700000
	offDIMM         = 0x1f000000
	offNetCommand   = 0x1f800200
	offMailboxV1    = 0x1f900000
	offNetBuffer1   = 0x1fa00000
	offNetBuffer5   = 0x1fb00000
	offNetBuffer2   = 0x1fd00000
	offExtra        = 0x1ffeffe0
	offMailboxV2    = 0x84000000
	offTrigger      = 0x84000040
	offFirmwareLog  = 0x84800000
	offExecute2     = 0x88000000
	offMailboxV2_2  = 0x89000000
	offNetCommand2  = 0x89040200
	offNetBuffer3   = 0x89100000
	offNetBuffer4   = 0x89180000
	offDIMM2        = 0xff000000
	offNetControl   = 0xffff0000
	offMaxDisc      = 0x57058000
	offSegaBootRead = 0x00100440
	offTestMode     = 0x2440
)

// Guest addresses used by the unlock patch and the test mode check.
const (
	addrKeyCheck  = 0x8131ecf4
	addrTestFlag  = 0x811fff00
	addrTestMagic = 0x8006bf70
	testMagic     = 0x0a536567
	instrBLR      = 0x4e800020
)

// Interrupt flags raised on the EXI line.
const (
	irqTrigger = 0x04
	irqNetwork = 0x10
)

// Media board status values for mailbox command 0x100.
const (
	statusLoadingGameProgram = 4
	statusLoadedGameProgram  = 5
)

// Media type codes written by the system flags command.
const (
	mediaGDROM = 1
	mediaNAND  = 2
)
