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


package main

import (
	"fmt"
	"strings"

	"github.com/amboard/amboard/curated"
	"github.com/amboard/amboard/hardware/amserial"
	"github.com/amboard/amboard/hardware/backupmem"
	"github.com/amboard/amboard/hardware/input"
	"github.com/amboard/amboard/hardware/mediaboard"
	"github.com/amboard/amboard/hardware/memory"
	"github.com/amboard/amboard/hardware/profile"
	"github.com/amboard/amboard/hardware/triforce"
	"github.com/amboard/amboard/jvsbridge"
	"github.com/bradleyjkemp/memviz"
	"github.com/spf13/cobra"
)

func (a *app) profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <ID>",
		Short: "Print the behaviour profile of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := profile.Resolve(args[0])
			if !p.Known {
				a.env.Alert(curated.Errorf(triforce.UnknownGame, p.ID))
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "id:           %s\n", p.ID)
			fmt.Fprintf(w, "title:        %s\n", p.Title)
			fmt.Fprintf(w, "media:        %s\n", p.Media)
			fmt.Fprintf(w, "version:      %#08x\n", p.Version)
			fmt.Fprintf(w, "quirks:       %s\n", strings.Join(p.Quirks.Names(), " "))
			fmt.Fprintf(w, "board:        %s\n", p.BoardID)
			fmt.Fprintf(w, "capabilities: % 02x\n", p.Capabilities)
			if p.ConnectTimeout != 0 {
				fmt.Fprintf(w, "connect:      %dus\n", p.ConnectTimeout)
			}
			return nil
		},
	}
}

func (a *app) backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Work with backup memory files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "patch <ID>",
		Short: "Write the higher FIRM version into a backup memory file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.dir()
			name := backupmem.StoreName(args[0])

			data, err := dir.ReadFile(name)
			if err != nil {
				return err
			}
			if !backupmem.PatchFirm(data) {
				return fmt.Errorf("amboard: backup file too small (%s: %d bytes)", name, len(data))
			}
			if err := dir.WriteFile(name, data); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "patched %s\n", name)
			return nil
		},
	})

	return cmd
}

func (a *app) firmwareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "firmware <path>",
		Short: "Load a boot image or an archive containing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := mediaboard.LoadFirmware(a.fs, args[0], a.env.Prefs.Firmware.String())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes\n", args[0], len(data))
			return nil
		},
	}
}

func (a *app) bridgeCmd() *cobra.Command {
	var device string
	var game string
	var baud int

	cmd := &cobra.Command{
		Use:   "jvsbridge",
		Short: "Serve the JVS I/O board of a game on a serial line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			port, err := jvsbridge.OpenPort(device, baud)
			if err != nil {
				return err
			}
			defer port.Close()

			prof := profile.Resolve(game)
			c := amserial.NewController(a.env, prof, input.NewInput(), a.dir())

			fmt.Fprintf(cmd.OutOrStdout(), "serving %s on %s\n", prof, device)
			return jvsbridge.NewBridge(a.env, c, port).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&device, "device", "", "serial device")
	cmd.Flags().StringVar(&game, "game", "", "game ID")
	cmd.Flags().IntVar(&baud, "baud", jvsbridge.DefaultBaud, "line speed")
	_ = cmd.MarkFlagRequired("device")
	_ = cmd.MarkFlagRequired("game")

	return cmd
}

func (a *app) stateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "state <ID>",
		Short: "Write a Graphviz graph of the power-on state of a game's boards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := triforce.NewMachine(a.env, args[0], triforce.Collaborators{
				Mem: memory.NewRAM(a.env, 0),
				Fs:  a.fs,
			})
			if err != nil {
				return err
			}
			s := m.Snapshot()
			m.Shutdown()

			if output == "" {
				memviz.Map(cmd.OutOrStdout(), &s)
				return nil
			}

			f, err := a.fs.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			memviz.Map(f, &s)

			fmt.Fprintf(cmd.OutOrStdout(), "state written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file for the graph")

	return cmd
}
