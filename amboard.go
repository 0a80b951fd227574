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


// Package main is the amboard command. It works on the store files of the
// Triforce peripheral boards and can serve the JVS I/O board over a real
// serial line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/amboard/amboard/environment"
	"github.com/amboard/amboard/hardware/preferences"
	"github.com/amboard/amboard/hardware/storage"
	"github.com/amboard/amboard/logger"
	prefsPkg "github.com/amboard/amboard/prefs"
	"github.com/amboard/amboard/statsview"
	"github.com/amboard/amboard/version"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app holds the state shared by the subcommands. The filesystem is replaced
// in tests.
type app struct {
	fs  afero.Fs
	out io.Writer

	basedir   string
	prefsFile string
	prefs     string
	stats     bool
	statsAddr string
	echo      bool

	env *environment.Environment
}

func main() {
	a := &app{
		fs:  afero.NewOsFs(),
		out: os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := a.root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amboard",
		Short: version.ApplicationName + " Triforce peripheral board tools",
		Long: `amboard works with the media board, backup memory and JVS serial
boards of the Triforce arcade system. The store files of every game are kept
in the base directory.`,
		Version:           version.Version().String(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.basedir, "basedir", "", "directory of the store files")
	f.StringVar(&a.prefsFile, "prefsfile", "", "preferences file")
	f.StringVar(&a.prefs, "prefs", "", "preference overrides (key::value; key::value)")
	f.BoolVar(&a.stats, "statsview", false, "run the runtime statistics server")
	f.StringVar(&a.statsAddr, "statsaddr", statsview.DefaultAddress, "address of the statistics server")
	f.BoolVar(&a.echo, "log", false, "echo the log to stdout")

	cmd.SetOut(a.out)
	cmd.SetErr(a.out)

	cmd.AddCommand(a.profileCmd())
	cmd.AddCommand(a.backupCmd())
	cmd.AddCommand(a.firmwareCmd())
	cmd.AddCommand(a.bridgeCmd())
	cmd.AddCommand(a.stateCmd())

	return cmd
}

// setup runs before every subcommand
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var prefs *preferences.Preferences
	var err error

	if a.prefs != "" {
		prefsPkg.PushCommandLineStack(a.prefs)
	}

	if a.prefsFile != "" {
		prefs, err = preferences.NewPreferencesFs(a.fs, a.prefsFile)
	} else {
		prefs, err = preferences.NewPreferences()
	}

	if a.prefs != "" {
		if unused := prefsPkg.PopCommandLineStack(); unused != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "* unused preferences: %s\n", unused)
		}
	}

	if err != nil {
		return fmt.Errorf("amboard: %w", err)
	}

	if a.basedir != "" {
		if err := prefs.BaseDir.Set(a.basedir); err != nil {
			return fmt.Errorf("amboard: %w", err)
		}
	}

	a.env, err = environment.NewEnvironment(environment.MainEmulation, prefs)
	if err != nil {
		return fmt.Errorf("amboard: %w", err)
	}
	a.env.SetAlertHandler(func(err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "* %v\n", err)
	})

	if a.echo || prefs.Echo.Get().(bool) {
		logger.SetEcho(logger.NewColorizer(cmd.OutOrStdout()), false)
	}

	if a.stats {
		statsview.Launch(cmd.OutOrStdout(), a.statsAddr)
	}

	return nil
}

// the directory of the store files
func (a *app) dir() *storage.Dir {
	return storage.NewDir(a.fs, a.env.Prefs.BaseDir.String())
}
