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

package environment

import (
	"github.com/amboard/amboard/hardware/preferences"
	"github.com/amboard/amboard/logger"
	"github.com/amboard/amboard/notifications"
	"github.com/amboard/amboard/random"
)

// Label is used to name the environment
type Label string

// MainEmulation is the label used for the main emulation
const MainEmulation = Label("")

// Environment is used to provide context for an emulation. Each Triforce
// machine has exactly one. The board controllers log through it, ask it for
// random numbers and send it their notifications.
type Environment struct {
	Label Label

	// any randomisation required by the emulation should be retreived through
	// this structure
	Random *random.Random

	// the emulation preferences
	Prefs *preferences.Preferences

	// log entries are made even when the environment is not the main
	// emulation
	Verbose bool

	notify notifications.Notify
}

// NewEnvironment is the preferred method of initialisation for the Environment type.
//
// The prefs argument can be nil and a new Preferences instance will be
// created. Providing a non-nil value allows the preferences of more than one
// machine to be synchronised.
func NewEnvironment(label Label, prefs *preferences.Preferences) (*Environment, error) {
	env := &Environment{
		Label:  label,
		Random: random.NewRandom(),
	}

	var err error

	if prefs == nil {
		prefs, err = preferences.NewPreferences()
		if err != nil {
			return nil, err
		}
	}

	env.Prefs = prefs

	return env, nil
}

// Normalise ensures the environment is in an known default state. Useful for
// testing where the initial state must be the same for every run of the test.
func (env *Environment) Normalise() {
	env.Random.ZeroSeed = true
	env.Random.Reset()
	env.Prefs.SetDefaults()
}

// IsMainEmulation returns true if the environment is intended for the main
// emulation in the system
func (env *Environment) IsMainEmulation() bool {
	return env.Label == MainEmulation
}

// IsEmulation checks the emulation label and returns true if it matches
func (env *Environment) IsEmulation(label Label) bool {
	return env.Label == label
}

// AllowLogging implements the logger.Permission interface.
func (env *Environment) AllowLogging() bool {
	return env.Verbose || env.IsMainEmulation()
}

// SetNotificationHandler sets the receiver of all notifications from the
// machine. A nil handler means notifications are logged and nothing else.
func (env *Environment) SetNotificationHandler(notify notifications.Notify) {
	env.notify = notify
}

// SetAlertHandler is a convenience function that sets a notification handler
// which forwards only NotifyAlert notices to the function.
func (env *Environment) SetAlertHandler(f func(error)) {
	env.notify = notifications.NotifyFunc(func(notice notifications.Notice, detail error) error {
		if notice == notifications.NotifyAlert && f != nil {
			f(detail)
		}
		return nil
	})
}

// Notify forwards the notice to the notification handler. The notice is
// always logged.
func (env *Environment) Notify(notice notifications.Notice, detail error) error {
	if detail != nil {
		logger.Logf(env, "notification", "%s: %v", notice, detail)
	} else {
		logger.Logf(env, "notification", "%s", notice)
	}
	if env.notify == nil {
		return nil
	}
	return env.notify.Notify(notice, detail)
}

// Alert is a user-visible notice about a condition the emulation has no
// response for. The caller continues with a neutral result.
func (env *Environment) Alert(err error) {
	_ = env.Notify(notifications.NotifyAlert, err)
}
