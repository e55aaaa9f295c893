// Package colors decides whether output is highlighted and wraps text in SGR
// escape sequences when it is.
package colors

import (
	"os"

	"github.com/mattn/go-isatty"
)

const (
	reset = "\x1b[0m"
	bold  = "\x1b[1m"
	blue  = "\x1b[34m"
)

// Palette applies highlighting when Enabled is true and is a no-op otherwise.
type Palette struct {
	Enabled bool
}

// Env looks up an environment variable. os.LookupEnv satisfies it.
type Env func(key string) (string, bool)

// New resolves the color policy for stdout.
func New(plain bool) Palette {
	return Resolve(plain, os.LookupEnv, isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
}

// Resolve applies the policy: plain wins, then NO_COLOR, then FORCE_COLOR,
// then whether the output is a terminal. Set-but-empty variables count as set.
func Resolve(plain bool, env Env, terminal bool) Palette {
	if plain {
		return Palette{}
	}
	if _, ok := env("NO_COLOR"); ok {
		return Palette{}
	}
	if _, ok := env("FORCE_COLOR"); ok {
		return Palette{Enabled: true}
	}
	return Palette{Enabled: terminal}
}

// Bold wraps s in bold.
func (p Palette) Bold(s string) string {
	if !p.Enabled {
		return s
	}
	return bold + s + reset
}

// BlueBold wraps s in blue and bold.
func (p Palette) BlueBold(s string) string {
	if !p.Enabled {
		return s
	}
	return blue + bold + s + reset
}
