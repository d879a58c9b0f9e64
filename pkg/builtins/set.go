// Package builtins implements the command-language surfaces that expose the
// option registry: the set builtin for single-letter flags and long
// options, and the shopt builtin for the extended option namespace.
package builtins

import (
	"fmt"
	"io"

	shellopts "github.com/goliatone/go-shellopts"
)

// Command evaluates builtin invocations against a registry. Stdout receives
// listings, Stderr receives diagnostics. Either writer may be left nil to
// discard that stream.
type Command struct {
	Registry *shellopts.Registry
	Stdout   io.Writer
	Stderr   io.Writer
}

func (c *Command) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return io.Discard
}

func (c *Command) stderr() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return io.Discard
}

// Set processes set builtin arguments: clusters of single-letter flags in
// either direction, and -o/+o with an optional long option name. A bare
// -o lists every set -o option with its state; a bare +o emits replayable
// set commands. "--" ends option processing. The exit status is the worst
// outcome observed.
func (c *Command) Set(args ...string) int {
	exit := shellopts.ExitSuccess

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if len(arg) < 2 || !shellopts.ValidFlag(arg[0]) {
			fmt.Fprintf(c.stderr(), "set: %s: not an option argument\n", arg)
			return shellopts.ExitUsage
		}

		direction := arg[0]
		for j := 1; j < len(arg); j++ {
			letter := arg[j]
			if letter != 'o' {
				if code := c.setFlag(direction, letter); code > exit {
					exit = code
				}
				continue
			}

			// -o / +o consumes the next argument as a long option name
			// when one is present.
			if j != len(arg)-1 {
				fmt.Fprintf(c.stderr(), "set: %s: o must end a flag cluster\n", arg)
				return shellopts.ExitUsage
			}
			if i+1 < len(args) && args[i+1] != "--" {
				i++
				if code := c.setLongOption(args[i], shellopts.FlagBool(direction)); code > exit {
					exit = code
				}
			} else {
				c.listSetO(direction)
			}
		}
	}
	return exit
}

func (c *Command) setFlag(direction, letter byte) int {
	_, out := c.Registry.ChangeFlag(letter, direction)
	if out == shellopts.NotFound {
		fmt.Fprintf(c.stderr(), "set: %s\n", shellopts.FlagError(direction, letter))
		return out.ExitCode()
	}
	if out.Bad() {
		fmt.Fprintf(c.stderr(), "set: %s\n", optionError(string(letter), out))
		return out.ExitCode()
	}
	return shellopts.ExitSuccess
}

func (c *Command) setLongOption(name string, on bool) int {
	d := c.Registry.FindByName(name)
	if d == nil || d.HideSetO {
		fmt.Fprintf(c.stderr(), "set: %s\n", optionError(name, shellopts.NotFound))
		return shellopts.NotFound.ExitCode()
	}
	out := c.Registry.Set(d, shellopts.ClassSetO, shellopts.BoolValue(on))
	if out.Bad() {
		fmt.Fprintf(c.stderr(), "set: %s\n", optionError(name, out))
	}
	return out.ExitCode()
}

// listSetO prints the set -o option namespace. The '-' direction shows the
// human-readable on/off table; '+' emits commands that recreate the current
// state when replayed.
func (c *Command) listSetO(direction byte) {
	style := shellopts.StyleOnOff
	if direction == shellopts.FlagOff {
		style = shellopts.StyleSetO
	}
	c.Registry.List(c.stdout(), shellopts.ClassSetO, 0, style)
}

func optionError(name string, out shellopts.Outcome) string {
	err := shellopts.OptionError{Name: name, Outcome: out}
	return err.Error()
}
