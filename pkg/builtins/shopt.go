package builtins

import (
	"fmt"

	shellopts "github.com/goliatone/go-shellopts"
)

// Value-based hide masks for the listing modes: bit n hides options whose
// current value is n.
const (
	hideDisabled uint64 = 1 << 0
	hideEnabled  uint64 = 1 << 1
)

type shoptMode struct {
	set   bool
	unset bool
	quiet bool
	print bool
	setO  bool
}

func (m shoptMode) class() shellopts.Class {
	if m.setO {
		return shellopts.ClassSetO
	}
	return shellopts.ClassShopt
}

func (m shoptMode) listStyle() shellopts.Style {
	if m.setO {
		if m.print {
			return shellopts.StyleSetO
		}
		return shellopts.StyleOnOff
	}
	if m.print {
		return shellopts.StyleShopt
	}
	return shellopts.StyleOnOff
}

// Shopt processes shopt builtin arguments. -s enables and -u disables the
// named options; without names they list the enabled or disabled subset.
// -q suppresses listings and reports state through the exit status, -p
// emits replayable commands, and -o redirects everything at the set -o
// namespace instead of the extended one. The exit status is the worst
// outcome observed, or 1 when a plain query finds a disabled option.
func (c *Command) Shopt(args ...string) int {
	var mode shoptMode

	i := 0
	for ; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			i++
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			break
		}
		for j := 1; j < len(arg); j++ {
			switch arg[j] {
			case 's':
				mode.set = true
			case 'u':
				mode.unset = true
			case 'q':
				mode.quiet = true
			case 'p':
				mode.print = true
			case 'o':
				mode.setO = true
			default:
				fmt.Fprintf(c.stderr(), "shopt: -%c: invalid option\n", arg[j])
				return shellopts.ExitUsage
			}
		}
	}

	if mode.set && mode.unset {
		fmt.Fprintf(c.stderr(), "shopt: cannot set and unset options simultaneously\n")
		return shellopts.ExitUsage
	}

	names := args[i:]
	if len(names) == 0 {
		return c.shoptList(mode)
	}
	if mode.set || mode.unset {
		return c.shoptChange(mode, names)
	}
	return c.shoptQuery(mode, names)
}

func (c *Command) shoptList(mode shoptMode) int {
	if mode.quiet {
		return shellopts.ExitSuccess
	}
	var mask uint64
	switch {
	case mode.set:
		mask = hideDisabled
	case mode.unset:
		mask = hideEnabled
	}
	c.Registry.List(c.stdout(), mode.class(), mask, mode.listStyle())
	return shellopts.ExitSuccess
}

func (c *Command) shoptChange(mode shoptMode, names []string) int {
	exit := shellopts.ExitSuccess
	class := mode.class()
	for _, name := range names {
		d := c.lookup(mode, name)
		if d == nil {
			fmt.Fprintf(c.stderr(), "shopt: %s\n", optionError(name, shellopts.NotFound))
			if code := shellopts.NotFound.ExitCode(); code > exit {
				exit = code
			}
			continue
		}
		out := c.Registry.Set(d, class, shellopts.BoolValue(mode.set))
		if out.Bad() {
			fmt.Fprintf(c.stderr(), "shopt: %s\n", optionError(name, out))
		}
		if code := out.ExitCode(); code > exit {
			exit = code
		}
	}
	return exit
}

// shoptQuery reports the state of the named options. All enabled yields
// success; any disabled yields failure. Output is suppressed under -q.
func (c *Command) shoptQuery(mode shoptMode, names []string) int {
	exit := shellopts.ExitSuccess
	class := mode.class()
	style := mode.listStyle()
	for _, name := range names {
		d := c.lookup(mode, name)
		if d == nil {
			fmt.Fprintf(c.stderr(), "shopt: %s\n", optionError(name, shellopts.NotFound))
			if code := shellopts.NotFound.ExitCode(); code > exit {
				exit = code
			}
			continue
		}
		if !c.Registry.Get(d, class).Bool() && exit == shellopts.ExitSuccess {
			exit = shellopts.ExitAssign
		}
		if !mode.quiet {
			c.Registry.Show(c.stdout(), d, class, style)
		}
	}
	return exit
}

// lookup resolves a name while honoring the per-surface hiding the mode
// implies, so hidden options stay invisible to the redirected namespace.
func (c *Command) lookup(mode shoptMode, name string) *shellopts.Descriptor {
	d := c.Registry.FindByName(name)
	if d == nil {
		return nil
	}
	if mode.setO && d.HideSetO {
		return nil
	}
	if !mode.setO && d.HideShopt {
		return nil
	}
	return d
}
