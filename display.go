package shellopts

import (
	"fmt"
	"io"
	"strings"
)

// Style selects how an option renders.
type Style int

const (
	// StyleOnOff prints "name<tab>on|off" in aligned columns.
	StyleOnOff Style = iota
	// StyleShort prints a replayable "set -X" / "set +X" line.
	StyleShort
	// StyleSetO prints a replayable "set -o name" / "set +o name" line.
	StyleSetO
	// StyleShopt prints a replayable "shopt -s name" / "shopt -u name" line.
	StyleShopt
	// StyleHelp prints the name, state, and flag alias on one line.
	StyleHelp
	// StyleHelpFull adds the indented help text.
	StyleHelpFull
	// StyleHelpUsage adds query and set recipes for every surface the
	// option participates in.
	StyleHelpUsage
)

// optFmt aligns names in the on/off listing styles.
const optFmt = "%-23s\t%s"

// needsName reports whether the style can only render named descriptors.
func (s Style) needsName() bool {
	return s != StyleShort
}

// Show renders one descriptor in the given style.
func (r *Registry) Show(w io.Writer, d *Descriptor, class Class, style Style) {
	if d == nil {
		return
	}
	v := r.Get(d, class)
	switch style {
	case StyleOnOff:
		fmt.Fprintf(w, optFmt+"\n", d.Name, onOff(v))
	case StyleShort:
		fmt.Fprintf(w, "set %c%c\n", FlagChar(v.Bool()), d.Letter)
	case StyleSetO:
		fmt.Fprintf(w, "set %co %s\n", FlagChar(v.Bool()), d.Name)
	case StyleShopt:
		fmt.Fprintf(w, "shopt -%c %s\n", shoptFlag(v.Bool()), d.Name)
	case StyleHelp:
		r.showHelp(w, d, class)
	case StyleHelpFull:
		r.showHelpFull(w, d, class)
	case StyleHelpUsage:
		r.showHelpUsage(w, d, class)
	}
}

// ShowUnless renders the descriptor unless its value's bit is in hideMask.
func (r *Registry) ShowUnless(w io.Writer, d *Descriptor, class Class, hideMask uint64, style Style) {
	if d == nil {
		return
	}
	if hiddenByMask(r.Get(d, class), hideMask) {
		return
	}
	r.Show(w, d, class, style)
}

// List renders every descriptor visible to class: per-class hiding first,
// then the name/letter availability the style needs, then the value-based
// hide mask.
func (r *Registry) List(w io.Writer, class Class, hideMask uint64, style Style) {
	hidden := hideForClass(class)
	for d := range r.All(hidden) {
		if style.needsName() {
			if d.Name == "" {
				continue
			}
		} else if d.Letter == 0 {
			continue
		}
		if hiddenByMask(r.Get(d, class), hideMask) {
			continue
		}
		r.Show(w, d, class, style)
	}
}

func hiddenByMask(v Value, hideMask uint64) bool {
	if hideMask == 0 || v < 0 || v > 63 {
		return false
	}
	return hideMask&(uint64(1)<<uint(v)) != 0
}

func onOff(v Value) string {
	if v.Bool() {
		return "on"
	}
	return "off"
}

func shoptFlag(on bool) byte {
	if on {
		return 's'
	}
	return 'u'
}

func (r *Registry) showHelp(w io.Writer, d *Descriptor, class Class) {
	v := r.Get(d, class)
	switch {
	case d.Name != "" && d.Letter != 0:
		fmt.Fprintf(w, optFmt+"\t%c%c\n", d.Name, onOff(v), FlagChar(v.Bool()), d.Letter)
	case d.Name != "":
		fmt.Fprintf(w, optFmt+"\n", d.Name, onOff(v))
	case d.Letter != 0:
		fmt.Fprintf(w, "%c%c\n", FlagChar(v.Bool()), d.Letter)
	default:
		fmt.Fprintf(w, "(%s)\n", "This option has no name")
	}
}

func (r *Registry) showHelpFull(w io.Writer, d *Descriptor, class Class) {
	fmt.Fprintf(w, "\n")
	r.showHelp(w, d, class)

	if d.ReadOnly {
		fmt.Fprintf(w, "\n\t(%s)\n", "This option is read-only.")
	}

	if d.Help != "" {
		for _, line := range strings.Split(strings.TrimRight(d.Help, "\n"), "\n") {
			fmt.Fprintf(w, "\t%s\n", line)
		}
	}
}

func (r *Registry) showHelpUsage(w io.Writer, d *Descriptor, class Class) {
	r.showHelpFull(w, d, class)

	fmt.Fprintf(w, "\n\tQuery:\n")
	if d.Name != "" {
		fmt.Fprintf(w, "\t\tshopt -q %s\n", d.Name)
		if d.MirrorShopt {
			fmt.Fprintf(w, "\t\t[[ :$%s: = *:%s:* ]]\n", r.cfg.shoptName, d.Name)
		}
		if d.MirrorSetO {
			fmt.Fprintf(w, "\t\t[[ :$%s: = *:%s:* ]]\n", r.cfg.setOName, d.Name)
		}
	}
	if d.Letter != 0 {
		fmt.Fprintf(w, "\t\t[[ $- = *'%c'* ]]\n", d.Letter)
	}

	if d.ReadOnly {
		return
	}

	fmt.Fprintf(w, "\n\tTurn on:\n")
	if d.Name != "" {
		fmt.Fprintf(w, "\t\tshopt -s %s\n", d.Name)
		if !d.HideSetO {
			fmt.Fprintf(w, "\t\tset -o %s\n", d.Name)
		}
	}
	if d.Letter != 0 {
		fmt.Fprintf(w, "\t\tset -%c\n", d.Letter)
	}

	fmt.Fprintf(w, "\n\tTurn off:\n")
	if d.Name != "" {
		fmt.Fprintf(w, "\t\tshopt -u %s\n", d.Name)
		if !d.HideSetO {
			fmt.Fprintf(w, "\t\tset +o %s\n", d.Name)
		}
	}
	if d.Letter != 0 {
		fmt.Fprintf(w, "\t\tset +%c\n", d.Letter)
	}
}
