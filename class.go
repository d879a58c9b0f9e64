package shellopts

// Class identifies why a read or write is being attempted. Visibility
// filtering during enumeration and permission checks during writes both key
// off the classification.
type Class int

const (
	// ClassAny matches every visibility filter and carries no privilege.
	ClassAny Class = iota
	// ClassShort marks writes from single-letter flags (set -X / set +X).
	ClassShort
	// ClassSetO marks the long-option builtin surface (set -o NAME).
	ClassSetO
	// ClassShopt marks the extended-option builtin surface (shopt -s NAME).
	ClassShopt
	// ClassArgv marks options parsed from argv while the host starts up.
	ClassArgv
	// ClassEnviron marks options imported from, or exported to, the
	// environment mirror variables.
	ClassEnviron
	// ClassUnwind marks automatic restoration while a scope unwinds.
	ClassUnwind
	// ClassReinit marks a full reinitialization from default references.
	ClassReinit
	// ClassUnload marks reads performed while an extension module unloads.
	ClassUnload
)

// Privileged reports whether the class may bypass read-only protection.
// Restoration-style classes only reinstate state that was legal once.
func (c Class) Privileged() bool {
	switch c {
	case ClassUnwind, ClassReinit, ClassUnload:
		return true
	}
	return false
}

// Startup reports whether the class originates before the first command
// runs. Privileged classes rank at least as high for policy purposes.
func (c Class) Startup() bool {
	switch c {
	case ClassArgv, ClassEnviron:
		return true
	}
	return c.Privileged()
}

func (c Class) String() string {
	switch c {
	case ClassAny:
		return "any"
	case ClassShort:
		return "short"
	case ClassSetO:
		return "set_o"
	case ClassShopt:
		return "shopt"
	case ClassArgv:
		return "argv"
	case ClassEnviron:
		return "environ"
	case ClassUnwind:
		return "unwind"
	case ClassReinit:
		return "reinit"
	case ClassUnload:
		return "unload"
	}
	return "unknown"
}

// hides reports whether d is invisible to surfaces driven by class c.
// ClassAny (and the startup/privileged classes) see everything.
func (c Class) hides(d *Descriptor) bool {
	switch c {
	case ClassShort:
		return d.Letter == 0
	case ClassSetO:
		return d.HideSetO
	case ClassShopt:
		return d.HideShopt
	}
	return false
}
