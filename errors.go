package shellopts

import "fmt"

// OptionError pairs a failed option operation with the token the caller
// used to reach it, for builtin-style diagnostics.
type OptionError struct {
	Name    string
	Outcome Outcome
}

// Error implements error.
func (e *OptionError) Error() string {
	switch e.Outcome {
	case NotFound:
		return fmt.Sprintf("%s: invalid option name", e.Name)
	case ReadOnly:
		return fmt.Sprintf("%s: readonly option", e.Name)
	case Forbidden:
		return fmt.Sprintf("%s: cannot change the value of this option", e.Name)
	case BadValue:
		return fmt.Sprintf("%s: invalid value", e.Name)
	case Duplicate:
		return fmt.Sprintf("%s: option already registered", e.Name)
	default:
		return fmt.Sprintf("%s: %s", e.Name, e.Outcome)
	}
}

// FlagError formats the diagnostic for an unrecognized single-letter flag,
// keeping the direction character the caller typed.
func FlagError(direction, letter byte) string {
	return fmt.Sprintf("%c%c: invalid option", direction, letter)
}
