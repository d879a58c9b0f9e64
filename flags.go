package shellopts

// Flag direction characters as they appear on a command line: '-' enables,
// '+' disables.
const (
	FlagOn  byte = '-'
	FlagOff byte = '+'
)

// FlagChar returns the command-line character for a desired state.
func FlagChar(on bool) byte {
	if on {
		return FlagOn
	}
	return FlagOff
}

// FlagBool converts a flag direction character to the state it requests.
func FlagBool(c byte) bool {
	return c == FlagOn
}

// ValidFlag reports whether c is one of the two direction characters.
func ValidFlag(c byte) bool {
	return c == FlagOn || c == FlagOff
}

// ChangeFlag flips the single-letter option for onOrOff ('-' or '+'),
// returning the resulting value and the write outcome. Unknown letters and
// invalid direction characters report NotFound and BadValue without
// touching anything.
func (r *Registry) ChangeFlag(letter byte, onOrOff byte) (Value, Outcome) {
	if !ValidFlag(onOrOff) {
		return Invalid, BadValue
	}
	d := r.FindByLetter(letter)
	if d == nil {
		return Invalid, NotFound
	}
	out := r.Set(d, ClassShort, BoolValue(FlagBool(onOrOff)))
	return r.Get(d, ClassShort), out
}

// SetFlags builds the $- style string: the letters of every currently
// enabled single-letter option, in letter order.
func (r *Registry) SetFlags() string {
	letters := r.Letters()
	buf := make([]byte, 0, len(letters))
	for i := 0; i < len(letters); i++ {
		c := letters[i]
		d := r.FindByLetter(c)
		if d == nil {
			continue
		}
		if r.Get(d, ClassShort).Bool() {
			buf = append(buf, c)
		}
	}
	return string(buf)
}

// CurrentFlags captures the value of every single-letter option, indexed by
// the current Letters() order. Pair with RestoreFlags around a nested
// context that may flip flags.
func (r *Registry) CurrentFlags() []Value {
	letters := r.Letters()
	values := make([]Value, len(letters))
	for i := 0; i < len(letters); i++ {
		values[i] = r.Get(r.FindByLetter(letters[i]), ClassUnwind)
	}
	return values
}

// RestoreFlags writes back a capture from CurrentFlags. Letters registered
// or removed since the capture are tolerated: restoration is positional
// against the current Letters() order and stops at the shorter of the two.
func (r *Registry) RestoreFlags(values []Value) {
	letters := r.Letters()
	n := len(letters)
	if len(values) < n {
		n = len(values)
	}
	for i := 0; i < n; i++ {
		d := r.FindByLetter(letters[i])
		if d == nil {
			continue
		}
		if r.Get(d, ClassUnwind) != values[i] {
			r.Set(d, ClassUnwind, values[i])
		}
	}
}
