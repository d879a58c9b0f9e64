package shellopts

// Value is the integer cell backing one option. Most options are boolean
// and store 0 or 1, but read hooks may surface wider ranges.
type Value int

const (
	// Invalid is produced when a read cannot yield a value, including reads
	// through a nil descriptor.
	Invalid Value = -1
	// Unset marks storage that has not been initialized yet.
	Unset Value = -2
)

// Bool reports whether the value counts as enabled.
func (v Value) Bool() bool {
	return v > 0
}

// BoolValue converts a boolean into the canonical on/off values.
func BoolValue(on bool) Value {
	if on {
		return 1
	}
	return 0
}
