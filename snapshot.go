package shellopts

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is a point-in-time capture of every single-letter option,
// suitable for restoring after a nested evaluation context unwinds.
type Snapshot struct {
	// ID uniquely identifies the capture for audit trails.
	ID string
	// Letters holds the letter enumeration at capture time; Values is
	// index-aligned with it.
	Letters string
	Values  []Value
	TakenAt time.Time
}

// Capture records the current value of every single-letter option.
func (r *Registry) Capture() Snapshot {
	letters := r.Letters()
	values := make([]Value, len(letters))
	for i := 0; i < len(letters); i++ {
		values[i] = r.Get(r.FindByLetter(letters[i]), ClassUnwind)
	}
	return Snapshot{
		ID:      uuid.NewString(),
		Letters: letters,
		Values:  values,
		TakenAt: time.Now().UTC(),
	}
}

// Restore writes a snapshot back. Options deregistered since the capture
// are skipped; options registered since keep their current value. Matching
// is by letter, so the snapshot survives registry churn in between.
func (r *Registry) Restore(s Snapshot) {
	n := len(s.Letters)
	if len(s.Values) < n {
		n = len(s.Values)
	}
	for i := 0; i < n; i++ {
		d := r.FindByLetter(s.Letters[i])
		if d == nil {
			continue
		}
		if r.Get(d, ClassUnwind) != s.Values[i] {
			r.Set(d, ClassUnwind, s.Values[i])
		}
	}
}
