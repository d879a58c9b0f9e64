package shellopts

// Outcome is the closed result code produced by registry mutations and
// value writes. Ordering matters: everything up to and including Ignored
// propagates as success.
type Outcome int

const (
	// Changed means the value was updated.
	Changed Outcome = iota
	// Unchanged means the requested value equals the current value.
	Unchanged
	// Ignored means the write was silently discarded.
	Ignored
	// NotFound means no descriptor matched the supplied name or letter.
	NotFound
	// ReadOnly means the option is immutable outside privileged classes.
	ReadOnly
	// Forbidden means policy rejected a change to a genuinely new value.
	Forbidden
	// BadValue means a hook or guard rejected the value as malformed.
	BadValue
	// Duplicate means registration conflicted with a live descriptor.
	Duplicate
)

// Good reports whether the outcome propagates as success. User-facing
// commands decide their exit status from this single predicate rather than
// matching individual outcomes.
func (o Outcome) Good() bool {
	return o <= Ignored
}

// Bad is the complement of Good.
func (o Outcome) Bad() bool {
	return !o.Good()
}

// Exit statuses shared by the builtin command surfaces.
const (
	ExitSuccess = 0
	ExitAssign  = 1 // rejected assignment: read-only, forbidden, bad value
	ExitUsage   = 2 // usage errors: unknown option names or letters
)

// ExitCode maps the outcome onto a builtin exit status.
func (o Outcome) ExitCode() int {
	switch o {
	case Changed, Unchanged, Ignored:
		return ExitSuccess
	case NotFound, Duplicate:
		return ExitUsage
	}
	return ExitAssign
}

func (o Outcome) String() string {
	switch o {
	case Changed:
		return "changed"
	case Unchanged:
		return "unchanged"
	case Ignored:
		return "ignored"
	case NotFound:
		return "not found"
	case ReadOnly:
		return "read-only"
	case Forbidden:
		return "forbidden"
	case BadValue:
		return "bad value"
	case Duplicate:
		return "duplicate"
	}
	return "unknown"
}
