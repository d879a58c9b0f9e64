package shellopts

// GetFunc fully owns reads for a descriptor when present. The classification
// lets hooks distinguish, for example, mirror regeneration from user queries.
type GetFunc func(d *Descriptor, class Class) Value

// SetFunc fully owns writes for a descriptor when present, including any
// mutation and validation. Only a Changed result triggers mirror
// synchronization on the hook's behalf.
type SetFunc func(d *Descriptor, class Class, v Value) Outcome

// Descriptor describes one toggleable setting. Descriptors are registered
// by pointer and the pointer is the identity the registry keys idempotency
// on; fields must not change while the descriptor is registered.
type Descriptor struct {
	// Name is the long option name, unique across the registry when set.
	Name string
	// Letter is the single-character flag alias, unique when nonzero.
	Letter byte

	// Store is the value cell owned by this descriptor. Hooks may bypass it.
	Store *Value
	// Init is the default reference read only by bulk reinitialization.
	Init *Value

	Get GetFunc
	Set SetFunc

	// Guard is an optional rule expression consulted before an unprivileged,
	// non-startup write that would change the value. A falsy result rejects
	// the write as Forbidden; a failing expression rejects it as BadValue.
	Guard string

	// Help is rendered by the help display styles.
	Help string

	HideSetO  bool // omit from set -o listings
	HideShopt bool // omit from shopt listings

	MirrorSetO  bool // participates in the long-option mirror variable
	MirrorShopt bool // participates in the extended-option mirror variable

	ReadOnly     bool // reject every write outside privileged classes
	ForbidChange bool // after startup, reject writes that change the value
	IgnoreChange bool // silently discard writes without mutating
}

// mirrored reports whether the descriptor participates in any mirror.
func (d *Descriptor) mirrored() bool {
	return d.MirrorSetO || d.MirrorShopt
}
