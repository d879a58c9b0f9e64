package shellopts

import (
	"context"

	"github.com/goliatone/go-shellopts/pkg/activity"
)

// Get resolves the current value of d. A read hook, when present, fully
// owns the result; otherwise the storage cell is returned directly. A nil
// descriptor yields Invalid rather than a crash.
func (r *Registry) Get(d *Descriptor, class Class) Value {
	if d == nil {
		return Invalid
	}
	if d.Get != nil {
		return d.Get(d, class)
	}
	if d.Store != nil {
		return *d.Store
	}
	return Invalid
}

// Set applies value to d under the supplied classification.
//
// A write hook, when present, owns all mutation and validation; only a
// Changed result from the hook triggers mirror synchronization on its
// behalf. Without a hook the restriction ladder applies in order:
// unconditional read-only, change-restricted-after-startup, then silent
// ignore. Surviving writes hit storage and regenerate each participating
// mirror when the stored value actually changed.
func (r *Registry) Set(d *Descriptor, class Class, value Value) Outcome {
	if d == nil {
		return NotFound
	}

	old := r.Get(d, class)
	out := r.setValue(d, class, old, value)

	if out == Changed && r.cfg.hooks.Enabled() {
		input := r.eventInput(d, class, out)
		input.OldValue = int(old)
		input.NewValue = int(value)
		_ = r.cfg.hooks.Notify(context.Background(), activity.BuildOptionChangedEvent(input))
	}
	return out
}

func (r *Registry) setValue(d *Descriptor, class Class, old, value Value) Outcome {
	if d.Set != nil {
		out := d.Set(d, class, value)
		if out == Changed {
			// Only exactly Changed; never Unchanged or Ignored.
			r.syncMirrorsFor(d)
		}
		return out
	}

	if d.ReadOnly && !class.Privileged() {
		return ReadOnly
	}
	if d.ForbidChange && !class.Startup() {
		if value == old {
			return Unchanged
		}
		if d.IgnoreChange {
			return Ignored
		}
		return Forbidden
	}
	if d.IgnoreChange {
		return Ignored
	}

	if d.Guard != "" && !class.Startup() && value != old {
		if out := r.evalGuard(d, class, old, value); out.Bad() {
			return out
		}
	}

	changed := d.Store != nil && *d.Store != value
	if d.Store != nil {
		*d.Store = value
	}
	if changed {
		r.syncMirrorsFor(d)
	}
	return Changed
}

func (r *Registry) syncMirrorsFor(d *Descriptor) {
	if d.MirrorSetO {
		r.SyncMirror(SetOMirror)
	}
	if d.MirrorShopt {
		r.SyncMirror(ShoptMirror)
	}
}
