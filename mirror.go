package shellopts

import (
	"os"
	"strings"
	"sync"

	"github.com/goliatone/go-shellopts/internal/colonlist"
)

// Mirror identifies one of the two environment mirror variables.
type Mirror int

const (
	// SetOMirror reflects the enabled long-option (set -o) settings.
	SetOMirror Mirror = iota
	// ShoptMirror reflects the enabled extended-option (shopt) settings.
	ShoptMirror
)

// Default mirror variable names, overridable via WithMirrorNames.
const (
	DefaultSetOMirrorName  = "SHELLOPTS"
	DefaultShoptMirrorName = "BASHOPTS"
)

// Binder is the variable surface the registry mirrors into. Implementations
// must allow Bind to overwrite read-only variables; the synchronizer
// re-marks them afterwards.
type Binder interface {
	// Lookup returns the current value and whether the variable was
	// inherited from the outside rather than bound this session.
	Lookup(name string) (value string, inherited bool)
	// Bind overwrites the variable.
	Bind(name, value string)
	// MarkReadOnly re-applies the read-only attribute after a rebind.
	MarkReadOnly(name string)
}

func (m Mirror) participates(d *Descriptor) bool {
	if m == SetOMirror {
		return d.MirrorSetO
	}
	return d.MirrorShopt
}

// surfaceClass is the builtin surface whose visibility rules the mirror
// inherits: an option hidden from set -o never appears in the set -o mirror.
func (m Mirror) surfaceClass() Class {
	if m == SetOMirror {
		return ClassSetO
	}
	return ClassShopt
}

func (r *Registry) mirrorName(m Mirror) string {
	if m == SetOMirror {
		return r.cfg.setOName
	}
	return r.cfg.shoptName
}

// SyncMirror rewrites the mirror variable as the colon-separated list of
// enabled participating option names, in registry name order with no
// duplicates or empty segments, then marks the variable read-only again.
// Without a configured binder this is a no-op.
func (r *Registry) SyncMirror(m Mirror) {
	binder := r.cfg.binder
	if binder == nil {
		return
	}

	hidden := hideForClass(m.surfaceClass())
	var names []string
	for d := range r.All(hidden) {
		if d.Name == "" || !m.participates(d) {
			continue
		}
		if !r.Get(d, ClassEnviron).Bool() {
			continue
		}
		names = append(names, d.Name)
	}

	name := r.mirrorName(m)
	binder.Bind(name, colonlist.Join(names))
	binder.MarkReadOnly(name)
}

// ImportMirror enables every known option named in the mirror variable,
// provided the variable was inherited rather than bound this session.
// Unknown names and rejected writes are skipped silently: tolerating them
// is what keeps option lists portable across host versions.
func (r *Registry) ImportMirror(m Mirror) {
	binder := r.cfg.binder
	if binder == nil {
		return
	}

	value, inherited := binder.Lookup(r.mirrorName(m))
	if !inherited || !listShaped(value) {
		return
	}

	hidden := hideForClass(m.surfaceClass())
	for _, name := range colonlist.Split(value) {
		d := r.FindByName(name)
		if d == nil || !m.participates(d) {
			continue
		}
		if hidden != nil && hidden(d) {
			continue
		}
		r.Set(d, ClassEnviron, BoolValue(true))
	}
}

// InitializeMirrors imports both mirrors when importEnvironment is set and
// then regenerates them, so the variables always reflect live state once
// the host finishes starting up.
func (r *Registry) InitializeMirrors(importEnvironment bool) {
	if importEnvironment {
		r.ImportMirror(SetOMirror)
		r.ImportMirror(ShoptMirror)
	}
	r.SyncMirror(SetOMirror)
	r.SyncMirror(ShoptMirror)
}

// listShaped reports whether value could plausibly be a colon list: no
// whitespace, no structural characters from array-style serializations.
func listShaped(value string) bool {
	if value == "" {
		return false
	}
	return !strings.ContainsAny(value, " \t\n()")
}

// ProcessEnv mirrors into the real process environment. Variables present
// before construction count as inherited until the first Bind.
type ProcessEnv struct {
	mu    sync.Mutex
	bound map[string]bool
}

// NewProcessEnv constructs a process-environment binder.
func NewProcessEnv() *ProcessEnv {
	return &ProcessEnv{bound: make(map[string]bool)}
}

// Lookup implements Binder.
func (p *ProcessEnv) Lookup(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	p.mu.Lock()
	bound := p.bound[name]
	p.mu.Unlock()
	return value, !bound
}

// Bind implements Binder.
func (p *ProcessEnv) Bind(name, value string) {
	p.mu.Lock()
	p.bound[name] = true
	p.mu.Unlock()
	_ = os.Setenv(name, value)
}

// MarkReadOnly implements Binder. The process environment carries no
// read-only attribute, so this is a no-op.
func (p *ProcessEnv) MarkReadOnly(string) {}

// MapBinder is an in-memory binder for hosts with their own variable
// tables, and for tests.
type MapBinder struct {
	mu        sync.Mutex
	values    map[string]string
	inherited map[string]bool
	readonly  map[string]bool
}

// NewMapBinder constructs an empty in-memory binder. Seed marks every
// supplied variable as inherited.
func NewMapBinder(seed map[string]string) *MapBinder {
	b := &MapBinder{
		values:    make(map[string]string, len(seed)),
		inherited: make(map[string]bool, len(seed)),
		readonly:  make(map[string]bool),
	}
	for name, value := range seed {
		b.values[name] = value
		b.inherited[name] = true
	}
	return b
}

// Lookup implements Binder.
func (b *MapBinder) Lookup(name string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	value, ok := b.values[name]
	if !ok {
		return "", false
	}
	return value, b.inherited[name]
}

// Bind implements Binder.
func (b *MapBinder) Bind(name, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[name] = value
	b.inherited[name] = false
	b.readonly[name] = false
}

// MarkReadOnly implements Binder.
func (b *MapBinder) MarkReadOnly(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readonly[name] = true
}

// ReadOnly reports whether name currently carries the read-only attribute.
func (b *MapBinder) ReadOnly(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readonly[name]
}
