package shellopts

import (
	"context"
	"iter"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-shellopts/pkg/activity"
)

// maxLetters bounds the direct-indexed short-flag table.
const maxLetters = 256

// Option configures a Registry on construction.
type Option func(*registryConfig)

type registryConfig struct {
	evaluator Evaluator
	cache     ProgramCache
	functions *FunctionRegistry
	logger    GuardLogger
	binder    Binder
	setOName  string
	shoptName string
	hooks     activity.Hooks
}

// WithBinder wires the environment surface the registry mirrors into.
// Without a binder the synchronizer is inert.
func WithBinder(b Binder) Option {
	return func(cfg *registryConfig) {
		cfg.binder = b
	}
}

// WithMirrorNames overrides the mirror variable names. Defaults are
// SHELLOPTS for the long-option mirror and BASHOPTS for the extended one.
func WithMirrorNames(setO, shopt string) Option {
	return func(cfg *registryConfig) {
		if setO != "" {
			cfg.setOName = setO
		}
		if shopt != "" {
			cfg.shoptName = shopt
		}
	}
}

// WithActivityHooks attaches lifecycle hooks notified on registration,
// deregistration, and effective value changes. Hooks are cloned and nil
// entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *registryConfig) {
		cfg.hooks = normalized
	}
}

// Registry is the live, growable collection of option descriptors: a
// name-sorted sequence searched by binary search, a direct-indexed table
// keyed by letter, and a lazily rebuilt cache of all known letters. Both
// indexes always agree on descriptor identity.
type Registry struct {
	mu         sync.RWMutex
	ordered    []*Descriptor // name-sorted; holds only named descriptors
	letters    [maxLetters]*Descriptor
	letterEnum string // cached ascending letter string
	haveEnum   bool
	cfg        registryConfig
}

// New constructs an empty registry.
func New(opts ...Option) *Registry {
	cfg := registryConfig{
		setOName:  DefaultSetOMirrorName,
		shoptName: DefaultShoptMirrorName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Registry{cfg: cfg}
}

// search locates name in the ordered sequence, or the index where it should
// be inserted. Callers hold r.mu.
func (r *Registry) search(name string) (int, bool) {
	i := sort.Search(len(r.ordered), func(i int) bool {
		return r.ordered[i].Name >= name
	})
	if i < len(r.ordered) && r.ordered[i].Name == name {
		return i, true
	}
	return i, false
}

// Register adds d to both indexes. A name or letter already owned by a
// different live descriptor yields Duplicate and leaves the registry
// untouched; re-registering the same descriptor is an Unchanged no-op.
func (r *Registry) Register(d *Descriptor) Outcome {
	if d == nil {
		return BadValue
	}

	r.mu.Lock()
	out := r.registerLocked(d)
	r.mu.Unlock()

	if out == Changed {
		r.notify(activity.BuildOptionRegisteredEvent(r.eventInput(d, ClassAny, Changed)))
	}
	return out
}

func (r *Registry) registerLocked(d *Descriptor) Outcome {
	reName, reLetter := false, false

	idx := -1
	if d.Name != "" {
		i, match := r.search(d.Name)
		if match {
			if r.ordered[i] != d {
				return Duplicate
			}
			reName = true
		}
		idx = i
	}

	letter := d.Letter
	if letter != 0 {
		if old := r.letters[letter]; old != nil {
			if old != d {
				// A descriptor re-registering under its own name must not
				// find its letter owned by someone else; both indexes are
				// supposed to agree on identity.
				assertf(!reName, "descriptor %q re-registered while letter %q belongs to %q",
					d.Name, string(letter), old.Name)
				return Duplicate
			}
			reLetter = true
			letter = 0 // already indexed, nothing further to do
		}
	}

	nameDone := d.Name == "" || reName
	letterDone := d.Letter == 0 || reLetter
	if nameDone && letterDone {
		// Re-adding the same entry, or an entry with nothing to index.
		return Unchanged
	}

	if d.Name != "" && !reName {
		r.ordered = append(r.ordered, nil)
		copy(r.ordered[idx+1:], r.ordered[idx:])
		r.ordered[idx] = d
	}

	if letter != 0 {
		r.letters[letter] = d
		r.invalidateLettersLocked()
	}
	return Changed
}

// Deregister removes every occurrence of d from both indexes. It is safe to
// call with a descriptor that was never registered. When a mirrored
// descriptor leaves the registry while enabled, the affected mirror
// variables are regenerated without it.
func (r *Registry) Deregister(d *Descriptor) Outcome {
	if d == nil {
		return Unchanged
	}

	r.mu.Lock()
	removed := false
	for c := 0; c < maxLetters; c++ {
		if r.letters[c] == d {
			r.letters[c] = nil
			removed = true
		}
	}
	for i := 0; i < len(r.ordered); i++ {
		if r.ordered[i] == d {
			r.ordered = append(r.ordered[:i], r.ordered[i+1:]...)
			removed = true
			i--
		}
	}
	if removed {
		r.invalidateLettersLocked()
	}
	r.mu.Unlock()

	if !removed {
		return Unchanged
	}

	if d.mirrored() && r.Get(d, ClassUnload).Bool() {
		if d.MirrorSetO {
			r.SyncMirror(SetOMirror)
		}
		if d.MirrorShopt {
			r.SyncMirror(ShoptMirror)
		}
	}

	r.notify(activity.BuildOptionDeregisteredEvent(r.eventInput(d, ClassUnload, Changed)))
	return Changed
}

// FindByName returns the descriptor registered under name, or nil.
func (r *Registry) FindByName(name string) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.search(name); ok {
		return r.ordered[i]
	}
	return nil
}

// FindByLetter returns the descriptor registered under letter, or nil.
func (r *Registry) FindByLetter(letter byte) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.letters[letter]
}

// Letters returns all registered short-flag letters in ascending byte
// order. The result is cached and rebuilt lazily after letter churn.
func (r *Registry) Letters() string {
	r.mu.RLock()
	if r.haveEnum {
		enum := r.letterEnum
		r.mu.RUnlock()
		return enum
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.haveEnum {
		var b strings.Builder
		for c := 0; c < maxLetters; c++ {
			if r.letters[c] != nil {
				b.WriteByte(byte(c))
			}
		}
		r.letterEnum = b.String()
		r.haveEnum = true
	}
	return r.letterEnum
}

func (r *Registry) invalidateLettersLocked() {
	r.letterEnum = ""
	r.haveEnum = false
}

// Len returns the number of live descriptors.
func (r *Registry) Len() int {
	return r.Count(nil)
}

// Count returns the number of live descriptors not excluded by hide.
func (r *Registry) Count(hide func(*Descriptor) bool) int {
	n := 0
	for range r.All(hide) {
		n++
	}
	return n
}

// All returns a lazy, restartable sequence over the live descriptors,
// skipping entries for which hide returns true. Named descriptors come
// first in name order; letter-only descriptors follow in ascending letter
// order.
func (r *Registry) All(hide func(*Descriptor) bool) iter.Seq[*Descriptor] {
	return func(yield func(*Descriptor) bool) {
		for _, d := range r.snapshotOrder() {
			if hide != nil && hide(d) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// snapshotOrder copies the enumeration order so iteration never observes a
// concurrent structural mutation mid-walk.
func (r *Registry) snapshotOrder() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.ordered))
	out = append(out, r.ordered...)
	for c := 0; c < maxLetters; c++ {
		if d := r.letters[c]; d != nil && d.Name == "" {
			out = append(out, d)
		}
	}
	return out
}

// hideForClass adapts the per-class visibility check into an enumeration
// filter. ClassAny yields nil, which hides nothing.
func hideForClass(class Class) func(*Descriptor) bool {
	switch class {
	case ClassShort, ClassSetO, ClassShopt:
		return func(d *Descriptor) bool { return class.hides(d) }
	}
	return nil
}

// Reset reinitializes every descriptor that carries a default reference,
// writing under the reinit classification so read-only and change-restricted
// options are restored too.
func (r *Registry) Reset() {
	for d := range r.All(nil) {
		if d.Init != nil {
			r.Set(d, ClassReinit, *d.Init)
		}
	}
}

func (r *Registry) notify(event activity.Event) {
	if !r.cfg.hooks.Enabled() {
		return
	}
	// Lifecycle auditing must never fail host operations.
	_ = r.cfg.hooks.Notify(context.Background(), event)
}

func (r *Registry) eventInput(d *Descriptor, class Class, outcome Outcome) activity.OptionEventInput {
	input := activity.OptionEventInput{
		Class:   class.String(),
		Outcome: outcome.String(),
	}
	if d != nil {
		input.Option = d.Name
		if d.Letter != 0 {
			input.Letter = string(d.Letter)
		}
	}
	return input
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
