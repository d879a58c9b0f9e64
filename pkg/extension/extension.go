// Package extension manages dynamically loaded option blocks: host plugins
// that contribute option descriptors for their lifetime and withdraw them
// on unload.
package extension

import (
	"context"
	"fmt"
	"sync"

	shellopts "github.com/goliatone/go-shellopts"
	"github.com/goliatone/go-shellopts/pkg/activity"
)

// Module is an extension that contributes options. Options must return the
// same descriptor pointers on every call; registration identity is pointer
// identity.
type Module interface {
	Name() string
	Options() []*shellopts.Descriptor
}

// Loader tracks which modules currently have options registered.
type Loader struct {
	Registry *shellopts.Registry
	Hooks    activity.Hooks

	mu     sync.Mutex
	loaded map[string]Module
}

// Load registers every option the module contributes. A name or letter
// collision rolls back the descriptors registered so far and reports which
// option collided; loading an already loaded module is a no-op.
func (l *Loader) Load(m Module) error {
	if m == nil {
		return fmt.Errorf("extension: nil module")
	}
	name := m.Name()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded == nil {
		l.loaded = make(map[string]Module)
	}
	if _, ok := l.loaded[name]; ok {
		return nil
	}

	descriptors := m.Options()
	for i, d := range descriptors {
		out := l.Registry.Register(d)
		if out == shellopts.Duplicate {
			for _, undo := range descriptors[:i] {
				l.Registry.Deregister(undo)
			}
			return fmt.Errorf("extension %q: %w", name,
				&shellopts.OptionError{Name: d.Name, Outcome: out})
		}
	}

	l.loaded[name] = m
	l.notify(activity.BuildModuleLoadedEvent(activity.OptionEventInput{Module: name}))
	return nil
}

// Unload withdraws the module's options. Stored values survive in the
// descriptors, so a reload resumes where the unload left off. Unknown
// module names are a no-op.
func (l *Loader) Unload(name string) {
	l.mu.Lock()
	m, ok := l.loaded[name]
	if ok {
		delete(l.loaded, name)
	}
	l.mu.Unlock()
	if !ok {
		return
	}

	for _, d := range m.Options() {
		l.Registry.Deregister(d)
	}
	l.notify(activity.BuildModuleUnloadedEvent(activity.OptionEventInput{Module: name}))
}

// Loaded reports whether the named module currently has options registered.
func (l *Loader) Loaded(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.loaded[name]
	return ok
}

func (l *Loader) notify(event activity.Event) {
	if !l.Hooks.Enabled() {
		return
	}
	_ = l.Hooks.Notify(context.Background(), event)
}
