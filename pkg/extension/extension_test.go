package extension

import (
	"errors"
	"testing"

	shellopts "github.com/goliatone/go-shellopts"
	"github.com/goliatone/go-shellopts/pkg/activity"
)

type testModule struct {
	name        string
	descriptors []*shellopts.Descriptor
}

func (m *testModule) Name() string { return m.name }

func (m *testModule) Options() []*shellopts.Descriptor { return m.descriptors }

func newTestModule(name string, options ...*shellopts.Descriptor) *testModule {
	return &testModule{name: name, descriptors: options}
}

func descriptor(name string, letter byte) *shellopts.Descriptor {
	return &shellopts.Descriptor{Name: name, Letter: letter, Store: new(shellopts.Value)}
}

func TestLoadRegistersModuleOptions(t *testing.T) {
	registry := shellopts.New()
	loader := &Loader{Registry: registry}

	module := newTestModule("primes", descriptor("prime_candidate", 0), descriptor("prime_trace", 0))
	if err := loader.Load(module); err != nil {
		t.Fatalf("load: %v", err)
	}
	if registry.FindByName("prime_candidate") == nil || registry.FindByName("prime_trace") == nil {
		t.Fatalf("module options not registered")
	}
	if !loader.Loaded("primes") {
		t.Fatalf("module not tracked as loaded")
	}

	// Loading again is a no-op, not a duplicate failure.
	if err := loader.Load(module); err != nil {
		t.Fatalf("reload: %v", err)
	}
}

func TestLoadRollsBackOnCollision(t *testing.T) {
	registry := shellopts.New()
	occupied := descriptor("taken", 'x')
	registry.Register(occupied)
	loader := &Loader{Registry: registry}

	module := newTestModule("clash",
		descriptor("fresh", 0),
		descriptor("other", 'x'), // letter collision
	)
	err := loader.Load(module)
	if err == nil {
		t.Fatalf("expected collision error")
	}
	var optErr *shellopts.OptionError
	if !errors.As(err, &optErr) || optErr.Outcome != shellopts.Duplicate {
		t.Fatalf("expected Duplicate option error, got %v", err)
	}
	if registry.FindByName("fresh") != nil {
		t.Fatalf("partial registration not rolled back")
	}
	if registry.FindByLetter('x') != occupied {
		t.Fatalf("existing owner disturbed")
	}
	if loader.Loaded("clash") {
		t.Fatalf("failed module tracked as loaded")
	}
}

func TestUnloadWithdrawsOptionsAndKeepsValues(t *testing.T) {
	registry := shellopts.New()
	loader := &Loader{Registry: registry}

	opt := descriptor("prime_trace", 0)
	module := newTestModule("primes", opt)
	if err := loader.Load(module); err != nil {
		t.Fatalf("load: %v", err)
	}
	registry.Set(opt, shellopts.ClassAny, 1)

	loader.Unload("primes")
	if registry.FindByName("prime_trace") != nil {
		t.Fatalf("option still registered after unload")
	}
	if loader.Loaded("primes") {
		t.Fatalf("module still tracked after unload")
	}
	if *opt.Store != 1 {
		t.Fatalf("stored value lost on unload")
	}

	// A reload resumes with the surviving value.
	if err := loader.Load(module); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !registry.Get(registry.FindByName("prime_trace"), shellopts.ClassAny).Bool() {
		t.Fatalf("value not visible after reload")
	}

	loader.Unload("never-loaded") // no-op
}

func TestLoaderEmitsModuleEvents(t *testing.T) {
	capture := &activity.CaptureHook{}
	registry := shellopts.New()
	loader := &Loader{Registry: registry, Hooks: activity.Hooks{capture}}

	module := newTestModule("primes", descriptor("prime_trace", 0))
	if err := loader.Load(module); err != nil {
		t.Fatalf("load: %v", err)
	}
	loader.Unload("primes")

	var verbs []string
	for _, event := range capture.Events {
		verbs = append(verbs, event.Verb)
	}
	if len(verbs) != 2 || verbs[0] != "module.loaded" || verbs[1] != "module.unloaded" {
		t.Fatalf("unexpected verbs %v", verbs)
	}
	if capture.Events[0].ObjectID != "primes" {
		t.Fatalf("unexpected object id %q", capture.Events[0].ObjectID)
	}
}

func TestLoadNilModule(t *testing.T) {
	loader := &Loader{Registry: shellopts.New()}
	if err := loader.Load(nil); err == nil {
		t.Fatalf("expected error for nil module")
	}
}
