package shellopts

import (
	"errors"
	"sync"
	"testing"
)

var evaluatorFactories = map[string]func() Evaluator{
	"expr": func() Evaluator { return NewExprEvaluator() },
	"cel":  func() Evaluator { return NewCELEvaluator() },
}

func newGuardRegistry(t *testing.T, factory func() Evaluator, guard string) (*Registry, *Descriptor, *Value) {
	t.Helper()
	r := New(WithEvaluator(factory()))
	d, store := newDescriptor("candidate", 0)
	d.Guard = guard
	if out := r.Register(d); out != Changed {
		t.Fatalf("register: %s", out)
	}
	return r, d, store
}

func TestGuardAllowsAndForbids(t *testing.T) {
	for name, factory := range evaluatorFactories {
		t.Run(name, func(t *testing.T) {
			r, d, store := newGuardRegistry(t, factory, "proposed >= 2")

			if out := r.Set(d, ClassAny, 5); out != Changed {
				t.Fatalf("expected Changed for 5, got %s", out)
			}
			if *store != 5 {
				t.Fatalf("allowed write did not land, store %d", *store)
			}
			if out := r.Set(d, ClassAny, 1); out != Forbidden {
				t.Fatalf("expected Forbidden for 1, got %s", out)
			}
			if *store != 5 {
				t.Fatalf("forbidden write mutated storage to %d", *store)
			}
		})
	}
}

func TestGuardErrorYieldsBadValue(t *testing.T) {
	for name, factory := range evaluatorFactories {
		t.Run(name, func(t *testing.T) {
			r, d, store := newGuardRegistry(t, factory, "proposed >=")
			if out := r.Set(d, ClassAny, 5); out != BadValue {
				t.Fatalf("expected BadValue, got %s", out)
			}
			if *store != 0 {
				t.Fatalf("failed guard mutated storage to %d", *store)
			}
		})
	}
}

func TestGuardSeesOptionSnapshot(t *testing.T) {
	for name, factory := range evaluatorFactories {
		t.Run(name, func(t *testing.T) {
			r := New(WithEvaluator(factory()))
			gate, gateStore := newDescriptor("gate", 0)
			guarded, _ := newDescriptor("guarded", 0)
			guarded.Guard = "gate"
			r.Register(gate)
			r.Register(guarded)

			if out := r.Set(guarded, ClassAny, 1); out != Forbidden {
				t.Fatalf("expected Forbidden while gate disabled, got %s", out)
			}

			*gateStore = 1
			if out := r.Set(guarded, ClassAny, 1); out != Changed {
				t.Fatalf("expected Changed with gate enabled, got %s", out)
			}
		})
	}
}

func TestGuardBypassedForStartupAndPrivilegedWrites(t *testing.T) {
	for name, factory := range evaluatorFactories {
		t.Run(name, func(t *testing.T) {
			r, d, _ := newGuardRegistry(t, factory, "false")
			for _, class := range []Class{ClassArgv, ClassEnviron, ClassUnwind, ClassReinit} {
				if out := r.Set(d, class, 1); out != Changed {
					t.Fatalf("class %s: expected guard bypass, got %s", class, out)
				}
				r.Set(d, ClassReinit, 0)
			}
		})
	}
}

func TestGuardSkippedWhenValueUnchanged(t *testing.T) {
	r, d, _ := newGuardRegistry(t, evaluatorFactories["expr"], "false")
	if out := r.Set(d, ClassAny, 0); out != Changed {
		t.Fatalf("expected equal write to bypass guard, got %s", out)
	}
	if out := r.Set(d, ClassAny, 1); out != Forbidden {
		t.Fatalf("expected differing write to hit guard, got %s", out)
	}
}

func TestGuardDefaultsToExprEvaluator(t *testing.T) {
	r := New()
	d, _ := newDescriptor("candidate", 0)
	d.Guard = "proposed == 3"
	r.Register(d)

	if out := r.Set(d, ClassAny, 3); out != Changed {
		t.Fatalf("expected lazily built evaluator to allow, got %s", out)
	}
	if out := r.Set(d, ClassAny, 4); out != Forbidden {
		t.Fatalf("expected lazily built evaluator to forbid, got %s", out)
	}
}

func TestGuardOptHelper(t *testing.T) {
	r := New(WithEvaluator(NewExprEvaluator()))
	gate, gateStore := newDescriptor("gate", 0)
	*gateStore = 1
	guarded, _ := newDescriptor("guarded", 0)
	guarded.Guard = `opt("gate") and not opt("missing")`
	r.Register(gate)
	r.Register(guarded)

	if out := r.Set(guarded, ClassAny, 1); out != Changed {
		t.Fatalf("expected Changed, got %s", out)
	}
}

func TestGuardCustomFunction(t *testing.T) {
	r := New(
		WithCustomFunction("withinlimit", func(args ...any) (any, error) {
			if len(args) != 1 {
				return false, nil
			}
			n, _ := args[0].(int)
			return n <= 10, nil
		}),
	)
	d, _ := newDescriptor("candidate", 0)
	d.Guard = "withinlimit(proposed)"
	r.Register(d)

	if out := r.Set(d, ClassAny, 9); out != Changed {
		t.Fatalf("expected Changed for 9, got %s", out)
	}
	if out := r.Set(d, ClassAny, 11); out != Forbidden {
		t.Fatalf("expected Forbidden for 11, got %s", out)
	}
}

func TestGuardCELCallBinding(t *testing.T) {
	functions := NewFunctionRegistry()
	err := functions.Register("withinlimit", func(args ...any) (any, error) {
		if len(args) != 1 {
			return false, nil
		}
		n, _ := args[0].(int64)
		return n <= 10, nil
	})
	if err != nil {
		t.Fatalf("register function: %v", err)
	}

	r := New(WithEvaluator(NewCELEvaluator(CELWithFunctionRegistry(functions))))
	d, _ := newDescriptor("candidate", 0)
	d.Guard = `call("withinlimit", proposed)`
	r.Register(d)

	if out := r.Set(d, ClassAny, 9); out != Changed {
		t.Fatalf("expected Changed for 9, got %s", out)
	}
	if out := r.Set(d, ClassAny, 11); out != Forbidden {
		t.Fatalf("expected Forbidden for 11, got %s", out)
	}
}

func TestGuardCELCallBindingFunctionError(t *testing.T) {
	functions := NewFunctionRegistry()
	_ = functions.Register("explode", func(...any) (any, error) {
		return nil, errNoSuchLimit
	})

	r := New(WithEvaluator(NewCELEvaluator(CELWithFunctionRegistry(functions))))
	d, store := newDescriptor("candidate", 0)
	d.Guard = `call("explode")`
	r.Register(d)

	if out := r.Set(d, ClassAny, 5); out != BadValue {
		t.Fatalf("expected BadValue when the function fails, got %s", out)
	}
	if *store != 0 {
		t.Fatalf("failed guard mutated storage to %d", *store)
	}
}

var errNoSuchLimit = errors.New("no such limit")

type memoryCache struct {
	mu    sync.Mutex
	items map[string]any
	gets  int
	hits  int
}

func (c *memoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	value, ok := c.items[key]
	if ok {
		c.hits++
	}
	return value, ok
}

func (c *memoryCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.items == nil {
		c.items = make(map[string]any)
	}
	c.items[key] = value
}

func TestGuardProgramCacheReuse(t *testing.T) {
	cache := &memoryCache{}
	r := New(WithProgramCache(cache))
	d, _ := newDescriptor("candidate", 0)
	d.Guard = "proposed >= 2"
	r.Register(d)

	r.Set(d, ClassAny, 2)
	r.Set(d, ClassAny, 3)
	if len(cache.items) != 1 {
		t.Fatalf("expected 1 cached program, got %d", len(cache.items))
	}
	if cache.hits == 0 {
		t.Fatalf("expected cache hit on second evaluation")
	}
}

func TestGuardLoggerObservesEvaluations(t *testing.T) {
	var events []GuardLogEvent
	r := New(WithGuardLogger(GuardLoggerFunc(func(event GuardLogEvent) {
		events = append(events, event)
	})))
	d, _ := newDescriptor("candidate", 0)
	d.Guard = "proposed >= 2"
	r.Register(d)

	r.Set(d, ClassSetO, 5)
	r.Set(d, ClassSetO, 1)

	if len(events) != 2 {
		t.Fatalf("expected 2 log events, got %d", len(events))
	}
	if events[0].Engine != "expr" || events[0].Option != "candidate" {
		t.Fatalf("unexpected first event %+v", events[0])
	}
	if !events[0].Allowed || events[0].Err != nil {
		t.Fatalf("expected first evaluation allowed, got %+v", events[0])
	}
	if events[1].Allowed {
		t.Fatalf("expected second evaluation denied, got %+v", events[1])
	}
	if events[1].Class != ClassSetO {
		t.Fatalf("unexpected class %v", events[1].Class)
	}
}

func TestJSEvaluatorGuard(t *testing.T) {
	if !jsEvaluatorAvailable() {
		t.Skip("js evaluator requires the js_eval build tag")
	}
	r := New(WithEvaluator(NewJSEvaluator()))
	d, _ := newDescriptor("candidate", 0)
	d.Guard = "proposed >= 2"
	r.Register(d)

	if out := r.Set(d, ClassAny, 5); out != Changed {
		t.Fatalf("expected Changed, got %s", out)
	}
	if out := r.Set(d, ClassAny, 1); out != Forbidden {
		t.Fatalf("expected Forbidden, got %s", out)
	}
}

func TestGuardTruth(t *testing.T) {
	cases := []struct {
		in      any
		want    bool
		wantErr bool
	}{
		{true, true, false},
		{false, false, false},
		{int(2), true, false},
		{int64(0), false, false},
		{uint64(1), true, false},
		{float64(0), false, false},
		{nil, false, false},
		{"yes", false, true},
	}
	for _, tc := range cases {
		got, err := guardTruth(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("guardTruth(%v): unexpected error state %v", tc.in, err)
		}
		if err == nil && got != tc.want {
			t.Fatalf("guardTruth(%v): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}
