package shellopts

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEvaluator indicates a guard rule fired with no evaluator available.
var ErrNoEvaluator = errors.New("shellopts: evaluator not configured")

// GuardContext carries the inputs a guard rule may inspect: the option
// being written, why, and a snapshot of every named option's enabled state.
type GuardContext struct {
	Option   string
	Letter   byte
	Class    Class
	Current  Value
	Proposed Value
	Snapshot map[string]any
	Now      *time.Time
	Metadata map[string]any
}

func (ctx GuardContext) withDefaultNow() GuardContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx GuardContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx GuardContext) withDefaultMaps() GuardContext {
	if ctx.Snapshot == nil {
		ctx.Snapshot = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx GuardContext) label() string {
	if ctx.Option != "" {
		return ctx.Option
	}
	if ctx.Letter != 0 {
		return string(ctx.Letter)
	}
	return "unknown"
}

// Evaluator executes guard expressions against a guard context.
type Evaluator interface {
	Evaluate(ctx GuardContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable guard program.
type CompiledRule interface {
	Evaluate(ctx GuardContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// WithEvaluator configures the guard evaluator backend. Without one, an
// expr-lang evaluator is built lazily on first use.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *registryConfig) {
		cfg.evaluator = e
	}
}

// evalGuard runs d.Guard and folds the result into an Outcome: a Good
// outcome means the write may proceed.
func (r *Registry) evalGuard(d *Descriptor, class Class, current, proposed Value) Outcome {
	evaluator, err := r.resolveEvaluator()
	if err != nil {
		return BadValue
	}

	ctx := GuardContext{
		Option:   d.Name,
		Letter:   d.Letter,
		Class:    class,
		Current:  current,
		Proposed: proposed,
		Snapshot: r.guardSnapshot(class),
	}
	ctx = ctx.withDefaultNow().withDefaultMaps()

	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	result, evalErr := evaluator.Evaluate(ctx, d.Guard)
	duration := time.Since(start)
	evalErr = wrapEvaluationError("", d.Guard, ctx.label(), evalErr)

	allowed := false
	if evalErr == nil {
		allowed, evalErr = guardTruth(result)
		evalErr = wrapEvaluationError(engine, d.Guard, ctx.label(), evalErr)
	}

	r.guardLogger().LogGuard(GuardLogEvent{
		Engine:   engine,
		Expr:     d.Guard,
		Option:   ctx.label(),
		Class:    class,
		Allowed:  allowed,
		Duration: duration,
		Err:      evalErr,
	})

	if evalErr != nil {
		return BadValue
	}
	if !allowed {
		return Forbidden
	}
	return Changed
}

// guardSnapshot captures the enabled state of every named option so guard
// expressions can reference them directly.
func (r *Registry) guardSnapshot(class Class) map[string]any {
	snapshot := map[string]any{}
	for d := range r.All(nil) {
		if d.Name == "" {
			continue
		}
		snapshot[d.Name] = r.Get(d, class).Bool()
	}
	return snapshot
}

// guardTruth folds an evaluator result into a boolean verdict.
func guardTruth(result any) (bool, error) {
	switch v := result.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case uint64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	case nil:
		return false, nil
	}
	return false, fmt.Errorf("guard expression must yield a boolean, got %T", result)
}

func (r *Registry) resolveEvaluator() (Evaluator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg.evaluator != nil {
		return r.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if r.cfg.cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(r.cfg.cache))
	}
	if r.cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(r.cfg.functions))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	r.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func (r *Registry) guardLogger() GuardLogger {
	if r.cfg.logger != nil {
		return r.cfg.logger
	}
	return noopGuardLogger{}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*shellopts.exprEvaluator":
		return "expr"
	case "*shellopts.celEvaluator":
		return "cel"
	case "*shellopts.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
