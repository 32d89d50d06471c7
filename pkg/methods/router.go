package methods

import (
	"context"
	"fmt"
)

// ErrUnknownClass is returned when a contract names a class_name the
// router has no registered Class for.
var ErrUnknownClass = fmt.Errorf("unknown method class")

// ErrUnknownMethod is returned when a class has no method by that name.
var ErrUnknownMethod = fmt.Errorf("unknown method")

// Router hosts the registered method classes and validates/invokes
// methods per the contract-declared order.
type Router struct {
	classes map[string]Class
}

// NewRouter builds a Router from a set of classes, indexed by
// ClassName().
func NewRouter(classes ...Class) *Router {
	idx := make(map[string]Class, len(classes))
	for _, c := range classes {
		idx[c.ClassName()] = c
	}
	return &Router{classes: idx}
}

// Class looks up a registered class by name.
func (r *Router) Class(name string) (Class, bool) {
	c, ok := r.classes[name]
	return c, ok
}

// Invoke validates kwargs against the method's ParamSpec — strict: any
// key in args not declared by the ParamSpec is rejected, and any
// required param missing from args is rejected, no silent drops
// — then runs the method body.
func (r *Router) Invoke(ctx context.Context, className, methodName string, in Input) (any, error) {
	class, ok := r.classes[className]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, className)
	}
	method, ok := class.Methods()[methodName]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMethod, className, methodName)
	}

	if err := validateKwargs(method.Spec, in.Args); err != nil {
		return nil, fmt.Errorf("%s.%s: %w", className, methodName, err)
	}

	return method.Func(ctx, in)
}

func validateKwargs(spec MethodSpec, args map[string]any) error {
	declared := make(map[string]ParamSpec, len(spec.Params))
	for _, p := range spec.Params {
		declared[p.Name] = p
	}

	for key := range args {
		if _, ok := declared[key]; !ok {
			return fmt.Errorf("unexpected keyword argument %q", key)
		}
	}
	for _, p := range spec.Params {
		if p.Required {
			if _, ok := args[p.Name]; !ok {
				return fmt.Errorf("missing required keyword argument %q", p.Name)
			}
		}
	}
	return nil
}

// RunPipeline executes an ordered list of (class, method, provides,
// args) bindings, each writing its result into shared under its
// provides key, stopping at the first error. Each method sees the
// outputs of prior methods in a shared per-question context dictionary
// keyed by provides.
type Binding struct {
	ClassName  string
	MethodName string
	Provides   string
	Args       map[string]any
}

func (r *Router) RunPipeline(ctx context.Context, chunkText string, bindings []Binding, shared map[string]any) error {
	if shared == nil {
		shared = make(map[string]any)
	}
	for _, b := range bindings {
		out, err := r.Invoke(ctx, b.ClassName, b.MethodName, Input{ChunkText: chunkText, Args: b.Args, Shared: shared})
		if err != nil {
			return fmt.Errorf("pipeline step %s.%s (provides=%s): %w", b.ClassName, b.MethodName, b.Provides, err)
		}
		shared[b.Provides] = out
	}
	return nil
}
