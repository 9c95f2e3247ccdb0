package petals

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Tool pairs a Descriptor with an executor capability. Implementations
// convert the TypedCall variant for their id into whatever their backing
// service needs and report a structured Result. Execution may await external
// I/O or an OS permission prompt; cancellation arrives through ctx and is
// cooperative. Side effects already committed when ctx fires are not rolled
// back — execution is at-most-once, not transactional.
type Tool interface {
	Descriptor() Descriptor
	Execute(ctx context.Context, call TypedCall) (Result, error)
}

// entry is one registered tool. desc and schema are captured at Register time
// so readers never observe a half-updated pair.
type entry struct {
	tool   Tool // wrapped with middlewares, used by Dispatch
	raw    Tool // unwrapped, rewrapped by Use
	desc   Descriptor
	schema *jsonschema.Schema // compiled desc.Parameters; nil if absent or uncompilable
}

// Registry is the concurrency-safe tool catalog and dispatcher. Reads (List,
// Query, Lookup) run under a shared lock and do not block each other; Register
// is serialized and replaces entries atomically. Dispatch holds no lock while
// the executor runs, so one in-flight call never stalls dispatch of, or
// queries against, unrelated tools.
//
// The dispatcher enforces no internal timeout: a hanging executor hangs its
// turn, and any user-visible cancel affordance belongs to the UI layer, which
// cancels the turn's context.
type Registry struct {
	mu          sync.RWMutex
	entries     map[ToolID]entry
	middlewares []Middleware
	sem         chan struct{}
	done        chan struct{}
	running     sync.WaitGroup
	opts        registryOptions
}

// NewRegistry creates a Registry with the given options. By default panics in
// executors are recovered into ExecutionError and concurrency is unlimited.
func NewRegistry(opts ...RegistryOption) *Registry {
	o := registryOptions{
		recoverPanics: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	var sem chan struct{}
	if o.maxConcurrency > 0 {
		sem = make(chan struct{}, o.maxConcurrency)
	}
	return &Registry{
		entries: make(map[ToolID]entry),
		sem:     sem,
		done:    make(chan struct{}),
		opts:    o,
	}
}

// Register upserts a tool by its descriptor id: a prior entry for the same id
// is replaced, never duplicated, so hot-swapping an executor for tests or
// updates is safe at runtime. Stored middlewares (see Use) are applied before
// registration. The descriptor's parameter schema is compiled here, once; a
// schema that fails to compile disables validation for that tool rather than
// rejecting it.
func (r *Registry) Register(t Tool) {
	desc := t.Descriptor()
	var schema *jsonschema.Schema
	if desc.Parameters != nil {
		schema, _ = compileParameters(desc.Parameters)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	wrapped := t
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}
	r.entries[desc.ID] = entry{tool: wrapped, raw: t, desc: desc, schema: schema}
}

// Deregister removes the entry for id, if any. Used by tests and by hosts
// revoking a platform capability at runtime.
func (r *Registry) Deregister(id ToolID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Lookup returns the registered tool for id (with middlewares applied).
func (r *Registry) Lookup(id ToolID) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.tool, true
}

// List returns a full snapshot of registered descriptors, sorted by id for
// deterministic order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.desc)
	}
	slices.SortFunc(out, func(a, b Descriptor) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return out
}

// Query filters the catalog. Filters are independently optional and combined
// by AND: Domain is a case-insensitive exact match, Keyword a case-insensitive
// substring match against any trigger keyword, MaxPermission an inclusive
// ceiling on the permission total order. An empty Query returns everything
// List does.
type Query struct {
	Domain        string
	Keyword       string
	MaxPermission *Permission
}

// Query returns the descriptors matching q, sorted by id.
func (r *Registry) Query(q Query) []Descriptor {
	all := r.List()
	out := all[:0:0]
	for _, d := range all {
		if q.Domain != "" && !strings.EqualFold(d.Domain, q.Domain) {
			continue
		}
		if q.Keyword != "" && !d.matchesKeyword(q.Keyword) {
			continue
		}
		if q.MaxPermission != nil && d.Permission > *q.MaxPermission {
			continue
		}
		out = append(out, d)
	}
	return out
}

// FunctionDefinitions exports every registered descriptor in the backend
// metadata shape, sorted by id.
func (r *Registry) FunctionDefinitions() []FunctionDefinition {
	descs := r.List()
	out := make([]FunctionDefinition, len(descs))
	for i, d := range descs {
		out[i] = d.FunctionDefinition()
	}
	return out
}

// ValidateArguments checks raw argument bytes against the registered
// descriptor's compiled parameter schema. Unregistered ids and tools without
// a compiled schema validate vacuously; failures are DecodeError.
func (r *Registry) ValidateArguments(id ToolID, raw []byte) error {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return validateArguments(id, e.schema, raw)
}

// Dispatch routes call to its registered executor and awaits the structured
// result. The outcome is always carried in Result: an unregistered or
// unrecognized id yields Result.Err matching ErrUnknownTool (the two cases
// are deliberately conflated — callers must not branch on platform topology),
// executor errors are normalized into the taxonomy, and panics become
// ExecutionError when recovery is enabled.
func (r *Registry) Dispatch(ctx context.Context, call TypedCall) (res Result) {
	id := call.ToolID()
	res.Tool = id

	r.mu.RLock()
	select {
	case <-r.done:
		r.mu.RUnlock()
		res.Status = StatusFailure
		res.Err = ErrShutdown
		return res
	default:
	}
	e, ok := r.entries[id]
	if !ok {
		r.mu.RUnlock()
		res.Status = StatusFailure
		res.Err = &UnknownToolError{Name: string(id)}
		return res
	}
	r.running.Add(1)
	r.mu.RUnlock()
	defer r.running.Done()

	if err := r.acquireSemaphore(ctx); err != nil {
		res.Status = StatusFailure
		res.Err = &ExecutionError{Tool: id, Err: err}
		return res
	}
	defer r.releaseSemaphore()

	if r.opts.onBefore != nil {
		r.opts.onBefore(ctx, call)
	}
	start := time.Now()
	defer func() {
		if r.opts.onAfter != nil {
			r.opts.onAfter(ctx, call, res, time.Since(start))
		}
	}()
	if r.opts.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				res = Failure(&ExecutionError{Tool: id, Err: &panicError{p: p}})
				res.Tool = id
			}
		}()
	}

	out, err := e.tool.Execute(ctx, call)
	out.Tool = id
	if err != nil {
		out.Status = StatusFailure
		out.Err = normalizeExecuteError(id, err)
	} else if out.Status == "" {
		out.Status = StatusSuccess
	}
	res = out
	return res
}

// normalizeExecuteError keeps taxonomy errors as-is and wraps everything else
// in ExecutionError so the renderer and callers see one vocabulary.
func normalizeExecuteError(id ToolID, err error) error {
	if errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrArgumentDecode) ||
		errors.Is(err, ErrUnknownTool) ||
		IsExecutionError(err) {
		return err
	}
	return &ExecutionError{Tool: id, Err: err}
}

// DispatchAll runs every call in parallel and returns results in call order.
// One failing call does not cancel the others; each Result carries its own
// error. Useful for model turns that emit several calls at once.
func (r *Registry) DispatchAll(ctx context.Context, calls []TypedCall) []Result {
	results := make([]Result, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		i, call := i, call
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.Dispatch(ctx, call)
		}()
	}
	wg.Wait()
	return results
}

// Shutdown closes the registry for new dispatches and waits for in-flight
// executions to drain or ctx to cancel.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	select {
	case <-r.done:
		r.mu.Unlock()
		return nil
	default:
		close(r.done)
	}
	r.mu.Unlock()
	done := make(chan struct{})
	go func() {
		r.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) acquireSemaphore(ctx context.Context) error {
	if r.sem == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	select {
	case r.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Registry) releaseSemaphore() {
	if r.sem != nil {
		<-r.sem
	}
}
