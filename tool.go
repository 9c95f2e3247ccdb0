package petals

import "context"

// funcTool is the Tool built by NewTool: a descriptor plus an executor
// closure.
type funcTool struct {
	desc Descriptor
	fn   func(ctx context.Context, call TypedCall) (Result, error)
}

// NewTool builds a Tool from a descriptor and an executor function. Hosts use
// it to register platform executors without declaring a type per tool:
//
//	reg.Register(petals.NewTool(desc, func(ctx context.Context, call petals.TypedCall) (petals.Result, error) {
//	    args, ok := call.(*petals.ContactsCall)
//	    ...
//	}))
func NewTool(desc Descriptor, fn func(ctx context.Context, call TypedCall) (Result, error)) Tool {
	return &funcTool{desc: desc, fn: fn}
}

func (t *funcTool) Descriptor() Descriptor { return t.desc }

func (t *funcTool) Execute(ctx context.Context, call TypedCall) (Result, error) {
	return t.fn(ctx, call)
}

var _ Tool = (*funcTool)(nil)
