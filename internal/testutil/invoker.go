package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/leapstack-labs/gestcom/pkg/rpc"
)

// Call is one recorded invocation.
type Call struct {
	Procedure string
	Params    rpc.Params
}

// Reply is the canned answer for a procedure.
type Reply struct {
	Payload json.RawMessage
	Err     error
}

// FakeInvoker records calls and answers them from canned replies.
// Procedures without a reply answer "[]".
type FakeInvoker struct {
	mu      sync.Mutex
	replies map[string]Reply
	calls   []Call
	closed  bool
}

// NewFakeInvoker returns an invoker with no canned replies.
func NewFakeInvoker() *FakeInvoker {
	return &FakeInvoker{replies: make(map[string]Reply)}
}

// Reply sets the payload returned for procedure.
func (f *FakeInvoker) Reply(procedure, payload string) *FakeInvoker {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[procedure] = Reply{Payload: json.RawMessage(payload)}
	return f
}

// Fail makes procedure return err.
func (f *FakeInvoker) Fail(procedure string, err error) *FakeInvoker {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[procedure] = Reply{Err: err}
	return f
}

// Invoke implements rpc.Invoker.
func (f *FakeInvoker) Invoke(_ context.Context, procedure string, params rpc.Params) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := make(rpc.Params, len(params))
	for k, v := range params {
		copied[k] = v
	}
	f.calls = append(f.calls, Call{Procedure: procedure, Params: copied})

	r, ok := f.replies[procedure]
	if !ok {
		return json.RawMessage("[]"), nil
	}
	return r.Payload, r.Err
}

// Close implements rpc.Invoker.
func (f *FakeInvoker) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Calls returns the recorded invocations in order.
func (f *FakeInvoker) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Closed reports whether Close was called.
func (f *FakeInvoker) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
