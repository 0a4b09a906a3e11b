// Package rpc provides the transport contract used to invoke named remote
// procedures on the backend.
//
// Concrete adapters live in pkg/rpc subdirectories and register themselves
// with the registry in their init() functions:
//
//	import _ "github.com/leapstack-labs/gestcom/pkg/rpc/postgrest"
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrTransport marks failures to reach the backend or to read its answer.
var ErrTransport = errors.New("transport error")

// ErrNotConnected is returned when Invoke is called before Connect.
var ErrNotConnected = errors.New("adapter not connected")

// Params is the parameter mapping sent with a procedure call.
type Params map[string]any

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Config holds the connection settings shared by all adapters.
type Config struct {
	Type     string
	URL      string
	Key      string
	Schema   string
	Timeout  time.Duration
	RetryMax int
}

// Invoker calls a remote procedure and returns its raw JSON payload.
type Invoker interface {
	// Invoke runs procedure with params and returns the response payload as-is.
	Invoke(ctx context.Context, procedure string, params Params) (json.RawMessage, error)

	// Close releases the underlying connection.
	Close() error
}

// Adapter is an Invoker that can be connected from a Config.
type Adapter interface {
	Invoker

	// Connect prepares the connection handle. It is called once per process.
	Connect(ctx context.Context, cfg Config) error

	// Name returns the registry name of the adapter.
	Name() string
}

// RemoteError is a failure reported by the backend itself.
type RemoteError struct {
	Procedure string
	Status    int
	Code      string
	Message   string
	Details   string
	Hint      string
}

func (e *RemoteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed", e.Procedure)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Details != "" {
		fmt.Fprintf(&b, "\nDetails: %s", e.Details)
	}
	if e.Hint != "" {
		fmt.Fprintf(&b, "\nHint: %s", e.Hint)
	}
	return b.String()
}

// TransportError wraps err so that errors.Is(err, ErrTransport) holds.
func TransportError(procedure string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTransport, procedure, err)
}

// IsFailure reports whether err came from the transport or the backend.
func IsFailure(err error) bool {
	var remote *RemoteError
	return errors.Is(err, ErrTransport) || errors.As(err, &remote)
}
