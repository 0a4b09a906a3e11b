package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/gestcom/internal/gateway"
)

// InputError reports an argument that could not be converted.
type InputError struct {
	Param string
	Value string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("valor no válido para %s: %q no es un número entero", e.Param, e.Value)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// convertArg converts raw operator input for parameter p.
func convertArg(p gateway.Param, raw string) (any, error) {
	if p.Kind == gateway.ParamText {
		return raw, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return nil, &InputError{Param: p.Name, Value: raw, Err: err}
	}
	return n, nil
}

// convertArgs converts one raw value per parameter of q.
func convertArgs(q gateway.Query, raw []string) ([]any, error) {
	if len(raw) != len(q.Params) {
		return nil, fmt.Errorf("%s expects %d argument(s) (%s), got %d",
			q.Slug, len(q.Params), paramNames(q), len(raw))
	}
	args := make([]any, len(raw))
	for i, p := range q.Params {
		v, err := convertArg(p, raw[i])
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return q.Normalize(args), nil
}

func paramNames(q gateway.Query) string {
	if len(q.Params) == 0 {
		return "none"
	}
	names := make([]string, len(q.Params))
	for i, p := range q.Params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
