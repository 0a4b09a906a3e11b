package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct{ name string }

func (s *stubAdapter) Connect(context.Context, Config) error { return nil }
func (s *stubAdapter) Close() error                          { return nil }
func (s *stubAdapter) Name() string                          { return s.name }
func (s *stubAdapter) Invoke(context.Context, string, Params) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{
		Type:      "grpc",
		Available: []string{"postgres", "postgrest"},
	}

	msg := err.Error()

	assert.Contains(t, msg, "grpc", "error should mention the unknown type")
	assert.Contains(t, msg, "postgrest", "error should list available transports")
	assert.Contains(t, msg, "gestcom.yaml", "error should mention config file")
}

func TestRegister(t *testing.T) {
	Register("test_adapter_internal", func(_ *slog.Logger) Adapter { return &stubAdapter{name: "test_adapter_internal"} })

	assert.True(t, IsRegistered("test_adapter_internal"))

	factory, ok := Get("test_adapter_internal")
	require.True(t, ok)
	assert.Equal(t, "test_adapter_internal", factory(nil).Name())
	assert.Contains(t, ListAdapters(), "test_adapter_internal")
}

func TestNewAdapter(t *testing.T) {
	Register(DefaultType, func(_ *slog.Logger) Adapter { return &stubAdapter{name: DefaultType} })

	t.Run("empty type uses default", func(t *testing.T) {
		a, err := NewAdapter(Config{}, nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultType, a.Name())
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewAdapter(Config{Type: "carrier-pigeon"}, nil)
		require.Error(t, err)

		var unknown *UnknownAdapterError
		require.True(t, errors.As(err, &unknown))
		assert.Equal(t, "carrier-pigeon", unknown.Type)
	})
}

func TestParams_Keys(t *testing.T) {
	p := Params{"tipo_pago": "local", "id_entidad": 3}
	assert.Equal(t, []string{"id_entidad", "tipo_pago"}, p.Keys())
	assert.Empty(t, Params(nil).Keys())
}

func TestRemoteError_Error(t *testing.T) {
	err := &RemoteError{
		Procedure: "obtener_inventario_local",
		Status:    404,
		Code:      "PGRST202",
		Message:   "Could not find the function",
		Hint:      "Perhaps you meant to call obtener_inventario",
	}

	msg := err.Error()
	assert.Contains(t, msg, "obtener_inventario_local failed (HTTP 404) [PGRST202]: Could not find the function")
	assert.Contains(t, msg, "Hint: Perhaps")
	assert.NotContains(t, msg, "Details:")
}

func TestTransportErrorClassification(t *testing.T) {
	cause := errors.New("connection refused")
	err := TransportError("obtener_locales_inhabilitados", cause)

	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsFailure(err))
	assert.True(t, IsFailure(&RemoteError{Procedure: "x"}))
	assert.False(t, IsFailure(errors.New("strconv.Atoi: parsing \"x\": invalid syntax")))
}
