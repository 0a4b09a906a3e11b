package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/gestcom/internal/config"
	"github.com/leapstack-labs/gestcom/internal/testutil"
	"github.com/leapstack-labs/gestcom/pkg/rpc"
)

func TestNormalizeOwnerStores(t *testing.T) {
	noInfo := `{"error":"No se pudo obtener la información"}`

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"null stores become empty list", `[{"owner":"X","stores":null}]`, `{"owner":"X","stores":[]}`},
		{"missing stores become empty list", `[{"owner":"X"}]`, `{"owner":"X","stores":[]}`},
		{"stores kept", `[{"owner":"X","stores":["A","B"]},{"owner":"Y"}]`, `{"owner":"X","stores":["A","B"]}`},
		{"bare record", `{"owner":"X","stores":null}`, `{"owner":"X","stores":[]}`},
		{"error record unchanged", `{"error":"not found"}`, `{"error":"not found"}`},
		{"error record in list unchanged", `[{"error":"not found","stores":null}]`, `{"error":"not found","stores":null}`},
		{"empty list", `[]`, noInfo},
		{"empty record", `{}`, noInfo},
		{"null", `null`, noInfo},
		{"empty body", ``, noInfo},
		{"scalar element", `[5]`, `{"error":"respuesta inesperada: 5"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeOwnerStores(json.RawMessage(tt.raw), "stores")
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNormalizeOwnerStores_KeepsKeyOrder(t *testing.T) {
	got := NormalizeOwnerStores(json.RawMessage(`[{"z":1,"stores":null,"a":2}]`), "stores")
	assert.Equal(t, `{"z":1,"stores":[],"a":2}`, string(got))

	got = NormalizeOwnerStores(json.RawMessage(`[{"z":1,"a":2}]`), "stores")
	assert.Equal(t, `{"z":1,"a":2,"stores":[]}`, string(got))
}

func TestOwnerStores_UsesConfiguredField(t *testing.T) {
	inv := testutil.NewFakeInvoker().Reply(ProcOwnerStores, `[{"dueno":"Ana","locales":null}]`)
	g, err := New(context.Background(), &config.Config{URL: "u", Key: "k"}, WithInvoker(inv))
	require.NoError(t, err)

	assert.Equal(t, `{"dueno":"Ana","locales":[]}`, string(g.OwnerStores(context.Background(), 1)))
}

func TestOwnerStores_TransportFailureBecomesPayload(t *testing.T) {
	inv := testutil.NewFakeInvoker().
		Fail(ProcOwnerStores, rpc.TransportError(ProcOwnerStores, errors.New("connection refused")))
	logger, logs := testutil.NewCaptureLogger()

	g, err := New(context.Background(), validConfig(), WithInvoker(inv), WithLogger(logger))
	require.NoError(t, err)

	raw := g.OwnerStores(context.Background(), 9)

	var got map[string]string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Contains(t, got["error"], "connection refused")
	assert.Contains(t, logs.String(), "owner stores lookup failed")
	assert.Contains(t, logs.String(), "owner_id=9")
}

func TestErrorPayload(t *testing.T) {
	assert.Equal(t, `{"error":"boom"}`, string(ErrorPayload("boom")))
}
