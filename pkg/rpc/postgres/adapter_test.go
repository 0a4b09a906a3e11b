package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leapstack-labs/gestcom/internal/testutil"
	"github.com/leapstack-labs/gestcom/pkg/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := New(testutil.NewTestLogger(t))
	a.DB = db
	return a, mock
}

func TestBuildCall(t *testing.T) {
	tests := []struct {
		name      string
		procedure string
		params    rpc.Params
		wantSQL   string
		wantArgs  []any
		wantErr   string
	}{
		{
			name:      "no parameters",
			procedure: "obtener_locales_inhabilitados",
			wantSQL:   "SELECT * FROM obtener_locales_inhabilitados()",
			wantArgs:  []any{},
		},
		{
			name:      "single parameter",
			procedure: "obtener_inventario_local",
			params:    rpc.Params{"local_id": int64(4)},
			wantSQL:   "SELECT * FROM obtener_inventario_local(local_id => $1)",
			wantArgs:  []any{int64(4)},
		},
		{
			name:      "parameters bound in sorted order",
			procedure: "public.obtener_historial_pagos",
			params:    rpc.Params{"tipo_pago": "cliente", "id_entidad": int64(9)},
			wantSQL:   "SELECT * FROM public.obtener_historial_pagos(id_entidad => $1, tipo_pago => $2)",
			wantArgs:  []any{int64(9), "cliente"},
		},
		{
			name:      "injection in procedure name",
			procedure: "x(); DROP TABLE locales; --",
			wantErr:   "invalid procedure name",
		},
		{
			name:      "qualified parameter name",
			procedure: "obtener_inventario_local",
			params:    rpc.Params{"a.b": 1},
			wantErr:   "invalid parameter name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := BuildCall(tt.procedure, tt.params)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestAdapter_InvokeRecordSet(t *testing.T) {
	a, mock := newMockAdapter(t)

	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("producto").OfType("TEXT", ""),
		sqlmock.NewColumn("stock").OfType("INT8", int64(0)),
		sqlmock.NewColumn("precio").OfType("NUMERIC", ""),
		sqlmock.NewColumn("baja").OfType("BOOL", false),
	).
		AddRow("Yerba", int64(12), "1500.50", false).
		AddRow("Azúcar", int64(0), "800", nil)

	mock.ExpectQuery("SELECT * FROM obtener_inventario_local(local_id => $1)").
		WithArgs(int64(3)).
		WillReturnRows(rows)

	got, err := a.Invoke(context.Background(), "obtener_inventario_local", rpc.Params{"local_id": int64(3)})
	require.NoError(t, err)

	assert.Equal(t,
		`[{"producto":"Yerba","stock":12,"precio":1500.50,"baja":false},{"producto":"Azúcar","stock":0,"precio":800,"baja":null}]`,
		string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_InvokeUnwrapsSingleJSONValue(t *testing.T) {
	a, mock := newMockAdapter(t)

	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("obtener_locales_por_dueno").OfType("JSONB", []byte(nil)),
	).AddRow([]byte(`{"dueno":"Ana","locales":null}`))

	mock.ExpectQuery("SELECT * FROM obtener_locales_por_dueno(dueno_id => $1)").
		WithArgs(int64(2)).
		WillReturnRows(rows)

	got, err := a.Invoke(context.Background(), "obtener_locales_por_dueno", rpc.Params{"dueno_id": int64(2)})
	require.NoError(t, err)
	assert.Equal(t, `{"dueno":"Ana","locales":null}`, string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_InvokeNoRows(t *testing.T) {
	a, mock := newMockAdapter(t)

	mock.ExpectQuery("SELECT * FROM obtener_locales_inhabilitados()").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre"}))

	got, err := a.Invoke(context.Background(), "obtener_locales_inhabilitados", nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_InvokeErrors(t *testing.T) {
	t.Run("database error becomes RemoteError", func(t *testing.T) {
		a, mock := newMockAdapter(t)
		mock.ExpectQuery("SELECT * FROM obtener_pedidos_por_local(local_id => $1)").
			WithArgs(int64(1)).
			WillReturnError(&pgconn.PgError{Code: "42883", Message: "function does not exist", Hint: "No function matches"})

		_, err := a.Invoke(context.Background(), "obtener_pedidos_por_local", rpc.Params{"local_id": int64(1)})
		require.Error(t, err)

		var remote *rpc.RemoteError
		require.True(t, errors.As(err, &remote))
		assert.Equal(t, "42883", remote.Code)
		assert.Equal(t, "No function matches", remote.Hint)
	})

	t.Run("connection error becomes transport error", func(t *testing.T) {
		a, mock := newMockAdapter(t)
		mock.ExpectQuery("SELECT * FROM obtener_pedidos_por_local(local_id => $1)").
			WithArgs(int64(1)).
			WillReturnError(errors.New("read tcp: connection reset by peer"))

		_, err := a.Invoke(context.Background(), "obtener_pedidos_por_local", rpc.Params{"local_id": int64(1)})
		require.Error(t, err)
		assert.ErrorIs(t, err, rpc.ErrTransport)
	})

	t.Run("not connected", func(t *testing.T) {
		_, err := New(nil).Invoke(context.Background(), "obtener_pedidos_por_local", nil)
		assert.ErrorIs(t, err, rpc.ErrNotConnected)
	})
}

func TestAdapter_Close(t *testing.T) {
	a, mock := newMockAdapter(t)
	mock.ExpectClose()

	require.NoError(t, a.Close())
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.NoError(t, New(nil).Close(), "closing an unconnected adapter is a no-op")
}

func TestAdapter_ConnectInvalidDSN(t *testing.T) {
	err := New(nil).Connect(context.Background(), rpc.Config{URL: "postgres://user@host:notaport/db"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid postgres DSN")
}

func TestSelfRegistration(t *testing.T) {
	assert.True(t, rpc.IsRegistered("postgres"))
}
