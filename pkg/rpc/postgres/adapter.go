// Package postgres provides an rpc adapter that calls set-returning database
// functions directly over a PostgreSQL connection.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/gestcom/pkg/rpc"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// identPattern accepts plain or schema-qualified SQL identifiers.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Adapter implements rpc.Adapter on database/sql with the pgx driver.
type Adapter struct {
	DB     *sql.DB
	Logger *slog.Logger
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{Logger: logger}
}

// Name returns the registry name of the adapter.
func (a *Adapter) Name() string {
	return "postgres"
}

// Connect opens a single-connection pool from the DSN in cfg.URL.
// cfg.Key is used as the password when the DSN carries none.
func (a *Adapter) Connect(ctx context.Context, cfg rpc.Config) error {
	connCfg, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return fmt.Errorf("invalid postgres DSN: %w", err)
	}
	if connCfg.Password == "" {
		connCfg.Password = cfg.Key
	}
	if cfg.Timeout > 0 {
		connCfg.ConnectTimeout = cfg.Timeout
	}
	if cfg.Schema != "" {
		if connCfg.RuntimeParams == nil {
			connCfg.RuntimeParams = make(map[string]string)
		}
		connCfg.RuntimeParams["search_path"] = cfg.Schema
	}

	a.Logger.Debug("connecting to postgres",
		slog.String("host", connCfg.Host),
		slog.String("database", connCfg.Database))

	db := stdlib.OpenDB(*connCfg)
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return rpc.TransportError("connect", fmt.Errorf("failed to ping postgres: %w", err))
	}

	a.DB = db
	return nil
}

// Close closes the database connection.
func (a *Adapter) Close() error {
	if a.DB != nil {
		a.Logger.Debug("closing database connection")
		return a.DB.Close()
	}
	return nil
}

// BuildCall renders the SELECT statement for procedure using named argument
// notation, with arguments bound in sorted key order.
func BuildCall(procedure string, params rpc.Params) (string, []any, error) {
	if !identPattern.MatchString(procedure) {
		return "", nil, fmt.Errorf("invalid procedure name %q", procedure)
	}

	keys := params.Keys()
	args := make([]any, 0, len(keys))
	named := make([]string, 0, len(keys))
	for i, k := range keys {
		if !identPattern.MatchString(k) || strings.Contains(k, ".") {
			return "", nil, fmt.Errorf("invalid parameter name %q", k)
		}
		named = append(named, fmt.Sprintf("%s => $%d", k, i+1))
		args = append(args, params[k])
	}

	return fmt.Sprintf("SELECT * FROM %s(%s)", procedure, strings.Join(named, ", ")), args, nil
}

// Invoke runs the procedure and encodes its rows as a JSON array of objects.
// A single row with a single JSON column is returned unwrapped, the way
// PostgREST returns functions declared to return json.
func (a *Adapter) Invoke(ctx context.Context, procedure string, params rpc.Params) (json.RawMessage, error) {
	if a.DB == nil {
		return nil, rpc.ErrNotConnected
	}

	query, args, err := BuildCall(procedure, params)
	if err != nil {
		return nil, err
	}

	a.Logger.Debug("invoking procedure", slog.String("procedure", procedure), slog.String("sql", query))

	rows, err := a.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyError(procedure, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, rpc.TransportError(procedure, err)
	}

	var records []*orderedmap.OrderedMap[string, any]
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, rpc.TransportError(procedure, fmt.Errorf("failed to scan row: %w", err))
		}

		rec := orderedmap.New[string, any]()
		for i, col := range cols {
			rec.Set(col.Name(), jsonValue(values[i], col.DatabaseTypeName()))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, rpc.TransportError(procedure, fmt.Errorf("error iterating rows: %w", err))
	}

	if len(records) == 1 && len(cols) == 1 {
		if raw, ok := records[0].Oldest().Value.(json.RawMessage); ok {
			return raw, nil
		}
	}

	if records == nil {
		return json.RawMessage("[]"), nil
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s result: %w", procedure, err)
	}
	return data, nil
}

// jsonValue converts a scanned driver value to something that encodes the way
// PostgREST would render the column.
func jsonValue(v any, dbType string) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		if isJSONType(dbType) && json.Valid(x) {
			return json.RawMessage(append([]byte(nil), x...))
		}
		return string(x)
	case string:
		if isJSONType(dbType) && json.Valid([]byte(x)) {
			return json.RawMessage(x)
		}
		if strings.EqualFold(dbType, "NUMERIC") {
			return json.Number(x)
		}
		return x
	case time.Time:
		return x.Format(time.RFC3339Nano)
	default:
		return x
	}
}

func isJSONType(dbType string) bool {
	return strings.EqualFold(dbType, "JSON") || strings.EqualFold(dbType, "JSONB")
}

// classifyError separates errors raised by the database from connection failures.
func classifyError(procedure string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &rpc.RemoteError{
			Procedure: procedure,
			Code:      pgErr.Code,
			Message:   pgErr.Message,
			Details:   pgErr.Detail,
			Hint:      pgErr.Hint,
		}
	}
	return rpc.TransportError(procedure, err)
}
