package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/gestcom/internal/payload"
	"github.com/leapstack-labs/gestcom/pkg/rpc"
)

// NoInfoMessage is reported when the owner lookup returns nothing.
const NoInfoMessage = "No se pudo obtener la información"

// OwnerStores returns the record of an owner and their stores. It never
// fails: transport errors and unusable answers come back as a record with
// an "error" key, and a missing or null stores field becomes [].
func (g *Gateway) OwnerStores(ctx context.Context, ownerID int) json.RawMessage {
	raw, err := g.call(ctx, ProcOwnerStores, rpc.Params{"dueno_id": ownerID})
	if err != nil {
		g.logger.Warn("owner stores lookup failed", "owner_id", ownerID, "error", err)
		return ErrorPayload(err.Error())
	}
	return NormalizeOwnerStores(raw, g.storesField)
}

// NormalizeOwnerStores turns an owner lookup answer into a single record.
func NormalizeOwnerStores(raw json.RawMessage, storesField string) json.RawMessage {
	if payload.IsNull(raw) {
		return ErrorPayload(NoInfoMessage)
	}

	first := raw
	if payload.IsList(raw) {
		items := payload.Elements(raw)
		if len(items) == 0 {
			return ErrorPayload(NoInfoMessage)
		}
		first = items[0]
	}
	if !payload.IsObject(first) {
		return ErrorPayload(fmt.Sprintf("respuesta inesperada: %s", payload.FormatValue(first)))
	}

	rec, err := payload.DecodeRecord(first)
	if err != nil {
		return ErrorPayload(err.Error())
	}
	if rec.Len() == 0 {
		return ErrorPayload(NoInfoMessage)
	}
	if _, ok := rec.Get("error"); ok {
		return first
	}

	if v, ok := rec.Get(storesField); !ok || payload.IsNull(v) {
		rec.Set(storesField, json.RawMessage("[]"))
	}

	out, err := json.Marshal(rec)
	if err != nil {
		return ErrorPayload(err.Error())
	}
	return out
}

// ErrorPayload builds the record {"error": msg}.
func ErrorPayload(msg string) json.RawMessage {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return out
}
