package gateway

import (
	"context"
	"encoding/json"

	"github.com/leapstack-labs/gestcom/pkg/rpc"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Backend procedure names.
const (
	ProcInventory           = "obtener_inventario_local"
	ProcPaymentHistory      = "obtener_historial_pagos"
	ProcPendingInstallments = "obtener_clientes_cuotas_pendientes"
	ProcDisabledStores      = "obtener_locales_inhabilitados"
	ProcTopEarningStores    = "obtener_locales_mayores_ganancias"
	ProcBestSellingProducts = "obtener_productos_mas_vendidos"
	ProcStoreOrders         = "obtener_pedidos_por_local"
	ProcOwnerStores         = "obtener_locales_por_dueno"
)

// Payment kinds understood by the backend. They are not enforced.
const (
	PaymentKindStore    = "local"
	PaymentKindCustomer = "cliente"
	PaymentKindEmployee = "empleado"
)

var lower = cases.Lower(language.Und)

// NormalizePaymentKind lower-cases kind.
func NormalizePaymentKind(kind string) string {
	return lower.String(kind)
}

// Inventory returns the stock of a store.
func (g *Gateway) Inventory(ctx context.Context, storeID int) (json.RawMessage, error) {
	return g.call(ctx, ProcInventory, rpc.Params{"local_id": storeID})
}

// PaymentHistory returns the payments of a store, customer or employee.
func (g *Gateway) PaymentHistory(ctx context.Context, kind string, entityID int) (json.RawMessage, error) {
	return g.call(ctx, ProcPaymentHistory, rpc.Params{
		"tipo_pago":  NormalizePaymentKind(kind),
		"id_entidad": entityID,
	})
}

// PendingInstallments returns customers with unpaid installments.
func (g *Gateway) PendingInstallments(ctx context.Context) (json.RawMessage, error) {
	return g.call(ctx, ProcPendingInstallments, nil)
}

// DisabledStores returns stores that are currently disabled.
func (g *Gateway) DisabledStores(ctx context.Context) (json.RawMessage, error) {
	return g.call(ctx, ProcDisabledStores, nil)
}

// TopEarningStores returns stores ranked by earnings.
func (g *Gateway) TopEarningStores(ctx context.Context) (json.RawMessage, error) {
	return g.call(ctx, ProcTopEarningStores, nil)
}

// BestSellingProducts returns products ranked by units sold.
func (g *Gateway) BestSellingProducts(ctx context.Context) (json.RawMessage, error) {
	return g.call(ctx, ProcBestSellingProducts, nil)
}

// StoreOrders returns the orders of a store with their customers.
func (g *Gateway) StoreOrders(ctx context.Context, storeID int) (json.RawMessage, error) {
	return g.call(ctx, ProcStoreOrders, rpc.Params{"local_id": storeID})
}
