package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParamKind is the type of a query parameter as entered by the operator.
type ParamKind int

// Parameter kinds.
const (
	ParamInt ParamKind = iota
	ParamText
)

// Param describes one input of a query.
type Param struct {
	Name string
	Kind ParamKind
	// Prompt is shown by the menu. A "%s" verb is replaced by the value of
	// the previous parameter.
	Prompt string
}

// Query describes one entry of the menu.
type Query struct {
	Number    int
	Slug      string
	Label     string
	Procedure string
	// Title is a fmt template applied to the parameter values.
	Title  string
	Params []Param

	run func(ctx context.Context, g *Gateway, args []any) (json.RawMessage, error)
}

// Catalog lists the supported queries in menu order.
var Catalog = []Query{
	{
		Number:    1,
		Slug:      "inventory",
		Label:     "Mostrar inventario de un local",
		Procedure: ProcInventory,
		Title:     "Inventario del Local %d",
		Params:    []Param{{Name: "local_id", Kind: ParamInt, Prompt: "ID del local: "}},
		run: func(ctx context.Context, g *Gateway, args []any) (json.RawMessage, error) {
			return g.Inventory(ctx, args[0].(int))
		},
	},
	{
		Number:    2,
		Slug:      "payments",
		Label:     "Mostrar historial de pagos",
		Procedure: ProcPaymentHistory,
		Title:     "Historial de pagos (%s %d)",
		Params: []Param{
			{Name: "tipo_pago", Kind: ParamText, Prompt: "Tipo (local/cliente/empleado): "},
			{Name: "id_entidad", Kind: ParamInt, Prompt: "ID del %s: "},
		},
		run: func(ctx context.Context, g *Gateway, args []any) (json.RawMessage, error) {
			return g.PaymentHistory(ctx, args[0].(string), args[1].(int))
		},
	},
	{
		Number:    3,
		Slug:      "pending-installments",
		Label:     "Clientes con cuotas pendientes",
		Procedure: ProcPendingInstallments,
		Title:     "Clientes con cuotas pendientes",
		run: func(ctx context.Context, g *Gateway, _ []any) (json.RawMessage, error) {
			return g.PendingInstallments(ctx)
		},
	},
	{
		Number:    4,
		Slug:      "disabled-stores",
		Label:     "Locales inhabilitados",
		Procedure: ProcDisabledStores,
		Title:     "Locales inhabilitados",
		run: func(ctx context.Context, g *Gateway, _ []any) (json.RawMessage, error) {
			return g.DisabledStores(ctx)
		},
	},
	{
		Number:    5,
		Slug:      "top-stores",
		Label:     "Locales con mayores ganancias",
		Procedure: ProcTopEarningStores,
		Title:     "Locales con mayores ganancias",
		run: func(ctx context.Context, g *Gateway, _ []any) (json.RawMessage, error) {
			return g.TopEarningStores(ctx)
		},
	},
	{
		Number:    6,
		Slug:      "best-sellers",
		Label:     "Productos más vendidos",
		Procedure: ProcBestSellingProducts,
		Title:     "Productos más vendidos",
		run: func(ctx context.Context, g *Gateway, _ []any) (json.RawMessage, error) {
			return g.BestSellingProducts(ctx)
		},
	},
	{
		Number:    7,
		Slug:      "store-orders",
		Label:     "Pedidos por local",
		Procedure: ProcStoreOrders,
		Title:     "Pedidos del Local %d",
		Params:    []Param{{Name: "local_id", Kind: ParamInt, Prompt: "ID del local: "}},
		run: func(ctx context.Context, g *Gateway, args []any) (json.RawMessage, error) {
			return g.StoreOrders(ctx, args[0].(int))
		},
	},
	{
		Number:    8,
		Slug:      "owner-stores",
		Label:     "Locales por dueño",
		Procedure: ProcOwnerStores,
		Title:     "Locales del Dueño %d",
		Params:    []Param{{Name: "dueno_id", Kind: ParamInt, Prompt: "ID del dueño: "}},
		run: func(ctx context.Context, g *Gateway, args []any) (json.RawMessage, error) {
			return g.OwnerStores(ctx, args[0].(int)), nil
		},
	},
}

// Lookup finds a query by menu number or slug.
func Lookup(ref string) (Query, bool) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	n, numErr := strconv.Atoi(ref)
	for _, q := range Catalog {
		if (numErr == nil && q.Number == n) || q.Slug == ref {
			return q, true
		}
	}
	return Query{}, false
}

// PromptFor returns the prompt of parameter i given the values entered so far.
func (q Query) PromptFor(i int, prev []any) string {
	p := q.Params[i].Prompt
	if i > 0 && len(prev) >= i && strings.Contains(p, "%s") {
		return fmt.Sprintf(p, prev[i-1])
	}
	return p
}

// Normalize applies the conversions the gateway applies to text values, so
// titles and prompts show what is sent.
func (q Query) Normalize(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if s, ok := a.(string); ok && i < len(q.Params) && q.Params[i].Kind == ParamText {
			a = NormalizePaymentKind(s)
		}
		out[i] = a
	}
	return out
}

// TitleFor renders the title for args.
func (q Query) TitleFor(args []any) string {
	if len(q.Params) == 0 {
		return q.Title
	}
	return fmt.Sprintf(q.Title, args...)
}

// Run invokes the query. args must hold one value per parameter, int for
// ParamInt and string for ParamText.
func (q Query) Run(ctx context.Context, g *Gateway, args []any) (json.RawMessage, error) {
	if len(args) != len(q.Params) {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", q.Slug, len(q.Params), len(args))
	}
	for i, p := range q.Params {
		switch p.Kind {
		case ParamInt:
			if _, ok := args[i].(int); !ok {
				return nil, fmt.Errorf("%s: %s must be an integer", q.Slug, p.Name)
			}
		case ParamText:
			if _, ok := args[i].(string); !ok {
				return nil, fmt.Errorf("%s: %s must be text", q.Slug, p.Name)
			}
		}
	}
	return q.run(ctx, g, args)
}
