package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/gestcom/internal/payload"
)

// ColumnSeparator joins record set cells in plain mode.
const ColumnSeparator = " | "

func (r *Renderer) renderPlain(title string, res *payload.Result) error {
	r.banner(title)
	WritePlainBody(r.out, res)
	r.closingRule()
	return nil
}

// WritePlainBody writes the body of res without banner or closing rule.
func WritePlainBody(w io.Writer, res *payload.Result) {
	switch res.Kind {
	case payload.KindRecord:
		for pair := res.Record.Oldest(); pair != nil; pair = pair.Next() {
			if payload.IsList(pair.Value) {
				_, _ = fmt.Fprintf(w, "%s:\n", pair.Key)
				for _, item := range payload.Elements(pair.Value) {
					_, _ = fmt.Fprintf(w, "  - %s\n", payload.FormatValue(item))
				}
				continue
			}
			_, _ = fmt.Fprintf(w, "%s: %s\n", pair.Key, payload.FormatValue(pair.Value))
		}

	case payload.KindRecordSet:
		_, _ = fmt.Fprintln(w, strings.Join(res.Columns, ColumnSeparator))
		_, _ = fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
		for _, row := range res.Rows {
			_, _ = fmt.Fprintln(w, strings.Join(rowValues(row, res.Columns), ColumnSeparator))
		}

	case payload.KindScalarList:
		for _, item := range res.Items {
			_, _ = fmt.Fprintf(w, "- %s\n", payload.FormatValue(item))
		}

	default:
		_, _ = fmt.Fprintln(w, NoResults)
	}
}

// rowValues formats row's cells in column order.
func rowValues(row *payload.Record, columns []string) []string {
	values := make([]string, len(columns))
	for i, col := range columns {
		v, _ := row.Get(col)
		values[i] = payload.FormatValue(v)
	}
	return values
}
