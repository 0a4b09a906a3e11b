package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/gestcom/internal/payload"
	"gopkg.in/yaml.v3"
)

// Column headers used when a record or scalar list is shown as a table.
const (
	fieldHeader = "Campo"
	valueHeader = "Valor"
)

func (r *Renderer) renderTable(title string, res *payload.Result) error {
	r.banner(title)

	if res.Kind == payload.KindEmpty {
		_, _ = fmt.Fprintln(r.out, NoResults)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	count := 0
	switch res.Kind {
	case payload.KindRecord:
		t.AppendHeader(table.Row{fieldHeader, valueHeader})
		for pair := res.Record.Oldest(); pair != nil; pair = pair.Next() {
			t.AppendRow(table.Row{pair.Key, cellValue(pair.Value, "\n")})
			count++
		}
	case payload.KindRecordSet:
		header := make(table.Row, len(res.Columns))
		for i, col := range res.Columns {
			header[i] = col
		}
		t.AppendHeader(header)
		for _, row := range res.Rows {
			values := rowValues(row, res.Columns)
			cells := make(table.Row, len(values))
			for i, v := range values {
				cells[i] = v
			}
			t.AppendRow(cells)
		}
		count = len(res.Rows)
	case payload.KindScalarList:
		t.AppendHeader(table.Row{valueHeader})
		for _, item := range res.Items {
			t.AppendRow(table.Row{payload.FormatValue(item)})
		}
		count = len(res.Items)
	}

	t.Render()
	_, _ = fmt.Fprintf(r.out, "(%d filas)\n", count)
	return nil
}

func (r *Renderer) renderMarkdown(title string, res *payload.Result) error {
	_, _ = fmt.Fprintf(r.out, "## %s\n\n", title)

	var header []string
	var rows [][]string

	switch res.Kind {
	case payload.KindRecord:
		header = []string{fieldHeader, valueHeader}
		for pair := res.Record.Oldest(); pair != nil; pair = pair.Next() {
			rows = append(rows, []string{pair.Key, cellValue(pair.Value, "<br>")})
		}
	case payload.KindRecordSet:
		header = res.Columns
		for _, row := range res.Rows {
			rows = append(rows, rowValues(row, res.Columns))
		}
	case payload.KindScalarList:
		header = []string{valueHeader}
		for _, item := range res.Items {
			rows = append(rows, []string{payload.FormatValue(item)})
		}
	default:
		_, _ = fmt.Fprintf(r.out, "_%s_\n", NoResults)
		return nil
	}

	writeMarkdownRow(r.out, header)
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
	}
	writeMarkdownRow(r.out, seps)
	for _, row := range rows {
		writeMarkdownRow(r.out, row)
	}
	return nil
}

func writeMarkdownRow(w io.Writer, cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(strings.ReplaceAll(c, "|", `\|`), "\n", "<br>")
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(escaped, " | "))
}

// cellValue formats a record field for a single table cell, putting list
// elements on separate lines joined by sep.
func cellValue(raw json.RawMessage, sep string) string {
	if !payload.IsList(raw) {
		return payload.FormatValue(raw)
	}
	items := payload.Elements(raw)
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + payload.FormatValue(item)
	}
	return strings.Join(lines, sep)
}

func renderCSV(w io.Writer, res *payload.Result) error {
	cw := csv.NewWriter(w)

	switch res.Kind {
	case payload.KindRecord:
		_ = cw.Write([]string{fieldHeader, valueHeader})
		for pair := res.Record.Oldest(); pair != nil; pair = pair.Next() {
			_ = cw.Write([]string{pair.Key, cellValue(pair.Value, "\n")})
		}
	case payload.KindRecordSet:
		_ = cw.Write(res.Columns)
		for _, row := range res.Rows {
			_ = cw.Write(rowValues(row, res.Columns))
		}
	case payload.KindScalarList:
		_ = cw.Write([]string{valueHeader})
		for _, item := range res.Items {
			_ = cw.Write([]string{payload.FormatValue(item)})
		}
	}

	cw.Flush()
	return cw.Error()
}

func renderJSON(w io.Writer, res *payload.Result) error {
	raw := res.Raw
	if payload.IsNull(raw) {
		raw = json.RawMessage("null")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

// renderYAML converts the payload through a yaml.Node so mappings keep their
// wire order, then drops the JSON flow and quoting styles.
func renderYAML(w io.Writer, res *payload.Result) error {
	raw := res.Raw
	if payload.IsNull(raw) {
		raw = json.RawMessage("null")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return fmt.Errorf("failed to convert payload to YAML: %w", err)
	}
	resetStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

func resetStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		resetStyle(c)
	}
}
