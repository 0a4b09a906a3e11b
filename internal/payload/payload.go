// Package payload classifies the loosely-typed JSON returned by remote
// procedures into a small set of shapes the renderer knows how to print.
//
// Classification happens once per response. Every mapping keeps the key order
// it had on the wire, so record set columns come out in the order the backend
// produced them.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the shape of a Result.
type Kind int

// Result shapes.
const (
	// KindEmpty covers empty sequences, null, a missing body and bare scalars.
	KindEmpty Kind = iota
	// KindRecord is a single mapping.
	KindRecord
	// KindRecordSet is a non-empty sequence of mappings sharing the first one's keys.
	KindRecordSet
	// KindScalarList is a non-empty sequence whose first element is not a mapping.
	KindScalarList
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindRecord:
		return "record"
	case KindRecordSet:
		return "record set"
	case KindScalarList:
		return "scalar list"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Record is a mapping with preserved key order. Values are left as raw JSON.
type Record = orderedmap.OrderedMap[string, json.RawMessage]

// Result is a classified payload.
type Result struct {
	Kind Kind

	// Record is set for KindRecord.
	Record *Record

	// Columns and Rows are set for KindRecordSet. Every row is guaranteed
	// to contain every column.
	Columns []string
	Rows    []*Record

	// Items is set for KindScalarList.
	Items []json.RawMessage

	// Raw is the payload exactly as received.
	Raw json.RawMessage
}

// Empty returns an empty Result.
func Empty() *Result {
	return &Result{Kind: KindEmpty, Raw: json.RawMessage("null")}
}

// Classify decodes raw and determines its shape.
//
// A record set whose later rows miss a column of the first row is rejected
// with *MissingColumnError; keys beyond the first row's are ignored.
func Classify(raw json.RawMessage) (*Result, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Empty(), nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}

	switch trimmed[0] {
	case '{':
		rec, err := DecodeRecord(trimmed)
		if err != nil {
			return nil, err
		}
		return &Result{Kind: KindRecord, Record: rec, Raw: trimmed}, nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode payload list: %w", err)
		}
		if len(items) == 0 {
			return &Result{Kind: KindEmpty, Raw: trimmed}, nil
		}
		if !IsObject(items[0]) {
			return &Result{Kind: KindScalarList, Items: items, Raw: trimmed}, nil
		}
		return classifyRecordSet(items, trimmed)

	default:
		return &Result{Kind: KindEmpty, Raw: trimmed}, nil
	}
}

func classifyRecordSet(items []json.RawMessage, raw json.RawMessage) (*Result, error) {
	rows := make([]*Record, 0, len(items))
	var columns []string

	for i, item := range items {
		if !IsObject(item) {
			return nil, &NotRecordError{Row: i}
		}
		rec, err := DecodeRecord(item)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		if i == 0 {
			columns = Keys(rec)
		} else {
			for _, col := range columns {
				if _, ok := rec.Get(col); !ok {
					return nil, &MissingColumnError{Row: i, Column: col}
				}
			}
		}
		rows = append(rows, rec)
	}

	return &Result{Kind: KindRecordSet, Columns: columns, Rows: rows, Raw: raw}, nil
}

// DecodeRecord decodes a JSON object preserving its key order.
func DecodeRecord(raw json.RawMessage) (*Record, error) {
	rec := orderedmap.New[string, json.RawMessage]()
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}

// Keys returns the keys of rec in insertion order.
func Keys(rec *Record) []string {
	keys := make([]string, 0, rec.Len())
	for pair := rec.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// IsObject reports whether raw is a JSON object.
func IsObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// IsList reports whether raw is a JSON array.
func IsList(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// IsNull reports whether raw is JSON null or absent.
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Elements splits a JSON array into its elements. It returns nil for anything
// that is not an array.
func Elements(raw json.RawMessage) []json.RawMessage {
	if !IsList(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// FormatValue renders a raw JSON value as text: strings verbatim, numbers and
// booleans as written, null as NULL, and nested structures as compact JSON.
func FormatValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if IsNull(trimmed) {
		return "NULL"
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.String()
		}
	}
	return string(trimmed)
}
