package payload

import "fmt"

// MissingColumnError is returned when a record set row lacks a column that
// the first row defines.
type MissingColumnError struct {
	Row    int
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("row %d has no column %q (columns are taken from the first row)", e.Row, e.Column)
}

// NotRecordError is returned when a record set mixes mappings with other values.
type NotRecordError struct {
	Row int
}

func (e *NotRecordError) Error() string {
	return fmt.Sprintf("row %d is not a record", e.Row)
}
