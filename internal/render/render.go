package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// List writes rows under a header row as an ASCII table.
func List(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(toAny(headers)...)

	for _, row := range rows {
		if err := table.Append(toAny(row)...); err != nil {
			return fmt.Errorf("append table row: %w", err)
		}
	}

	return table.Render()
}

// FieldValue writes one record as Field/Value rows, the way single-item
// show commands display their output.
func FieldValue(w io.Writer, fields []string, values []string) error {
	rows := make([][]string, 0, len(fields))
	for i, field := range fields {
		value := ""
		if i < len(values) {
			value = values[i]
		}

		rows = append(rows, []string{field, value})
	}

	return List(w, []string{"Field", "Value"}, rows)
}

// JSON writes the value as indented JSON, for --output json.
func JSON(w io.Writer, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	if _, err = fmt.Fprintln(w, string(encoded)); err != nil {
		return err
	}

	return nil
}

// toAny converts a string slice for tablewriter's variadic API.
func toAny(values []string) []any {
	result := make([]any, len(values))
	for i, value := range values {
		result[i] = value
	}

	return result
}
