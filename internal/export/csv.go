// Package export writes tabular downloads (CSV, Excel) for the admin
// submissions export.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
)

// Common errors.
var (
	ErrNoData       = errors.New("export: no data to export")
	ErrEmptyHeaders = errors.New("export: headers cannot be empty")
)

// CSV represents a CSV exporter.
type CSV struct {
	headers []string
	rows    [][]string
}

// NewCSV creates a new CSV exporter.
func NewCSV() *CSV {
	return &CSV{}
}

// Headers sets the column headers.
func (c *CSV) Headers(headers ...string) *CSV {
	c.headers = headers
	return c
}

// Row appends a data row.
func (c *CSV) Row(values ...string) *CSV {
	c.rows = append(c.rows, values)
	return c
}

// Bytes renders the CSV document.
func (c *CSV) Bytes() ([]byte, error) {
	if len(c.headers) == 0 {
		return nil, ErrEmptyHeaders
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(c.headers); err != nil {
		return nil, err
	}
	for _, row := range c.rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHTTP writes the CSV as a file download on the given response.
func (c *CSV) WriteHTTP(w http.ResponseWriter, filename string) error {
	data, err := c.Bytes()
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, err = w.Write(data)
	return err
}
