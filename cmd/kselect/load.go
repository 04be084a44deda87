package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// matrix is a customer-by-offer response matrix read from CSV.
type matrix struct {
	// Names holds the first column of each row when the file is labelled.
	Names []string
	// Columns holds the header, minus the label column, when present.
	Columns []string
	Rows    [][]float64
}

// readMatrix parses a pivoted response matrix. With header set, the first
// record names the columns. With labelled set, the first field of every
// record is a row name (e.g. the customer) rather than a value. Empty cells
// count as 0, the way a pivot fills offers a customer never responded to.
func readMatrix(r io.Reader, header, labelled bool) (*matrix, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not read csv: %w", err)
	}

	m := &matrix{}
	offset := 0
	if labelled {
		offset = 1
	}

	if header {
		if len(records) == 0 {
			return nil, fmt.Errorf("missing header row")
		}
		if len(records[0]) > offset {
			m.Columns = records[0][offset:]
		}
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no data rows")
	}

	for line, rec := range records {
		if len(rec) <= offset {
			return nil, fmt.Errorf("row %d has no values", line+1)
		}
		if labelled {
			m.Names = append(m.Names, rec[0])
		}
		row := make([]float64, len(rec)-offset)
		for j, field := range rec[offset:] {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", line+1, j+offset+1, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("row %d column %d: non-finite value %q", line+1, j+offset+1, field)
			}
			row[j] = v
		}
		m.Rows = append(m.Rows, row)
	}

	return m, nil
}
