package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cfcosta/fictional-octo-dollop/internal/id"
	"github.com/cfcosta/fictional-octo-dollop/internal/model"
	"github.com/cfcosta/fictional-octo-dollop/internal/money"
)

// Header is the CSV header of the account snapshot.
const Header = "client,available,held,total,locked"

const (
	numFields    = 5
	colClient    = 0
	colAvailable = 1
	colHeld      = 2
	colTotal     = 3
	colLocked    = 4
)

// WriteRows writes the account snapshot (including header).
func WriteRows(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRows reads an account snapshot written by WriteRows.
func ReadRows(r io.Reader) ([]model.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var rows []model.Row
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(row model.Row) []string {
	rec := make([]string, numFields)
	rec[colClient] = id.FormatClient(row.Client)
	rec[colAvailable] = row.Available.String()
	rec[colHeld] = row.Held.String()
	rec[colTotal] = row.Total.String()
	rec[colLocked] = strconv.FormatBool(row.Locked)
	return rec
}

// UnmarshalRow converts a CSV record to a Row.
func UnmarshalRow(record []string) (model.Row, error) {
	if len(record) != numFields {
		return model.Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	client, err := id.ParseClient(record[colClient])
	if err != nil {
		return model.Row{}, err
	}

	var amounts [3]money.Money
	for i, col := range []int{colAvailable, colHeld, colTotal} {
		amounts[i], err = money.Parse(record[col])
		if err != nil {
			return model.Row{}, fmt.Errorf("parsing column %d: %w", col, err)
		}
	}

	locked, err := strconv.ParseBool(strings.TrimSpace(record[colLocked]))
	if err != nil {
		return model.Row{}, fmt.Errorf("parsing locked %q: %w", record[colLocked], err)
	}

	return model.Row{
		Client:    client,
		Available: amounts[0],
		Held:      amounts[1],
		Total:     amounts[2],
		Locked:    locked,
	}, nil
}
