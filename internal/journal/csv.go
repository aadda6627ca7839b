// Package journal reads transaction events from CSV.
package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cfcosta/fictional-octo-dollop/internal/id"
	"github.com/cfcosta/fictional-octo-dollop/internal/model"
	"github.com/cfcosta/fictional-octo-dollop/internal/money"
)

// Header is the CSV header of an input file.
const Header = "type,client,tx,amount"

const (
	minFields = 3 // amount may be omitted entirely
	numFields = 4
	colType   = 0
	colClient = 1
	colTx     = 2
	colAmount = 3
)

// RecordError reports a single malformed record. The Reader can keep
// going after one.
type RecordError struct {
	Line   int
	Record []string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Reader streams Inputs from a CSV source.
type Reader struct {
	cr      *csv.Reader
	started bool
	line    int
}

// NewReader creates a Reader. A leading header row is skipped if present.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{cr: cr}
}

// Line returns the line number of the record most recently returned by Next.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next Input. It returns io.EOF when the input is
// exhausted and a *RecordError for a record that cannot be parsed.
func (r *Reader) Next() (model.Input, error) {
	for {
		rec, err := r.cr.Read()
		if errors.Is(err, io.EOF) {
			return model.Input{}, io.EOF
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				r.line = perr.StartLine
				return model.Input{}, &RecordError{Line: perr.StartLine, Record: rec, Err: perr.Err}
			}
			return model.Input{}, fmt.Errorf("reading input CSV: %w", err)
		}
		r.line, _ = r.cr.FieldPos(0)

		first := !r.started
		r.started = true
		if first && isHeader(rec) {
			continue
		}

		in, err := UnmarshalInput(rec)
		if err != nil {
			return model.Input{}, &RecordError{Line: r.line, Record: rec, Err: err}
		}
		return in, nil
	}
}

// ReadInputs reads every Input from r, stopping at the first error.
func ReadInputs(r io.Reader) ([]model.Input, error) {
	jr := NewReader(r)
	var inputs []model.Input
	for {
		in, err := jr.Next()
		if errors.Is(err, io.EOF) {
			return inputs, nil
		}
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
}

// UnmarshalInput converts a CSV record to an Input. Fields are trimmed.
// The amount of a dispute, resolve or chargeback is ignored.
func UnmarshalInput(record []string) (model.Input, error) {
	if len(record) < minFields || len(record) > numFields {
		return model.Input{}, fmt.Errorf("expected %d or %d fields, got %d", minFields, numFields, len(record))
	}

	kind, err := model.ParseKind(record[colType])
	if err != nil {
		return model.Input{}, err
	}

	client, err := id.ParseClient(record[colClient])
	if err != nil {
		return model.Input{}, err
	}

	tx, err := id.ParseTx(record[colTx])
	if err != nil {
		return model.Input{}, err
	}

	in := model.Input{Kind: kind, Client: client, Tx: tx}

	if kind.CarriesAmount() && len(record) == numFields && strings.TrimSpace(record[colAmount]) != "" {
		amt, err := money.Parse(record[colAmount])
		if err != nil {
			return model.Input{}, err
		}
		in.Amount = &amt
	}

	return in, nil
}

// MarshalInput converts an Input back to a CSV record.
func MarshalInput(in model.Input) []string {
	rec := make([]string, numFields)
	rec[colType] = string(in.Kind)
	rec[colClient] = id.FormatClient(in.Client)
	rec[colTx] = id.FormatTx(in.Tx)
	if in.Amount != nil {
		rec[colAmount] = in.Amount.String()
	}
	return rec
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[colType]), "type")
}
