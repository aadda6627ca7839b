// Package rejectlog records inputs the ledger refused, one CSV row each.
package rejectlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Entry is one row in the reject log.
type Entry struct {
	Line   int
	Type   string
	Client string
	Tx     string
	Amount string
	Reason string
}

// Header is the CSV header for the reject log.
const Header = "line,type,client,tx,amount,reason"

const (
	numFields = 6
	colLine   = 0
	colType   = 1
	colClient = 2
	colTx     = 3
	colAmount = 4
	colReason = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colLine] = strconv.Itoa(e.Line)
	row[colType] = e.Type
	row[colClient] = e.Client
	row[colTx] = e.Tx
	row[colAmount] = e.Amount
	row[colReason] = e.Reason
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	line, err := strconv.Atoi(record[colLine])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing line %q: %w", record[colLine], err)
	}

	return Entry{
		Line:   line,
		Type:   record[colType],
		Client: record[colClient],
		Tx:     record[colTx],
		Amount: record[colAmount],
		Reason: record[colReason],
	}, nil
}

// FromRecord builds an Entry from raw CSV fields. Missing fields stay empty.
func FromRecord(line int, record []string, reason error) Entry {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	return Entry{
		Line:   line,
		Type:   field(0),
		Client: field(1),
		Tx:     field(2),
		Amount: field(3),
		Reason: reason.Error(),
	}
}

// Writer appends entries to a reject log.
type Writer struct {
	cw     *csv.Writer
	closer io.Closer
}

// NewWriter writes the header to w and returns a Writer over it.
func NewWriter(w io.Writer) (*Writer, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return &Writer{cw: cw}, nil
}

// Create truncates or creates the file at path and returns a Writer over it.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating reject log: %w", err)
	}
	w, err := NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// Write appends one entry.
func (w *Writer) Write(e Entry) error {
	if err := w.cw.Write(MarshalEntry(e)); err != nil {
		return fmt.Errorf("writing reject entry: %w", err)
	}
	return nil
}

// Close flushes buffered entries and closes the underlying file, if any.
func (w *Writer) Close() error {
	w.cw.Flush()
	err := w.cw.Error()
	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Read returns all entries of a reject log.
func Read(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading reject log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
