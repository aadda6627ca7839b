// Package id parses the client and transaction identifiers of input records.
package id

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClient parses a client identifier, an unsigned 16-bit integer.
func ParseClient(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid client id %q: %w", s, err)
	}
	return uint16(v), nil
}

// ParseTx parses a transaction identifier, an unsigned 32-bit integer.
func ParseTx(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid tx id %q: %w", s, err)
	}
	return uint32(v), nil
}

// FormatClient renders a client identifier for output.
func FormatClient(c uint16) string {
	return strconv.FormatUint(uint64(c), 10)
}

// FormatTx renders a transaction identifier for output.
func FormatTx(tx uint32) string {
	return strconv.FormatUint(uint64(tx), 10)
}
