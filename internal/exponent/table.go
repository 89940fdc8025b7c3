// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package exponent reads the per-element exponent table that feeds the basis
// writer. The table is plain text: lines starting with '#' are comments, all
// other lines hold whitespace-separated fields where field 1 is the element
// symbol (field 0 on two-field rows) and the last field is the exponent.
package exponent

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/risbas/pkg/types"
)

// commentPrefix marks header and explanatory lines.
const commentPrefix = "#"

// maxLineBytes bounds a single table line. Longer lines fail the parse with
// bufio.ErrTooLong.
const maxLineBytes = 1 << 20

// ErrMalformedLine is returned for a data line with fewer than two fields.
var ErrMalformedLine = errors.New("malformed exponent line")

// Table is the parsed content of an exponent file.
type Table struct {
	// Records holds the data rows in file order.
	Records []types.ExponentRecord

	// Comments counts the '#' lines that were skipped.
	Comments int

	// Blank counts whitespace-only lines that were skipped.
	Blank int
}

// ReadFile opens path and parses it with Parse.
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("opening exponent table: %w", err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads an exponent table from r. name is used in error messages only.
// The first malformed data line aborts the parse.
func Parse(r io.Reader, name string) (Table, error) {
	var t Table
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	sc.Split(scanLines)

	ln := 0
	for sc.Scan() {
		ln++
		line := sc.Text()
		if strings.HasPrefix(line, commentPrefix) {
			t.Comments++
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			t.Blank++
			continue
		}
		rec, err := ParseLine(fields, ln)
		if err != nil {
			return Table{}, fmt.Errorf("%s:%d: %w", name, ln, err)
		}
		t.Records = append(t.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return Table{}, fmt.Errorf("reading %s: %w", name, err)
	}
	return t, nil
}

// ParseLine builds a record from the fields of one data line. Full table rows
// (Z, symbol, ..., theta) carry the symbol in field 1. A two-field row is
// just symbol and theta, so the symbol is field 0.
func ParseLine(fields []string, line int) (types.ExponentRecord, error) {
	if len(fields) < 2 {
		return types.ExponentRecord{}, fmt.Errorf("%w: want at least 2 fields, got %d", ErrMalformedLine, len(fields))
	}
	symbol := fields[1]
	if len(fields) == 2 {
		symbol = fields[0]
	}
	return types.ExponentRecord{
		Line:    line,
		Element: strings.ToLower(symbol),
		Theta:   fields[len(fields)-1],
	}, nil
}

// scanLines is bufio.ScanLines extended to end lines at "\n", "\r\n" or a
// lone "\r".
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// A trailing '\r' may be the first half of "\r\n".
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
