// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package basis renders exponent records as a fixed-format basis-set file:
// a $DATA header, one block per element, and a closing $END marker.
//
// Each block lists one uncontracted primitive per shell:
//
//	he
//	S   1
//	1         5.6             1.0000000
//
// The column spacing is consumed by downstream chemistry codes and must not
// change.
package basis

import (
	"fmt"
	"io"

	"github.com/pdiddy/risbas/pkg/types"
)

const (
	// Header opens the file and is followed by a blank line.
	Header = "$DATA\n\n"

	// Footer closes the file. No newline follows it.
	Footer = "$END"

	// coefficient is the contraction coefficient of every primitive.
	coefficient = "1.0000000"
)

// WriteHeader writes the $DATA header.
func WriteHeader(w io.Writer) error {
	_, err := io.WriteString(w, Header)
	return err
}

// WriteFooter writes the $END marker.
func WriteFooter(w io.Writer) error {
	_, err := io.WriteString(w, Footer)
	return err
}

// WriteBlock writes the element block for rec, terminated by a blank line.
func WriteBlock(w io.Writer, rec types.ExponentRecord, pfunc bool) error {
	if _, err := fmt.Fprintf(w, "%s\n", rec.Element); err != nil {
		return err
	}
	for _, sh := range rec.Shells(pfunc) {
		if err := writeShell(w, sh, rec.Theta); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeShell(w io.Writer, sh types.Shell, theta string) error {
	_, err := fmt.Fprintf(w, "%s   1\n1         %s             %s\n", sh, theta, coefficient)
	return err
}

// Write renders a complete basis file for records in order.
func Write(w io.Writer, records []types.ExponentRecord, pfunc bool) error {
	if err := WriteHeader(w); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		if err := WriteBlock(w, rec, pfunc); err != nil {
			return fmt.Errorf("writing block for %s (line %d): %w", rec.Element, rec.Line, err)
		}
	}
	if err := WriteFooter(w); err != nil {
		return fmt.Errorf("writing footer: %w", err)
	}
	return nil
}
