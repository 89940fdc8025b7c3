// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Shell labels an orbital block in the basis-set file.
type Shell string

const (
	ShellS Shell = "S"
	ShellP Shell = "P"
)

// Hydrogen is the element symbol that never receives a P block.
const Hydrogen = "h"

// ExponentRecord is one data row of the exponent table.
type ExponentRecord struct {
	// Line is the 1-based line number in the source table.
	Line int `json:"line" yaml:"line"`

	// Element is the second field of the row, lower-cased (e.g. "he").
	Element string `json:"element" yaml:"element"`

	// Theta is the last field of the row, copied verbatim. It is never
	// parsed as a number so its textual form survives into the output.
	Theta string `json:"theta" yaml:"theta"`
}

// Shells returns the orbital blocks emitted for r. Every element gets an S
// block; with pfunc set, every element except hydrogen also gets a P block.
func (r ExponentRecord) Shells(pfunc bool) []Shell {
	if pfunc && r.Element != Hydrogen {
		return []Shell{ShellS, ShellP}
	}
	return []Shell{ShellS}
}
