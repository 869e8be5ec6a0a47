// Package relation infers a relational schema from a JSON document tree
// and generates the rows that populate it.
//
// A conversion is three passes over the tree, run in order on a Session:
//
//  1. AssignIDs gives every object a unique increasing id and records
//     parent linkage.
//  2. Analyze creates table schemas and routes every object into one.
//  3. Resolve finalizes table names and reconciles duplicate entities.
//
// EmitRows then mirrors the Analyze traversal to produce rows, either
// buffered on the tables or streamed to a RowSink.
package relation

import "strings"

// Table is one inferred relational table. Name and Columns are mutated by
// the resolver; Rows is populated by EmitRows (positionally aligned with
// Columns).
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	provisional string // pre-resolve name, stable registry key
	junction    bool   // synthesized for an array of scalars
	parentFK    int    // column index of the parent foreign key, -1 if none
	seqCol      int    // column index of seq, -1 if none
	valueCol    int    // column index of value (junction tables), -1 if none
	merged      bool
	mergedInto  string
	rowSeq      int // junction row id counter, per table
}

// Merged reports whether the table was folded into another during
// resolution. Merged tables are excluded from output.
func (t *Table) Merged() bool { return t.merged }

// MergedInto returns the canonical table name this table was folded into,
// or the empty string.
func (t *Table) MergedInto() string { return t.mergedInto }

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// payload is the column set that identifies the entity a table denotes:
// everything except the id, the seq counter, and foreign keys.
func (t *Table) payload() map[string]struct{} {
	p := make(map[string]struct{})
	for _, c := range t.Columns {
		if c == "id" || c == "seq" || strings.HasSuffix(c, "_id") {
			continue
		}
		p[c] = struct{}{}
	}
	return p
}

// singular strips a trailing "s" when the name is longer than one rune.
// A heuristic, not a linguistic singularizer; applied consistently
// wherever a table name becomes a foreign-key prefix.
func singular(s string) string {
	if len(s) > 1 && strings.HasSuffix(s, "s") {
		return s[:len(s)-1]
	}
	return s
}

// plural appends an "s" unless the name already ends in one.
func plural(s string) string {
	if strings.HasSuffix(s, "s") {
		return s
	}
	return s + "s"
}

// trimKey normalizes a JSON key before it is used as a column or table
// name.
func trimKey(k string) string { return strings.TrimSpace(k) }

func equalSets(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
