package relation

import (
	"strconv"
	"strings"
)

// Resolve is the second core pass. It turns provisional table names into
// their final human-readable form, rewrites foreign-key columns to match,
// and folds tables that denote the same entity into one. It adds no
// structural facts: row counts and column cardinality are unchanged.
//
// Resolve is idempotent; running it on an already-resolved session
// triggers no further renames or merges.
func (s *Session) Resolve() {
	s.renameRoot()
	s.mergeDuplicates()
}

// renameRoot renames the "root" table to the pluralized form of its first
// column that is neither the id nor a foreign key, falling back to a
// fixed generic name when no such column exists.
func (s *Session) renameRoot() {
	t := s.tables[rootTableName]
	if t == nil || t.Name != rootTableName {
		return
	}
	name := ""
	for _, c := range t.Columns {
		if c == "id" || strings.HasSuffix(c, "_id") {
			continue
		}
		name = plural(c)
		break
	}
	if name == "" {
		name = fallbackRootName
	}
	s.renameTable(t, name)
}

// renameTable renames t and rewrites every foreign-key column in the
// schema whose prefix, pluralized, matches the old name, so that
// "<old>_id" becomes "<new-singular>_id" consistently. A proposed name
// already held by another live table gets a counter suffix, so no two
// live tables ever share a name.
func (s *Session) renameTable(t *Table, name string) {
	old := t.Name
	name = s.uniqueName(name, t)
	if old == name {
		return
	}
	t.Name = name
	fk := singular(name) + "_id"
	for _, u := range s.order {
		for i, col := range u.Columns {
			if strings.HasSuffix(col, "_id") && plural(strings.TrimSuffix(col, "_id")) == old {
				u.Columns[i] = fk
			}
		}
	}
}

func (s *Session) uniqueName(name string, t *Table) string {
	cand := name
	for i := 1; s.nameInUse(cand, t); i++ {
		cand = name + strconv.Itoa(i)
	}
	return cand
}

func (s *Session) nameInUse(name string, except *Table) bool {
	for _, u := range s.order {
		if u != except && !u.merged && u.Name == name {
			return true
		}
	}
	return false
}

// mergeDuplicates folds tables that denote the same entity: names equal
// after singularization and identical non-trivial payload column sets.
// Junction tables (a bare seq/value shape) never merge. The
// first-created table is kept as canonical; foreign keys pointing at the
// merged name are repointed, and the merged table drops out of the live
// list. Its rows are not re-homed.
func (s *Session) mergeDuplicates() {
	for i := 0; i < len(s.order); i++ {
		a := s.order[i]
		if a.merged || a.junction {
			continue
		}
		pa := a.payload()
		if len(pa) == 0 {
			continue
		}
		for j := i + 1; j < len(s.order); j++ {
			b := s.order[j]
			if b.merged || b.junction {
				continue
			}
			if singular(a.Name) != singular(b.Name) {
				continue
			}
			if !equalSets(pa, b.payload()) {
				continue
			}
			s.merge(a, b)
		}
	}
}

func (s *Session) merge(canonical, dup *Table) {
	dup.merged = true
	dup.mergedInto = canonical.Name

	oldFK := singular(dup.Name) + "_id"
	newFK := singular(canonical.Name) + "_id"
	if oldFK == newFK {
		return
	}
	for _, u := range s.order {
		for i, col := range u.Columns {
			if col == oldFK {
				u.Columns[i] = newFK
			}
		}
	}
}
