package relation

import (
	"strconv"

	"github.com/relcsv/relcsv/internal/ast"
)

// Analyze is the schema-discovery pass. It walks the tree in the same
// order AssignIDs did, creates a table on first sight of each nesting
// position, and widens existing tables as later objects introduce new
// scalar fields. Columns are appended in first-seen order and never
// reordered or removed.
func (s *Session) Analyze() {
	if s.doc.Root == ast.InvalidNode {
		return
	}
	switch s.doc.Node(s.doc.Root).Kind {
	case ast.KindObject:
		s.analyzeObject(s.doc.Root)
	case ast.KindArray:
		s.analyzeArray(s.doc.Root)
	}
}

func (s *Session) analyzeObject(id ast.NodeID) {
	n := s.doc.Node(id)
	if name := s.objectTable(n.Table); name != n.Table {
		n.Table = name
		for _, m := range n.Members {
			s.doc.Node(m.Value).ParentTable = name
		}
	}
	t := s.tables[n.Table]
	if t == nil {
		t = s.createTable(n.Table)
	}

	// Scalar fields widen the schema in first-seen order.
	for _, m := range n.Members {
		if s.doc.Node(m.Value).Scalar() {
			key := trimKey(m.Key)
			if t.ColumnIndex(key) < 0 {
				t.Columns = append(t.Columns, key)
			}
		}
	}

	for _, m := range n.Members {
		v := s.doc.Node(m.Value)
		switch v.Kind {
		case ast.KindObject:
			// Resolve the child's table first, then reference it from the
			// containing table.
			s.analyzeObject(m.Value)
			child := s.tables[v.Table]
			fk := singular(child.Name) + "_id"
			if t.ColumnIndex(fk) < 0 {
				t.Columns = append(t.Columns, fk)
			}
		case ast.KindArray:
			s.analyzeArray(m.Value)
		}
	}
}

func (s *Session) analyzeArray(id ast.NodeID) {
	a := s.doc.Node(id)
	switch {
	case s.doc.ArrayOfObjects(id):
		name := a.ParentKey
		if name == "" {
			name = defaultArrayTable
		}
		name = s.objectTable(name)
		t := s.tables[name]
		if t == nil {
			t = s.createTable(name)
			if a.ParentTable != "" {
				t.parentFK = len(t.Columns)
				t.Columns = append(t.Columns, singular(a.ParentTable)+"_id")
			}
			t.seqCol = len(t.Columns)
			t.Columns = append(t.Columns, "seq")
		}
		for _, e := range a.Elems {
			s.analyzeObject(e)
		}

	case s.doc.ArrayOfScalars(id) && a.ParentTable != "":
		name := a.ParentKey
		if s.tables[name] == nil {
			t := s.createTable(name)
			t.junction = true
			t.parentFK = len(t.Columns)
			t.Columns = append(t.Columns, singular(a.ParentTable)+"_id")
			t.seqCol = len(t.Columns)
			t.Columns = append(t.Columns, "seq")
			t.valueCol = len(t.Columns)
			t.Columns = append(t.Columns, "value")
		}

	default:
		// Mixed, empty, and nested arrays are not decomposed into tables.
	}
}

// objectTable returns the table name for objects routed to name. When a
// scalar array already claimed the name as a junction table, objects go
// to a counter-suffixed sibling so the junction keeps its fixed shape.
// The walk is deterministic: every object with the same key lands on the
// same sibling.
func (s *Session) objectTable(name string) string {
	cand := name
	for i := 1; ; i++ {
		t := s.tables[cand]
		if t == nil || !t.junction {
			return cand
		}
		cand = name + strconv.Itoa(i)
	}
}
