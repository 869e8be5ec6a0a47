package relation

import (
	"strconv"

	"github.com/relcsv/relcsv/internal/ast"
)

// RowSink receives rows for live tables as they are generated.
// Implemented by the streaming CSV writer.
type RowSink interface {
	WriteRow(t *Table, row []string) error
}

// EmitRows mirrors the Analyze traversal and emits one row per object and
// one row per scalar array element, in document order. Rows are always
// buffered on their tables; when sink is non-nil, rows belonging to live
// tables are additionally handed to it as they are produced.
//
// Calling EmitRows again regenerates the buffers from scratch.
func (s *Session) EmitRows(sink RowSink) error {
	for _, t := range s.order {
		t.Rows = nil
		t.rowSeq = 0
	}
	s.generated = true

	if s.doc.Root == ast.InvalidNode {
		return nil
	}
	switch s.doc.Node(s.doc.Root).Kind {
	case ast.KindObject:
		return s.emitObject(s.doc.Root, sink)
	case ast.KindArray:
		return s.emitArray(s.doc.Root, sink)
	}
	return nil
}

// Generated reports whether row buffers are populated.
func (s *Session) Generated() bool { return s.generated }

func (s *Session) emitObject(id ast.NodeID, sink RowSink) error {
	n := s.doc.Node(id)
	t := s.tables[n.Table]
	if t == nil {
		return nil
	}

	row := make([]string, len(t.Columns))
	row[0] = strconv.Itoa(n.ID)
	if t.parentFK >= 0 && n.ParentID > 0 {
		row[t.parentFK] = strconv.Itoa(n.ParentID)
	}
	if t.seqCol >= 0 && n.ArrayIndex >= 0 {
		row[t.seqCol] = strconv.Itoa(n.ArrayIndex)
	}

	for _, m := range n.Members {
		v := s.doc.Node(m.Value)
		switch {
		case v.Scalar():
			// Synthetic columns (id, parent FK, seq) win over document
			// fields that happen to share their name.
			if i := t.ColumnIndex(trimKey(m.Key)); i > 0 && i != t.parentFK && i != t.seqCol {
				row[i] = v.ScalarText()
			}
		case v.Kind == ast.KindObject:
			// The containing row references the nested object's id.
			child := s.tables[v.Table]
			if child == nil {
				continue
			}
			if i := t.ColumnIndex(singular(child.Name) + "_id"); i > 0 {
				row[i] = strconv.Itoa(v.ID)
			}
		}
	}

	if err := s.writeRow(t, row, sink); err != nil {
		return err
	}

	for _, m := range n.Members {
		switch s.doc.Node(m.Value).Kind {
		case ast.KindObject:
			if err := s.emitObject(m.Value, sink); err != nil {
				return err
			}
		case ast.KindArray:
			if err := s.emitArray(m.Value, sink); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) emitArray(id ast.NodeID, sink RowSink) error {
	a := s.doc.Node(id)
	switch {
	case s.doc.ArrayOfObjects(id):
		for _, e := range a.Elems {
			if err := s.emitObject(e, sink); err != nil {
				return err
			}
		}

	case s.doc.ArrayOfScalars(id) && a.ParentTable != "":
		name := a.ParentKey
		t := s.tables[name]
		if t == nil || !t.junction {
			// The key collided with a non-junction table; nothing to emit.
			return nil
		}
		for i, e := range a.Elems {
			// Junction row ids count up per table, not per array, so they
			// stay unique within the table across multiple owning objects.
			t.rowSeq++
			row := make([]string, len(t.Columns))
			row[0] = strconv.Itoa(t.rowSeq)
			if t.parentFK >= 0 && a.ParentID > 0 {
				row[t.parentFK] = strconv.Itoa(a.ParentID)
			}
			if t.seqCol >= 0 {
				row[t.seqCol] = strconv.Itoa(i)
			}
			if t.valueCol >= 0 {
				row[t.valueCol] = s.doc.Node(e).ScalarText()
			}
			if err := s.writeRow(t, row, sink); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) writeRow(t *Table, row []string, sink RowSink) error {
	t.Rows = append(t.Rows, row)
	if sink != nil && !t.merged {
		return sink.WriteRow(t, row)
	}
	return nil
}
