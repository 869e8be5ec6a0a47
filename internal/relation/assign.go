package relation

import "github.com/relcsv/relcsv/internal/ast"

// AssignIDs visits every object node in document pre-order and assigns it
// the next unused positive integer, starting at 1 for the root. Parent
// linkage (parent id, parent table, parent key) is recorded on the way
// down. Scalars and scalar arrays receive no identifier; an absent root
// is a no-op.
func (s *Session) AssignIDs() {
	if s.doc.Root == ast.InvalidNode {
		return
	}
	next := 1
	root := s.doc.Node(s.doc.Root)
	switch root.Kind {
	case ast.KindObject:
		root.Table = rootTableName
		s.assignObject(s.doc.Root, &next)
	case ast.KindArray:
		s.assignArray(s.doc.Root, &next)
	default:
		// A bare scalar document yields no tables.
	}
}

func (s *Session) assignObject(id ast.NodeID, next *int) {
	n := s.doc.Node(id)
	n.ID = *next
	*next++

	for _, m := range n.Members {
		v := s.doc.Node(m.Value)
		switch v.Kind {
		case ast.KindObject:
			v.ParentID = n.ID
			v.ParentTable = n.Table
			v.ParentKey = trimKey(m.Key)
			v.Table = v.ParentKey
			s.assignObject(m.Value, next)
		case ast.KindArray:
			v.ParentID = n.ID
			v.ParentTable = n.Table
			v.ParentKey = trimKey(m.Key)
			s.assignArray(m.Value, next)
		}
	}
}

// assignArray descends into an array's elements only when they are all
// objects. Each element inherits the array's parent linkage, routed under
// the array's own key (or the default name for a keyless root array), and
// remembers its position.
func (s *Session) assignArray(id ast.NodeID, next *int) {
	if !s.doc.ArrayOfObjects(id) {
		return
	}
	a := s.doc.Node(id)
	key := a.ParentKey
	if key == "" {
		key = defaultArrayTable
	}
	parentID := a.ParentID
	parentTable := a.ParentTable
	for i, e := range a.Elems {
		el := s.doc.Node(e)
		el.ParentID = parentID
		el.ParentTable = parentTable
		el.ParentKey = key
		el.ArrayIndex = i
		el.Table = key
		s.assignObject(e, next)
	}
}
