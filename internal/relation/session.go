package relation

import "github.com/relcsv/relcsv/internal/ast"

const (
	// rootTableName is the provisional table of the document's root object,
	// renamed by the resolver.
	rootTableName = "root"

	// fallbackRootName is used when the root table has no column to derive
	// a name from.
	fallbackRootName = "entities"

	// defaultArrayTable names the table for a root-level array of objects,
	// which has no key to inherit.
	defaultArrayTable = "items"
)

// Session owns all per-run state of one conversion: the document, the
// table registry, and the merge bookkeeping. Sessions are not safe for
// concurrent use, but independent sessions are fully isolated, so a
// caller may run many conversions in parallel.
type Session struct {
	doc       *ast.Document
	tables    map[string]*Table // keyed by provisional name
	order     []*Table          // creation order
	generated bool
}

// NewSession creates a session for the given document. The session
// mutates only the bookkeeping fields of the document's nodes.
func NewSession(doc *ast.Document) *Session {
	return &Session{
		doc:    doc,
		tables: make(map[string]*Table),
	}
}

// Document returns the underlying tree.
func (s *Session) Document() *ast.Document { return s.doc }

// Tables returns the live (non-merged) tables in creation order.
func (s *Session) Tables() []*Table {
	var live []*Table
	for _, t := range s.order {
		if !t.merged {
			live = append(live, t)
		}
	}
	return live
}

// TableNames returns the live table names in creation order.
func (s *Session) TableNames() []string {
	var names []string
	for _, t := range s.Tables() {
		names = append(names, t.Name)
	}
	return names
}

func (s *Session) createTable(name string) *Table {
	t := &Table{
		Name:        name,
		provisional: name,
		Columns:     []string{"id"},
		parentFK:    -1,
		seqCol:      -1,
		valueCol:    -1,
	}
	s.tables[name] = t
	s.order = append(s.order, t)
	return t
}
