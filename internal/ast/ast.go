// Package ast defines the document tree the converter operates on.
//
// Nodes live in an arena owned by a Document and reference each other by
// index, so parent linkage never forms pointer cycles and a tree can be
// assembled piecemeal in tests. Values are immutable after construction;
// only the relational bookkeeping fields (ID, ParentID, ParentTable,
// ParentKey, ArrayIndex, Table) are mutated, and only by the conversion
// passes.
package ast

// Kind identifies the JSON value variant a node holds.
type Kind uint8

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
)

// String returns the variant name, used by the debug printer.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "OBJECT"
	case KindArray:
		return "ARRAY"
	case KindString:
		return "STRING"
	case KindNumber:
		return "NUMBER"
	case KindBool:
		return "BOOLEAN"
	case KindNull:
		return "NULL"
	}
	return "UNKNOWN"
}

// NodeID addresses a node within its Document's arena.
type NodeID int32

// InvalidNode is the null NodeID, used for an absent root.
const InvalidNode NodeID = -1

// Member is one key/value pair of an object. Member order is document
// order; keys are unique within an object.
type Member struct {
	Key   string
	Value NodeID
}

// Node is a tagged union over the JSON variants. Which fields are
// meaningful depends on Kind:
//
//   - KindObject: Members, plus all bookkeeping fields
//   - KindArray: Elems, ParentID, ParentTable, ParentKey
//   - KindString: Str
//   - KindNumber: Str (the original lexeme, kept to avoid precision loss)
//   - KindBool: Bool
//   - KindNull: nothing
type Node struct {
	Kind    Kind
	Members []Member
	Elems   []NodeID
	Str     string
	Bool    bool

	// Bookkeeping written by the conversion passes.
	ID          int    // row id, -1 until assigned (objects only)
	ParentID    int    // id of the owning object, -1 for the root
	ParentTable string // table of the owning object
	ParentKey   string // key under which this node was found
	ArrayIndex  int    // position within an array of objects, -1 otherwise
	Table       string // table this object is routed into
}

// Scalar reports whether the node holds a scalar value.
func (n *Node) Scalar() bool {
	switch n.Kind {
	case KindString, KindNumber, KindBool, KindNull:
		return true
	}
	return false
}

// ScalarText renders a scalar node as column text: strings verbatim,
// numbers as their original lexeme, booleans as true/false, null as the
// empty string.
func (n *Node) ScalarText() string {
	switch n.Kind {
	case KindString, KindNumber:
		return n.Str
	case KindBool:
		if n.Bool {
			return "true"
		}
		return "false"
	case KindNull:
		return ""
	}
	panic("ast: ScalarText on non-scalar node")
}

// Document owns an arena of nodes. The zero value is an empty document
// with no root.
type Document struct {
	Nodes []Node
	Root  NodeID
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Root: InvalidNode}
}

// Node returns the node addressed by id. The pointer stays valid only
// until the next Add call.
func (d *Document) Node(id NodeID) *Node {
	return &d.Nodes[id]
}

func (d *Document) add(n Node) NodeID {
	n.ID = -1
	n.ParentID = -1
	n.ArrayIndex = -1
	d.Nodes = append(d.Nodes, n)
	return NodeID(len(d.Nodes) - 1)
}

// AddObject appends an object node with the given members.
func (d *Document) AddObject(members []Member) NodeID {
	return d.add(Node{Kind: KindObject, Members: members})
}

// AddArray appends an array node with the given elements.
func (d *Document) AddArray(elems []NodeID) NodeID {
	return d.add(Node{Kind: KindArray, Elems: elems})
}

// AddString appends a string node.
func (d *Document) AddString(v string) NodeID {
	return d.add(Node{Kind: KindString, Str: v})
}

// AddNumber appends a number node holding the original lexeme.
func (d *Document) AddNumber(lexeme string) NodeID {
	return d.add(Node{Kind: KindNumber, Str: lexeme})
}

// AddBool appends a boolean node.
func (d *Document) AddBool(v bool) NodeID {
	return d.add(Node{Kind: KindBool, Bool: v})
}

// AddNull appends a null node.
func (d *Document) AddNull() NodeID {
	return d.add(Node{Kind: KindNull})
}

// ArrayOfObjects reports whether every element of the array node is an
// object. Empty arrays report false.
func (d *Document) ArrayOfObjects(id NodeID) bool {
	n := d.Node(id)
	if n.Kind != KindArray || len(n.Elems) == 0 {
		return false
	}
	for _, e := range n.Elems {
		if d.Node(e).Kind != KindObject {
			return false
		}
	}
	return true
}

// ArrayOfScalars reports whether every element of the array node is a
// scalar. Empty arrays report false.
func (d *Document) ArrayOfScalars(id NodeID) bool {
	n := d.Node(id)
	if n.Kind != KindArray || len(n.Elems) == 0 {
		return false
	}
	for _, e := range n.Elems {
		if !d.Node(e).Scalar() {
			return false
		}
	}
	return true
}
