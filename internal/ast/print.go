package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented debug rendering of the document tree to w.
// Assigned table names and row ids are included once the conversion
// passes have run.
func Fprint(w io.Writer, doc *Document) {
	if doc == nil || doc.Root == InvalidNode {
		fmt.Fprintln(w, "empty document")
		return
	}
	fprintNode(w, doc, doc.Root, 0)
	fmt.Fprintln(w)
}

func fprintNode(w io.Writer, doc *Document, id NodeID, indent int) {
	pad := strings.Repeat("  ", indent)
	n := doc.Node(id)
	switch n.Kind {
	case KindObject:
		fmt.Fprintf(w, "%sOBJECT", pad)
		if n.Table != "" {
			fmt.Fprintf(w, " (table: %s, id: %d)", n.Table, n.ID)
		}
		fmt.Fprint(w, " {\n")
		for _, m := range n.Members {
			fmt.Fprintf(w, "%s  %q:\n", pad, m.Key)
			fprintNode(w, doc, m.Value, indent+2)
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s}", pad)
	case KindArray:
		fmt.Fprintf(w, "%sARRAY", pad)
		if n.ParentKey != "" {
			fmt.Fprintf(w, " (key: %s)", n.ParentKey)
		}
		fmt.Fprint(w, " [\n")
		for i, e := range n.Elems {
			fmt.Fprintf(w, "%s  [%d]:\n", pad, i)
			fprintNode(w, doc, e, indent+2)
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s]", pad)
	case KindString:
		fmt.Fprintf(w, "%sSTRING %q", pad, n.Str)
	case KindNumber:
		fmt.Fprintf(w, "%sNUMBER %s", pad, n.Str)
	case KindBool:
		fmt.Fprintf(w, "%sBOOLEAN %v", pad, n.Bool)
	case KindNull:
		fmt.Fprintf(w, "%sNULL", pad)
	}
}
