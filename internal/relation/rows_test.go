package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generated runs the full pipeline and buffers rows.
func generated(t *testing.T, src string) *Session {
	t.Helper()
	s := resolved(t, src)
	require.NoError(t, s.EmitRows(nil))
	return s
}

func tableByName(t *testing.T, s *Session, name string) *Table {
	t.Helper()
	for _, tab := range s.order {
		if tab.Name == name {
			return tab
		}
	}
	t.Fatalf("table %q not found", name)
	return nil
}

func TestEmitRows_FlatObject(t *testing.T) {
	s := generated(t, `{"name": "Alice", "age": 30}`)

	names := tableByName(t, s, "names")
	assert.Equal(t, []string{"id", "name", "age"}, names.Columns)
	assert.Equal(t, [][]string{{"1", "Alice", "30"}}, names.Rows)
}

func TestEmitRows_ScalarArray(t *testing.T) {
	s := generated(t, `{"tags": ["a", "b", "c"]}`)

	root := tableByName(t, s, "entities")
	assert.Equal(t, [][]string{{"1"}}, root.Rows)

	tags := tableByName(t, s, "tags")
	assert.Equal(t, []string{"id", "root_id", "seq", "value"}, tags.Columns)
	assert.Equal(t, [][]string{
		{"1", "1", "0", "a"},
		{"2", "1", "1", "b"},
		{"3", "1", "2", "c"},
	}, tags.Rows)
}

func TestEmitRows_ObjectArray(t *testing.T) {
	s := generated(t, `{"items": [{"sku": "X"}, {"sku": "Y"}]}`)

	items := tableByName(t, s, "items")
	assert.Equal(t, []string{"id", "root_id", "seq", "sku"}, items.Columns)
	// Ids continue the global counter started at the root object.
	assert.Equal(t, [][]string{
		{"2", "1", "0", "X"},
		{"3", "1", "1", "Y"},
	}, items.Rows)
}

func TestEmitRows_NestedObjectBackfill(t *testing.T) {
	s := generated(t, `{"author": {"uid": 1, "name": "Bob"}}`)

	root := tableByName(t, s, "entities")
	assert.Equal(t, []string{"id", "author_id"}, root.Columns)
	assert.Equal(t, [][]string{{"1", "2"}}, root.Rows)

	author := tableByName(t, s, "author")
	assert.Equal(t, [][]string{{"2", "1", "Bob"}}, author.Rows)
}

func TestEmitRows_WidenedRowsStayAligned(t *testing.T) {
	s := generated(t, `{"rows": [{"a": 1}, {"b": 2}, {"a": 3, "c": 4}]}`)

	rows := tableByName(t, s, "rows")
	assert.Equal(t, [][]string{
		{"2", "1", "0", "1", "", ""},
		{"3", "1", "1", "", "2", ""},
		{"4", "1", "2", "3", "", "4"},
	}, rows.Rows)
}

func TestEmitRows_JunctionIDsCountPerTable(t *testing.T) {
	// Two arrays route into the same junction table; row ids keep
	// counting instead of resetting per array.
	s := generated(t, `{
		"a": {"tags": ["x"]},
		"b": {"tags": ["y"]}
	}`)

	tags := tableByName(t, s, "tags")
	assert.Equal(t, [][]string{
		{"1", "2", "0", "x"},
		{"2", "3", "0", "y"},
	}, tags.Rows)
}

func TestEmitRows_ScalarRendering(t *testing.T) {
	s := generated(t, `{"vals": ["s", 1.50, true, false, null]}`)

	vals := tableByName(t, s, "vals")
	assert.Equal(t, [][]string{
		{"1", "1", "0", "s"},
		{"2", "1", "1", "1.50"},
		{"3", "1", "2", "true"},
		{"4", "1", "3", "false"},
		{"5", "1", "4", ""},
	}, vals.Rows)
}

func TestEmitRows_TrimmedKeysMatchColumns(t *testing.T) {
	s := generated(t, `{" name ": "Alice"}`)

	names := tableByName(t, s, "names")
	assert.Equal(t, []string{"id", "name"}, names.Columns)
	assert.Equal(t, [][]string{{"1", "Alice"}}, names.Rows)
}

func TestEmitRows_RowColumnAlignment(t *testing.T) {
	s := generated(t, `{
		"name": "doc",
		"author": {"uid": 1, "links": ["a", "b"]},
		"items": [{"sku": "X", "specs": {"w": 10}}, {"sku": "Y", "extra": true}],
		"tags": ["t1", "t2"]
	}`)

	for _, tab := range s.Tables() {
		for i, row := range tab.Rows {
			assert.Len(t, row, len(tab.Columns), "table %s row %d", tab.Name, i)
		}
	}
}

func TestEmitRows_ObjectCollidingWithJunctionKeepsRowsApart(t *testing.T) {
	s := generated(t, `{"tags": ["a"], "x": {"tags": {"v": 1}}}`)

	// Junction rows keep the per-table counter and four columns; the
	// colliding object's row lands on the suffixed sibling.
	assert.Equal(t, [][]string{{"1", "1", "0", "a"}}, tableByName(t, s, "tags").Rows)
	assert.Equal(t, [][]string{{"3", "1"}}, tableByName(t, s, "tags1").Rows)
}

func TestEmitRows_SyntheticColumnsNotOverwritten(t *testing.T) {
	s := generated(t, `{"items": [{"seq": "doc", "root_id": "doc"}]}`)

	items := tableByName(t, s, "items")
	assert.Equal(t, []string{"id", "root_id", "seq"}, items.Columns)
	assert.Equal(t, [][]string{{"2", "1", "0"}}, items.Rows)
}

type captureSink struct {
	rows map[string][][]string
}

func (c *captureSink) WriteRow(tab *Table, row []string) error {
	if c.rows == nil {
		c.rows = make(map[string][][]string)
	}
	c.rows[tab.Name] = append(c.rows[tab.Name], append([]string(nil), row...))
	return nil
}

func TestEmitRows_SinkSeesDocumentOrder(t *testing.T) {
	s := resolved(t, `{"items": [{"sku": "X"}, {"sku": "Y"}], "name": "n"}`)

	sink := &captureSink{}
	require.NoError(t, s.EmitRows(sink))

	items := sink.rows["items"]
	require.Len(t, items, 2)
	assert.Equal(t, "0", items[0][2])
	assert.Equal(t, "1", items[1][2])
	assert.Equal(t, "X", items[0][3])
}

func TestEmitRows_MergedTableRowsNotSentToSink(t *testing.T) {
	s := resolved(t, `{
		"item":  {"sku": "X", "qty": 2},
		"items": [{"sku": "Y", "qty": 3}]
	}`)

	sink := &captureSink{}
	require.NoError(t, s.EmitRows(sink))

	assert.NotContains(t, sink.rows, "items")
	require.Contains(t, sink.rows, "item")
	assert.Len(t, sink.rows["item"], 1)
}

func TestEmitRows_Regenerates(t *testing.T) {
	s := resolved(t, `{"tags": ["a", "b"]}`)

	require.NoError(t, s.EmitRows(nil))
	require.NoError(t, s.EmitRows(nil))

	tags := tableByName(t, s, "tags")
	// Buffers and junction counters reset between runs.
	assert.Len(t, tags.Rows, 2)
	assert.Equal(t, "1", tags.Rows[0][0])
}
