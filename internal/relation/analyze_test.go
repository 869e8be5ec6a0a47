package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// analyzed runs the first two passes only, leaving provisional names.
func analyzed(t *testing.T, src string) *Session {
	t.Helper()
	s := NewSession(parse(t, src))
	s.AssignIDs()
	s.Analyze()
	return s
}

func TestAnalyze_RootScalarColumnsFirstSeenOrder(t *testing.T) {
	s := analyzed(t, `{"name": "Alice", "age": 30}`)

	root := s.tables["root"]
	require.NotNil(t, root)
	assert.Equal(t, []string{"id", "name", "age"}, root.Columns)
}

func TestAnalyze_NestedObject(t *testing.T) {
	s := analyzed(t, `{"author": {"uid": 1, "name": "Bob"}}`)

	author := s.tables["author"]
	require.NotNil(t, author)
	assert.Equal(t, []string{"id", "uid", "name"}, author.Columns)

	// The containing table references the child, not the other way round.
	root := s.tables["root"]
	assert.Equal(t, []string{"id", "author_id"}, root.Columns)
}

func TestAnalyze_ArrayOfObjects(t *testing.T) {
	s := analyzed(t, `{"items": [{"sku": "X"}, {"sku": "Y"}]}`)

	items := s.tables["items"]
	require.NotNil(t, items)
	assert.Equal(t, []string{"id", "root_id", "seq", "sku"}, items.Columns)
	assert.False(t, items.junction)
}

func TestAnalyze_ArrayOfScalars(t *testing.T) {
	s := analyzed(t, `{"tags": ["a", "b", "c"]}`)

	tags := s.tables["tags"]
	require.NotNil(t, tags)
	assert.Equal(t, []string{"id", "root_id", "seq", "value"}, tags.Columns)
	assert.True(t, tags.junction)

	assert.Equal(t, []string{"id"}, s.tables["root"].Columns)
}

func TestAnalyze_SchemaWidening(t *testing.T) {
	s := analyzed(t, `{"rows": [{"a": 1}, {"b": 2}, {"a": 3, "c": 4}]}`)

	rows := s.tables["rows"]
	require.NotNil(t, rows)
	// Columns accumulate in first-seen order and are never reordered.
	assert.Equal(t, []string{"id", "root_id", "seq", "a", "b", "c"}, rows.Columns)
}

func TestAnalyze_ForeignKeyUsesSingularParent(t *testing.T) {
	s := analyzed(t, `{"orders": [{"lines": [{"qty": 1}]}]}`)

	lines := s.tables["lines"]
	require.NotNil(t, lines)
	assert.Equal(t, []string{"id", "order_id", "seq", "qty"}, lines.Columns)
}

func TestAnalyze_MixedAndEmptyArraysNotDecomposed(t *testing.T) {
	s := analyzed(t, `{"m": [1, {"x": 2}], "e": [], "nested": [[1], [2]]}`)

	assert.Nil(t, s.tables["m"])
	assert.Nil(t, s.tables["e"])
	assert.Nil(t, s.tables["nested"])
	assert.Len(t, s.order, 1) // only root
}

func TestAnalyze_SameKeySharesTable(t *testing.T) {
	s := analyzed(t, `{
		"first":  {"author": {"name": "A"}},
		"second": {"author": {"name": "B", "email": "b@x"}}
	}`)

	author := s.tables["author"]
	require.NotNil(t, author)
	assert.Equal(t, []string{"id", "name", "email"}, author.Columns)
	// Exactly one author table was created.
	count := 0
	for _, tab := range s.order {
		if tab.provisional == "author" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAnalyze_ObjectKeyCollidingWithJunction(t *testing.T) {
	s := analyzed(t, `{"tags": ["a"], "x": {"tags": {"v": 1}}}`)

	tags := s.tables["tags"]
	require.NotNil(t, tags)
	assert.True(t, tags.junction)
	assert.Equal(t, []string{"id", "root_id", "seq", "value"}, tags.Columns)

	// The colliding object lands on a counter-suffixed sibling table.
	sib := s.tables["tags1"]
	require.NotNil(t, sib)
	assert.False(t, sib.junction)
	assert.Equal(t, []string{"id", "v"}, sib.Columns)
	assert.Equal(t, []string{"id", "tags1_id"}, s.tables["x"].Columns)
}

func TestAnalyze_ObjectArrayKeyCollidingWithJunction(t *testing.T) {
	s := analyzed(t, `{"tags": ["a"], "x": {"tags": [{"v": 1}]}}`)

	assert.Equal(t, []string{"id", "root_id", "seq", "value"}, s.tables["tags"].Columns)

	sib := s.tables["tags1"]
	require.NotNil(t, sib)
	assert.False(t, sib.junction)
	assert.Equal(t, []string{"id", "x_id", "seq", "v"}, sib.Columns)
}

func TestAnalyze_RootArrayOfObjects(t *testing.T) {
	s := analyzed(t, `[{"a": 1}, {"a": 2}]`)

	items := s.tables["items"]
	require.NotNil(t, items)
	// No parent object exists, so there is no foreign-key column.
	assert.Equal(t, []string{"id", "seq", "a"}, items.Columns)
}
