package listview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type company struct {
	Name    string
	Company string
}

func TestMatchText(t *testing.T) {
	items := []company{
		{Name: "Widget", Company: "ACME Corp"},
		{Name: "Gadget", Company: "Other"},
	}

	got := Filter(items, func(c company) bool {
		return MatchText("acme", c.Name, c.Company)
	})

	assert.Len(t, got, 1)
	assert.Equal(t, "ACME Corp", got[0].Company)
}

func TestMatchTextEmptyQueryMatchesAll(t *testing.T) {
	assert.True(t, MatchText("", "anything"))
	assert.True(t, MatchText("   ", "anything"))
	assert.True(t, MatchText("", ""))
}

func TestMatchTextNoFields(t *testing.T) {
	assert.False(t, MatchText("x"))
}

func TestSortToggle(t *testing.T) {
	s := SortState{}

	s = s.Toggle("name")
	assert.Equal(t, SortState{Key: "name", Desc: false}, s)

	s = s.Toggle("name")
	assert.Equal(t, SortState{Key: "name", Desc: true}, s)

	// New key resets to ascending.
	s = s.Toggle("price")
	assert.Equal(t, SortState{Key: "price", Desc: false}, s)
}

func TestSortDirections(t *testing.T) {
	items := []int{3, 1, 2}

	Sort(items, SortState{Key: "n"}, func(a, b int) bool { return a < b })
	assert.Equal(t, []int{1, 2, 3}, items)

	Sort(items, SortState{Key: "n", Desc: true}, func(a, b int) bool { return a < b })
	assert.Equal(t, []int{3, 2, 1}, items)
}

func TestSortStable(t *testing.T) {
	type row struct {
		Key string
		Seq int
	}
	items := []row{{"b", 0}, {"a", 1}, {"a", 2}, {"b", 3}}

	Sort(items, SortState{Key: "key"}, func(a, b row) bool { return a.Key < b.Key })

	assert.Equal(t, []row{{"a", 1}, {"a", 2}, {"b", 0}, {"b", 3}}, items)
}

func TestPaginate(t *testing.T) {
	items := make([]string, 25)
	for i := range items {
		items[i] = fmt.Sprintf("inv-%02d", i)
	}

	page, info := Paginate(items, 3, 10)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 25, info.TotalCount)
	assert.Len(t, page, 5)
	assert.Equal(t, "inv-20", page[0])
}

func TestPaginateBounds(t *testing.T) {
	items := []int{1, 2, 3}

	page, info := Paginate(items, 0, 10)
	assert.Equal(t, 1, info.Page)
	assert.Equal(t, []int{1, 2, 3}, page)

	page, info = Paginate(items, 5, 10)
	assert.Empty(t, page)
	assert.Equal(t, 1, info.TotalPages)

	_, info = Paginate([]int{}, 1, 10)
	assert.Equal(t, 0, info.TotalPages)
	assert.Equal(t, 0, info.TotalCount)
}
