package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	p := FromQuery("3", "500")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, maxPerPage, p.PerPage)

	p = FromQuery("abc", "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, defaultPerPage, p.PerPage)
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, Slice(items, &PaginationParams{Page: 2, PerPage: 2}))
	assert.Equal(t, []int{5}, Slice(items, &PaginationParams{Page: 3, PerPage: 2}))
	assert.Empty(t, Slice(items, &PaginationParams{Page: 4, PerPage: 2}))
	assert.Equal(t, items, Slice(items, nil))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
}
