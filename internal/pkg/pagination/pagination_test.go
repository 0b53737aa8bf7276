package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate_TwentyThreeItems(t *testing.T) {
	items := seq(23)

	assert.Len(t, Paginate(items, 1, 10), 10)
	assert.Equal(t, []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, Paginate(items, 2, 10))
	assert.Equal(t, []int{21, 22, 23}, Paginate(items, 3, 10))
	assert.Empty(t, Paginate(items, 4, 10))
	assert.Equal(t, 3, TotalPages(len(items), 10))
}

func TestPaginate_InvalidWindow(t *testing.T) {
	assert.Empty(t, Paginate(seq(5), 0, 10))
	assert.Empty(t, Paginate(seq(5), 1, 0))
	assert.Empty(t, Paginate([]int(nil), 1, 10))
}

func TestTotalPages_Bounds(t *testing.T) {
	for count := 0; count <= 60; count++ {
		for size := 1; size <= 12; size++ {
			pages := TotalPages(count, size)
			assert.GreaterOrEqual(t, pages, 1, "count=%d size=%d", count, size)
			assert.GreaterOrEqual(t, pages*size, count, "count=%d size=%d", count, size)
			if count > 0 {
				assert.Less(t, (pages-1)*size, count, "count=%d size=%d", count, size)
			}
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name  string
		index int
		count int
		want  int
	}{
		{"below range", 0, 23, 1},
		{"in range", 2, 23, 2},
		{"past last page", 9, 23, 3},
		{"empty set", 5, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPage(tt.index, tt.count, 10))
		})
	}
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(NewParams(2, 10), 23)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	empty := GetMeta(NewParams(1, 10), 0)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestNewParams_Normalizes(t *testing.T) {
	p := NewParams(-3, 500)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = NewParams(3, 0)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 20, p.Offset)
}
