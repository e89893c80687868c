package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	records := make([]Record, 25)
	for i := range records {
		records[i] = Record{"adName": fmt.Sprintf("Ad %d", i+1)}
	}

	tests := []struct {
		name     string
		page     int
		pageSize int
		wantLen  int
		first    string
	}{
		{"first page", 1, 10, 10, "Ad 1"},
		{"middle page", 2, 10, 10, "Ad 11"},
		{"short last page", 3, 10, 5, "Ad 21"},
		{"past the end", 4, 10, 0, ""},
		{"zero page invalid", 0, 10, 0, ""},
		{"zero page size invalid", 1, 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(records, tt.page, tt.pageSize)
			assert.Len(t, got, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.first, got[0].Str("adName"))
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 1, TotalPages(0, 10), "empty set still shows one page")
	assert.Equal(t, 1, TotalPages(5, 0))
}
