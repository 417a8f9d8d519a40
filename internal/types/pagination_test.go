package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name          string
		page, limit   string
		expectedPage  int
		expectedLimit int
	}{
		{"defaults when missing", "", "", 1, 10},
		{"valid values", "3", "25", 3, 25},
		{"non-numeric falls back", "abc", "ten", 1, 10},
		{"zero falls back", "0", "0", 1, 10},
		{"negative falls back", "-2", "-5", 1, 10},
		{"limit is capped", "1", "1000", 1, MaxLimit},
		{"fractional falls back", "1.5", "2.5", 1, 10},
		{"huge page is capped", "4611686018427387905", "100", MaxPage, MaxLimit},
		{"page beyond int falls back", "99999999999999999999", "10", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePagination(tt.page, tt.limit)
			assert.Equal(t, tt.expectedPage, p.Page)
			assert.Equal(t, tt.expectedLimit, p.Limit)
			assert.Equal(t, (p.Page-1)*p.Limit, p.Skip())
			assert.GreaterOrEqual(t, p.Skip(), 0)
		})
	}
}

func TestPaginationSkip(t *testing.T) {
	for page := 1; page <= 5; page++ {
		for _, limit := range []int{1, 7, 10, 100} {
			p := Pagination{Page: page, Limit: limit}
			assert.Equal(t, (page-1)*limit, p.Skip())
		}
	}
}

func TestPaginationTotalPages(t *testing.T) {
	p := Pagination{Page: 1, Limit: 10}
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(1))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 2, p.TotalPages(11))
	assert.Equal(t, 10, p.TotalPages(100))
}
