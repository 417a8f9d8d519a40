package types

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit from overflowing int.
	MaxPage = math.MaxInt / MaxLimit
)

// Pagination is a page/limit pair that is always positive.
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination coerces raw query values. Missing, non-numeric or
// non-positive values fall back to the defaults; page is capped at MaxPage
// and limit at MaxLimit.
func ParsePagination(pageRaw, limitRaw string) Pagination {
	return Pagination{
		Page:  min(positiveOr(pageRaw, DefaultPage), MaxPage),
		Limit: min(positiveOr(limitRaw, DefaultLimit), MaxLimit),
	}
}

func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Skip is the row offset of the page.
func (p Pagination) Skip() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(total/limit).
func (p Pagination) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
