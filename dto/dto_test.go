package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationNormalize(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PageSize: 10}, Pagination{}.Normalize())
	assert.Equal(t, Pagination{Page: 3, PageSize: 100}, Pagination{Page: 3, PageSize: 1000}.Normalize())
}

func TestPaginationMath(t *testing.T) {
	p := Pagination{Page: 3, PageSize: 10}
	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 3, p.TotalPages(21))
}
