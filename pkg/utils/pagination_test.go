package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams_Normalizes(t *testing.T) {
	p := GetPaginationParams(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 50, p.Limit)

	p = GetPaginationParams(3, 500)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 200, p.Limit, "limit is capped")
}

func TestCalculateOffset(t *testing.T) {
	assert.Equal(t, 0, GetPaginationParams(1, 50).CalculateOffset())
	assert.Equal(t, 100, GetPaginationParams(3, 50).CalculateOffset())
}

func TestCalculateMeta(t *testing.T) {
	meta := CalculateMeta(101, 2, 50)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, int64(101), meta.TotalCount)
	assert.Equal(t, 3, meta.TotalPages)

	empty := CalculateMeta(0, 1, 50)
	assert.Equal(t, 0, empty.TotalPages)
}
