package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, Query{Page: 1, Limit: 10}, Query{}.Normalize())
	assert.Equal(t, Query{Page: 1, Limit: 10}, Query{Page: -3, Limit: 0}.Normalize())
	assert.Equal(t, Query{Page: 4, Limit: 25}, Query{Page: 4, Limit: 25}.Normalize())
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Query{}.Offset())
	assert.Equal(t, 0, Query{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 30, Query{Page: 4, Limit: 10}.Offset())
	assert.Equal(t, 50, Query{Page: 3, Limit: 25}.Offset())
}

func TestNew(t *testing.T) {
	p := New(2, 10, 45)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 5, p.TotalPages)
	assert.Equal(t, 45, p.TotalItems)
	assert.Equal(t, 10, p.Limit)

	// Exact multiple does not round up
	assert.Equal(t, 4, New(1, 10, 40).TotalPages)

	// Empty result still reports zero pages
	assert.Equal(t, 0, New(1, 10, 0).TotalPages)
}
