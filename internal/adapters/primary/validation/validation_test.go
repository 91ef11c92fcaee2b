package validation

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	t.Run("defaults when absent", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/contacts", nil)

		page := ParsePagination(r, 100)

		assert.Equal(t, 25, page.Limit)
		assert.Equal(t, 0, page.Offset)
	})

	t.Run("reads limit and offset", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/contacts?limit=10&offset=40", nil)

		page := ParsePagination(r, 100)

		assert.Equal(t, 10, page.Limit)
		assert.Equal(t, 40, page.Offset)
	})

	t.Run("caps limit at maximum", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/contacts?limit=5000", nil)

		page := ParsePagination(r, 100)

		assert.Equal(t, 100, page.Limit)
	})

	t.Run("ignores invalid and negative values", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/contacts?limit=abc&offset=-3", nil)

		page := ParsePagination(r, 100)

		assert.Equal(t, 25, page.Limit)
		assert.Equal(t, 0, page.Offset)
	})
}

func TestParseIntQueryParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/jobs?limit=7&bad=x", nil)

	assert.Equal(t, 7, ParseIntQueryParam(r, "limit", 25))
	assert.Equal(t, 25, ParseIntQueryParam(r, "bad", 25))
	assert.Equal(t, 25, ParseIntQueryParam(r, "missing", 25))
}
