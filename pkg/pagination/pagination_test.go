package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ctxWithQuery(query string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParse(t *testing.T) {
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, Limit: 20, Offset: 0}},
		{"page=3&limit=10", Params{Page: 3, Limit: 10, Offset: 20}},
		{"page=-1&limit=0", Params{Page: 1, Limit: 20, Offset: 0}},
		{"page=abc&limit=5000", Params{Page: 1, Limit: 100, Offset: 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Parse(ctxWithQuery(tt.query)), tt.query)
	}
}

func TestParseWithDefault(t *testing.T) {
	assert.Equal(t, Params{Page: 1, Limit: 100}, ParseWithDefault(ctxWithQuery(""), 100))
	assert.Equal(t, Params{Page: 2, Limit: 5, Offset: 5}, ParseWithDefault(ctxWithQuery("page=2&limit=5"), 100))
}

func TestNewPageNeverNil(t *testing.T) {
	p := NewPage[int](nil, 0, Params{Page: 1, Limit: 20})
	assert.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
}
