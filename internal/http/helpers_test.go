package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/catalog"
	"github.com/mrlokans/library/internal/forms"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"not found", fmt.Errorf("get book x: %w", catalog.ErrNotFound), http.StatusNotFound, `{"error":"Book not found"}`},
		{"store failure", errors.New("disk I/O error"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/catalog/book/x", nil)

			respondServiceError(c, tt.err, "Book", "load book")

			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestPostedValues(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("keeps repeated keys as a list", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("genre=a&genre=b&title=Emma"))
		c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		values, ok := postedValues(c)
		require.True(t, ok)
		assert.Equal(t, forms.Values{"genre": {"a", "b"}, "title": {"Emma"}}, values)
	})

	t.Run("empty body yields no fields", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

		values, ok := postedValues(c)
		require.True(t, ok)
		assert.Empty(t, values)
		assert.False(t, values.Has("genre"))
	})
}
