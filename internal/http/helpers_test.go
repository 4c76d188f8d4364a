package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
	apperrors "github.com/mrlokans/bookshelf/internal/errors"
	"github.com/mrlokans/bookshelf/internal/policy"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *apperrors.Error {
	t.Helper()
	var resp struct {
		Error apperrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return &resp.Error
}

func TestParseIDParam_Valid(t *testing.T) {
	c, w := newTestContext("/")
	c.Params = gin.Params{{Key: "id", Value: "123"}}

	id, ok := parseIDParam(c, "id")

	assert.True(t, ok)
	assert.Equal(t, uint(123), id)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseIDParam_Invalid(t *testing.T) {
	for _, raw := range []string{"abc", "-1", "0", ""} {
		t.Run(raw, func(t *testing.T) {
			c, w := newTestContext("/")
			c.Params = gin.Params{{Key: "id", Value: raw}}

			id, ok := parseIDParam(c, "id")

			assert.False(t, ok)
			assert.Equal(t, uint(0), id)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, apperrors.CodeValidation, body.Code)
			assert.Equal(t, "invalid id", body.Message)
		})
	}
}

func TestParseQueryID(t *testing.T) {
	t.Run("absent is zero", func(t *testing.T) {
		c, w := newTestContext("/")

		id, ok := parseQueryID(c, "book")

		assert.True(t, ok)
		assert.Zero(t, id)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("valid", func(t *testing.T) {
		c, _ := newTestContext("/?book=456")

		id, ok := parseQueryID(c, "book")

		assert.True(t, ok)
		assert.Equal(t, uint(456), id)
	})

	t.Run("invalid", func(t *testing.T) {
		c, w := newTestContext("/?book=abc")

		_, ok := parseQueryID(c, "book")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid book", decodeError(t, w).Message)
	})
}

func TestParseIDList(t *testing.T) {
	t.Run("repeated and comma separated", func(t *testing.T) {
		c, _ := newTestContext("/?genres=1,2&genres=3&genres=")

		ids, ok := parseIDList(c, "genres")

		assert.True(t, ok)
		assert.Equal(t, []uint{1, 2, 3}, ids)
	})

	t.Run("absent", func(t *testing.T) {
		c, _ := newTestContext("/")

		ids, ok := parseIDList(c, "genres")

		assert.True(t, ok)
		assert.Empty(t, ids)
	})

	t.Run("non numeric member", func(t *testing.T) {
		c, w := newTestContext("/?genres=1,x")

		_, ok := parseIDList(c, "genres")

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestParseListQuery(t *testing.T) {
	t.Run("all parameters", func(t *testing.T) {
		c, _ := newTestContext("/?status=-1&search=dune&sort=title:desc&limit=10&skip=20")

		q, ok := parseListQuery(c)

		require.True(t, ok)
		require.NotNil(t, q.Status)
		assert.Equal(t, entities.StatusTrashed, *q.Status)
		assert.Equal(t, "dune", q.Search)
		assert.Equal(t, policy.SortNameDesc, q.Sort)
		assert.Equal(t, 10, q.Limit)
		assert.Equal(t, 20, q.Skip)
	})

	t.Run("defaults leave shaping to the service", func(t *testing.T) {
		c, _ := newTestContext("/")

		q, ok := parseListQuery(c)

		require.True(t, ok)
		assert.Nil(t, q.Status)
		assert.Empty(t, q.Sort)
		assert.Zero(t, q.Limit)
	})

	tests := []struct {
		name    string
		target  string
		message string
	}{
		{"status", "/?status=trashed", "invalid status"},
		{"sort", "/?sort=popularity", `unsupported sort "popularity"`},
		{"limit", "/?limit=ten", "invalid limit"},
		{"skip", "/?skip=1.5", "invalid skip"},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			c, w := newTestContext(tt.target)

			_, ok := parseListQuery(c)

			assert.False(t, ok)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, decodeError(t, w).Message)
		})
	}
}

func TestRespondError(t *testing.T) {
	t.Run("domain error keeps code and details", func(t *testing.T) {
		c, w := newTestContext("/")

		respondError(c, apperrors.ValidationWithDetails("validation failed", map[string]string{"title": "is required"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t,
			`{"error":{"code":"VALIDATION","message":"validation failed","details":{"title":"is required"}}}`,
			w.Body.String())
	})

	t.Run("wrapped domain error", func(t *testing.T) {
		c, w := newTestContext("/")

		respondError(c, errors.Join(errors.New("context"), apperrors.NotFound("book")))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.CodeNotFound, decodeError(t, w).Code)
	})

	t.Run("plain error is not leaked", func(t *testing.T) {
		c, w := newTestContext("/")

		respondError(c, errors.New("disk on fire at /var/lib/bookshelf.db"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, apperrors.CodeInternal, body.Code)
		assert.Equal(t, "internal server error", body.Message)
		assert.NotContains(t, w.Body.String(), "disk on fire")
	})

	t.Run("internal domain error is masked", func(t *testing.T) {
		c, w := newTestContext("/")

		respondError(c, apperrors.Internal("query failed on table books", errors.New("locked")))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "books")
	})
}

func TestRespondList_NilIsEmptyArray(t *testing.T) {
	c, w := newTestContext("/")

	respondList[entities.Book](c, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"count":0}`, w.Body.String())
}

func TestRespondDeleted(t *testing.T) {
	c, w := newTestContext("/")

	respondDeleted(c, policy.TransitionPurge)

	assert.JSONEq(t, `{"deleted":true,"transition":"purge"}`, w.Body.String())
}
