package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, method, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetUserID_AcceptedRepresentations(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  uint64
	}{
		{"uint64", uint64(7), 7},
		{"float64 jwt claim", float64(7), 7},
		{"int64", int64(7), 7},
		{"numeric string", "7", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(t, http.MethodGet, "/")
			c.Set("user_id", tt.value)
			got, err := getUserID(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	c, _ := testContext(t, http.MethodGet, "/")
	_, err := getUserID(c)
	assert.Error(t, err)

	c.Set("user_id", "not-a-number")
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	c, _ := testContext(t, http.MethodGet, "/")
	c.SetParamNames("id")
	c.SetParamValues("42")

	id, err := pathID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		c.SetParamValues(bad)
		_, err := pathID(c, "id")
		assert.Error(t, err, "param %q", bad)
	}
}

func TestHealth(t *testing.T) {
	c, rec := testContext(t, http.MethodGet, "/healthz")
	require.NoError(t, Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
