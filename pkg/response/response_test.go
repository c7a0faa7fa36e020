package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestSuccess(t *testing.T) {
	w, resp := record(t, func(c *gin.Context) { Success(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, resp.Data)
}

func TestErrorWithCause(t *testing.T) {
	w, resp := record(t, func(c *gin.Context) {
		Error(c, http.StatusBadRequest, "Invalid request", errors.New("xres must be positive"))
		assert.True(t, c.IsAborted())
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Invalid request", resp.Message)
	assert.Equal(t, "xres must be positive", resp.Error)
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		fn   func(c *gin.Context)
		code int
	}{
		{func(c *gin.Context) { Created(c, nil) }, http.StatusCreated},
		{func(c *gin.Context) { Accepted(c, nil) }, http.StatusAccepted},
		{func(c *gin.Context) { BadRequest(c, "bad") }, http.StatusBadRequest},
		{func(c *gin.Context) { Unauthorized(c, "who") }, http.StatusUnauthorized},
		{func(c *gin.Context) { NotFound(c, "gone") }, http.StatusNotFound},
		{func(c *gin.Context) { TooManyRequests(c, "slow") }, http.StatusTooManyRequests},
		{func(c *gin.Context) { InternalError(c, "oops") }, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w, _ := record(t, tt.fn)
		assert.Equal(t, tt.code, w.Code)
	}
}
