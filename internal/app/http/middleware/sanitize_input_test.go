package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware(VerbatimFields...))
	echo := func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", body)
	}
	r.POST("/echo", echo)
	r.GET("/echo", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestSanitize_StripsMarkupButKeepsVerbatimFields(t *testing.T) {
	in := map[string]any{
		"firstName":   "<script>alert(1)</script>Ada",
		"password":    "<b>secret</b>",
		"newPassword": "a&b<c",
		"email":       "a&b@example.com",
		"lastName":    "Smith & Sons",
		"age":         36,
	}
	buf, err := json.Marshal(in)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(buf))
	w := httptest.NewRecorder()
	echoRouter().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Ada", out["firstName"])
	assert.Equal(t, "<b>secret</b>", out["password"])
	assert.Equal(t, "a&b<c", out["newPassword"])
	assert.Equal(t, "a&b@example.com", out["email"])
	assert.Equal(t, "Smith &amp; Sons", out["lastName"])
	assert.EqualValues(t, 36, out["age"])
}

func TestSanitize_RejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString("{oops"))
	w := httptest.NewRecorder()
	echoRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSanitize_IgnoresGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	w := httptest.NewRecorder()
	echoRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
