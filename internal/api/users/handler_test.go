package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"registration-service/internal/domain/users"
	"registration-service/internal/infra/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, callerEmail string) (*gin.Engine, *memory.Directory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := memory.NewDirectory()
	require.NoError(t, dir.Create(context.Background(), &users.User{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "digest",
		Role:      users.RoleUser,
	}))

	h := NewHandler(dir)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if callerEmail != "" {
			c.Set("email", callerEmail)
		}
	})
	r.GET("/me", h.GetCurrentUser)
	r.GET("/admin/users", h.FindByEmail)
	return r, dir
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestGetCurrentUser(t *testing.T) {
	r, _ := newRouter(t, "Ada@Example.com")

	w := get(r, "/me")
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		User map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "ada@example.com", out.User["email"])
	assert.Equal(t, "Ada", out.User["firstName"])
	assert.Equal(t, false, out.User["enabled"])
	assert.NotContains(t, out.User, "password")
	assert.NotContains(t, w.Body.String(), "digest")
}

func TestGetCurrentUser_Errors(t *testing.T) {
	r, _ := newRouter(t, "")
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me").Code)

	r, _ = newRouter(t, "ghost@example.com")
	assert.Equal(t, http.StatusNotFound, get(r, "/me").Code)
}

func TestFindByEmail(t *testing.T) {
	r, _ := newRouter(t, "admin@example.com")

	assert.Equal(t, http.StatusOK, get(r, "/admin/users?email=ada@example.com").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/admin/users?email=ghost@example.com").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/admin/users").Code)
}
