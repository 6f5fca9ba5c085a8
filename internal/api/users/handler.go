// Package users serves read-only profile lookups for authenticated callers.
package users

import (
	"errors"
	"net/http"
	"time"

	"registration-service/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	directory users.Directory
}

func NewHandler(directory users.Directory) *Handler {
	return &Handler{directory: directory}
}

type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

func toDTO(u *users.User) UserDTO {
	return UserDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Enabled:   u.Enabled,
		CreatedAt: u.CreatedAt,
	}
}

// GET /me
func (h *Handler) GetCurrentUser(c *gin.Context) {
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	h.respond(c, email)
}

// GET /admin/users?email=
func (h *Handler) FindByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email"})
		return
	}
	h.respond(c, email)
}

func (h *Handler) respond(c *gin.Context, email string) {
	u, err := h.directory.FindByEmail(c.Request.Context(), email)
	if errors.Is(err, users.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toDTO(u)})
}
