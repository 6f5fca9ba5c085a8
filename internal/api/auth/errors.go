package auth

import (
	"errors"
	"net/http"

	"registration-service/internal/service/accounts"

	"github.com/gin-gonic/gin"
)

// respondError is the single place workflow errors become HTTP responses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, accounts.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, accounts.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, accounts.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"status": "invalid", "error": "Invalid token"})
	case errors.Is(err, accounts.ErrExpiredToken):
		c.JSON(http.StatusGone, gin.H{"status": "expired", "error": "Token expired"})
	case errors.Is(err, accounts.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Old password is incorrect"})
	case errors.Is(err, accounts.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
