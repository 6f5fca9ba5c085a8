package auth

import (
	"net/http"
	"strings"

	"registration-service/internal/domain/tokens"
	"registration-service/internal/domain/users"
	"registration-service/internal/service/accounts"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	accounts    *accounts.Service
	baseURL     string
	exposeLinks bool
}

// NewHandler wires the account workflows to gin. When baseURL is empty the
// application URL is derived from each request. exposeLinks returns the
// password-reset link in the response body, for local development only.
func NewHandler(svc *accounts.Service, baseURL string, exposeLinks bool) *Handler {
	return &Handler{
		accounts:    svc,
		baseURL:     strings.TrimRight(baseURL, "/"),
		exposeLinks: exposeLinks,
	}
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	Enabled   bool   `json:"enabled"`
}

func newUserResponse(u *users.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Enabled:   u.Enabled,
	}
}

// POST /register
func (h *Handler) Register(c *gin.Context) {
	var input struct {
		FirstName        string `json:"firstName"`
		LastName         string `json:"lastName"`
		Email            string `json:"email" binding:"required"`
		Password         string `json:"password" binding:"required"`
		MatchingPassword string `json:"matchingPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), accounts.RegisterInput{
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		Email:            input.Email,
		Password:         input.Password,
		MatchingPassword: input.MatchingPassword,
	}, h.applicationURL(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully. Please check your email to verify your account.",
		"user":    newUserResponse(user),
	})
}

// GET /verifyRegistration?token=
func (h *Handler) VerifyRegistration(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	status, err := h.accounts.VerifyRegistration(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	switch status {
	case tokens.StatusValid:
		c.JSON(http.StatusOK, gin.H{"status": status.String(), "message": "User verified successfully"})
	case tokens.StatusExpired:
		c.JSON(http.StatusGone, gin.H{"status": status.String(), "error": "Verification link expired, request a new one"})
	case tokens.StatusInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"status": status.String(), "error": "Invalid verification link"})
	}
}

// GET /resendVerifyToken?token=
func (h *Handler) ResendVerification(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	if _, err := h.accounts.ResendVerification(c.Request.Context(), token, h.applicationURL(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification link sent"})
}

// POST /resetPassword
func (h *Handler) ResetPassword(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email"})
		return
	}

	link, err := h.accounts.RequestReset(c.Request.Context(), body.Email, h.applicationURL(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"message": "If your email exists, you'll receive a reset link."}
	if h.exposeLinks && link != "" {
		resp["link"] = link
	}
	c.JSON(http.StatusOK, resp)
}

// POST /savePassword?token=
func (h *Handler) SavePassword(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	var body struct {
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.accounts.ConfirmReset(c.Request.Context(), token, body.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// POST /changePassword (authenticated)
func (h *Handler) ChangePassword(c *gin.Context) {
	var body struct {
		Email       string `json:"email" binding:"required"`
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if users.NormalizeEmail(c.GetString("email")) != users.NormalizeEmail(body.Email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), body.Email, body.OldPassword, body.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// GET /hello
func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome"})
}

func (h *Handler) applicationURL(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
