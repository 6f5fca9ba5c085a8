package routes

import (
	authapi "registration-service/internal/api/auth"
	usersapi "registration-service/internal/api/users"
	"registration-service/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, auth *authapi.Handler, profiles *usersapi.Handler, jwtSecret string) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/hello", authapi.Hello)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware(middleware.VerbatimFields...))

	public.POST("/register", auth.Register)
	public.GET("/verifyRegistration", auth.VerifyRegistration)
	public.GET("/resendVerifyToken", auth.ResendVerification)
	public.POST("/resetPassword", auth.ResetPassword)
	public.POST("/savePassword", auth.SavePassword)

	// Authenticated
	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(jwtSecret), middleware.SanitizeAndCleanInputMiddleware(middleware.VerbatimFields...))
	authed.GET("/me", profiles.GetCurrentUser)
	authed.POST("/changePassword", auth.ChangePassword)

	// Admin
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireRole("ADMIN"))
	admin.GET("/users", profiles.FindByEmail)
}
