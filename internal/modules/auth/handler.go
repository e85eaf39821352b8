package auth

import (
	"errors"
	"net/http"
	"strings"

	"notesapi/internal/domain"
	"notesapi/internal/pkg/response"
	"notesapi/internal/pkg/validation"

	"github.com/gin-gonic/gin"
)

// RefreshCookieName is the HTTP-only cookie carrying the refresh token.
// It is the only transport for refresh tokens.
const RefreshCookieName = "refreshToken"

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service     *Service
	noteCounter NoteCounter

	cookieSecure   bool
	cookieSameSite string
	cookiePath     string
}

func NewHandler(service *Service, noteCounter NoteCounter, cookieSecure bool, cookieSameSite, cookiePath string) *Handler {
	return &Handler{
		service:        service,
		noteCounter:    noteCounter,
		cookieSecure:   cookieSecure,
		cookieSameSite: cookieSameSite,
		cookiePath:     cookiePath,
	}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)
		authGroup.POST("/forgot-password", h.ForgotPassword)
		authGroup.POST("/reset-password", h.ResetPassword)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/users/me", h.GetMe)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Validate(req); errs != nil {
		response.ValidationError(c, http.StatusBadRequest, errs)
		return
	}

	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "User with this email already exists")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error during registration")
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, int(result.RefreshTTL.Seconds()))
	response.Success(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":        toPublic(result.User),
		"accessToken": result.AccessToken,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Validate(req); errs != nil {
		response.ValidationError(c, http.StatusBadRequest, errs)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error during login")
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, int(result.RefreshTTL.Seconds()))
	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"user":        toPublic(result.User),
		"accessToken": result.AccessToken,
	})
}

func (h *Handler) Refresh(c *gin.Context) {
	refreshRaw, err := c.Cookie(RefreshCookieName)
	if err != nil || strings.TrimSpace(refreshRaw) == "" {
		response.Error(c, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), refreshRaw)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			response.Error(c, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error during token refresh")
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, int(result.RefreshTTL.Seconds()))
	response.Success(c, http.StatusOK, "Token refreshed successfully", gin.H{
		"accessToken": result.AccessToken,
	})
}

// Logout always clears the cookie and reports success, even when the
// presented token was invalid or already revoked.
func (h *Handler) Logout(c *gin.Context) {
	if refreshRaw, err := c.Cookie(RefreshCookieName); err == nil && strings.TrimSpace(refreshRaw) != "" {
		if logoutErr := h.service.Logout(c.Request.Context(), refreshRaw); logoutErr != nil {
			_ = c.Error(logoutErr)
		}
	}

	h.clearRefreshCookie(c)
	response.Success(c, http.StatusOK, "Logout successful", nil)
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Validate(req); errs != nil {
		response.ValidationError(c, http.StatusBadRequest, errs)
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Error sending password reset email")
		return
	}

	// Identical body whether or not the address is registered.
	response.Success(c, http.StatusOK, "If an account with that email exists, we have sent a password reset email", nil)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Validate(req); errs != nil {
		response.ValidationError(c, http.StatusBadRequest, errs)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		if errors.Is(err, ErrInvalidResetToken) {
			response.Error(c, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	response.Success(c, http.StatusOK, "Password reset successful", nil)
}

func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "User not found")
		return
	}

	counts, err := h.noteCounter.CountByOwner(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved successfully", gin.H{
		"user":  toPublic(user),
		"notes": counts,
	})
}

func (h *Handler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(parseSameSite(h.cookieSameSite))
	c.SetCookie(RefreshCookieName, value, maxAge, h.cookiePath, "", h.cookieSecure, true)
}

func (h *Handler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(parseSameSite(h.cookieSameSite))
	c.SetCookie(RefreshCookieName, "", -1, h.cookiePath, "", h.cookieSecure, true)
}

func parseSameSite(v string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none":
		return http.SameSiteNoneMode
	case "lax":
		return http.SameSiteLaxMode
	default:
		return http.SameSiteStrictMode
	}
}

func toPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
