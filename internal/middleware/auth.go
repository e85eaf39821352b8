package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"notesapi/internal/domain"
	"notesapi/internal/pkg/response"
	"notesapi/internal/pkg/token"

	"github.com/gin-gonic/gin"
)

// ContextKeyNote is where the ownership guard stores the loaded note for
// the downstream handler.
const ContextKeyNote = "note"

// AccessCookieName is the fallback transport for access tokens in
// browser-only deployments; the Authorization header takes precedence.
const AccessCookieName = "token"

type TokenVerifier interface {
	Verify(tokenStr string, want token.Type) (*token.Claims, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type NoteLoader interface {
	GetByID(ctx context.Context, id int64, includeTrashed bool) (*domain.Note, error)
}

// Auth verifies the request's access token and attaches the caller's
// identity. The user must still exist: deleting an account implicitly
// invalidates all of its outstanding access tokens.
func Auth(tokens TokenVerifier, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractAccessToken(c)
		if tokenStr == "" {
			c.Abort()
			response.Error(c, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		claims, err := tokens.Verify(tokenStr, token.TypeAccess)
		if err != nil {
			c.Abort()
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.Abort()
			response.Error(c, http.StatusUnauthorized, "Invalid token. User not found.")
			return
		}

		c.Set("user_id", user.ID)
		c.Next()
	}
}

// NoteOwnership loads the note addressed by the "id" param and rejects the
// request unless the authenticated user owns it. Trashed notes pass
// through so restore and permanent delete stay guarded by the same check.
func NoteOwnership(notes NoteLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			c.Abort()
			response.Error(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		noteID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.Abort()
			response.Error(c, http.StatusBadRequest, "Invalid note ID")
			return
		}

		note, err := notes.GetByID(c.Request.Context(), noteID, true)
		if err != nil {
			c.Abort()
			response.Error(c, http.StatusNotFound, "Note not found")
			return
		}

		if note.OwnerID != userID {
			c.Abort()
			response.Error(c, http.StatusForbidden, "Access denied. You can only access your own notes.")
			return
		}

		c.Set(ContextKeyNote, note)
		c.Next()
	}
}

func extractAccessToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if !strings.HasPrefix(h, "Bearer ") {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if v, err := c.Cookie(AccessCookieName); err == nil {
		return strings.TrimSpace(v)
	}
	return ""
}
