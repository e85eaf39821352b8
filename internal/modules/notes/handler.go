package notes

import (
	"errors"
	"net/http"

	"notesapi/internal/domain"
	"notesapi/internal/middleware"
	"notesapi/internal/pkg/response"
	"notesapi/internal/pkg/validation"
	"notesapi/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the share read path; it is the only note
// route that skips both guards.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	v1.GET("/public/notes/:slug", h.GetShared)
}

// RegisterProtectedRoutes wires the note routes. Everything addressing a
// single note goes through the ownership guard.
func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup, ownership gin.HandlerFunc) {
	notesGroup := protected.Group("/notes")
	{
		notesGroup.GET("", h.List)
		notesGroup.POST("", h.Create)
		notesGroup.GET("/archived", h.ListArchived)
		notesGroup.GET("/trash", h.ListTrash)
		notesGroup.GET("/search", h.Search)
		notesGroup.GET("/tag/:tag", h.ListByTag)

		owned := notesGroup.Group("/:id")
		owned.Use(ownership)
		{
			owned.GET("", h.Get)
			owned.PUT("", h.Update)
			owned.DELETE("", h.Trash)
			owned.POST("/restore", h.Restore)
			owned.DELETE("/permanent", h.DeletePermanently)
			owned.POST("/archive", h.Archive)
			owned.POST("/unarchive", h.Unarchive)
			owned.POST("/share", h.Share)
			owned.DELETE("/share", h.Unshare)
		}
	}
}

func (h *Handler) List(c *gin.Context) {
	h.list(c, repository.NoteFilter{})
}

func (h *Handler) ListArchived(c *gin.Context) {
	h.list(c, repository.NoteFilter{Archived: true})
}

func (h *Handler) ListTrash(c *gin.Context) {
	h.list(c, repository.NoteFilter{Trashed: true})
}

func (h *Handler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		response.Error(c, http.StatusBadRequest, "Search term is required")
		return
	}
	h.list(c, repository.NoteFilter{Search: query})
}

func (h *Handler) ListByTag(c *gin.Context) {
	h.list(c, repository.NoteFilter{Tag: c.Param("tag")})
}

func (h *Handler) list(c *gin.Context, f repository.NoteFilter) {
	userID := c.GetInt64("user_id")
	result, err := h.service.List(c.Request.Context(), userID, f)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, "Notes retrieved successfully", gin.H{"notes": result})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Validate(req); errs != nil {
		response.ValidationError(c, http.StatusBadRequest, errs)
		return
	}

	userID := c.GetInt64("user_id")
	note, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.Success(c, http.StatusCreated, "Note created successfully", gin.H{"note": note})
}

func (h *Handler) Get(c *gin.Context) {
	note := contextNote(c)
	response.Success(c, http.StatusOK, "Note retrieved successfully", gin.H{"note": note})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validation.Validate(req); errs != nil {
		response.ValidationError(c, http.StatusBadRequest, errs)
		return
	}

	note, err := h.service.Update(c.Request.Context(), contextNote(c), req)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, "Note updated successfully", gin.H{"note": note})
}

func (h *Handler) Trash(c *gin.Context) {
	if err := h.service.Trash(c.Request.Context(), contextNote(c)); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, "Note moved to trash", nil)
}

func (h *Handler) Restore(c *gin.Context) {
	if err := h.service.Restore(c.Request.Context(), contextNote(c)); err != nil {
		if errors.Is(err, ErrNoteNotTrashed) {
			response.Error(c, http.StatusBadRequest, "Note is not in the trash")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, "Note restored successfully", nil)
}

func (h *Handler) DeletePermanently(c *gin.Context) {
	if err := h.service.DeletePermanently(c.Request.Context(), contextNote(c)); err != nil {
		if errors.Is(err, ErrNoteNotTrashed) {
			response.Error(c, http.StatusBadRequest, "Note is not in the trash")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, "Note deleted permanently", nil)
}

func (h *Handler) Archive(c *gin.Context) {
	h.setArchived(c, true, "Note archived successfully")
}

func (h *Handler) Unarchive(c *gin.Context) {
	h.setArchived(c, false, "Note unarchived successfully")
}

func (h *Handler) setArchived(c *gin.Context, archived bool, message string) {
	if err := h.service.SetArchived(c.Request.Context(), contextNote(c), archived); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, message, nil)
}

func (h *Handler) Share(c *gin.Context) {
	slug, err := h.service.Share(c.Request.Context(), contextNote(c))
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, "Note shared successfully", gin.H{"shareSlug": slug})
}

func (h *Handler) Unshare(c *gin.Context) {
	if err := h.service.Unshare(c.Request.Context(), contextNote(c)); err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, "Note sharing disabled", nil)
}

// GetShared serves the public share path; no identity, read-only.
func (h *Handler) GetShared(c *gin.Context) {
	note, err := h.service.GetShared(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			response.Error(c, http.StatusNotFound, "Note not found")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	response.Success(c, http.StatusOK, "Note retrieved successfully", gin.H{
		"note": gin.H{
			"title":      note.Title,
			"content":    note.Content,
			"tags":       note.Tags,
			"created_at": note.CreatedAt,
			"updated_at": note.UpdatedAt,
		},
	})
}

func contextNote(c *gin.Context) *domain.Note {
	return c.MustGet(middleware.ContextKeyNote).(*domain.Note)
}
