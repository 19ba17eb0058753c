package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/conduit-api/internal/models"
	"github.com/conduit-api/internal/service"
	"github.com/conduit-api/internal/validation"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// Create handles POST /api/articles/:slug/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var body struct {
		Comment models.CommentCreateRequest `json:"comment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c)
		return
	}
	if err := validation.ValidateComment(&body.Comment); err != nil {
		respondError(c, h.log, err)
		return
	}

	view, err := h.services.Comment.Create(c.Request.Context(), currentUser(c), c.Param("slug"), &body.Comment)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": view})
}

// List handles GET /api/articles/:slug/comments
func (h *CommentHandler) List(c *gin.Context) {
	views, err := h.services.Comment.List(c.Request.Context(), c.Param("slug"), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": views})
}

// Delete handles DELETE /api/articles/:slug/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.services.Comment.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}
