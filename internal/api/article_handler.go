package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/conduit-api/internal/models"
	"github.com/conduit-api/internal/service"
	"github.com/conduit-api/internal/validation"
)

// ArticleHandler handles article, listing, and tag endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// Create handles POST /api/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var body struct {
		Article models.ArticleCreateRequest `json:"article"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c)
		return
	}
	if err := validation.ValidateArticleCreate(&body.Article); err != nil {
		respondError(c, h.log, err)
		return
	}

	view, err := h.services.Article.Create(c.Request.Context(), currentUser(c), &body.Article)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}

// Get handles GET /api/articles/:slug
func (h *ArticleHandler) Get(c *gin.Context) {
	view, err := h.services.Article.Get(c.Request.Context(), c.Param("slug"), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}

// Update handles PUT /api/articles/:slug
func (h *ArticleHandler) Update(c *gin.Context) {
	var body struct {
		Article models.ArticleUpdateRequest `json:"article"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c)
		return
	}
	if err := validation.ValidateArticleUpdate(&body.Article); err != nil {
		respondError(c, h.log, err)
		return
	}

	view, err := h.services.Article.Update(c.Request.Context(), currentUser(c), c.Param("slug"), &body.Article)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}

// Delete handles DELETE /api/articles/:slug
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.services.Article.Delete(c.Request.Context(), currentUser(c), c.Param("slug")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Favorite handles POST /api/articles/:slug/favorite
func (h *ArticleHandler) Favorite(c *gin.Context) {
	h.favorite(c, true)
}

// Unfavorite handles DELETE /api/articles/:slug/favorite
func (h *ArticleHandler) Unfavorite(c *gin.Context) {
	h.favorite(c, false)
}

func (h *ArticleHandler) favorite(c *gin.Context, favorite bool) {
	view, err := h.services.Article.Favorite(c.Request.Context(), currentUser(c), c.Param("slug"), favorite)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}

// List handles GET /api/articles
func (h *ArticleHandler) List(c *gin.Context) {
	query := &models.ListQuery{
		Tag:       c.Query("tag"),
		Author:    c.Query("author"),
		Favorited: c.Query("favorited"),
	}
	query.Limit, query.Offset = windowParams(c)

	views, err := h.services.Listing.List(c.Request.Context(), query, currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": views, "articlesCount": len(views)})
}

// Feed handles GET /api/articles/feed
func (h *ArticleHandler) Feed(c *gin.Context) {
	limit, offset := windowParams(c)

	views, err := h.services.Listing.Feed(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": views, "articlesCount": len(views)})
}

// Tags handles GET /api/tags
func (h *ArticleHandler) Tags(c *gin.Context) {
	tags, err := h.services.Listing.Tags(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// windowParams parses limit and offset query parameters, falling back to
// the defaults on absent or malformed values
func windowParams(c *gin.Context) (int, int) {
	limit := service.DefaultLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
