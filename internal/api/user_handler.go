package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/conduit-api/internal/models"
	"github.com/conduit-api/internal/service"
	"github.com/conduit-api/internal/validation"
)

// UserHandler handles user, authentication, and profile endpoints
type UserHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(services *service.Services, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		services: services,
		log:      log.With().Str("handler", "user").Logger(),
	}
}

// Register handles POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var body struct {
		User models.RegisterRequest `json:"user"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c)
		return
	}
	if err := validation.ValidateRegister(&body.User); err != nil {
		respondError(c, h.log, err)
		return
	}

	view, err := h.services.User.Register(c.Request.Context(), &body.User)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": view})
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var body struct {
		User models.LoginRequest `json:"user"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c)
		return
	}
	if err := validation.ValidateLogin(&body.User); err != nil {
		respondError(c, h.log, err)
		return
	}

	view, err := h.services.User.Login(c.Request.Context(), &body.User)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": view})
}

// Current handles GET /api/user
func (h *UserHandler) Current(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": &models.UserView{
		Email:    user.Email,
		Token:    currentToken(c),
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
	}})
}

// Update handles PUT /api/user
func (h *UserHandler) Update(c *gin.Context) {
	var body struct {
		User models.UserUpdateRequest `json:"user"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c)
		return
	}
	if err := validation.ValidateUserUpdate(&body.User); err != nil {
		respondError(c, h.log, err)
		return
	}

	view, err := h.services.User.Update(c.Request.Context(), currentUser(c), &body.User, currentToken(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": view})
}

// Profile handles GET /api/profiles/:username
func (h *UserHandler) Profile(c *gin.Context) {
	profile, err := h.services.User.ProfileOf(c.Request.Context(), c.Param("username"), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Follow handles POST /api/profiles/:username/follow
func (h *UserHandler) Follow(c *gin.Context) {
	h.follow(c, true)
}

// Unfollow handles DELETE /api/profiles/:username/follow
func (h *UserHandler) Unfollow(c *gin.Context) {
	h.follow(c, false)
}

func (h *UserHandler) follow(c *gin.Context, follow bool) {
	profile, err := h.services.User.Follow(c.Request.Context(), currentUser(c), c.Param("username"), follow)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
