package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishu8474/prokhoz-backend/internal/auth"
	"github.com/vishu8474/prokhoz-backend/internal/config"
	"github.com/vishu8474/prokhoz-backend/internal/models"
	"github.com/vishu8474/prokhoz-backend/internal/services"
)

// AuthHandler handles registration, login and identity lookup.
type AuthHandler struct {
	userService services.IUserService
	cfg         *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.IUserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{userService: userService, cfg: cfg}
}

// userPayload is the account shape returned to clients after auth calls.
func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID.Hex(),
		"companyName":  user.CompanyName,
		"email":        user.Email,
		"phone":        user.Phone,
		"address":      user.Address,
		"role":         user.Role,
		"avatar":       user.Avatar,
		"industry":     user.Industry,
		"description":  user.Description,
		"website":      user.Website,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateJWT(user.ID, string(user.Role), h.cfg.JwtSecret, h.cfg.JwtTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"user":    userPayload(user),
		"message": "Registration successful!",
	})
}

// loginRequest is the POST /api/auth/login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := auth.GenerateJWT(user.ID, string(user.Role), h.cfg.JwtSecret, h.cfg.JwtTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    userPayload(user),
		"message": "Login successful!",
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	user, err := h.userService.FindByID(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": userPayload(user)})
}
