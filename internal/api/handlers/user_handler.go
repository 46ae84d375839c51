package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishu8474/prokhoz-backend/internal/services"
)

// UserHandler handles profile and account management.
type UserHandler struct {
	userService services.IUserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.IUserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile handles GET /api/users/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	user, err := h.userService.FindByID(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// profileUpdateRequest holds the mutable profile fields.
type profileUpdateRequest struct {
	CompanyName  *string `json:"companyName"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	Avatar       *string `json:"avatar"`
	Industry     *string `json:"industry"`
	Description  *string `json:"description"`
	Website      *string `json:"website"`
	BusinessType *string `json:"businessType"`
	CompanySize  *string `json:"companySize"`
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	updates := map[string]interface{}{}
	set := func(key string, value *string) {
		if value != nil {
			updates[key] = *value
		}
	}
	set("company_name", req.CompanyName)
	set("phone", req.Phone)
	set("address", req.Address)
	set("avatar", req.Avatar)
	set("industry", req.Industry)
	set("description", req.Description)
	set("website", req.Website)
	set("business_type", req.BusinessType)
	set("company_size", req.CompanySize)

	user, err := h.userService.UpdateProfile(c.Request.Context(), principal.ID, updates)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user, "message": "Profile updated successfully!"})
}

// passwordUpdateRequest is the PUT /api/users/password body.
type passwordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdatePassword handles PUT /api/users/password.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req passwordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	if err := h.userService.UpdatePassword(c.Request.Context(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully!"})
}

// DeleteAccount handles DELETE /api/users/account. Removes the account plus
// its products and every inquiry referencing it.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteAccount(c.Request.Context(), principal.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account deleted"})
}
