// internal/handlers/auth/auth_handler.go
package auth

import (
	"io"
	"net/http"

	"dealerdesk-service/internal/domain/auth"
	"dealerdesk-service/internal/middleware"
	xerrors "dealerdesk-service/internal/pkg/errors"
	"dealerdesk-service/internal/pkg/response"
	authsvc "dealerdesk-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service *authsvc.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(service *authsvc.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid registration request", err)
		return
	}
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrDuplicateEntry) {
			response.Error(c, http.StatusConflict, "registration failed", err)
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "registration failed", err)
		return
	}

	response.Success(c, http.StatusCreated, "account created", result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid login request", err)
		return
	}
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	result, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case xerrors.Is(err, xerrors.ErrRateLimited):
			response.Error(c, http.StatusTooManyRequests, "too many login attempts", err)
		case xerrors.Is(err, xerrors.ErrUnauthorized):
			response.Unauthorized(c, "invalid email or password")
		default:
			h.logger.Error("login failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "login failed", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "logged in", result)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
		Device       string `json:"device"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid refresh request", err)
		return
	}

	result, err := h.service.Refresh(c.Request.Context(), req.RefreshToken, req.Device, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if xerrors.Is(err, xerrors.ErrUnauthorized) || xerrors.Is(err, xerrors.ErrNotFound) {
			response.Unauthorized(c, "invalid refresh token")
			return
		}
		h.logger.Error("token refresh failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "token refresh failed", err)
		return
	}

	response.Success(c, http.StatusOK, "token refreshed", result)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)
	jti := middleware.GetJTI(c)

	if err := h.service.Logout(c.Request.Context(), vendorID, jti); err != nil {
		h.logger.Error("logout failed", zap.Int64("vendor_id", vendorID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "logged out", nil)
}

// GetProfile handles GET /profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)

	profile, err := h.service.GetProfile(c.Request.Context(), vendorID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "vendor not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile", profile)
}

// UpdateProfile handles PATCH /profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)

	var req auth.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid profile update", err)
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), vendorID, &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "vendor not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to update profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile updated", profile)
}

// UploadProfilePhoto handles POST /profile/photo
func (h *AuthHandler) UploadProfilePhoto(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		response.ValidationError(c, "photo file is required", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read photo", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read photo", err)
		return
	}

	photoURL, err := h.service.UploadProfilePhoto(c.Request.Context(), vendorID, fileHeader.Filename, data)
	if err != nil {
		h.logger.Error("profile photo upload failed", zap.Int64("vendor_id", vendorID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to upload photo", err)
		return
	}

	response.Success(c, http.StatusOK, "profile photo updated", gin.H{"profile_photo": photoURL})
}

// ChangePassword handles POST /profile/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	vendorID := middleware.MustGetVendorID(c)

	var req auth.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid password change request", err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), vendorID, &req); err != nil {
		switch {
		case xerrors.Is(err, xerrors.ErrUnauthorized):
			response.Unauthorized(c, "current password is incorrect")
		case xerrors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "invalid new password", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to change password", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "password changed", nil)
}
