package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/evhighway/internal/settings"
)

// apiKeyRequest 保存密钥请求
type apiKeyRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// themeRequest 保存主题请求
type themeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}

// GetAPIKeyStatus 密钥是否已配置，不返回密钥本身
// GET /api/settings/api-key
func (h *Handler) GetAPIKeyStatus(c *gin.Context) {
	key, err := h.settings.APIKey(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load api key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load api key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"configured": key != ""}})
}

// SaveAPIKey 保存密钥并重新开始抓取
// PUT /api/settings/api-key
func (h *Handler) SaveAPIKey(c *gin.Context) {
	var req apiKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "api_key is required"})
		return
	}

	ctx := c.Request.Context()
	if err := h.settings.SaveAPIKey(ctx, req.APIKey); err != nil {
		if errors.Is(err, settings.ErrEmptyAPIKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "api_key is required"})
			return
		}
		h.logger.Error("Failed to save api key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save api key"})
		return
	}
	if err := h.retrieval.CredentialChanged(ctx, true); err != nil {
		h.logger.Error("Failed to restart retrieval", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restart retrieval"})
		return
	}

	h.logger.Info("API key saved")
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"configured": true}})
}

// ClearAPIKey 删除密钥并停止抓取
// DELETE /api/settings/api-key
func (h *Handler) ClearAPIKey(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.settings.ClearAPIKey(ctx); err != nil {
		h.logger.Error("Failed to clear api key", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear api key"})
		return
	}
	if err := h.retrieval.CredentialChanged(ctx, false); err != nil {
		h.logger.Error("Failed to stop retrieval", zap.Error(err))
	}

	h.logger.Info("API key cleared")
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"configured": false}})
}

// GetTheme 获取主题
// GET /api/settings/theme
func (h *Handler) GetTheme(c *gin.Context) {
	theme, err := h.settings.Theme(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load theme", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load theme"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"theme": theme}})
}

// SaveTheme 保存主题
// PUT /api/settings/theme
func (h *Handler) SaveTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "theme must be light or dark"})
		return
	}

	if err := h.settings.SaveTheme(c.Request.Context(), req.Theme); err != nil {
		h.logger.Error("Failed to save theme", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save theme"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"theme": req.Theme}})
}
