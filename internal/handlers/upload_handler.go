package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/evently/internal/services"
)

// UploadAuth returns {token, expire, signature, publicKey} for a direct
// Cloudinary upload. The signed parameters are folder=events,
// public_id=<token> and timestamp=<expire-3600>; the client sends exactly
// those with api_key=<publicKey> and the signature. Cloudinary accepts a
// signed timestamp for one hour, so the signature stops working at expire.
func UploadAuth(u *services.UploadAuthService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth, err := u.Generate()
		if err != nil {
			logger.Error("Upload auth error", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to generate upload authentication parameters",
			})
			return
		}
		c.JSON(http.StatusOK, auth)
	}
}
