// Package http provides the admin gate and rate limiting middleware.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authService "github.com/allisson/dataproof/internal/auth/service"
	apperrors "github.com/allisson/dataproof/internal/errors"
	"github.com/allisson/dataproof/internal/httputil"
)

// AdminKeyHeader carries the admin credential on privileged requests.
const AdminKeyHeader = "X-Admin-Key"

// AdminKeyMiddleware gates privileged endpoints behind an Argon2id-hashed
// admin key from configuration.
//
// Error handling:
//   - No admin key hash configured → 403 Forbidden (admin surface disabled)
//   - Missing X-Admin-Key header → 401 Unauthorized
//   - Key does not match the hash → 403 Forbidden
func AdminKeyMiddleware(
	adminKeyHash string,
	service authService.AdminKeyService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKeyHash == "" {
			logger.Warn("admin endpoint called but no admin key hash is configured")
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		plainKey := c.GetHeader(AdminKeyHeader)
		if plainKey == "" {
			logger.Debug("admin authentication failed: missing admin key header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !service.VerifyKey(plainKey, adminKeyHash) {
			logger.Debug("admin authentication failed: key mismatch",
				slog.String("client_ip", c.ClientIP()),
			)
			httputil.HandleErrorGin(c, apperrors.ErrForbidden, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
