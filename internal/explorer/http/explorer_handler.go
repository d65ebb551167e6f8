// Package http provides HTTP handlers for blockchain explorer reads.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/dataproof/internal/explorer/http/dto"
	explorerService "github.com/allisson/dataproof/internal/explorer/service"
	"github.com/allisson/dataproof/internal/httputil"
	customValidation "github.com/allisson/dataproof/internal/validation"
)

// ExplorerHandler serves the on-chain read endpoints.
type ExplorerHandler struct {
	explorer explorerService.Explorer
	logger   *slog.Logger
}

// NewExplorerHandler creates a new explorer handler.
func NewExplorerHandler(explorer explorerService.Explorer, logger *slog.Logger) *ExplorerHandler {
	return &ExplorerHandler{
		explorer: explorer,
		logger:   logger,
	}
}

// SubscriptionStatusHandler reports an account's subscription state.
// GET /v1/subscription/status?address=0x...
func (h *ExplorerHandler) SubscriptionStatusHandler(c *gin.Context) {
	req := dto.SubscriptionStatusRequest{
		Address: c.Query("address"),
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	status, err := h.explorer.SubscriptionStatus(c.Request.Context(), req.Address)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubscriptionStatusToResponse(status))
}

// TransactionStatusHandler reports a transaction's receipt status.
// GET /v1/transactions/:hash/status
func (h *ExplorerHandler) TransactionStatusHandler(c *gin.Context) {
	req := dto.TransactionStatusRequest{
		Hash: c.Param("hash"),
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	status, err := h.explorer.TransactionStatus(c.Request.Context(), req.Hash)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTxStatusToResponse(status))
}
