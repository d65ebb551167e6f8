package http

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/dataproof/internal/httputil"
	"github.com/allisson/dataproof/internal/proof/http/dto"
	proofUseCase "github.com/allisson/dataproof/internal/proof/usecase"
)

// KeyHandler handles HTTP requests for encryption key management.
type KeyHandler struct {
	useCase proofUseCase.ProofUseCase
	logger  *slog.Logger
}

// NewKeyHandler creates a new key handler.
func NewKeyHandler(useCase proofUseCase.ProofUseCase, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// InfoHandler returns the non-secret description of the active key.
// GET /v1/keys/info
func (h *KeyHandler) InfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.useCase.KeyInfo())
}

// RotateHandler activates a new encryption key. Future proofs use the new
// key; existing envelopes keep their original key.
// POST /v1/keys/rotate - admin gated.
func (h *KeyHandler) RotateHandler(c *gin.Context) {
	rotation, err := h.useCase.RotateKey(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	var wrappedB64 string
	if len(rotation.WrappedKey) > 0 {
		wrappedB64 = base64.StdEncoding.EncodeToString(rotation.WrappedKey)
	}

	c.JSON(http.StatusOK, dto.MapRotationToResponse(rotation, wrappedB64))
}
