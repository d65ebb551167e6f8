// Package http provides HTTP handlers for the proof pipeline: creating,
// verifying, listing and decrypting daily proofs, plus key management.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/dataproof/internal/httputil"
	"github.com/allisson/dataproof/internal/proof/http/dto"
	proofUseCase "github.com/allisson/dataproof/internal/proof/usecase"
	customValidation "github.com/allisson/dataproof/internal/validation"
)

// ProofHandler handles HTTP requests for proof operations.
type ProofHandler struct {
	useCase proofUseCase.ProofUseCase
	logger  *slog.Logger
}

// NewProofHandler creates a new proof handler.
func NewProofHandler(useCase proofUseCase.ProofUseCase, logger *slog.Logger) *ProofHandler {
	return &ProofHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// CreateHandler creates a daily proof from a JSON payload.
// POST /v1/proofs
// Returns 201 Created with the appended record.
func (h *ProofHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	record, err := h.useCase.CreateDailyProof(c.Request.Context(), req.Payload, req.Encrypt)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRecordToResponse(record))
}

// VerifyHandler verifies a pinned proof by CID.
// GET /v1/proofs/:cid?expected_date=YYYY-MM-DD
func (h *ProofHandler) VerifyHandler(c *gin.Context) {
	req := dto.VerifyProofRequest{
		CID:          c.Param("cid"),
		ExpectedDate: c.Query("expected_date"),
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.useCase.VerifyDailyProof(c.Request.Context(), req.CID, req.ExpectedDate)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListHandler lists proof records in insertion order.
// GET /v1/proofs?date=YYYY-MM-DD&limit=N&offset=N
func (h *ProofHandler) ListHandler(c *gin.Context) {
	req := dto.ListProofsRequest{
		Date: c.Query("date"),
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	records, err := h.useCase.ListRecords(c.Request.Context(), req.Date, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecordsToListResponse(records))
}

// DecryptHandler returns the plaintext of an encrypted proof.
// POST /v1/proofs/:cid/decrypt - admin gated.
func (h *ProofHandler) DecryptHandler(c *gin.Context) {
	req := dto.DecryptProofRequest{
		CID: c.Param("cid"),
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	decrypted, err := h.useCase.DecryptProof(c.Request.Context(), req.CID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptProofResponse{
		CID:       req.CID,
		Decrypted: decrypted,
	})
}

// GuideHandler returns the decryption reproducibility guide.
// GET /v1/proofs/decryption-guide
func (h *ProofHandler) GuideHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.useCase.DecryptionGuide())
}
