package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	securityUsecases "licentia/internal/application/security/usecases"
	"licentia/internal/application/session/usecases"
	"licentia/internal/infrastructure/auth"
	"licentia/internal/shared/constants"
	apperrors "licentia/internal/shared/errors"
	"licentia/internal/shared/logger"
	"licentia/internal/shared/utils"
)

// SessionHandler manages admin session lifecycle. Authentication itself
// happens upstream; the authenticator attests a verified login with a
// shared secret, and this subsystem issues and polices the session.
// Attestation failures feed the same progressive ban engine as any other
// failed authentication.
type SessionHandler struct {
	createUC          *usecases.CreateSessionUseCase
	revokeUC          *usecases.RevokeSessionUseCase
	checkLockoutUC    *securityUsecases.CheckLockoutUseCase
	recordAttemptUC   *securityUsecases.RecordFailedAttemptUseCase
	attestationSecret string
	logger            logger.Interface
}

func NewSessionHandler(
	createUC *usecases.CreateSessionUseCase,
	revokeUC *usecases.RevokeSessionUseCase,
	checkLockoutUC *securityUsecases.CheckLockoutUseCase,
	recordAttemptUC *securityUsecases.RecordFailedAttemptUseCase,
	attestationSecret string,
	logger logger.Interface,
) *SessionHandler {
	return &SessionHandler{
		createUC:          createUC,
		revokeUC:          revokeUC,
		checkLockoutUC:    checkLockoutUC,
		recordAttemptUC:   recordAttemptUC,
		attestationSecret: attestationSecret,
		logger:            logger,
	}
}

type createSessionRequest struct {
	AdminID uint   `json:"admin_id" binding:"required"`
	Subject string `json:"subject" binding:"required"`
}

// Create handles POST /admin/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "admin_id and subject are required")
		return
	}

	if err := h.checkLockoutUC.Enforce(c.Request.Context(), req.Subject); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	attestation := c.GetHeader(constants.HeaderAttestation)
	if h.attestationSecret == "" || !auth.ConstantTimeEqual(attestation, h.attestationSecret) {
		_, recErr := h.recordAttemptUC.Execute(c.Request.Context(), securityUsecases.RecordFailedAttemptCommand{
			Subject:   req.Subject,
			Reason:    "invalid session attestation",
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		if recErr != nil {
			h.logger.Errorw("failed to record attestation failure", "error", recErr)
		}
		utils.ErrorResponseWithError(c, apperrors.NewInvalidCredentialError())
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), usecases.CreateSessionCommand{
		AdminID:   req.AdminID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"token": result.Token})
}

// Revoke handles DELETE /admin/sessions/current (logout)
func (h *SessionHandler) Revoke(c *gin.Context) {
	sessionID, _ := c.Get(constants.ContextKeySessionID)
	sid, _ := sessionID.(string)
	if sid == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "no active session")
		return
	}

	err := h.revokeUC.Execute(c.Request.Context(), usecases.RevokeSessionCommand{
		SessionID: sid,
		AdminID:   adminIDFromContext(c),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// RevokeAll handles DELETE /admin/sessions (logout everywhere)
func (h *SessionHandler) RevokeAll(c *gin.Context) {
	adminID := adminIDFromContext(c)
	if adminID == 0 {
		utils.ErrorResponse(c, http.StatusUnauthorized, "no active session")
		return
	}

	err := h.revokeUC.Execute(c.Request.Context(), usecases.RevokeSessionCommand{
		AdminID:   adminID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
