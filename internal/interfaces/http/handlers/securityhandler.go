package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"licentia/internal/application/security/usecases"
	"licentia/internal/shared/logger"
	"licentia/internal/shared/utils"
)

// SecurityHandler exposes the admin ban-management operations.
type SecurityHandler struct {
	checkLockoutUC  *usecases.CheckLockoutUseCase
	resetCountUC    *usecases.ResetBanCountUseCase
	removeLockoutUC *usecases.RemoveLockoutUseCase
	listHistoryUC   *usecases.ListBanHistoryUseCase
	logger          logger.Interface
}

func NewSecurityHandler(
	checkLockoutUC *usecases.CheckLockoutUseCase,
	resetCountUC *usecases.ResetBanCountUseCase,
	removeLockoutUC *usecases.RemoveLockoutUseCase,
	listHistoryUC *usecases.ListBanHistoryUseCase,
	logger logger.Interface,
) *SecurityHandler {
	return &SecurityHandler{
		checkLockoutUC:  checkLockoutUC,
		resetCountUC:    resetCountUC,
		removeLockoutUC: removeLockoutUC,
		listHistoryUC:   listHistoryUC,
		logger:          logger,
	}
}

// GetLockout handles GET /admin/lockouts/:subject
func (h *SecurityHandler) GetLockout(c *gin.Context) {
	result, err := h.checkLockoutUC.Execute(c.Request.Context(), usecases.CheckLockoutQuery{
		Subject: c.Param("subject"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"locked":       result.Locked,
		"ban_count":    result.BanCount,
		"remaining":    result.Remaining.String(),
		"banned_until": result.BannedUntil,
	})
}

// ListBanHistory handles GET /admin/bans/:subject
func (h *SecurityHandler) ListBanHistory(c *gin.Context) {
	views, err := h.listHistoryUC.Execute(c.Request.Context(), usecases.ListBanHistoryQuery{
		Subject: c.Param("subject"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"bans": views})
}

// ResetBanCount handles POST /admin/bans/:subject/reset
func (h *SecurityHandler) ResetBanCount(c *gin.Context) {
	err := h.resetCountUC.Execute(c.Request.Context(), usecases.ResetBanCountCommand{
		Subject: c.Param("subject"),
		AdminID: adminIDFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "ban count reset", nil)
}

// RemoveLockout handles POST /admin/bans/:subject/remove
func (h *SecurityHandler) RemoveLockout(c *gin.Context) {
	err := h.removeLockoutUC.Execute(c.Request.Context(), usecases.RemoveLockoutCommand{
		Subject: c.Param("subject"),
		AdminID: adminIDFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "lockout removed", nil)
}
