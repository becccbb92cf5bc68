package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"licentia/internal/application/audit/usecases"
	"licentia/internal/shared/logger"
	"licentia/internal/shared/utils"
)

// AuditHandler exposes the read-only audit trail to administrators.
type AuditHandler struct {
	queryUC *usecases.QueryAuditLogUseCase
	logger  logger.Interface
}

func NewAuditHandler(queryUC *usecases.QueryAuditLogUseCase, logger logger.Interface) *AuditHandler {
	return &AuditHandler{queryUC: queryUC, logger: logger}
}

// Query handles GET /admin/audit
// Query parameters: action, license_sid, subject, from, to (RFC3339),
// limit, offset.
func (h *AuditHandler) Query(c *gin.Context) {
	q := usecases.QueryAuditLogQuery{
		Action:     c.Query("action"),
		LicenseSID: c.Query("license_sid"),
		Subject:    c.Query("subject"),
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid from timestamp")
			return
		}
		q.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid to timestamp")
			return
		}
		q.To = t
	}
	if limit := c.Query("limit"); limit != "" {
		q.Limit, _ = strconv.Atoi(limit)
	}
	if offset := c.Query("offset"); offset != "" {
		q.Offset, _ = strconv.Atoi(offset)
	}

	result, err := h.queryUC.Execute(c.Request.Context(), q)
	if err != nil {
		h.logger.Errorw("audit query failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"entries": result.Entries,
		"total":   result.Total,
	})
}
