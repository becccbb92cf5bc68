package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"licentia/internal/application/license/usecases"
	"licentia/internal/shared/logger"
	"licentia/internal/shared/utils"
)

// LicenseHandler handles HTTP requests for license validation and machine
// activation, plus the admin lifecycle operations.
type LicenseHandler struct {
	validateUC     *usecases.ValidateLicenseUseCase
	activateUC     *usecases.ActivateMachineUseCase
	deactivateUC   *usecases.DeactivateMachineUseCase
	issueUC        *usecases.IssueLicenseUseCase
	revokeUC       *usecases.RevokeLicenseUseCase
	changeStatusUC *usecases.ChangeLicenseStatusUseCase
	getUC          *usecases.GetLicenseUseCase
	logger         logger.Interface
}

func NewLicenseHandler(
	validateUC *usecases.ValidateLicenseUseCase,
	activateUC *usecases.ActivateMachineUseCase,
	deactivateUC *usecases.DeactivateMachineUseCase,
	issueUC *usecases.IssueLicenseUseCase,
	revokeUC *usecases.RevokeLicenseUseCase,
	changeStatusUC *usecases.ChangeLicenseStatusUseCase,
	getUC *usecases.GetLicenseUseCase,
	logger logger.Interface,
) *LicenseHandler {
	return &LicenseHandler{
		validateUC:     validateUC,
		activateUC:     activateUC,
		deactivateUC:   deactivateUC,
		issueUC:        issueUC,
		revokeUC:       revokeUC,
		changeStatusUC: changeStatusUC,
		getUC:          getUC,
		logger:         logger,
	}
}

type validateLicenseRequest struct {
	LicenseKey  string `json:"license_key" binding:"required"`
	Fingerprint string `json:"fingerprint"`
	MachineID   string `json:"machine_id"`
}

// Validate handles POST /licenses/validate
func (h *LicenseHandler) Validate(c *gin.Context) {
	var req validateLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "license_key is required")
		return
	}

	result, err := h.validateUC.Execute(c.Request.Context(), usecases.ValidateLicenseCommand{
		LicenseKey:  req.LicenseKey,
		Fingerprint: req.Fingerprint,
		MachineID:   req.MachineID,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"license_sid":     result.LicenseSID,
		"status":          result.Status,
		"machine_bound":   result.MachineBound,
		"activation_sid":  result.ActivationSID,
		"max_activations": result.MaxActivations,
		"expires_at":      result.ExpiresAt,
	})
}

type activateMachineRequest struct {
	LicenseKey  string `json:"license_key" binding:"required"`
	Fingerprint string `json:"fingerprint"`
	MachineID   string `json:"machine_id"`
}

// Activate handles POST /licenses/activate
func (h *LicenseHandler) Activate(c *gin.Context) {
	var req activateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "license_key is required")
		return
	}

	result, err := h.activateUC.Execute(c.Request.Context(), usecases.ActivateMachineCommand{
		LicenseKey:  req.LicenseKey,
		Fingerprint: req.Fingerprint,
		MachineID:   req.MachineID,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyActive {
		status = http.StatusOK
	}
	utils.SuccessResponse(c, status, "", gin.H{
		"license_sid":     result.LicenseSID,
		"activation_sid":  result.ActivationSID,
		"already_active":  result.AlreadyActive,
		"active_machines": result.ActiveMachines,
		"max_activations": result.MaxActivations,
	})
}

type deactivateMachineRequest struct {
	LicenseKey  string `json:"license_key" binding:"required"`
	Fingerprint string `json:"fingerprint"`
	MachineID   string `json:"machine_id"`
	Reason      string `json:"reason"`
}

// Deactivate handles POST /licenses/deactivate
func (h *LicenseHandler) Deactivate(c *gin.Context) {
	var req deactivateMachineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "license_key is required")
		return
	}

	result, err := h.deactivateUC.Execute(c.Request.Context(), usecases.DeactivateMachineCommand{
		LicenseKey:  req.LicenseKey,
		Fingerprint: req.Fingerprint,
		MachineID:   req.MachineID,
		Reason:      req.Reason,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"license_sid":     result.LicenseSID,
		"activation_sid":  result.ActivationSID,
		"active_machines": result.ActiveMachines,
	})
}

type issueLicenseRequest struct {
	ProductID             uint       `json:"product_id" binding:"required"`
	OrderID               uint       `json:"order_id"`
	MaxActivations        int        `json:"max_activations" binding:"required,min=1"`
	RequireMachineBinding bool       `json:"require_machine_binding"`
	ExpiresAt             *time.Time `json:"expires_at"`
}

// Issue handles POST /admin/licenses
func (h *LicenseHandler) Issue(c *gin.Context) {
	var req issueLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	result, err := h.issueUC.Execute(c.Request.Context(), usecases.IssueLicenseCommand{
		ProductID:             req.ProductID,
		OrderID:               req.OrderID,
		MaxActivations:        req.MaxActivations,
		RequireMachineBinding: req.RequireMachineBinding,
		ExpiresAt:             req.ExpiresAt,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	// The plaintext key appears in this response and nowhere else.
	utils.CreatedResponse(c, gin.H{
		"license_sid": result.LicenseSID,
		"license_key": result.PlaintextKey,
	})
}

// Get handles GET /admin/licenses/:sid
func (h *LicenseHandler) Get(c *gin.Context) {
	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetLicenseQuery{
		LicenseSID: c.Param("sid"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

type revokeLicenseRequest struct {
	Reason string `json:"reason"`
}

// Revoke handles POST /admin/licenses/:sid/revoke
func (h *LicenseHandler) Revoke(c *gin.Context) {
	var req revokeLicenseRequest
	_ = c.ShouldBindJSON(&req)

	err := h.revokeUC.Execute(c.Request.Context(), usecases.RevokeLicenseCommand{
		LicenseSID: c.Param("sid"),
		Reason:     req.Reason,
		AdminID:    adminIDFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "license revoked", nil)
}

type changeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus handles PATCH /admin/licenses/:sid/status
func (h *LicenseHandler) ChangeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "status is required")
		return
	}

	err := h.changeStatusUC.Execute(c.Request.Context(), usecases.ChangeLicenseStatusCommand{
		LicenseSID: c.Param("sid"),
		Target:     req.Status,
		AdminID:    adminIDFromContext(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "status updated", nil)
}
