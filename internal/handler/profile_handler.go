package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finbook/internal/service"
)

// ProfileHandler handles company profile endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, profile)
}

// Save handles PUT /api/v1/profile
func (h *ProfileHandler) Save(c *gin.Context) {
	var req struct {
		Name          string `json:"name" binding:"required"`
		Address       string `json:"address"`
		GSTIN         string `json:"gstin"`
		HomeStateCode *int   `json:"home_state_code"`
		Country       string `json:"country"`
		BankName      string `json:"bank_name"`
		AccountNumber string `json:"account_number"`
		IFSCCode      string `json:"ifsc_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	profile, err := h.profileService.Save(c.Request.Context(), &service.ProfileInput{
		Name:          req.Name,
		Address:       req.Address,
		GSTIN:         req.GSTIN,
		HomeStateCode: req.HomeStateCode,
		Country:       req.Country,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		IFSCCode:      req.IFSCCode,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, profile)
}
