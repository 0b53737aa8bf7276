package handlers

import (
	"goldloan-ledger/internal/adapters/persistence/repositories"
	"goldloan-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MasterHandler handles master data endpoints used by the list filters
type MasterHandler struct {
	bankRepo   repositories.BankRepository
	branchRepo repositories.BranchRepository
}

// NewMasterHandler creates a new master handler
func NewMasterHandler(bankRepo repositories.BankRepository, branchRepo repositories.BranchRepository) *MasterHandler {
	return &MasterHandler{
		bankRepo:   bankRepo,
		branchRepo: branchRepo,
	}
}

// ListBanks lists active banks for the bank filter
// @Summary List banks
// @Tags Master
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /master/banks [get]
func (h *MasterHandler) ListBanks(c *fiber.Ctx) error {
	banks, err := h.bankRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list banks")
	}

	return response.Success(c, "Banks retrieved successfully", fiber.Map{
		"banks": banks,
	})
}

// ListBranches lists branches
// @Summary List branches
// @Description Get all branches (Admin only)
// @Tags Master
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /master/branches [get]
func (h *MasterHandler) ListBranches(c *fiber.Ctx) error {
	branches, err := h.branchRepo.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list branches")
	}

	return response.Success(c, "Branches retrieved successfully", fiber.Map{
		"branches": branches,
	})
}
