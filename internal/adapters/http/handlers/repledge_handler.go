package handlers

import (
	"context"
	"errors"
	"time"

	"goldloan-ledger/internal/adapters/http/middleware"
	"goldloan-ledger/internal/core/domain"
	"goldloan-ledger/internal/core/services"
	"goldloan-ledger/internal/pkg/pagination"
	"goldloan-ledger/internal/pkg/response"
	"goldloan-ledger/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// RepledgeHandler handles repledge listing endpoints
type RepledgeHandler struct {
	service *services.RepledgeService
	digest  *services.DigestService
	loc     *time.Location
	logger  *zap.Logger
}

// NewRepledgeHandler creates a new repledge handler. Query dates are read in
// loc.
func NewRepledgeHandler(service *services.RepledgeService, digest *services.DigestService, loc *time.Location, logger *zap.Logger) *RepledgeHandler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RepledgeHandler{service: service, digest: digest, loc: loc, logger: logger}
}

// RepledgeListQuery represents the listing query string
type RepledgeListQuery struct {
	Search     string `query:"search" validate:"max=100"`
	BankID     string `query:"bank_id" validate:"max=36"`
	Status     string `query:"status" validate:"omitempty,oneof=All active closed"`
	DateFilter string `query:"date_filter" validate:"max=20"`
	StartDate  string `query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `query:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Strategy   string `query:"strategy" validate:"omitempty,oneof=remote local"`
}

// Criteria converts the query into filter criteria
func (q RepledgeListQuery) Criteria(loc *time.Location) (services.FilterCriteria, error) {
	c := services.DefaultCriteria()
	c.SearchTerm = q.Search
	if q.BankID != "" {
		c.BankID = q.BankID
	}
	if q.Status != "" {
		c.Status = q.Status
	}

	preset, err := services.ParseDatePreset(q.DateFilter)
	if err != nil {
		return c, err
	}
	c.DatePreset = preset

	if q.StartDate != "" {
		d, err := time.ParseInLocation(dateLayout, q.StartDate, loc)
		if err != nil {
			return c, err
		}
		c.StartDate = &d
	}
	if q.EndDate != "" {
		d, err := time.ParseInLocation(dateLayout, q.EndDate, loc)
		if err != nil {
			return c, err
		}
		c.EndDate = &d
	}
	if c.HasExplicitRange() && c.StartDate.After(*c.EndDate) {
		return c, errors.New("start_date must not be after end_date")
	}
	return c, nil
}

// List lists repledges visible to the caller
// @Summary List repledges
// @Description Scoped, filtered and paginated repledge list. Branch users see only their branch.
// @Tags Repledge
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param search query string false "Customer name, mobile, loan no or repledge no"
// @Param bank_id query string false "Bank ID or 'all'"
// @Param status query string false "All, active or closed (local strategy only)"
// @Param date_filter query string false "All, Today, This Week, This Month, This Year"
// @Param start_date query string false "YYYY-MM-DD, used with end_date"
// @Param end_date query string false "YYYY-MM-DD, used with start_date"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param strategy query string false "remote or local"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /repledges [get]
func (h *RepledgeHandler) List(c *fiber.Ctx) error {
	principal, branchID := middleware.Principal(c)
	if principal == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var q RepledgeListQuery
	if err := c.QueryParser(&q); err != nil {
		return response.BadRequest(c, "Invalid query parameters")
	}
	if errs := validate.Struct(q); errs != nil {
		return response.ValidationFailed(c, errs)
	}

	criteria, err := q.Criteria(h.loc)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	strategy, err := services.ParseStrategy(q.Strategy, h.service.DefaultStrategy())
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	params := pagination.GetParams(c)
	out, err := h.service.List(c.Context(), services.ListInput{
		Principal: principal,
		BranchID:  branchID,
		Criteria:  criteria,
		Page:      params.Page,
		Limit:     params.Limit,
		Strategy:  strategy,
	})
	if err != nil {
		return h.listError(c, err)
	}

	c.Set("X-Search-Strategy", string(out.Strategy))
	return response.Paginated(c, "Repledges retrieved successfully", out.Items, out.Meta)
}

func (h *RepledgeHandler) listError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrScopeUnavailable):
		return response.Forbidden(c, "No branch is assigned to this account")
	case errors.Is(err, domain.ErrUnsupportedFilter):
		return response.BadRequest(c, "Status filter requires the local search strategy")
	case errors.Is(err, domain.ErrInvalidPageRequest), errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return response.Error(c, fiber.StatusGatewayTimeout, "Repledge search timed out")
	case domain.IsQueryError(err):
		return response.BadGateway(c, "Failed to query repledges")
	default:
		h.logger.Error("repledge list", zap.Error(err))
		return response.InternalServerError(c, "Failed to list repledges")
	}
}

// Digest returns today's per-branch repledge digest
// @Summary Repledge digest
// @Description Per-branch count and amount of today's repledges (Admin only). refresh=true recomputes now.
// @Tags Repledge
// @Produce json
// @Security BearerAuth
// @Param refresh query bool false "Recompute now"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /repledges/digest [get]
func (h *RepledgeHandler) Digest(c *fiber.Ctx) error {
	d := h.digest.Last()
	if d == nil || c.QueryBool("refresh") {
		var err error
		d, err = h.digest.Run(c.Context())
		if err != nil {
			h.logger.Error("repledge digest", zap.Error(err))
			return response.InternalServerError(c, "Failed to build digest")
		}
	}
	return response.Success(c, "Digest retrieved successfully", d)
}
