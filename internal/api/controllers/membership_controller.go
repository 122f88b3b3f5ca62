package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"vitour/internal/models/request_models"
	"vitour/internal/models/response_models"
	"vitour/internal/services"
	"vitour/pkg/utils"
)

type MembershipController struct {
	membershipService services.MembershipServiceInterface
	lifecycleService  services.LifecycleServiceInterface
	clock             services.Clock
}

func NewMembershipController(
	membershipService services.MembershipServiceInterface,
	lifecycleService services.LifecycleServiceInterface,
	clock services.Clock,
) *MembershipController {
	return &MembershipController{
		membershipService: membershipService,
		lifecycleService:  lifecycleService,
		clock:             clock,
	}
}

// ListCards godoc
// @Summary List membership cards
// @Tags Memberships
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /cards [get]
func (m *MembershipController) ListCards(c *gin.Context) {
	cards, err := m.membershipService.ListCards(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, cards, "")
}

// CreateCard godoc
// @Summary Add a membership card to the catalog
// @Tags Memberships
// @Accept json
// @Produce json
// @Param request body request_models.CreateCardRequest true "Card definition"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/cards [post]
func (m *MembershipController) CreateCard(c *gin.Context) {
	var req request_models.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	card, err := m.membershipService.CreateCard(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusCreated, response_models.NewMembershipCardResponse(card), "Card created")
}

// IssueMembership godoc
// @Summary Issue a membership card to the caller
// @Description The end date always follows the card duration
// @Tags Memberships
// @Accept json
// @Produce json
// @Param request body request_models.IssueMembershipRequest true "Card code"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /memberships [post]
func (m *MembershipController) IssueMembership(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.IssueMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	m.issue(c, userID, req.CardCode, nil)
}

// AdminIssueMembership godoc
// @Summary Issue a membership card to any user
// @Description Admins may override the computed end date
// @Tags Memberships
// @Accept json
// @Produce json
// @Param request body request_models.AdminIssueMembershipRequest true "User, card and optional end date"
// @Success 201 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/memberships [post]
func (m *MembershipController) AdminIssueMembership(c *gin.Context) {
	var req request_models.AdminIssueMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "user_id must be a UUID")
		return
	}

	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := utils.ParseDay(req.EndDate, m.clock.Now().Location())
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
		endDate = &parsed
	}

	m.issue(c, userID, req.CardCode, endDate)
}

func (m *MembershipController) issue(c *gin.Context, userID uuid.UUID, cardCode string, endDate *time.Time) {
	membership, err := m.membershipService.IssueMembership(c.Request.Context(), userID, cardCode, endDate)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondWithStatus(c, http.StatusCreated,
		response_models.NewMembershipResponse(membership, m.clock.Now().Location()),
		"Membership issued")
}

// ListMemberships godoc
// @Summary Caller's memberships, newest first
// @Tags Memberships
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /memberships [get]
func (m *MembershipController) ListMemberships(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	memberships, err := m.membershipService.ListUserMemberships(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	loc := m.clock.Now().Location()
	result := make([]response_models.MembershipResponse, 0, len(memberships))
	for i := range memberships {
		result = append(result, *response_models.NewMembershipResponse(&memberships[i], loc))
	}
	utils.RespondSuccess(c, result, "")
}

// ActiveMembership godoc
// @Summary The membership that prices the caller's next tour
// @Tags Memberships
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /memberships/active [get]
func (m *MembershipController) ActiveMembership(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	membership, err := m.membershipService.GetActiveMembership(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if membership == nil {
		utils.RespondError(c, http.StatusNotFound, "No active membership")
		return
	}

	utils.RespondSuccess(c, response_models.NewMembershipResponse(membership, m.clock.Now().Location()), "")
}

// Sweep godoc
// @Summary Deactivate expired memberships
// @Tags Memberships
// @Accept json
// @Produce json
// @Param request body request_models.SweepRequest false "Sweep date"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/memberships/sweep [post]
func (m *MembershipController) Sweep(c *gin.Context) {
	var req request_models.SweepRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	asOf := m.clock.Now()
	if req.AsOf != "" {
		parsed, err := utils.ParseDay(req.AsOf, asOf.Location())
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	count, err := m.lifecycleService.SweepExpiredMemberships(c.Request.Context(), asOf)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.SweepResponse{
		AsOf:        asOf.Format("2006-01-02"),
		Deactivated: count,
	}, "Sweep finished")
}
