package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"vitour/internal/models/request_models"
	"vitour/internal/models/response_models"
	"vitour/internal/services"
	mem "vitour/pkg/memcache"
	"vitour/pkg/utils"
)

const idempotencyHeader = "Idempotency-Key"

type TourController struct {
	tourService    services.TourServiceInterface
	idempotency    mem.IdempotencyStore
	idempotencyTTL time.Duration
	loc            *time.Location
}

func NewTourController(tourService services.TourServiceInterface, idempotency mem.IdempotencyStore, idempotencyTTL time.Duration, loc *time.Location) *TourController {
	return &TourController{
		tourService:    tourService,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		loc:            loc,
	}
}

// BookTour godoc
// @Summary Book a tour in a city
// @Description Prices the tour against the caller's active membership and pays any referral bonus
// @Tags Tours
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Repeat-safe key"
// @Param request body request_models.BookTourRequest true "Booking payload"
// @Success 201 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /tours [post]
func (t *TourController) BookTour(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req request_models.BookTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	cityID, err := uuid.Parse(req.CityID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "city_id must be a UUID")
		return
	}

	key := c.GetHeader(idempotencyHeader)
	if key != "" {
		key = userID.String() + ":" + key
		if tourID, seen := t.idempotency.Peek(key); seen {
			t.replay(c, tourID)
			return
		}
	}

	booking, err := t.tourService.BookTour(c.Request.Context(), userID, cityID, req.Title)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if key != "" {
		t.idempotency.Set(key, booking.Tour.ID.String(), t.idempotencyTTL)
	}

	resp := response_models.BookingResponse{
		Tour:            response_models.NewTourResponse(booking.Tour, t.loc),
		DiscountPercent: booking.DiscountPercent,
		Bonus:           response_models.NewBonusResponse(booking.Bonus, t.loc),
		Warnings:        booking.Warnings,
	}
	if booking.Membership != nil {
		used := booking.Membership.UsedTours
		resp.MembershipCode = booking.Membership.UniqueCode
		resp.UsedTours = &used
	}

	utils.RespondWithStatus(c, http.StatusCreated, resp, "Tour booked successfully")
}

func (t *TourController) replay(c *gin.Context, tourID string) {
	id, err := uuid.Parse(tourID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	tour, err := t.tourService.GetTour(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.BookingResponse{
		Tour: response_models.NewTourResponse(tour, t.loc),
	}, "Tour already booked")
}

// ListTours godoc
// @Summary Caller's booked tours
// @Tags Tours
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /tours [get]
func (t *TourController) ListTours(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tours, err := t.tourService.ListUserTours(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	result := make([]response_models.TourResponse, 0, len(tours))
	for i := range tours {
		result = append(result, response_models.NewTourResponse(&tours[i], t.loc))
	}
	utils.RespondSuccess(c, result, "")
}
