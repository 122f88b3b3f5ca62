package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vitour/internal/models/db_models"
	"vitour/internal/services"
	mem "vitour/pkg/memcache"
	"vitour/pkg/utils"
)

type stubTourService struct {
	booked []*db_models.Tour
	err    error
}

func (s *stubTourService) BookTour(_ context.Context, userID, cityID uuid.UUID, title string) (*services.TourBooking, error) {
	if s.err != nil {
		return nil, s.err
	}
	tour := &db_models.Tour{UserID: userID, CityID: cityID, Title: title, Price: decimal.NewFromInt(900)}
	tour.ID = uuid.New()
	tour.CreatedAt = time.Now().Unix()
	s.booked = append(s.booked, tour)
	return &services.TourBooking{Tour: tour, DiscountPercent: 10}, nil
}

func (s *stubTourService) GetTour(_ context.Context, id uuid.UUID) (*db_models.Tour, error) {
	for _, tour := range s.booked {
		if tour.ID == id {
			return tour, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (s *stubTourService) ListUserTours(_ context.Context, userID uuid.UUID) ([]db_models.Tour, error) {
	var tours []db_models.Tour
	for _, tour := range s.booked {
		if tour.UserID == userID {
			tours = append(tours, *tour)
		}
	}
	return tours, nil
}

func newTourRouter(service services.TourServiceInterface, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewTourController(service, mem.NewIdempotencyKeys(), time.Minute, utils.DefaultLocation())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Next()
	})
	r.POST("/tours", controller.BookTour)
	r.GET("/tours", controller.ListTours)
	return r
}

func postTour(t *testing.T, r *gin.Engine, body map[string]string, key string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/tours", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestBookTour_IdempotencyKeyReplays(t *testing.T) {
	service := &stubTourService{}
	r := newTourRouter(service, uuid.New())
	body := map[string]string{"city_id": uuid.NewString(), "title": "Hue citadel"}

	w, first := postTour(t, r, body, "abc")
	require.Equal(t, http.StatusCreated, w.Code)

	w, second := postTour(t, r, body, "abc")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, service.booked, 1)

	firstTour := first["data"].(map[string]interface{})["tour"].(map[string]interface{})
	secondTour := second["data"].(map[string]interface{})["tour"].(map[string]interface{})
	assert.Equal(t, firstTour["id"], secondTour["id"])
	assert.Equal(t, "900.00", firstTour["price"])

	w, _ = postTour(t, r, body, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, service.booked, 2)
}

func TestBookTour_BadRequests(t *testing.T) {
	r := newTourRouter(&stubTourService{}, uuid.New())

	w, _ := postTour(t, r, map[string]string{"city_id": "not-a-uuid", "title": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = postTour(t, r, map[string]string{"city_id": uuid.NewString()}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookTour_ServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{utils.ErrCityNotFound, http.StatusNotFound},
		{utils.ErrUserNotFound, http.StatusNotFound},
		{utils.ErrValidation, http.StatusBadRequest},
		{utils.ErrDatabaseError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		r := newTourRouter(&stubTourService{err: tt.err}, uuid.New())
		w, resp := postTour(t, r, map[string]string{"city_id": uuid.NewString(), "title": "x"}, "")
		assert.Equal(t, tt.want, w.Code, tt.err.Error())
		assert.Equal(t, "error", resp["status"])
	}
}

func TestListTours(t *testing.T) {
	service := &stubTourService{}
	userID := uuid.New()
	r := newTourRouter(service, userID)

	postTour(t, r, map[string]string{"city_id": uuid.NewString(), "title": "One"}, "")
	postTour(t, r, map[string]string{"city_id": uuid.NewString(), "title": "Two"}, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tours", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}
