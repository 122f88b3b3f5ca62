package request_models

type BookTourRequest struct {
	CityID string `json:"city_id" binding:"required,uuid"`
	Title  string `json:"title" binding:"required"`
}
