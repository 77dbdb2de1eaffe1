package request

import "time"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AddHolidayRequest struct {
	Date time.Time `json:"date" binding:"required" time_format:"2006-01-02"`
	Name string    `json:"name" binding:"required"`
}
