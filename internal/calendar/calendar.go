package calendar

import (
	"time"

	"elementleAPI/internal/attempt"
)

type Day struct {
	Date           time.Time      `json:"date"`
	HasPuzzle      bool           `json:"has_puzzle"`
	Result         attempt.Result `json:"result"`
	Guesses        int            `json:"guesses"`
	HolidayCovered bool           `json:"holiday_covered"`
	IsToday        bool           `json:"is_today"`
}

type MonthResponse struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Days  []*Day `json:"days"`
}
