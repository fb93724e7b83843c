package models

import (
	"time"
)

// AmbulanceStatus - статус машины скорой помощи
type AmbulanceStatus string

const (
	AmbulanceAvailable   AmbulanceStatus = "AVAILABLE"
	AmbulanceBusy        AmbulanceStatus = "BUSY"
	AmbulanceMaintenance AmbulanceStatus = "MAINTENANCE"
	AmbulanceBreak       AmbulanceStatus = "BREAK"
)

// Valid проверяет, входит ли статус в перечисление
func (s AmbulanceStatus) Valid() bool {
	switch s {
	case AmbulanceAvailable, AmbulanceBusy, AmbulanceMaintenance, AmbulanceBreak:
		return true
	}
	return false
}

// Ambulance представляет машину скорой помощи в автопарке.
// Имена JSON-полей являются частью wire-контракта и не должны меняться.
type Ambulance struct {
	ID         string          `json:"id"`
	CallSign   string          `json:"callSign"`
	Status     AmbulanceStatus `json:"status"`
	Latitude   float64         `json:"latitude"`
	Longitude  float64         `json:"longitude"`
	Equipment  []string        `json:"equipment"`
	Crew       []string        `json:"crew"`
	LastUpdate time.Time       `json:"lastUpdate"`
}
