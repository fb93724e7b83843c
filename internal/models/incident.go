package models

import (
	"time"
)

// IncidentSeverity - тяжесть инцидента
type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "LOW"
	SeverityMedium   IncidentSeverity = "MEDIUM"
	SeverityHigh     IncidentSeverity = "HIGH"
	SeverityCritical IncidentSeverity = "CRITICAL"
)

// IncidentStatus - статус инцидента
type IncidentStatus string

const (
	IncidentPending    IncidentStatus = "PENDING"
	IncidentInProgress IncidentStatus = "IN_PROGRESS"
	IncidentCompleted  IncidentStatus = "COMPLETED"
	IncidentCancelled  IncidentStatus = "CANCELLED"
)

// Incident представляет вызов скорой помощи.
// AssignedAmbulanceID заполняется только вместе с переводом статуса в
// IN_PROGRESS, CompletedAt - только вместе с COMPLETED.
type Incident struct {
	ID                  string           `json:"id"`
	Address             string           `json:"address"`
	Latitude            float64          `json:"latitude"`
	Longitude           float64          `json:"longitude"`
	PatientName         string           `json:"patientName"`
	PatientAge          *int             `json:"patientAge,omitempty"`
	Severity            IncidentSeverity `json:"severity"`
	Status              IncidentStatus   `json:"status"`
	Description         string           `json:"description"`
	AssignedAmbulanceID *string          `json:"assignedAmbulanceId,omitempty"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
	CompletedAt         *time.Time       `json:"completedAt,omitempty"`
}
