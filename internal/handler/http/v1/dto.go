package v1

import (
	"time"
)

// LoginRequest DTO для входа в систему
// @Description DTO для входа в систему
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse DTO пользователя; поле пароля отсутствует в принципе
// @Description DTO пользователя без пароля
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginResponse DTO для ответа на вход
// @Description DTO для ответа на вход: токен сессии и пользователь
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateAmbulanceRequest DTO для регистрации машины
// @Description DTO для регистрации машины в автопарке
type CreateAmbulanceRequest struct {
	CallSign  string   `json:"callSign" validate:"required,min=2,max=64"`
	Status    string   `json:"status" validate:"omitempty,oneof=AVAILABLE BUSY MAINTENANCE BREAK"`
	Latitude  float64  `json:"latitude" validate:"latitude"`
	Longitude float64  `json:"longitude" validate:"longitude"`
	Equipment []string `json:"equipment"`
	Crew      []string `json:"crew"`
}

// PatchAmbulanceRequest DTO для частичного обновления машины; nil-поля не
// изменяются
// @Description DTO для частичного обновления машины
type PatchAmbulanceRequest struct {
	CallSign  *string   `json:"callSign" validate:"omitempty,min=2,max=64"`
	Status    *string   `json:"status" validate:"omitempty,oneof=AVAILABLE BUSY MAINTENANCE BREAK"`
	Latitude  *float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64  `json:"longitude" validate:"omitempty,longitude"`
	Equipment *[]string `json:"equipment"`
	Crew      *[]string `json:"crew"`
}

// AmbulanceResponse DTO машины скорой помощи
// @Description DTO машины скорой помощи
type AmbulanceResponse struct {
	ID          string    `json:"id"`
	CallSign    string    `json:"callSign"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"statusLabel"`
	StatusColor string    `json:"statusColor"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Equipment   []string  `json:"equipment"`
	Crew        []string  `json:"crew"`
	LastUpdate  time.Time `json:"lastUpdate"`
}

// PatchIncidentRequest DTO для частичного обновления инцидента
// @Description DTO для частичного обновления инцидента
type PatchIncidentRequest struct {
	AssignedAmbulanceID *string `json:"assignedAmbulanceId"`
	Status              *string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
}

// IncidentResponse DTO инцидента
// @Description DTO инцидента
type IncidentResponse struct {
	ID                  string     `json:"id"`
	Address             string     `json:"address"`
	Latitude            float64    `json:"latitude"`
	Longitude           float64    `json:"longitude"`
	PatientName         string     `json:"patientName"`
	PatientAge          *int       `json:"patientAge,omitempty"`
	Severity            string     `json:"severity"`
	SeverityLabel       string     `json:"severityLabel"`
	SeverityColor       string     `json:"severityColor"`
	Status              string     `json:"status"`
	StatusLabel         string     `json:"statusLabel"`
	Description         string     `json:"description"`
	AssignedAmbulanceID *string    `json:"assignedAmbulanceId,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
}

// AssignRequest DTO для назначения машины на инцидент
// @Description DTO для назначения машины на инцидент
type AssignRequest struct {
	IncidentID  string `json:"incidentId" validate:"required"`
	AmbulanceID string `json:"ambulanceId" validate:"required"`
}

// MapStateResponse DTO среза карты диспетчера
// @Description DTO среза карты: машины и незакрытые инциденты
type MapStateResponse struct {
	Ambulances []*AmbulanceResponse `json:"ambulances"`
	Incidents  []*IncidentResponse  `json:"incidents"`
}

// StatsResponse DTO показателей дашборда
// @Description DTO показателей дашборда
type StatsResponse struct {
	AvailableAmbulances int `json:"availableAmbulances"`
	ActiveIncidents     int `json:"activeIncidents"`
	AverageResponseTime int `json:"averageResponseTime"`
	CompletedToday      int `json:"completedToday"`
}

// MenuItemResponse DTO пункта навигации
// @Description DTO пункта навигации
type MenuItemResponse struct {
	Route string `json:"route"`
	Label string `json:"label"`
}
