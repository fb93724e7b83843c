package client

import "time"

// User — пользователь сервиса; пароль по проводу не передаётся.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginResult — токен сессии и пользователь.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// MenuItem — пункт навигации для роли текущей сессии.
type MenuItem struct {
	Route string `json:"route"`
	Label string `json:"label"`
}

// Ambulance — машина скорой помощи с вычисленными полями отображения.
type Ambulance struct {
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

// CreateAmbulance — запрос регистрации машины.
type CreateAmbulance struct {
	CallSign  string   `json:"callSign"`
	Status    string   `json:"status,omitempty"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Equipment []string `json:"equipment,omitempty"`
	Crew      []string `json:"crew,omitempty"`
}

// PatchAmbulance — частичное обновление машины; nil-поля не изменяются.
type PatchAmbulance struct {
	CallSign  *string   `json:"callSign,omitempty"`
	Status    *string   `json:"status,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Equipment *[]string `json:"equipment,omitempty"`
	Crew      *[]string `json:"crew,omitempty"`
}

// Incident — инцидент с вычисленными полями отображения.
type Incident struct {
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

// PatchIncident — частичное обновление одной записи инцидента.
type PatchIncident struct {
	AssignedAmbulanceID *string `json:"assignedAmbulanceId,omitempty"`
	Status              *string `json:"status,omitempty"`
}

// MapState — срез карты диспетчера.
type MapState struct {
	Ambulances []Ambulance `json:"ambulances"`
	Incidents  []Incident  `json:"incidents"`
}

// Stats — показатели дашборда.
type Stats struct {
	AvailableAmbulances int `json:"availableAmbulances"`
	ActiveIncidents     int `json:"activeIncidents"`
	AverageResponseTime int `json:"averageResponseTime"`
	CompletedToday      int `json:"completedToday"`
}
