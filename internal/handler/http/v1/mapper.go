package v1

import (
	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/projection"
	"github.com/shenikar/ambulance_dispatch_system/internal/service"
)

// DTOToAmbulanceModel преобразует DTO регистрации в доменную модель
func DTOToAmbulanceModel(dto CreateAmbulanceRequest) *models.Ambulance {
	return &models.Ambulance{
		CallSign:  dto.CallSign,
		Status:    models.AmbulanceStatus(dto.Status),
		Latitude:  dto.Latitude,
		Longitude: dto.Longitude,
		Equipment: dto.Equipment,
		Crew:      dto.Crew,
	}
}

// ApplyAmbulancePatch накладывает непустые поля patch-запроса на модель
func ApplyAmbulancePatch(ambulance *models.Ambulance, dto PatchAmbulanceRequest) {
	if dto.CallSign != nil {
		ambulance.CallSign = *dto.CallSign
	}
	if dto.Status != nil {
		ambulance.Status = models.AmbulanceStatus(*dto.Status)
	}
	if dto.Latitude != nil {
		ambulance.Latitude = *dto.Latitude
	}
	if dto.Longitude != nil {
		ambulance.Longitude = *dto.Longitude
	}
	if dto.Equipment != nil {
		ambulance.Equipment = *dto.Equipment
	}
	if dto.Crew != nil {
		ambulance.Crew = *dto.Crew
	}
}

// ModelToAmbulanceResponse преобразует доменную модель в DTO для ответа;
// метка и цвет статуса вычисляются проекцией с fallback для неизвестных
// значений
func ModelToAmbulanceResponse(model *models.Ambulance) *AmbulanceResponse {
	style := projection.AmbulanceStatusStyle(model.Status)
	return &AmbulanceResponse{
		ID:          model.ID,
		CallSign:    model.CallSign,
		Status:      string(model.Status),
		StatusLabel: style.Label,
		StatusColor: style.Color,
		Latitude:    model.Latitude,
		Longitude:   model.Longitude,
		Equipment:   model.Equipment,
		Crew:        model.Crew,
		LastUpdate:  model.LastUpdate,
	}
}

// ModelsToAmbulanceResponses преобразует слайс моделей в слайс DTO
func ModelsToAmbulanceResponses(models []*models.Ambulance) []*AmbulanceResponse {
	responses := make([]*AmbulanceResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToAmbulanceResponse(model)
	}
	return responses
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	severity := projection.SeverityStyle(model.Severity)
	status := projection.IncidentStatusStyle(model.Status)
	return &IncidentResponse{
		ID:                  model.ID,
		Address:             model.Address,
		Latitude:            model.Latitude,
		Longitude:           model.Longitude,
		PatientName:         model.PatientName,
		PatientAge:          model.PatientAge,
		Severity:            string(model.Severity),
		SeverityLabel:       severity.Label,
		SeverityColor:       severity.Color,
		Status:              string(model.Status),
		StatusLabel:         status.Label,
		Description:         model.Description,
		AssignedAmbulanceID: model.AssignedAmbulanceID,
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
		CompletedAt:         model.CompletedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ModelToUserResponse преобразует пользователя в DTO без пароля
func ModelToUserResponse(model *models.User) UserResponse {
	return UserResponse{
		ID:    model.ID,
		Email: model.Email,
		Name:  model.Name,
		Role:  string(model.Role),
	}
}

// ModelsToUserResponses преобразует слайс пользователей в слайс DTO
func ModelsToUserResponses(models []*models.User) []UserResponse {
	responses := make([]UserResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToUserResponse(model)
	}
	return responses
}

// MapStateToResponse преобразует срез карты в DTO
func MapStateToResponse(state *service.MapState) *MapStateResponse {
	return &MapStateResponse{
		Ambulances: ModelsToAmbulanceResponses(state.Ambulances),
		Incidents:  ModelsToIncidentResponses(state.Incidents),
	}
}

// MenuItemsToResponses преобразует пункты меню в DTO
func MenuItemsToResponses(items []models.MenuItem) []MenuItemResponse {
	responses := make([]MenuItemResponse, len(items))
	for i, item := range items {
		responses[i] = MenuItemResponse{Route: item.Route, Label: item.Label}
	}
	return responses
}
