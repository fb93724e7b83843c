package projection

import (
	"github.com/shenikar/ambulance_dispatch_system/internal/models"
)

// StatusStyle - отображаемая метка и цвет для значения перечисления.
// Метки на французском - язык интерфейса диспетчерской.
type StatusStyle struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// SeverityStyle возвращает метку и цвет маркера для тяжести инцидента.
// Неизвестные значения не являются ошибкой: возвращается стиль LOW.
func SeverityStyle(severity models.IncidentSeverity) StatusStyle {
	switch severity {
	case models.SeverityCritical:
		return StatusStyle{Label: "Critique", Color: "#dc2626"}
	case models.SeverityHigh:
		return StatusStyle{Label: "Élevée", Color: "#ea580c"}
	case models.SeverityMedium:
		return StatusStyle{Label: "Moyenne", Color: "#f59e0b"}
	case models.SeverityLow:
		return StatusStyle{Label: "Faible", Color: "#22c55e"}
	default:
		return StatusStyle{Label: "Faible", Color: "#22c55e"}
	}
}

// IncidentStatusStyle возвращает метку и цвет для статуса инцидента.
// Для неизвестных значений - стиль PENDING.
func IncidentStatusStyle(status models.IncidentStatus) StatusStyle {
	switch status {
	case models.IncidentInProgress:
		return StatusStyle{Label: "En cours", Color: "blue"}
	case models.IncidentCompleted:
		return StatusStyle{Label: "Terminé", Color: "green"}
	case models.IncidentCancelled:
		return StatusStyle{Label: "Annulé", Color: "gray"}
	case models.IncidentPending:
		return StatusStyle{Label: "En attente", Color: "yellow"}
	default:
		return StatusStyle{Label: "En attente", Color: "yellow"}
	}
}

// AmbulanceStatusStyle возвращает метку и цвет маркера для статуса машины.
// Для неизвестных значений - стиль AVAILABLE.
func AmbulanceStatusStyle(status models.AmbulanceStatus) StatusStyle {
	switch status {
	case models.AmbulanceBusy:
		return StatusStyle{Label: "Occupée", Color: "red"}
	case models.AmbulanceMaintenance:
		return StatusStyle{Label: "Maintenance", Color: "orange"}
	case models.AmbulanceBreak:
		return StatusStyle{Label: "Pause", Color: "blue"}
	case models.AmbulanceAvailable:
		return StatusStyle{Label: "Disponible", Color: "green"}
	default:
		return StatusStyle{Label: "Disponible", Color: "green"}
	}
}
