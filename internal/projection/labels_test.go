package projection

import (
	"testing"

	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSeverityStyle(t *testing.T) {
	assert.Equal(t, StatusStyle{Label: "Faible", Color: "#22c55e"}, SeverityStyle(models.SeverityLow))
	assert.Equal(t, StatusStyle{Label: "Moyenne", Color: "#f59e0b"}, SeverityStyle(models.SeverityMedium))
	assert.Equal(t, StatusStyle{Label: "Élevée", Color: "#ea580c"}, SeverityStyle(models.SeverityHigh))
	assert.Equal(t, StatusStyle{Label: "Critique", Color: "#dc2626"}, SeverityStyle(models.SeverityCritical))
}

func TestSeverityStyle_UnknownFallsBackToLow(t *testing.T) {
	// Неизвестное значение из хранилища не должно ронять отображение
	style := SeverityStyle(models.IncidentSeverity("EXTREME"))

	assert.Equal(t, StatusStyle{Label: "Faible", Color: "#22c55e"}, style)
}

func TestIncidentStatusStyle(t *testing.T) {
	assert.Equal(t, StatusStyle{Label: "En attente", Color: "yellow"}, IncidentStatusStyle(models.IncidentPending))
	assert.Equal(t, StatusStyle{Label: "En cours", Color: "blue"}, IncidentStatusStyle(models.IncidentInProgress))
	assert.Equal(t, StatusStyle{Label: "Terminé", Color: "green"}, IncidentStatusStyle(models.IncidentCompleted))
	assert.Equal(t, StatusStyle{Label: "Annulé", Color: "gray"}, IncidentStatusStyle(models.IncidentCancelled))
}

func TestIncidentStatusStyle_UnknownFallsBackToPending(t *testing.T) {
	style := IncidentStatusStyle(models.IncidentStatus("ARCHIVED"))

	assert.Equal(t, StatusStyle{Label: "En attente", Color: "yellow"}, style)
}

func TestAmbulanceStatusStyle(t *testing.T) {
	assert.Equal(t, StatusStyle{Label: "Disponible", Color: "green"}, AmbulanceStatusStyle(models.AmbulanceAvailable))
	assert.Equal(t, StatusStyle{Label: "Occupée", Color: "red"}, AmbulanceStatusStyle(models.AmbulanceBusy))
	assert.Equal(t, StatusStyle{Label: "Maintenance", Color: "orange"}, AmbulanceStatusStyle(models.AmbulanceMaintenance))
	assert.Equal(t, StatusStyle{Label: "Pause", Color: "blue"}, AmbulanceStatusStyle(models.AmbulanceBreak))
}

func TestAmbulanceStatusStyle_UnknownFallsBackToAvailable(t *testing.T) {
	style := AmbulanceStatusStyle(models.AmbulanceStatus("OFFLINE"))

	assert.Equal(t, StatusStyle{Label: "Disponible", Color: "green"}, style)
}
