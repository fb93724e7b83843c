// Package projection содержит чистые функции-проекции над коллекциями
// автопарка и инцидентов. Функции не имеют состояния и побочных эффектов и
// пересчитываются при каждом обновлении коллекций.
package projection

import (
	"sort"
	"strings"
	"time"

	"github.com/shenikar/ambulance_dispatch_system/internal/models"
)

// averageResponseTimeMinutes - заглушка: реального расчета времени
// реагирования в системе нет.
const averageResponseTimeMinutes = 12

// DashboardStats - агрегированные показатели для дашборда
type DashboardStats struct {
	AvailableAmbulances int `json:"availableAmbulances"`
	ActiveIncidents     int `json:"activeIncidents"`
	AverageResponseTime int `json:"averageResponseTime"`
	CompletedToday      int `json:"completedToday"`
}

// AvailableAmbulances возвращает количество машин со статусом AVAILABLE
func AvailableAmbulances(ambulances []*models.Ambulance) int {
	count := 0
	for _, a := range ambulances {
		if a.Status == models.AmbulanceAvailable {
			count++
		}
	}
	return count
}

// ActiveIncidents возвращает количество инцидентов в статусе PENDING или IN_PROGRESS
func ActiveIncidents(incidents []*models.Incident) int {
	count := 0
	for _, i := range incidents {
		if i.Status == models.IncidentPending || i.Status == models.IncidentInProgress {
			count++
		}
	}
	return count
}

// CompletedToday возвращает количество инцидентов, завершенных в текущие
// календарные сутки UTC. Сравнение намеренно наивное - по префиксу даты
// ISO-8601, как в исходной системе; переход на таймзоны владельца - открытый
// вопрос.
func CompletedToday(incidents []*models.Incident, now time.Time) int {
	today := now.UTC().Format("2006-01-02")
	count := 0
	for _, i := range incidents {
		if i.Status != models.IncidentCompleted || i.CompletedAt == nil {
			continue
		}
		if strings.HasPrefix(i.CompletedAt.UTC().Format(time.RFC3339), today) {
			count++
		}
	}
	return count
}

// Stats собирает все показатели дашборда за один проход по коллекциям
func Stats(ambulances []*models.Ambulance, incidents []*models.Incident, now time.Time) DashboardStats {
	return DashboardStats{
		AvailableAmbulances: AvailableAmbulances(ambulances),
		ActiveIncidents:     ActiveIncidents(incidents),
		AverageResponseTime: averageResponseTimeMinutes,
		CompletedToday:      CompletedToday(incidents, now),
	}
}

// RecentIncidents возвращает не более limit инцидентов, отсортированных по
// createdAt по убыванию. Исходный срез не изменяется.
func RecentIncidents(incidents []*models.Incident, limit int) []*models.Incident {
	recent := make([]*models.Incident, len(incidents))
	copy(recent, incidents)

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})

	if limit >= 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// FilterStatusAll - значение фильтра статуса "без фильтрации"
const FilterStatusAll = "ALL"

// FilterIncidents выполняет регистронезависимый поиск подстроки по имени
// пациента ИЛИ адресу, пересеченный с необязательным точным фильтром по
// статусу (FilterStatusAll отключает фильтр).
func FilterIncidents(incidents []*models.Incident, search, status string) []*models.Incident {
	search = strings.ToLower(strings.TrimSpace(search))

	filtered := make([]*models.Incident, 0, len(incidents))
	for _, i := range incidents {
		if status != "" && status != FilterStatusAll && string(i.Status) != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(i.PatientName), search) &&
			!strings.Contains(strings.ToLower(i.Address), search) {
			continue
		}
		filtered = append(filtered, i)
	}
	return filtered
}

// FilterAmbulances возвращает машины с указанным статусом (FilterStatusAll -
// все машины)
func FilterAmbulances(ambulances []*models.Ambulance, status string) []*models.Ambulance {
	if status == "" || status == FilterStatusAll {
		return ambulances
	}

	filtered := make([]*models.Ambulance, 0, len(ambulances))
	for _, a := range ambulances {
		if string(a.Status) == status {
			filtered = append(filtered, a)
		}
	}
	return filtered
}
