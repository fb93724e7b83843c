package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/projection"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=incident.go -destination=mocks/mock_incident.go -package=mocks

// recentIncidentsLimit - размер ленты последних инцидентов на дашборде
const recentIncidentsLimit = 5

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	List(ctx context.Context, excludeStatuses []models.IncidentStatus) ([]*models.Incident, error)
	UpdateAssignment(ctx context.Context, id, ambulanceID string, at time.Time) error
	UpdateStatus(ctx context.Context, id string, status models.IncidentStatus, at time.Time) error
	GetIncidentFromCache(ctx context.Context, id string) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id string) error
}

// Snapshots отдает периодически обновляемые срезы коллекций для карты и
// дашборда и позволяет принудительно перечитать хранилище
type Snapshots interface {
	Map(ctx context.Context) ([]*models.Ambulance, []*models.Incident, error)
	Dashboard(ctx context.Context) ([]*models.Ambulance, []*models.Incident, error)
	Refresh(ctx context.Context) error
}

// Dashboard - вычисленное состояние дашборда
type Dashboard struct {
	Stats           projection.DashboardStats
	RecentIncidents []*models.Incident
}

// IncidentService определяет контракт для чтения инцидентов, истории и дашборда
type IncidentService interface {
	GetIncident(ctx context.Context, id string) (*models.Incident, error)
	ListIncidents(ctx context.Context, excludeStatuses []models.IncidentStatus) ([]*models.Incident, error)
	History(ctx context.Context, search, statusFilter string) ([]*models.Incident, error)
	UpdateIncidentStatus(ctx context.Context, id string, status models.IncidentStatus) error
	PatchIncident(ctx context.Context, id string, assignedAmbulanceID *string, status *models.IncidentStatus) error
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

type incidentService struct {
	repo      IncidentRepository
	snapshots Snapshots
	logger    *logrus.Logger
	now       func() time.Time
}

func NewIncidentService(repo IncidentRepository, snapshots Snapshots, logger *logrus.Logger) IncidentService {
	return &incidentService{
		repo:      repo,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

// GetIncident получает инцидент по ID, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		// Промах кеша не фатален, идем в бд
		log.WithError(err).Warn("Failed to read incident from cache")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// ListIncidents возвращает инциденты, исключая указанные статусы
// (семантика query-параметра status_ne)
func (s *incidentService) ListIncidents(ctx context.Context, excludeStatuses []models.IncidentStatus) ([]*models.Incident, error) {
	incidents, err := s.repo.List(ctx, excludeStatuses)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "incident",
			"method":  "ListIncidents",
		}).WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	return incidents, nil
}

// History возвращает инциденты для экрана истории: поиск по имени пациента
// или адресу плюс точный фильтр по статусу
func (s *incidentService) History(ctx context.Context, search, statusFilter string) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "History",
		"search":  search,
		"status":  statusFilter,
	})

	incidents, err := s.repo.List(ctx, nil)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not load incident history: %w", err)
	}

	return projection.FilterIncidents(incidents, search, statusFilter), nil
}

// UpdateIncidentStatus переводит инцидент в новый статус; при COMPLETED
// репозиторий проставляет completedAt
func (s *incidentService) UpdateIncidentStatus(ctx context.Context, id string, status models.IncidentStatus) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncidentStatus",
		"incident_id": id,
		"status":      status,
	})
	log.Info("Updating incident status")

	switch status {
	case models.IncidentPending, models.IncidentInProgress, models.IncidentCompleted, models.IncidentCancelled:
	default:
		return fmt.Errorf("service: %w: %q", ErrInvalidStatus, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status, s.now().UTC()); err != nil {
		log.WithError(err).Error("Failed to update incident status in repository")
		return fmt.Errorf("service: could not update incident status: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.Info("Incident status updated successfully")
	return nil
}

// PatchIncident обслуживает "сырое" частичное обновление одной записи
// инцидента из wire-контракта коллекций. Привязка машины здесь не трогает
// саму машину - клиент, работающий по старому контракту, шлет второй PATCH
// на /ambulances сам; серверный координатор назначений - отдельная операция.
func (s *incidentService) PatchIncident(ctx context.Context, id string, assignedAmbulanceID *string, status *models.IncidentStatus) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "PatchIncident",
		"incident_id": id,
	})
	log.Info("Patching incident record")

	switch {
	case assignedAmbulanceID != nil:
		if err := s.repo.UpdateAssignment(ctx, id, *assignedAmbulanceID, s.now().UTC()); err != nil {
			log.WithError(err).Error("Failed to patch incident assignment in repository")
			return fmt.Errorf("service: could not patch incident: %w", err)
		}
	case status != nil:
		return s.UpdateIncidentStatus(ctx, id, *status)
	default:
		return nil // Пустой patch - no-op
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
	return nil
}

// GetDashboard собирает показатели дашборда и ленту последних инцидентов из
// текущего среза коллекций
func (s *incidentService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "GetDashboard",
	})

	ambulances, incidents, err := s.snapshots.Dashboard(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load dashboard snapshot")
		return nil, fmt.Errorf("service: could not load dashboard data: %w", err)
	}

	return &Dashboard{
		Stats:           projection.Stats(ambulances, incidents, s.now()),
		RecentIncidents: projection.RecentIncidents(incidents, recentIncidentsLimit),
	}, nil
}
