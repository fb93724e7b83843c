package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/projection"
	"github.com/shenikar/ambulance_dispatch_system/internal/webhook"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=dispatch.go -destination=mocks/mock_dispatch.go -package=mocks

// MapState - срез данных для карты диспетчера: машины (с учетом фильтра по
// статусу) и незакрытые инциденты
type MapState struct {
	Ambulances []*models.Ambulance `json:"ambulances"`
	Incidents  []*models.Incident  `json:"incidents"`
}

// DispatchService определяет контракт координатора назначений
type DispatchService interface {
	Assign(ctx context.Context, incidentID, ambulanceID string) error
	MapState(ctx context.Context, statusFilter string) (*MapState, error)
}

type dispatchService struct {
	ambulances AmbulanceRepository
	incidents  IncidentRepository
	snapshots  Snapshots
	publisher  webhook.EventPublisher
	logger     *logrus.Logger
	now        func() time.Time
}

func NewDispatchService(
	ambulances AmbulanceRepository,
	incidents IncidentRepository,
	snapshots Snapshots,
	publisher webhook.EventPublisher,
	logger *logrus.Logger,
) DispatchService {
	return &dispatchService{
		ambulances: ambulances,
		incidents:  incidents,
		snapshots:  snapshots,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// Assign связывает ожидающий инцидент со свободной машиной: инцидент переходит
// в IN_PROGRESS с заполненным assignedAmbulanceId, машина - в BUSY.
//
// Обе записи обновляются конкурентно без общей транзакции, порядок завершения
// не определен. Операция успешна только если успешны обе записи; при частичном
// отказе компенсирующего отката нет - записи могут разойтись до следующего
// обновления. Это осознанный выбор ради совместимости с форматом хранилища из
// двух независимых ресурсов.
//
// Предусловия (инцидент PENDING, машина AVAILABLE) проверяются до записи, но
// не атомарно с ней: два диспетчера могут пройти проверку одновременно,
// побеждает последняя запись.
func (s *dispatchService) Assign(ctx context.Context, incidentID, ambulanceID string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "dispatch",
		"method":       "Assign",
		"incident_id":  incidentID,
		"ambulance_id": ambulanceID,
	})
	log.Info("Assigning ambulance to incident")

	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident for assignment")
		return fmt.Errorf("service: could not get incident for assignment: %w", err)
	}
	if incident.Status != models.IncidentPending {
		log.WithField("status", incident.Status).Warn("Incident is not pending")
		return fmt.Errorf("service: %w: incident %s is %s", ErrIncidentNotPending, incidentID, incident.Status)
	}

	ambulance, err := s.ambulances.GetByID(ctx, ambulanceID)
	if err != nil {
		log.WithError(err).Warn("Failed to get ambulance for assignment")
		return fmt.Errorf("service: could not get ambulance for assignment: %w", err)
	}
	if ambulance.Status != models.AmbulanceAvailable {
		log.WithField("status", ambulance.Status).Warn("Ambulance is not available")
		return fmt.Errorf("service: %w: ambulance %s is %s", ErrAmbulanceNotAvailable, ambulanceID, ambulance.Status)
	}

	now := s.now().UTC()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.incidents.UpdateAssignment(gctx, incidentID, ambulanceID, now); err != nil {
			return fmt.Errorf("incident update: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.ambulances.UpdateStatus(gctx, ambulanceID, models.AmbulanceBusy, now); err != nil {
			return fmt.Errorf("ambulance update: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Assignment write failed, records may be inconsistent")
		return fmt.Errorf("service: could not assign ambulance: %w", err)
	}

	if err := s.incidents.InvalidateIncidentCache(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache after assignment")
	}

	// Перечитываем обе коллекции, чтобы карта и счетчики увидели новое
	// состояние, не дожидаясь периодического обновления
	if err := s.snapshots.Refresh(ctx); err != nil {
		log.WithError(err).Warn("Failed to refresh snapshots after assignment")
	}

	event := webhook.AssignmentEvent{
		IncidentID:  incidentID,
		AmbulanceID: ambulanceID,
		Severity:    string(incident.Severity),
		AssignedAt:  now,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Доставка вебхука не входит в контракт назначения
		log.WithError(err).Warn("Failed to publish assignment event")
	}

	log.Info("Ambulance assigned successfully")
	return nil
}

// MapState возвращает текущий срез для карты: машины с учетом фильтра и
// инциденты, кроме COMPLETED и CANCELLED
func (s *dispatchService) MapState(ctx context.Context, statusFilter string) (*MapState, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "dispatch",
		"method":  "MapState",
		"filter":  statusFilter,
	})

	ambulances, incidents, err := s.snapshots.Map(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load map snapshot")
		return nil, fmt.Errorf("service: could not load map state: %w", err)
	}

	return &MapState{
		Ambulances: projection.FilterAmbulances(ambulances, statusFilter),
		Incidents:  incidents,
	}, nil
}
