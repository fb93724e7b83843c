package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/projection"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=fleet.go -destination=mocks/mock_fleet.go -package=mocks

// AmbulanceRepository определяет контракт для работы с бд машин скорой помощи
type AmbulanceRepository interface {
	Create(ctx context.Context, ambulance *models.Ambulance) error
	GetByID(ctx context.Context, id string) (*models.Ambulance, error)
	List(ctx context.Context) ([]*models.Ambulance, error)
	Update(ctx context.Context, ambulance *models.Ambulance) error
	UpdateStatus(ctx context.Context, id string, status models.AmbulanceStatus, at time.Time) error
}

// FleetService определяет контракт для бизнес-логики управления автопарком
type FleetService interface {
	CreateAmbulance(ctx context.Context, ambulance *models.Ambulance) error
	GetAmbulance(ctx context.Context, id string) (*models.Ambulance, error)
	ListAmbulances(ctx context.Context, statusFilter string) ([]*models.Ambulance, error)
	UpdateAmbulance(ctx context.Context, ambulance *models.Ambulance) error
	ChangeStatus(ctx context.Context, id string, status models.AmbulanceStatus) error
}

type fleetService struct {
	repo   AmbulanceRepository
	logger *logrus.Logger
	now    func() time.Time
}

func NewFleetService(repo AmbulanceRepository, logger *logrus.Logger) FleetService {
	return &fleetService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// CreateAmbulance регистрирует новую машину в автопарке
func (s *fleetService) CreateAmbulance(ctx context.Context, ambulance *models.Ambulance) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "fleet",
		"method":    "CreateAmbulance",
		"call_sign": ambulance.CallSign,
	})
	log.Info("Registering a new ambulance")

	if ambulance.Status == "" {
		ambulance.Status = models.AmbulanceAvailable
	}
	if !ambulance.Status.Valid() {
		return fmt.Errorf("service: %w: %q", ErrInvalidStatus, ambulance.Status)
	}

	ambulance.ID = uuid.New().String()
	ambulance.LastUpdate = s.now().UTC()
	if ambulance.Equipment == nil {
		ambulance.Equipment = []string{}
	}
	if ambulance.Crew == nil {
		ambulance.Crew = []string{}
	}

	if err := s.repo.Create(ctx, ambulance); err != nil {
		log.WithError(err).Error("Failed to create ambulance in repository")
		return fmt.Errorf("service: could not create ambulance: %w", err)
	}

	log.WithField("ambulance_id", ambulance.ID).Info("Ambulance registered successfully")
	return nil
}

// GetAmbulance получает машину по ID
func (s *fleetService) GetAmbulance(ctx context.Context, id string) (*models.Ambulance, error) {
	ambulance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":      "fleet",
			"method":       "GetAmbulance",
			"ambulance_id": id,
		}).WithError(err).Warn("Failed to get ambulance from repository")
		return nil, fmt.Errorf("service: could not get ambulance: %w", err)
	}
	return ambulance, nil
}

// ListAmbulances возвращает машины автопарка, при необходимости
// отфильтрованные по статусу
func (s *fleetService) ListAmbulances(ctx context.Context, statusFilter string) ([]*models.Ambulance, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "fleet",
		"method":  "ListAmbulances",
		"filter":  statusFilter,
	})

	ambulances, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list ambulances from repository")
		return nil, fmt.Errorf("service: could not list ambulances: %w", err)
	}

	return projection.FilterAmbulances(ambulances, statusFilter), nil
}

// UpdateAmbulance обновляет карточку машины целиком
func (s *fleetService) UpdateAmbulance(ctx context.Context, ambulance *models.Ambulance) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "fleet",
		"method":       "UpdateAmbulance",
		"ambulance_id": ambulance.ID,
	})
	log.Info("Updating ambulance")

	if !ambulance.Status.Valid() {
		return fmt.Errorf("service: %w: %q", ErrInvalidStatus, ambulance.Status)
	}

	existing, err := s.repo.GetByID(ctx, ambulance.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent ambulance")
		return fmt.Errorf("service: ambulance with id %s not found for update: %w", ambulance.ID, err)
	}

	existing.CallSign = ambulance.CallSign
	existing.Status = ambulance.Status
	existing.Latitude = ambulance.Latitude
	existing.Longitude = ambulance.Longitude
	existing.Equipment = ambulance.Equipment
	existing.Crew = ambulance.Crew
	existing.LastUpdate = s.now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update ambulance in repository")
		return fmt.Errorf("service: could not update ambulance: %w", err)
	}

	log.Info("Ambulance updated successfully")
	return nil
}

// ChangeStatus переводит машину в новый статус и обновляет lastUpdate
func (s *fleetService) ChangeStatus(ctx context.Context, id string, status models.AmbulanceStatus) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "fleet",
		"method":       "ChangeStatus",
		"ambulance_id": id,
		"status":       status,
	})
	log.Info("Changing ambulance status")

	if !status.Valid() {
		return fmt.Errorf("service: %w: %q", ErrInvalidStatus, status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status, s.now().UTC()); err != nil {
		log.WithError(err).Error("Failed to change ambulance status in repository")
		return fmt.Errorf("service: could not change ambulance status: %w", err)
	}

	log.Info("Ambulance status changed successfully")
	return nil
}
