// Package snapshot периодически перечитывает коллекции машин и инцидентов из
// хранилища и отдает последние срезы карте и дашборду. Источники обновления
// независимы и не координируются: побеждает последняя запись, защиты от
// наложения устаревшего среза на более новый нет.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/service"
	"github.com/sirupsen/logrus"
)

// mapExcludedStatuses - закрытые инциденты не показываются на карте
var mapExcludedStatuses = []models.IncidentStatus{
	models.IncidentCompleted,
	models.IncidentCancelled,
}

type view struct {
	ambulances []*models.Ambulance
	incidents  []*models.Incident
	takenAt    time.Time
}

// Refresher реализует service.Snapshots поверх репозиториев
type Refresher struct {
	ambulances service.AmbulanceRepository
	incidents  service.IncidentRepository
	logger     *logrus.Logger

	mapInterval       time.Duration
	dashboardInterval time.Duration

	mu        sync.RWMutex
	mapView   view
	dashboard view
}

func NewRefresher(
	ambulances service.AmbulanceRepository,
	incidents service.IncidentRepository,
	mapInterval, dashboardInterval time.Duration,
	logger *logrus.Logger,
) *Refresher {
	return &Refresher{
		ambulances:        ambulances,
		incidents:         incidents,
		logger:            logger,
		mapInterval:       mapInterval,
		dashboardInterval: dashboardInterval,
	}
}

// Start запускает периодическое обновление обоих срезов. Тикеры
// останавливаются при отмене контекста.
func (r *Refresher) Start(ctx context.Context) {
	r.logger.WithFields(logrus.Fields{
		"map_interval":       r.mapInterval,
		"dashboard_interval": r.dashboardInterval,
	}).Info("Starting snapshot refresher...")

	go r.runLoop(ctx, "map", r.mapInterval, r.refreshMap)
	go r.runLoop(ctx, "dashboard", r.dashboardInterval, r.refreshDashboard)
}

func (r *Refresher) runLoop(ctx context.Context, name string, interval time.Duration, refresh func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Infof("Stopping %s snapshot loop.", name)
			return
		case <-ticker.C:
			if err := refresh(ctx); err != nil {
				// Вид продолжает работать на устаревшем срезе
				r.logger.WithError(err).Errorf("Failed to refresh %s snapshot", name)
			}
		}
	}
}

func (r *Refresher) refreshMap(ctx context.Context) error {
	ambulances, err := r.ambulances.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ambulances for map snapshot: %w", err)
	}
	incidents, err := r.incidents.List(ctx, mapExcludedStatuses)
	if err != nil {
		return fmt.Errorf("failed to list incidents for map snapshot: %w", err)
	}

	r.mu.Lock()
	r.mapView = view{ambulances: ambulances, incidents: incidents, takenAt: time.Now()}
	r.mu.Unlock()
	return nil
}

func (r *Refresher) refreshDashboard(ctx context.Context) error {
	ambulances, err := r.ambulances.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ambulances for dashboard snapshot: %w", err)
	}
	incidents, err := r.incidents.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list incidents for dashboard snapshot: %w", err)
	}

	r.mu.Lock()
	r.dashboard = view{ambulances: ambulances, incidents: incidents, takenAt: time.Now()}
	r.mu.Unlock()
	return nil
}

// Map возвращает срез для карты; пока первый периодический цикл не прошел,
// хранилище читается напрямую
func (r *Refresher) Map(ctx context.Context) ([]*models.Ambulance, []*models.Incident, error) {
	r.mu.RLock()
	v := r.mapView
	r.mu.RUnlock()

	if v.takenAt.IsZero() {
		if err := r.refreshMap(ctx); err != nil {
			return nil, nil, err
		}
		r.mu.RLock()
		v = r.mapView
		r.mu.RUnlock()
	}
	return v.ambulances, v.incidents, nil
}

// Dashboard возвращает срез для дашборда; пока первый периодический цикл не
// прошел, хранилище читается напрямую
func (r *Refresher) Dashboard(ctx context.Context) ([]*models.Ambulance, []*models.Incident, error) {
	r.mu.RLock()
	v := r.dashboard
	r.mu.RUnlock()

	if v.takenAt.IsZero() {
		if err := r.refreshDashboard(ctx); err != nil {
			return nil, nil, err
		}
		r.mu.RLock()
		v = r.dashboard
		r.mu.RUnlock()
	}
	return v.ambulances, v.incidents, nil
}

// Refresh принудительно перечитывает оба среза, например после назначения
func (r *Refresher) Refresh(ctx context.Context) error {
	if err := r.refreshMap(ctx); err != nil {
		return err
	}
	return r.refreshDashboard(ctx)
}
