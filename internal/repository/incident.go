package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/service"
)

const incidentCacheTTL = 5 * time.Minute

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// GetByID возвращает инцидент по его идентификатору
func (r *IncidentRepository) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	incident := &models.Incident{}
	query := `
		SELECT id, address, latitude, longitude, patient_name, patient_age,
			severity, status, description, assigned_ambulance_id,
			created_at, updated_at, completed_at
		FROM incidents
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.Address,
		&incident.Latitude,
		&incident.Longitude,
		&incident.PatientName,
		&incident.PatientAge,
		&incident.Severity,
		&incident.Status,
		&incident.Description,
		&incident.AssignedAmbulanceID,
		&incident.CreatedAt,
		&incident.UpdatedAt,
		&incident.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// List возвращает инциденты, отсортированные по created_at по убыванию.
// excludeStatuses реализует исключающий фильтр status_ne wire-контракта.
func (r *IncidentRepository) List(ctx context.Context, excludeStatuses []models.IncidentStatus) ([]*models.Incident, error) {
	query := `
		SELECT id, address, latitude, longitude, patient_name, patient_age,
			severity, status, description, assigned_ambulance_id,
			created_at, updated_at, completed_at
		FROM incidents
	`
	args := []any{}
	if len(excludeStatuses) > 0 {
		excluded := make([]string, len(excludeStatuses))
		for i, s := range excludeStatuses {
			excluded[i] = string(s)
		}
		query += ` WHERE status <> ALL($1)`
		args = append(args, excluded)
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		err := rows.Scan(
			&incident.ID,
			&incident.Address,
			&incident.Latitude,
			&incident.Longitude,
			&incident.PatientName,
			&incident.PatientAge,
			&incident.Severity,
			&incident.Status,
			&incident.Description,
			&incident.AssignedAmbulanceID,
			&incident.CreatedAt,
			&incident.UpdatedAt,
			&incident.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// UpdateAssignment привязывает машину к инциденту: assigned_ambulance_id и
// переход в IN_PROGRESS записываются только вместе
func (r *IncidentRepository) UpdateAssignment(ctx context.Context, id, ambulanceID string, at time.Time) error {
	query := `
		UPDATE incidents SET
			assigned_ambulance_id = $1,
			status = $2,
			updated_at = $3
		WHERE id = $4;
	`
	cmdTag, err := r.db.Exec(ctx, query, ambulanceID, models.IncidentInProgress, at, id)
	if err != nil {
		return fmt.Errorf("failed to update incident assignment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s not found for assignment", id)
	}
	return nil
}

// UpdateStatus переводит инцидент в новый статус; completed_at заполняется
// только при переходе в COMPLETED
func (r *IncidentRepository) UpdateStatus(ctx context.Context, id string, status models.IncidentStatus, at time.Time) error {
	query := `
		UPDATE incidents SET
			status = $1,
			updated_at = $2,
			completed_at = CASE WHEN $1 = 'COMPLETED' THEN $2 ELSE completed_at END
		WHERE id = $3;
	`
	cmdTag, err := r.db.Exec(ctx, query, status, at, id)
	if err != nil {
		return fmt.Errorf("failed to update incident status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s not found for status update", id)
	}
	return nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id string) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id)
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID)
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, key, val, incidentCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id string) error {
	key := fmt.Sprintf("incident:%s", id)
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
