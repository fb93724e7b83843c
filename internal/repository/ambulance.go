package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/service"
)

type AmbulanceRepository struct {
	db *pgxpool.Pool
}

func NewAmbulanceRepository(db *pgxpool.Pool) service.AmbulanceRepository {
	return &AmbulanceRepository{
		db: db,
	}
}

// Create создает новую запись о машине в бд
func (r *AmbulanceRepository) Create(ctx context.Context, ambulance *models.Ambulance) error {
	query := `
		INSERT INTO ambulances (id, call_sign, status, latitude, longitude, equipment, crew, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query,
		ambulance.ID,
		ambulance.CallSign,
		ambulance.Status,
		ambulance.Latitude,
		ambulance.Longitude,
		ambulance.Equipment,
		ambulance.Crew,
		ambulance.LastUpdate,
	)
	if err != nil {
		return fmt.Errorf("failed to create ambulance: %w", err)
	}
	return nil
}

// GetByID возвращает машину по ее идентификатору
func (r *AmbulanceRepository) GetByID(ctx context.Context, id string) (*models.Ambulance, error) {
	ambulance := &models.Ambulance{}
	query := `
		SELECT id, call_sign, status, latitude, longitude, equipment, crew, last_update
		FROM ambulances
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ambulance.ID,
		&ambulance.CallSign,
		&ambulance.Status,
		&ambulance.Latitude,
		&ambulance.Longitude,
		&ambulance.Equipment,
		&ambulance.Crew,
		&ambulance.LastUpdate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ambulance with id %s not found", id)
		}
		return nil, fmt.Errorf("failed to get ambulance by id: %w", err)
	}
	return ambulance, nil
}

// List возвращает весь автопарк, свежие обновления первыми
func (r *AmbulanceRepository) List(ctx context.Context) ([]*models.Ambulance, error) {
	query := `
		SELECT id, call_sign, status, latitude, longitude, equipment, crew, last_update
		FROM ambulances
		ORDER BY last_update DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ambulances: %w", err)
	}
	defer rows.Close()

	ambulances := make([]*models.Ambulance, 0)
	for rows.Next() {
		ambulance := &models.Ambulance{}
		err := rows.Scan(
			&ambulance.ID,
			&ambulance.CallSign,
			&ambulance.Status,
			&ambulance.Latitude,
			&ambulance.Longitude,
			&ambulance.Equipment,
			&ambulance.Crew,
			&ambulance.LastUpdate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ambulance row: %w", err)
		}
		ambulances = append(ambulances, ambulance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return ambulances, nil
}

// Update обновляет карточку машины целиком
func (r *AmbulanceRepository) Update(ctx context.Context, ambulance *models.Ambulance) error {
	query := `
		UPDATE ambulances SET
			call_sign = $1,
			status = $2,
			latitude = $3,
			longitude = $4,
			equipment = $5,
			crew = $6,
			last_update = $7
		WHERE id = $8;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		ambulance.CallSign,
		ambulance.Status,
		ambulance.Latitude,
		ambulance.Longitude,
		ambulance.Equipment,
		ambulance.Crew,
		ambulance.LastUpdate,
		ambulance.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ambulance: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("ambulance with id %s not found for update", ambulance.ID)
	}
	return nil
}

// UpdateStatus переводит машину в новый статус и обновляет last_update
func (r *AmbulanceRepository) UpdateStatus(ctx context.Context, id string, status models.AmbulanceStatus, at time.Time) error {
	query := `
		UPDATE ambulances SET
			status = $1,
			last_update = $2
		WHERE id = $3;
	`
	cmdTag, err := r.db.Exec(ctx, query, status, at, id)
	if err != nil {
		return fmt.Errorf("failed to update ambulance status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("ambulance with id %s not found for status update", id)
	}
	return nil
}
