package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/service"
	"github.com/shenikar/ambulance_dispatch_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestFleetService - вспомогательная функция для создания сервиса с моками
func newTestFleetService(t *testing.T) (service.FleetService, *mocks.MockAmbulanceRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockAmbulanceRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	svc := service.NewFleetService(repoMock, logger)
	return svc, repoMock
}

func TestCreateAmbulance_FillsDefaults(t *testing.T) {
	// Подготовка
	svc, repoMock := newTestFleetService(t)
	ctx := context.Background()

	ambulance := &models.Ambulance{CallSign: "AMB-101"}

	// Ожидания
	var created *models.Ambulance
	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.Ambulance) error {
			created = a
			return nil
		}).
		Times(1)

	// Действие
	err := svc.CreateAmbulance(ctx, ambulance)

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.AmbulanceAvailable, created.Status)
	assert.NotNil(t, created.Equipment)
	assert.NotNil(t, created.Crew)
	assert.False(t, created.LastUpdate.IsZero())
}

func TestCreateAmbulance_InvalidStatus(t *testing.T) {
	svc, _ := newTestFleetService(t)

	err := svc.CreateAmbulance(context.Background(), &models.Ambulance{
		CallSign: "AMB-101",
		Status:   models.AmbulanceStatus("OFFLINE"),
	})

	require.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestListAmbulances_FiltersByStatus(t *testing.T) {
	svc, repoMock := newTestFleetService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		List(ctx).
		Return([]*models.Ambulance{
			{ID: "a1", Status: models.AmbulanceAvailable},
			{ID: "a2", Status: models.AmbulanceBusy},
		}, nil).
		Times(1)

	ambulances, err := svc.ListAmbulances(ctx, "BUSY")

	require.NoError(t, err)
	require.Len(t, ambulances, 1)
	assert.Equal(t, "a2", ambulances[0].ID)
}

func TestUpdateAmbulance_MergesIntoExisting(t *testing.T) {
	// Подготовка
	svc, repoMock := newTestFleetService(t)
	ctx := context.Background()

	existing := &models.Ambulance{
		ID:       "a1",
		CallSign: "AMB-101",
		Status:   models.AmbulanceAvailable,
	}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, "a1").Return(existing, nil).Times(1)

	var updated *models.Ambulance
	repoMock.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.Ambulance) error {
			updated = a
			return nil
		}).
		Times(1)

	// Действие
	err := svc.UpdateAmbulance(ctx, &models.Ambulance{
		ID:       "a1",
		CallSign: "AMB-102",
		Status:   models.AmbulanceMaintenance,
		Latitude: 33.57,
	})

	// Проверки
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "AMB-102", updated.CallSign)
	assert.Equal(t, models.AmbulanceMaintenance, updated.Status)
	assert.InDelta(t, 33.57, updated.Latitude, 1e-9)
	assert.False(t, updated.LastUpdate.IsZero())
}

func TestUpdateAmbulance_NotFound(t *testing.T) {
	svc, repoMock := newTestFleetService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		GetByID(ctx, "missing").
		Return(nil, errors.New("ambulance not found")).
		Times(1)

	err := svc.UpdateAmbulance(ctx, &models.Ambulance{
		ID:     "missing",
		Status: models.AmbulanceAvailable,
	})

	require.Error(t, err)
}

func TestChangeStatus_Success(t *testing.T) {
	svc, repoMock := newTestFleetService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		UpdateStatus(ctx, "a1", models.AmbulanceBreak, gomock.Any()).
		Return(nil).
		Times(1)

	require.NoError(t, svc.ChangeStatus(ctx, "a1", models.AmbulanceBreak))
}

func TestChangeStatus_InvalidStatus(t *testing.T) {
	svc, _ := newTestFleetService(t)

	err := svc.ChangeStatus(context.Background(), "a1", models.AmbulanceStatus("SLEEPING"))

	require.ErrorIs(t, err, service.ErrInvalidStatus)
}
