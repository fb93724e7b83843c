package snapshot

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestRefresher - вспомогательная функция для создания Refresher с моками
func newTestRefresher(t *testing.T) (*Refresher, *mocks.MockAmbulanceRepository, *mocks.MockIncidentRepository) {
	ctrl := gomock.NewController(t)
	ambulancesMock := mocks.NewMockAmbulanceRepository(ctrl)
	incidentsMock := mocks.NewMockIncidentRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	r := NewRefresher(ambulancesMock, incidentsMock, 10*time.Second, 30*time.Second, logger)
	return r, ambulancesMock, incidentsMock
}

func TestMap_LazyFirstReadExcludesClosedIncidents(t *testing.T) {
	// Подготовка: первый периодический цикл еще не прошел, чтение идет
	// напрямую из хранилища
	r, ambulancesMock, incidentsMock := newTestRefresher(t)
	ctx := context.Background()

	ambulances := []*models.Ambulance{{ID: "a1", Status: models.AmbulanceAvailable}}
	incidents := []*models.Incident{{ID: "i1", Status: models.IncidentPending}}

	ambulancesMock.EXPECT().List(ctx).Return(ambulances, nil).Times(1)
	incidentsMock.EXPECT().
		List(ctx, []models.IncidentStatus{models.IncidentCompleted, models.IncidentCancelled}).
		Return(incidents, nil).
		Times(1)

	// Действие
	gotAmbulances, gotIncidents, err := r.Map(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, ambulances, gotAmbulances)
	assert.Equal(t, incidents, gotIncidents)

	// Повторное чтение отдает срез без похода в хранилище
	gotAmbulances, _, err = r.Map(ctx)
	require.NoError(t, err)
	assert.Equal(t, ambulances, gotAmbulances)
}

func TestDashboard_LazyFirstReadIncludesAllIncidents(t *testing.T) {
	r, ambulancesMock, incidentsMock := newTestRefresher(t)
	ctx := context.Background()

	ambulancesMock.EXPECT().List(ctx).Return(nil, nil).Times(1)
	incidentsMock.EXPECT().List(ctx, nil).Return(nil, nil).Times(1)

	_, _, err := r.Dashboard(ctx)

	require.NoError(t, err)
}

func TestRefresh_RereadsBothViews(t *testing.T) {
	r, ambulancesMock, incidentsMock := newTestRefresher(t)
	ctx := context.Background()

	// Оба среза перечитываются: карта и дашборд по одному разу
	ambulancesMock.EXPECT().List(ctx).Return(nil, nil).Times(2)
	incidentsMock.EXPECT().
		List(ctx, []models.IncidentStatus{models.IncidentCompleted, models.IncidentCancelled}).
		Return(nil, nil).
		Times(1)
	incidentsMock.EXPECT().List(ctx, nil).Return(nil, nil).Times(1)

	require.NoError(t, r.Refresh(ctx))

	// После принудительного обновления чтение не ходит в хранилище
	_, _, err := r.Map(ctx)
	require.NoError(t, err)
	_, _, err = r.Dashboard(ctx)
	require.NoError(t, err)
}

func TestMap_StorageErrorOnFirstRead(t *testing.T) {
	r, ambulancesMock, _ := newTestRefresher(t)
	ctx := context.Background()

	ambulancesMock.EXPECT().
		List(ctx).
		Return(nil, errors.New("store unavailable")).
		Times(1)

	_, _, err := r.Map(ctx)

	require.Error(t, err)
}
