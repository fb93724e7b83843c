package v1

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/ambulance_dispatch_system/internal/config"
	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/projection"
	"github.com/shenikar/ambulance_dispatch_system/internal/service"
	"github.com/shenikar/ambulance_dispatch_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type handlerMocks struct {
	auth     *mocks.MockAuthService
	fleet    *mocks.MockFleetService
	incident *mocks.MockIncidentService
	dispatch *mocks.MockDispatchService
}

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (handlerMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	m := handlerMocks{
		auth:     mocks.NewMockAuthService(ctrl),
		fleet:    mocks.NewMockFleetService(ctrl),
		incident: mocks.NewMockIncidentService(ctrl),
		dispatch: mocks.NewMockDispatchService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	handler := NewHandler(m.auth, m.fleet, m.incident, m.dispatch, logger, &config.Config{})

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return m, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// asRole настраивает мок аутентификации на валидную сессию с указанной ролью
// и возвращает заголовки для запроса
func asRole(m handlerMocks, role models.UserRole) map[string]string {
	m.auth.EXPECT().
		Authenticate(gomock.Any(), "test-token").
		Return(&models.User{ID: "u1", Email: "user@resq.ma", Role: role}, nil).
		AnyTimes()
	return map[string]string{"Authorization": "Bearer test-token"}
}

func TestLogin_ReturnsTokenAndSanitizedUser(t *testing.T) {
	// Подготовка
	m, router := newTestHandler(t)

	m.auth.EXPECT().
		Login(gomock.Any(), "regulateur@resq.ma", "regulateur123").
		Return(&models.User{ID: "u1", Email: "regulateur@resq.ma", Name: "Régulateur", Role: models.RoleRegulator}, "token-1", nil).
		Times(1)

	body, _ := json.Marshal(LoginRequest{Email: "regulateur@resq.ma", Password: "regulateur123"})

	// Действие
	w := makeRequest(router, http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))

	// Проверки
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "token-1", resp.Token)
	assert.Equal(t, "REGULATOR", resp.User.Role)

	// Пароля нет даже как пустого поля
	assert.NotContains(t, w.Body.String(), "password")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	m, router := newTestHandler(t)

	m.auth.EXPECT().
		Login(gomock.Any(), "regulateur@resq.ma", "wrong").
		Return(nil, "", service.ErrInvalidCredentials).
		Times(1)

	body, _ := json.Marshal(LoginRequest{Email: "regulateur@resq.ma", Password: "wrong"})
	w := makeRequest(router, http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_MalformedEmail(t *testing.T) {
	_, router := newTestHandler(t)

	body, _ := json.Marshal(LoginRequest{Email: "not-an-email", Password: "x"})
	w := makeRequest(router, http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLookupUsers_EmptyListOnNoMatch(t *testing.T) {
	m, router := newTestHandler(t)

	m.auth.EXPECT().
		LookupUsers(gomock.Any(), "nobody@resq.ma", "wrong").
		Return([]*models.User{}, nil).
		Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/users?email=nobody@resq.ma&password=wrong", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestAuthedRoute_MissingToken(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/ambulances", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthedRoute_ExpiredSession(t *testing.T) {
	m, router := newTestHandler(t)

	m.auth.EXPECT().
		Authenticate(gomock.Any(), "stale").
		Return(nil, service.ErrSessionNotFound).
		Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/ambulances", nil,
		map[string]string{"Authorization": "Bearer stale"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGate_FleetManagerDeniedOnMap(t *testing.T) {
	// Карта доступна только регулятору
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleFleetManager)

	w := makeRequest(router, http.MethodGet, "/api/v1/map/state", nil, headers)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleGate_FleetManagerDeniedOnIncidents(t *testing.T) {
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleFleetManager)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents", nil, headers)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleGate_RegulatorAllowedOnMap(t *testing.T) {
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleRegulator)

	m.dispatch.EXPECT().
		MapState(gomock.Any(), "").
		Return(&service.MapState{
			Ambulances: []*models.Ambulance{{ID: "a1", Status: models.AmbulanceAvailable}},
			Incidents:  []*models.Incident{{ID: "i1", Status: models.IncidentPending}},
		}, nil).
		Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/map/state", nil, headers)

	require.Equal(t, http.StatusOK, w.Code)

	var resp MapStateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Ambulances, 1)
	assert.Equal(t, "Disponible", resp.Ambulances[0].StatusLabel)
	assert.Equal(t, "green", resp.Ambulances[0].StatusColor)
}

func TestMenu_PerRoleContents(t *testing.T) {
	// Меню регулятора содержит карту и историю, меню начальника автопарка - нет
	tests := []struct {
		name       string
		role       models.UserRole
		wantRoutes []string
	}{
		{
			name:       "регулятор видит все разделы",
			role:       models.RoleRegulator,
			wantRoutes: []string{"/dashboard", "/map", "/fleet", "/history"},
		},
		{
			name:       "начальник автопарка видит дашборд и автопарк",
			role:       models.RoleFleetManager,
			wantRoutes: []string{"/dashboard", "/fleet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, router := newTestHandler(t)
			headers := asRole(m, tt.role)

			w := makeRequest(router, http.MethodGet, "/api/v1/menu", nil, headers)

			require.Equal(t, http.StatusOK, w.Code)

			var items []MenuItemResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))

			routes := make([]string, 0, len(items))
			for _, item := range items {
				routes = append(routes, item.Route)
			}
			assert.Equal(t, tt.wantRoutes, routes)
		})
	}
}

func TestCreateAmbulance_Success(t *testing.T) {
	// Подготовка
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleFleetManager)

	m.fleet.EXPECT().
		CreateAmbulance(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, a *models.Ambulance) error {
			a.ID = "a-new"
			a.LastUpdate = time.Now().UTC()
			return nil
		}).
		Times(1)

	body, _ := json.Marshal(CreateAmbulanceRequest{
		CallSign:  "AMB-101",
		Latitude:  33.5731,
		Longitude: -7.5898,
	})

	// Действие
	w := makeRequest(router, http.MethodPost, "/api/v1/ambulances", bytes.NewReader(body), headers)

	// Проверки
	require.Equal(t, http.StatusCreated, w.Code)

	var resp AmbulanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "a-new", resp.ID)
	assert.Equal(t, "AMB-101", resp.CallSign)
}

func TestCreateAmbulance_ValidationError(t *testing.T) {
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleFleetManager)

	// Пустой позывной и широта вне диапазона
	body, _ := json.Marshal(CreateAmbulanceRequest{CallSign: "", Latitude: 200})
	w := makeRequest(router, http.MethodPost, "/api/v1/ambulances", bytes.NewReader(body), headers)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAmbulances_IncludesDisplayStyles(t *testing.T) {
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleRegulator)

	m.fleet.EXPECT().
		ListAmbulances(gomock.Any(), "BUSY").
		Return([]*models.Ambulance{{ID: "a2", CallSign: "AMB-102", Status: models.AmbulanceBusy}}, nil).
		Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/ambulances?status=BUSY", nil, headers)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []AmbulanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "BUSY", resp[0].Status)
	assert.Equal(t, "Occupée", resp[0].StatusLabel)
	assert.Equal(t, "red", resp[0].StatusColor)
}

func TestPatchAmbulance_StatusOnlyIsStatusTransition(t *testing.T) {
	// Подготовка
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleFleetManager)

	existing := &models.Ambulance{ID: "a1", CallSign: "AMB-101", Status: models.AmbulanceAvailable}
	updated := &models.Ambulance{ID: "a1", CallSign: "AMB-101", Status: models.AmbulanceBreak}

	m.fleet.EXPECT().GetAmbulance(gomock.Any(), "a1").Return(existing, nil).Times(1)
	m.fleet.EXPECT().
		ChangeStatus(gomock.Any(), "a1", models.AmbulanceBreak).
		Return(nil).
		Times(1)
	m.fleet.EXPECT().GetAmbulance(gomock.Any(), "a1").Return(updated, nil).Times(1)

	status := "BREAK"
	body, _ := json.Marshal(PatchAmbulanceRequest{Status: &status})

	// Действие
	w := makeRequest(router, http.MethodPatch, "/api/v1/ambulances/a1", bytes.NewReader(body), headers)

	// Проверки
	require.Equal(t, http.StatusOK, w.Code)

	var resp AmbulanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "BREAK", resp.Status)
	assert.Equal(t, "Pause", resp.StatusLabel)
}

func TestListIncidents_ForwardsStatusNe(t *testing.T) {
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleRegulator)

	m.incident.EXPECT().
		ListIncidents(gomock.Any(), []models.IncidentStatus{models.IncidentCompleted, models.IncidentCancelled}).
		Return([]*models.Incident{{ID: "i1", Status: models.IncidentPending, Severity: models.SeverityCritical}}, nil).
		Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents?status_ne=COMPLETED&status_ne=CANCELLED", nil, headers)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Critique", resp[0].SeverityLabel)
	assert.Equal(t, "#dc2626", resp[0].SeverityColor)
}

func TestListIncidents_SearchGoesToHistory(t *testing.T) {
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleRegulator)

	m.incident.EXPECT().
		History(gomock.Any(), "ahmed", "COMPLETED").
		Return([]*models.Incident{}, nil).
		Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents?search=ahmed&status=COMPLETED", nil, headers)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestAssign_Success(t *testing.T) {
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleRegulator)

	m.dispatch.EXPECT().
		Assign(gomock.Any(), "i1", "a1").
		Return(nil).
		Times(1)

	body, _ := json.Marshal(AssignRequest{IncidentID: "i1", AmbulanceID: "a1"})
	w := makeRequest(router, http.MethodPost, "/api/v1/dispatch/assign", bytes.NewReader(body), headers)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAssign_ConflictOnPreconditionFailure(t *testing.T) {
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleRegulator)

	m.dispatch.EXPECT().
		Assign(gomock.Any(), "i1", "a1").
		Return(service.ErrAmbulanceNotAvailable).
		Times(1)

	body, _ := json.Marshal(AssignRequest{IncidentID: "i1", AmbulanceID: "a1"})
	w := makeRequest(router, http.MethodPost, "/api/v1/dispatch/assign", bytes.NewReader(body), headers)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAssign_MissingFields(t *testing.T) {
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleRegulator)

	body, _ := json.Marshal(AssignRequest{IncidentID: "i1"})
	w := makeRequest(router, http.MethodPost, "/api/v1/dispatch/assign", bytes.NewReader(body), headers)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardStats(t *testing.T) {
	m, router := newTestHandler(t)
	headers := asRole(m, models.RoleFleetManager)

	m.incident.EXPECT().
		GetDashboard(gomock.Any()).
		Return(&service.Dashboard{
			Stats: projection.DashboardStats{
				AvailableAmbulances: 3,
				ActiveIncidents:     2,
				AverageResponseTime: 12,
				CompletedToday:      1,
			},
		}, nil).
		Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/dashboard/stats", nil, headers)

	require.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.AvailableAmbulances)
	assert.Equal(t, 2, resp.ActiveIncidents)
	assert.Equal(t, 12, resp.AverageResponseTime)
	assert.Equal(t, 1, resp.CompletedToday)
}

func TestHealthCheck(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/system/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
