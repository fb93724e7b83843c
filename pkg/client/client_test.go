package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_StoresToken(t *testing.T) {
	// Подготовка
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "regulateur@resq.ma", creds["email"])

		json.NewEncoder(w).Encode(LoginResult{
			Token: "token-1",
			User:  User{ID: "u1", Role: "REGULATOR"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/v1")

	// Действие
	res, err := c.Login(context.Background(), "regulateur@resq.ma", "regulateur123")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "token-1", res.Token)
	assert.Equal(t, "REGULATOR", res.User.Role)
	assert.Equal(t, "token-1", c.token)
}

func TestRequests_CarryBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]Ambulance{})
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/v1", WithToken("token-1"))

	_, err := c.ListAmbulances(context.Background(), "")
	require.NoError(t, err)
}

func TestListAmbulances_StatusQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/ambulances", r.URL.Path)
		assert.Equal(t, "AVAILABLE", r.URL.Query().Get("status"))
		json.NewEncoder(w).Encode([]Ambulance{
			{ID: "a1", CallSign: "AMB-101", Status: "AVAILABLE", StatusLabel: "Disponible", StatusColor: "green"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/v1")

	ambulances, err := c.ListAmbulances(context.Background(), "AVAILABLE")

	require.NoError(t, err)
	require.Len(t, ambulances, 1)
	assert.Equal(t, "Disponible", ambulances[0].StatusLabel)
}

func TestListIncidents_FilterQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "ahmed", q.Get("search"))
		assert.Equal(t, "COMPLETED", q.Get("status"))
		assert.Equal(t, []string{"CANCELLED", "COMPLETED"}, q["status_ne"])
		json.NewEncoder(w).Encode([]Incident{{ID: "i1"}})
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/v1")

	incidents, err := c.ListIncidents(context.Background(), IncidentFilter{
		Search:          "ahmed",
		Status:          "COMPLETED",
		ExcludeStatuses: []string{"CANCELLED", "COMPLETED"},
	})

	require.NoError(t, err)
	require.Len(t, incidents, 1)
}

func TestCreateAmbulance_PostsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CreateAmbulance
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "AMB-101", req.CallSign)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Ambulance{ID: "a-new", CallSign: req.CallSign})
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/v1")

	created, err := c.CreateAmbulance(context.Background(), CreateAmbulance{CallSign: "AMB-101"})

	require.NoError(t, err)
	assert.Equal(t, "a-new", created.ID)
}

func TestPatchIncident_SendsOnlySetFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/v1/incidents/i1", r.URL.Path)

		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Contains(t, raw, "assignedAmbulanceId")
		assert.NotContains(t, raw, "status")

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/v1")
	ambulanceID := "a1"

	err := c.PatchIncident(context.Background(), "i1", PatchIncident{AssignedAmbulanceID: &ambulanceID})

	require.NoError(t, err)
}

func TestAssign_ConflictSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/dispatch/assign", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "ambulance not available"})
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/v1")

	err := c.Assign(context.Background(), "i1", "a1")

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "ambulance not available")
}

func TestStats_DecodesCounters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/dashboard/stats", r.URL.Path)
		json.NewEncoder(w).Encode(Stats{
			AvailableAmbulances: 3,
			ActiveIncidents:     2,
			AverageResponseTime: 12,
			CompletedToday:      1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL + "/api/v1")

	stats, err := c.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, stats.AvailableAmbulances)
	assert.Equal(t, 12, stats.AverageResponseTime)
}

func TestLogout_ClearsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/logout", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/v1", WithToken("token-1"))

	require.NoError(t, c.Logout(context.Background()))
	assert.Empty(t, c.token)
}
