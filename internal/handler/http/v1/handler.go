package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/ambulance_dispatch_system/internal/config"
	"github.com/shenikar/ambulance_dispatch_system/internal/models"
	"github.com/shenikar/ambulance_dispatch_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	authService     service.AuthService
	fleetService    service.FleetService
	incidentService service.IncidentService
	dispatchService service.DispatchService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(
	authService service.AuthService,
	fleetService service.FleetService,
	incidentService service.IncidentService,
	dispatchService service.DispatchService,
	logger *logrus.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authService:     authService,
		fleetService:    fleetService,
		incidentService: incidentService,
		dispatchService: dispatchService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Log in
// @Description Check credentials and open a session. Returns a session token and the sanitized user.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.WithError(err).Error("Failed to log in")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: ModelToUserResponse(user)})
}

// @Summary Log out
// @Description Close the current session.
// @Tags Auth
// @Produce json
// @Security ApiKeyAuth
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	log := h.logger.WithField("method", "logout")

	authHeader := c.GetHeader("Authorization")
	token := ""
	if len(authHeader) > len("Bearer ") {
		token = authHeader[len("Bearer "):]
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		log.WithError(err).Error("Failed to log out")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Look up users by credentials
// @Description Legacy login-check endpoint of the collection API: returns a password-stripped list, empty when nothing matches.
// @Tags Auth
// @Produce json
// @Param email query string true "Email"
// @Param password query string true "Password"
// @Success 200 {array} UserResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users [get]
func (h *Handler) lookupUsers(c *gin.Context) {
	log := h.logger.WithField("method", "lookupUsers")

	users, err := h.authService.LookupUsers(c.Request.Context(), c.Query("email"), c.Query("password"))
	if err != nil {
		log.WithError(err).Error("Failed to look up users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToUserResponses(users))
}

// @Summary Get navigation menu
// @Description Menu items allowed for the session role; items outside the role's allow-list are omitted entirely.
// @Tags Session
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} MenuItemResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /menu [get]
func (h *Handler) menu(c *gin.Context) {
	user := SessionUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session required"})
		return
	}
	c.JSON(http.StatusOK, MenuItemsToResponses(models.AllowedItems(user.Role)))
}

// @Summary Register a new ambulance
// @Description Register a new ambulance in the fleet roster.
// @Tags Fleet
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param ambulance body CreateAmbulanceRequest true "Ambulance registration request"
// @Success 201 {object} AmbulanceResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /ambulances [post]
func (h *Handler) createAmbulance(c *gin.Context) {
	var input CreateAmbulanceRequest
	log := h.logger.WithField("method", "createAmbulance")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToAmbulanceModel(input)
	if err := h.fleetService.CreateAmbulance(c.Request.Context(), model); err != nil {
		log.WithError(err).Error("Failed to create ambulance in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToAmbulanceResponse(model))
}

// @Summary List ambulances
// @Description List the fleet roster, optionally filtered by status (ALL disables the filter).
// @Tags Fleet
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Status filter" Enums(ALL, AVAILABLE, BUSY, MAINTENANCE, BREAK)
// @Success 200 {array} AmbulanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /ambulances [get]
func (h *Handler) listAmbulances(c *gin.Context) {
	log := h.logger.WithField("method", "listAmbulances")

	ambulances, err := h.fleetService.ListAmbulances(c.Request.Context(), c.Query("status"))
	if err != nil {
		log.WithError(err).Error("Failed to list ambulances from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToAmbulanceResponses(ambulances))
}

// @Summary Get ambulance by ID
// @Description Get a single ambulance by its ID.
// @Tags Fleet
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Ambulance ID"
// @Success 200 {object} AmbulanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Ambulance not found"
// @Router /ambulances/{id} [get]
func (h *Handler) getAmbulance(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getAmbulance").WithField("id", id)

	ambulance, err := h.fleetService.GetAmbulance(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get ambulance from service")
		c.JSON(http.StatusNotFound, gin.H{"error": "ambulance not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToAmbulanceResponse(ambulance))
}

// @Summary Patch an ambulance
// @Description Partially update an ambulance: a status-only patch is a status transition, other fields update the roster card.
// @Tags Fleet
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Ambulance ID"
// @Param ambulance body PatchAmbulanceRequest true "Ambulance patch request"
// @Success 200 {object} AmbulanceResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Ambulance not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /ambulances/{id} [patch]
func (h *Handler) patchAmbulance(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "patchAmbulance").WithField("id", id)

	var input PatchAmbulanceRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.fleetService.GetAmbulance(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get ambulance for patch")
		c.JSON(http.StatusNotFound, gin.H{"error": "ambulance not found"})
		return
	}

	// Патч только статуса - это смена статуса, остальное - правка карточки
	statusOnly := input.Status != nil &&
		input.CallSign == nil && input.Latitude == nil && input.Longitude == nil &&
		input.Equipment == nil && input.Crew == nil

	if statusOnly {
		err = h.fleetService.ChangeStatus(c.Request.Context(), id, models.AmbulanceStatus(*input.Status))
	} else {
		ApplyAmbulancePatch(existing, input)
		err = h.fleetService.UpdateAmbulance(c.Request.Context(), existing)
	}
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		log.WithError(err).Error("Failed to patch ambulance in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	updated, err := h.fleetService.GetAmbulance(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Error("Failed to reload ambulance after patch")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToAmbulanceResponse(updated))
}

// @Summary List incidents
// @Description List incidents. `status_ne` excludes statuses (repeatable), `search` matches patient name or address, `status` is an exact filter for the history view.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param status_ne query []string false "Statuses to exclude" collectionFormat(multi)
// @Param search query string false "Case-insensitive substring search"
// @Param status query string false "Exact status filter" Enums(ALL, PENDING, IN_PROGRESS, COMPLETED, CANCELLED)
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")

	search := c.Query("search")
	status := c.Query("status")
	if search != "" || status != "" {
		incidents, err := h.incidentService.History(c.Request.Context(), search, status)
		if err != nil {
			log.WithError(err).Error("Failed to load incident history from service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
		return
	}

	var exclude []models.IncidentStatus
	for _, s := range c.QueryArray("status_ne") {
		exclude = append(exclude, models.IncidentStatus(s))
	}

	incidents, err := h.incidentService.ListIncidents(c.Request.Context(), exclude)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID.
// @Tags Incidents
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from service")
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Patch an incident
// @Description Partially update one incident record, collection-API style. Does not touch the ambulance record; use /dispatch/assign for the coordinated two-record transition.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Param incident body PatchIncidentRequest true "Incident patch request"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [patch]
func (h *Handler) patchIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "patchIncident").WithField("id", id)

	var input PatchIncidentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var status *models.IncidentStatus
	if input.Status != nil {
		s := models.IncidentStatus(*input.Status)
		status = &s
	}

	if err := h.incidentService.PatchIncident(c.Request.Context(), id, input.AssignedAmbulanceID, status); err != nil {
		log.WithError(err).Error("Failed to patch incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Assign an ambulance to an incident
// @Description Link a pending incident to an available ambulance: the incident becomes IN_PROGRESS with the ambulance recorded, the ambulance becomes BUSY. Both records are updated concurrently without a shared transaction.
// @Tags Dispatch
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param assignment body AssignRequest true "Assignment request"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Incident not pending or ambulance not available"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /dispatch/assign [post]
func (h *Handler) assign(c *gin.Context) {
	var input AssignRequest
	log := h.logger.WithField("method", "assign")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.dispatchService.Assign(c.Request.Context(), input.IncidentID, input.AmbulanceID); err != nil {
		if errors.Is(err, service.ErrIncidentNotPending) || errors.Is(err, service.ErrAmbulanceNotAvailable) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to assign ambulance in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Get dispatch map state
// @Description Current map slice: ambulances (optionally filtered by status) and incidents that are not COMPLETED or CANCELLED.
// @Tags Dispatch
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Ambulance status filter" Enums(ALL, AVAILABLE, BUSY, MAINTENANCE, BREAK)
// @Success 200 {object} MapStateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /map/state [get]
func (h *Handler) mapState(c *gin.Context) {
	log := h.logger.WithField("method", "mapState")

	state, err := h.dispatchService.MapState(c.Request.Context(), c.Query("status"))
	if err != nil {
		log.WithError(err).Error("Failed to load map state from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, MapStateToResponse(state))
}

// @Summary Get dashboard stats
// @Description Aggregated dashboard counters computed over the current snapshot.
// @Tags Dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /dashboard/stats [get]
func (h *Handler) dashboardStats(c *gin.Context) {
	log := h.logger.WithField("method", "dashboardStats")

	dashboard, err := h.incidentService.GetDashboard(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get dashboard from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		AvailableAmbulances: dashboard.Stats.AvailableAmbulances,
		ActiveIncidents:     dashboard.Stats.ActiveIncidents,
		AverageResponseTime: dashboard.Stats.AverageResponseTime,
		CompletedToday:      dashboard.Stats.CompletedToday,
	})
}

// @Summary Get recent incidents
// @Description The five most recent incidents by creation time, newest first.
// @Tags Dashboard
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /dashboard/recent [get]
func (h *Handler) recentIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "recentIncidents")

	dashboard, err := h.incidentService.GetDashboard(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get dashboard from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(dashboard.RecentIncidents))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
