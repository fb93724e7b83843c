package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shenikar/ambulance_dispatch_system/internal/models"
)

// RegisterRoutes регистрирует все маршруты API v1. Ролевые ограничения
// повторяют allow-list меню: карта, координатор и инциденты доступны только
// регулятору, автопарк и дашборд - обеим ролям.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Публичные маршруты: вход и проверка учетных данных по контракту
	// коллекции users
	api.POST("/auth/login", h.login)
	api.GET("/users", h.lookupUsers)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)

	authed := api.Group("")
	authed.Use(SessionAuthMiddleware(h.authService, h.logger))
	{
		authed.POST("/auth/logout", h.logout)
		authed.GET("/menu", h.menu)

		// Автопарк (обе роли)
		ambulances := authed.Group("/ambulances")
		{
			ambulances.POST("", h.createAmbulance)
			ambulances.GET("", h.listAmbulances)
			ambulances.GET("/:id", h.getAmbulance)
			ambulances.PATCH("/:id", h.patchAmbulance)
		}

		// Дашборд (обе роли)
		dashboard := authed.Group("/dashboard")
		{
			dashboard.GET("/stats", h.dashboardStats)
			dashboard.GET("/recent", h.recentIncidents)
		}

		// Только регулятор: инциденты, карта и координатор назначений
		regulator := authed.Group("")
		regulator.Use(RequireRoles(h.logger, models.RoleRegulator))
		{
			incidents := regulator.Group("/incidents")
			{
				incidents.GET("", h.listIncidents)
				incidents.GET("/:id", h.getIncident)
				incidents.PATCH("/:id", h.patchIncident)
			}

			regulator.GET("/map/state", h.mapState)
			regulator.POST("/dispatch/assign", h.assign)
		}
	}
}
