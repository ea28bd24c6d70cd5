package v1

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"vetcita/internal/config"
	"vetcita/internal/domain"
	"vetcita/pkg/auth"
	"vetcita/pkg/metrics"
)

type Handlers struct {
	Auth        *AuthHandler
	Pet         *PetHandler
	Appointment *AppointmentHandler
	Booking     *BookingHandler
	Catalog     *CatalogHandler
	Dashboard   *DashboardHandler
}

// NewRouter assembles the gin engine with the full middleware chain and v1
// routes.
func NewRouter(
	cfg *config.Config,
	log *zap.Logger,
	m *metrics.Metrics,
	registry *prometheus.Registry,
	tokens *auth.TokenManager,
	h Handlers,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(Observe(m))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(AuthRateLimit(cfg.RateLimit))
	{
		authGroup.POST("/registro", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
	}

	private := api.Group("")
	private.Use(Authenticate(tokens))
	{
		private.POST("/auth/logout", h.Auth.Logout)
		private.PUT("/auth/password", h.Auth.ChangePassword)

		private.GET("/servicios", h.Catalog.Services)
		private.GET("/veterinarios", h.Catalog.Veterinarians)

		private.GET("/dashboard/resumen", h.Dashboard.Summary)

		private.GET("/citas", h.Appointment.List)
		private.GET("/citas/:id", h.Appointment.Get)
		private.POST("/citas/:id/cancelar", h.Appointment.Cancel)

		vets := private.Group("")
		vets.Use(RequireRole(domain.RoleVeterinarian))
		{
			vets.POST("/citas/:id/atender", h.Appointment.Attend)
		}

		clients := private.Group("")
		clients.Use(RequireRole(domain.RoleClient))
		{
			clients.POST("/mascotas", h.Pet.Create)
			clients.GET("/mascotas", h.Pet.List)
			clients.PUT("/mascotas/:id", h.Pet.Update)
			clients.DELETE("/mascotas/:id", h.Pet.Delete)

			booking := clients.Group("/booking")
			{
				booking.GET("", h.Booking.State)
				booking.POST("/mascota", h.Booking.SelectPet)
				booking.POST("/mascota/confirmar", h.Booking.ConfirmPet)
				booking.POST("/mascota/rechazar", h.Booking.DeclinePet)
				booking.POST("/servicio", h.Booking.SelectService)
				booking.POST("/veterinario", h.Booking.SelectVeterinarian)
				booking.POST("/fecha-hora", h.Booking.SelectDateTime)
				booking.POST("/siguiente", h.Booking.Advance)
				booking.POST("/anterior", h.Booking.Retreat)
				booking.POST("/cancelar", h.Booking.RequestCancel)
				booking.POST("/cancelar/confirmar", h.Booking.ConfirmCancel)
				booking.POST("/cancelar/rechazar", h.Booking.DeclineCancel)
				booking.POST("/agendar", h.Booking.Submit)
			}
		}

		// Pets are readable by either role (vets need them for consults).
		private.GET("/mascotas/:id", h.Pet.Get)
	}

	return r
}
