package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reserva-app/reserva-backend/internal/auth"
	"github.com/reserva-app/reserva-backend/internal/logger"
	"github.com/reserva-app/reserva-backend/internal/reservation"
	reservationHttp "github.com/reserva-app/reserva-backend/internal/reservation/http"
	"github.com/reserva-app/reserva-backend/internal/resource"
	resourceHttp "github.com/reserva-app/reserva-backend/internal/resource/http"
	"github.com/reserva-app/reserva-backend/internal/schedule"
	scheduleHttp "github.com/reserva-app/reserva-backend/internal/schedule/http"
	"github.com/reserva-app/reserva-backend/internal/user"
	userHttp "github.com/reserva-app/reserva-backend/internal/user/http"
)

// Config holds everything the router needs to assemble middleware and routes.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger

	UserService        user.Service
	ResourceService    resource.Service
	ScheduleService    schedule.Service
	ReservationService reservation.Service

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (request ID, logging, CORS,
// auth) and registering routes for each module.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(logger.RequestID(), logger.GinMiddleware(cfg.Logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:5173",
			"http://localhost:8081",
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Liveness probe, no auth.
	r.GET("/health", Health)

	// authMiddleware: validates the request's JWT and loads the caller's claims.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: further checks that the caller carries the admin role.
	adminMiddleware := RequireAdmin()

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	resourceHandler := resourceHttp.NewHandler(cfg.ResourceService)
	scheduleHandler := scheduleHttp.NewHandler(cfg.ScheduleService)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService)

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHandler, authMiddleware, adminMiddleware)
		resourceHttp.RegisterRoutes(root, resourceHandler, authMiddleware)
		scheduleHttp.RegisterRoutes(root, scheduleHandler, authMiddleware)
		reservationHttp.RegisterRoutes(root, reservationHandler, authMiddleware)
	}

	return r
}
