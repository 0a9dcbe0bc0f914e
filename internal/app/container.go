package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/reserva-app/reserva-backend/internal/api"
	"github.com/reserva-app/reserva-backend/internal/auth"
	"github.com/reserva-app/reserva-backend/internal/availability"
	"github.com/reserva-app/reserva-backend/internal/db"
	"github.com/reserva-app/reserva-backend/internal/pkg/storage"
	"github.com/reserva-app/reserva-backend/internal/reservation"
	"github.com/reserva-app/reserva-backend/internal/resource"
	"github.com/reserva-app/reserva-backend/internal/schedule"
	"github.com/reserva-app/reserva-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *zap.Logger
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	UploadDir    string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	txManager := db.NewTxManager(cfg.DBPool)

	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init storage failed: %w", err)
	}

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Resource module
	resourceRepo := resource.NewPgxRepository(cfg.DBPool)
	resourceService := resource.NewService(resourceRepo, store)

	// Schedule module (availability windows and unavailability overrides)
	scheduleRepo := schedule.NewPgxRepository(cfg.DBPool)
	scheduleService := schedule.NewService(scheduleRepo, resourceService, txManager)

	// Availability engine, shared by the probe endpoint and reservation writes
	checker := availability.NewChecker(resourceRepo, scheduleRepo)

	// Reservation module
	reservationRepo := reservation.NewPgxRepository(cfg.DBPool)
	reservationService := reservation.NewService(reservationRepo, checker, txManager)

	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		Logger:             cfg.Logger,
		UserService:        userService,
		ResourceService:    resourceService,
		ScheduleService:    scheduleService,
		ReservationService: reservationService,
		JWTManager:         jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}, nil
}
