package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reserva-app/reserva-backend/internal/app"
	"github.com/reserva-app/reserva-backend/internal/auth"
	"github.com/reserva-app/reserva-backend/internal/user"
)

var (
	testRouter *gin.Engine
	testPool   *pgxpool.Pool
	jwtManager *auth.JWTManager
)

func TestMain(m *testing.M) {
	// Attempt to load .env from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		log.Printf("No .env file found or failed to load: %v", err)
	}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		log.Fatalf("TEST_DB_DSN environment variable is not set")
	}

	ctx := context.Background()
	var err error
	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	testSecret := os.Getenv("TEST_JWT_SECRET")
	if testSecret == "" {
		log.Fatalf("TEST_JWT_SECRET environment variable is not set")
	}

	uploadDir, err := os.MkdirTemp("", "reserva-test-uploads")
	if err != nil {
		log.Fatalf("Unable to create upload dir: %v", err)
	}
	defer os.RemoveAll(uploadDir)

	appContainer, err := app.NewContainer(app.Config{
		DBPool:     testPool,
		Logger:     zap.NewNop(),
		JWTSecret:  testSecret,
		JWTTTL:     30 * time.Minute,
		BcryptCost: 4, // Lower cost for testing purposes
		UploadDir:  uploadDir,
	})
	if err != nil {
		log.Fatalf("Unable to init application: %v", err)
	}

	testRouter = appContainer.Router
	jwtManager = appContainer.JWTManager

	gin.SetMode(gin.TestMode)

	exitCode := m.Run()

	testPool.Close()
	os.Exit(exitCode)
}

func clearTables() {
	ctx := context.Background()
	queries := []string{
		"TRUNCATE TABLE public.reservations CASCADE",
		"TRUNCATE TABLE public.unavailable_slots CASCADE",
		"TRUNCATE TABLE public.schedules CASCADE",
		"TRUNCATE TABLE public.resources CASCADE",
		"TRUNCATE TABLE public.users CASCADE",
	}
	for _, q := range queries {
		_, err := testPool.Exec(ctx, q)
		if err != nil {
			log.Printf("Failed to clean table: %v", err)
		}
	}
}

func executeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func createTestUser(t *testing.T, email, password, role string) *user.User {
	t.Helper()

	hasher := auth.NewBcryptPasswordHasherWithCost(4)
	hash, err := hasher.Hash(password)
	require.NoError(t, err, "Failed to hash password")

	u := &user.User{
		Email:        email,
		PasswordHash: hash,
		Name:         email,
		Role:         role,
	}

	const query = `
		INSERT INTO public.users (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err = testPool.QueryRow(context.Background(), query, u.Email, u.PasswordHash, u.Name, u.Role).
		Scan(&u.ID, &u.CreatedAt)
	require.NoError(t, err, "Failed to insert test user")

	return u
}

func tokenFor(t *testing.T, u *user.User) string {
	t.Helper()

	token, err := jwtManager.GenerateAccessToken(u.ID, u.Email, u.Role)
	require.NoError(t, err, "Failed to generate token")
	return token
}

func createTestResource(t *testing.T, ownerID int64, title string, isBlocked bool) int64 {
	t.Helper()

	const query = `
		INSERT INTO public.resources (title, description, owner_id, is_blocked)
		VALUES ($1, '', $2, $3)
		RETURNING id
	`
	var id int64
	err := testPool.QueryRow(context.Background(), query, title, ownerID, isBlocked).Scan(&id)
	require.NoError(t, err, "Failed to insert test resource")
	return id
}

func createTestSchedule(t *testing.T, resourceID int64, start, end time.Time, isAvailable bool) int64 {
	t.Helper()

	const query = `
		INSERT INTO public.schedules (resource_id, start_time, end_time, is_available)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := testPool.QueryRow(context.Background(), query, resourceID, start, end, isAvailable).Scan(&id)
	require.NoError(t, err, "Failed to insert test schedule")
	return id
}

func createTestSlot(t *testing.T, resourceID int64, start, end time.Time) int64 {
	t.Helper()

	const query = `
		INSERT INTO public.unavailable_slots (resource_id, start_time, end_time)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	err := testPool.QueryRow(context.Background(), query, resourceID, start, end).Scan(&id)
	require.NoError(t, err, "Failed to insert test slot")
	return id
}

func userPath(id int64) string { return fmt.Sprintf("/usuarios/%d", id) }

func resourcePath(id int64) string { return fmt.Sprintf("/recursos/%d", id) }

func schedulePath(id int64) string { return fmt.Sprintf("/horarios/%d", id) }

func slotPath(id int64) string { return fmt.Sprintf("/horarios/unavailable-slot/%d", id) }

func reservationPath(id int64) string { return fmt.Sprintf("/reservas/%d", id) }

func hour(h int) time.Time {
	return time.Date(2026, 9, 1, h, 0, 0, 0, time.UTC)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
