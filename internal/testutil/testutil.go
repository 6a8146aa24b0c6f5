// Package testutil provides an in-memory database and auth helpers for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const JWTSecret = "test-secret"

// Config returns settings suitable for tests: SQLite in memory, UTC days,
// no rate limiting.
func Config() *config.Config {
	return &config.Config{
		DBDriver:           "sqlite",
		SQLitePath:         ":memory:",
		JWTSecret:          JWTSecret,
		JWTAccessExpiry:    15 * time.Minute,
		JWTRefreshExpiry:   24 * time.Hour,
		AppURL:             "http://app.test",
		ResetTokenTTL:      time.Hour,
		Timezone:           "UTC",
		CORSOrigins:        "*",
		RateLimitWindow:    time.Minute,
		SystemLogRetention: 30 * 24 * time.Hour,
		AppEnv:             "test",
	}
}

// NewDB opens a migrated in-memory SQLite database closed at test end.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(Config())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser inserts a credentials user with the given password. bcrypt runs
// at MinCost to keep tests fast.
func CreateUser(t testing.TB, db *gorm.DB, email, password string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{
		Email:        email,
		Name:         "Test User",
		Password:     string(hash),
		AuthProvider: models.ProviderCredentials,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// Token signs an access token for user the way the auth service does.
func Token(t testing.TB, user models.User) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// Count returns the number of rows of model matching the condition.
func Count(t testing.TB, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()

	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func Ptr[T any](v T) *T {
	return &v
}
