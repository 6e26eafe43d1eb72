package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/opencampus/records-api/internal/models"
	"github.com/opencampus/records-api/internal/service"
)

type stubUserStore struct {
	user *models.User
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubUserStore) Create(ctx context.Context, user *models.User) error { return nil }

func (s *stubUserStore) CreateAuditLog(ctx context.Context, log *models.AuditLog) error { return nil }

type stubProfileStore struct{}

func (s *stubProfileStore) Create(ctx context.Context, profile *models.Profile) error { return nil }

func (s *stubProfileStore) FindByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return nil, sql.ErrNoRows
}

func newJWTTestRouter(t *testing.T) (*gin.Engine, string, *stubUserStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	store := &stubUserStore{user: &models.User{
		ID:           "u1",
		Email:        "user@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		Status:       models.StatusActive,
	}}
	authSvc := service.NewAuthService(store, &stubProfileStore{}, nil, nil, service.AuthConfig{
		Secret:     "secret",
		Expiration: time.Hour,
		Issuer:     "records-api-test",
	}, nil)

	res, err := authSvc.Login(context.Background(), models.LoginRequest{Email: "user@example.com", Password: "password"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", JWT(authSvc), func(c *gin.Context) {
		user := c.MustGet(ContextUserKey).(*models.User)
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return r, res.Token, store
}

func TestJWTMiddlewareAcceptsToken(t *testing.T) {
	r, token, _ := newJWTTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	r, _, _ := newJWTTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareMalformedHeader(t *testing.T) {
	r, token, _ := newJWTTestRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddlewareDeactivatedUser(t *testing.T) {
	r, token, store := newJWTTestRouter(t)
	store.user.Status = models.StatusInactive

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
