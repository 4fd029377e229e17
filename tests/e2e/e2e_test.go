package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blogauth/internal/database"
	"blogauth/internal/middleware"
	"blogauth/internal/modules/auth"
	"blogauth/internal/modules/users"
	jwtsvc "blogauth/internal/pkg/jwt"
	"blogauth/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
	userRepo   *repository.UserRepository
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

const testSecret = "e2e-test-secret-key-not-for-prod"

// setupTestSuite wires the full API against in-memory SQLite. accessTTL
// is a knob: the refresh scenario needs tokens that are already expired
// the moment they are issued.
func setupTestSuite(t *testing.T, accessTTL time.Duration) *E2ETestSuite {
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db), "Failed to migrate test database")

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)

	jwtService := jwtsvc.New(testSecret, "blogauth", "blogauth-clients", accessTTL)

	authService := auth.NewService(userRepo, tokenRepo, jwtService, time.Hour)
	authHandler := auth.NewHandler(authService)

	usersService := users.NewService(userRepo, authService)
	usersHandler := users.NewHandler(usersService)

	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorLogger())

	v1 := router.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(jwtService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			usersHandler.RegisterRoutes(protected)
		}
	}

	return &E2ETestSuite{
		router:     router,
		db:         db,
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

func (s *E2ETestSuite) request(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, TestResponse) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed), "response body: %s", w.Body.String())
	return w, parsed
}

func (s *E2ETestSuite) register(t *testing.T, username, email, password string) {
	t.Helper()
	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"first_name":       "Test",
		"username":         username,
		"email":            email,
		"password":         password,
		"confirm_password": password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %+v", resp)
}

func (s *E2ETestSuite) login(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	w, resp := s.request(t, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed: %+v", resp)
	require.True(t, resp.Success)

	accessToken, _ = resp.Data["token"].(string)
	refreshToken, _ = resp.Data["refresh_token"].(string)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	return accessToken, refreshToken
}

func TestRegisterLoginRefreshFlow(t *testing.T) {
	// expired-on-issue access tokens make refresh immediately legal
	suite := setupTestSuite(t, -time.Minute)

	suite.register(t, "alice", "alice@example.com", "Secret1")
	accessToken, refreshToken := suite.login(t, "alice@example.com", "Secret1")

	oldClaims, err := suite.jwtService.ParseExpired(accessToken)
	require.NoError(t, err)

	w, resp := suite.request(t, http.MethodPost, "/api/v1/auth/refresh-token", gin.H{
		"token":         accessToken,
		"refresh_token": refreshToken,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "refresh failed: %+v", resp)
	require.True(t, resp.Success)

	newAccess, _ := resp.Data["token"].(string)
	newRefresh, _ := resp.Data["refresh_token"].(string)
	require.NotEmpty(t, newAccess)
	require.NotEmpty(t, newRefresh)
	assert.NotEqual(t, refreshToken, newRefresh)

	newClaims, err := suite.jwtService.ParseExpired(newAccess)
	require.NoError(t, err)
	assert.NotEqual(t, oldClaims.ID, newClaims.ID, "refresh must mint a new jti")

	// the consumed refresh token is gone
	w, resp = suite.request(t, http.MethodPost, "/api/v1/auth/refresh-token", gin.H{
		"token":         accessToken,
		"refresh_token": refreshToken,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Token does not exist", resp.Error.Message)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	suite := setupTestSuite(t, time.Hour)
	suite.register(t, "alice", "alice@example.com", "Secret1")

	w, resp := suite.request(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"first_name":       "Other",
		"username":         "alice",
		"email":            "alice@example.com",
		"password":         "Secret1",
		"confirm_password": "Secret1",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "REGISTRATION_REJECTED", resp.Error.Code)

	details, ok := resp.Error.Details.([]interface{})
	require.True(t, ok, "details: %+v", resp.Error.Details)
	assert.Contains(t, details, "Email is already registered!")
	assert.Contains(t, details, "Username is already Taken!")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	suite := setupTestSuite(t, time.Hour)
	suite.register(t, "alice", "alice@example.com", "Secret1")

	w, resp := suite.request(t, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Email or Password is incorrect!", resp.Error.Message)

	// unknown email produces the identical message
	w, resp = suite.request(t, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "Secret1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Email or Password is incorrect!", resp.Error.Message)
}

func TestRefreshRejectsUnexpiredToken(t *testing.T) {
	suite := setupTestSuite(t, time.Hour)
	suite.register(t, "alice", "alice@example.com", "Secret1")
	accessToken, refreshToken := suite.login(t, "alice@example.com", "Secret1")

	w, resp := suite.request(t, http.MethodPost, "/api/v1/auth/refresh-token", gin.H{
		"token":         accessToken,
		"refresh_token": refreshToken,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Token has not yet expired", resp.Error.Message)
}

func TestRefreshRejectsForgedToken(t *testing.T) {
	suite := setupTestSuite(t, -time.Minute)
	suite.register(t, "alice", "alice@example.com", "Secret1")
	_, refreshToken := suite.login(t, "alice@example.com", "Secret1")

	w, resp := suite.request(t, http.MethodPost, "/api/v1/auth/refresh-token", gin.H{
		"token":         "not.a.jwt",
		"refresh_token": refreshToken,
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_TOKEN", resp.Error.Code)
	assert.Equal(t, "Invalid token", resp.Error.Message)
}

func TestSignoutRevokesRefreshToken(t *testing.T) {
	suite := setupTestSuite(t, -time.Minute)
	suite.register(t, "alice", "alice@example.com", "Secret1")
	accessToken, refreshToken := suite.login(t, "alice@example.com", "Secret1")

	// middleware rejects the expired access token, so sign out with a
	// freshly minted live one for the same account
	user, err := suite.userRepo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	liveService := jwtsvc.New(testSecret, "blogauth", "blogauth-clients", time.Hour)
	liveToken, _, _, err := liveService.Generate(user)
	require.NoError(t, err)

	w, _ := suite.request(t, http.MethodPost, "/api/v1/auth/signout", nil, liveToken)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := suite.request(t, http.MethodPost, "/api/v1/auth/refresh-token", gin.H{
		"token":         accessToken,
		"refresh_token": refreshToken,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Token does not exist", resp.Error.Message)
}

func TestUserManagementFlow(t *testing.T) {
	suite := setupTestSuite(t, time.Hour)
	suite.register(t, "admin", "admin@example.com", "Secret1")
	suite.register(t, "alice", "alice@example.com", "Secret1")

	admin, err := suite.userRepo.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.NoError(t, suite.userRepo.AddRole(context.Background(), admin.ID, "Admin"))

	adminToken, _ := suite.login(t, "admin@example.com", "Secret1")
	aliceToken, _ := suite.login(t, "alice@example.com", "Secret1")

	// plain users cannot reach admin endpoints
	w, _ := suite.request(t, http.MethodPost, "/api/v1/users/admin/suspend", nil, aliceToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// admin suspends alice
	w, resp := suite.request(t, http.MethodPost, "/api/v1/users/alice/suspend", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, "suspend failed: %+v", resp)

	// suspended accounts cannot log in
	w, resp = suite.request(t, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "Secret1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Account is suspended!", resp.Error.Message)

	// unsuspend restores access
	w, _ = suite.request(t, http.MethodPost, "/api/v1/users/alice/unsuspend", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	suite.login(t, "alice@example.com", "Secret1")

	// rename and fetch the profile under the new name
	w, _ = suite.request(t, http.MethodPost, "/api/v1/users/alice/change-username", gin.H{
		"new_username": "alice2",
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = suite.request(t, http.MethodGet, "/api/v1/users?username=alice2", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	userData, ok := resp.Data["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice2", userData["username"])
}
