package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/learnpath-auth/internal/application"
	"github.com/oksasatya/learnpath-auth/internal/domain/entity"
	"github.com/oksasatya/learnpath-auth/internal/domain/repository"
	"github.com/oksasatya/learnpath-auth/internal/infrastructure/sqlite"
	"github.com/oksasatya/learnpath-auth/internal/interface/middleware"
	"github.com/oksasatya/learnpath-auth/pkg/helpers"
	"github.com/oksasatya/learnpath-auth/pkg/response"
	"github.com/oksasatya/learnpath-auth/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type testServer struct {
	engine *gin.Engine
	svc    *application.AuthService
	bg     *application.Background
	jwt    *helpers.JWTManager
	logs   *bytes.Buffer
}

func newServer(t *testing.T, repo repository.UserRepository) *testServer {
	t.Helper()
	if repo == nil {
		db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "auth.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		repo = sqlite.NewUserRepository(db)
	}

	logs := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(logs)
	logger.SetFormatter(&logrus.JSONFormatter{})

	bg := application.NewBackground(logger, time.Second)
	jwt := helpers.NewJWTManager("test-secret", "learnpath-auth", 24*time.Hour)
	svc := application.NewAuthService(repo, helpers.NewPasswordHasher(bcrypt.MinCost, 4), jwt, bg, logger)

	auth := NewAuthHandler(svc, logger)
	users := NewUserHandler(svc, logger)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.AccessLog(logger), middleware.Recovery(logger))
	r.GET("/health", NewHealthHandler().Health)
	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)
	r.GET("/auth/me", middleware.BearerAuth(jwt), auth.Me)
	r.GET("/api/users/search", middleware.BearerAuth(jwt), middleware.RequireRole("admin"), users.Search)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = bg.Wait(ctx)
	})
	return &testServer{engine: r, svc: svc, bg: bg, jwt: jwt, logs: logs}
}

func (s *testServer) do(method, path, body, token string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func errBody(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var b response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.False(t, b.Success)
	return b
}

const adaRegister = `{"full_name":"Ada","email":"Ada@X.com","password":"p@ss1234","role":"student"}`

type loginBody struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    struct {
		ID        string     `json:"id"`
		Email     string     `json:"email"`
		Role      string     `json:"role"`
		FullName  string     `json:"fullName"`
		LastLogin *time.Time `json:"lastLogin"`
	} `json:"user"`
	Redirect string `json:"redirect"`
}

func TestRegisterAndLogin_Ada(t *testing.T) {
	s := newServer(t, nil)

	w := s.do(http.MethodPost, "/auth/register", adaRegister, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"message":"Registration successful! Please login.","redirect":"/login.html"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = s.do(http.MethodPost, "/auth/login", `{"email":"ada@x.com","password":"p@ss1234"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body loginBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "ada@x.com", body.User.Email)
	assert.Equal(t, "student", body.User.Role)
	assert.Equal(t, "Ada", body.User.FullName)
	assert.Nil(t, body.User.LastLogin)
	assert.Equal(t, "./home.html", body.Redirect)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Body.String(), `"lastLogin":null`)

	claims, err := s.jwt.Parse(body.Token)
	require.NoError(t, err)
	assert.Equal(t, body.User.ID, claims.UserID)

	// credentials never reach the logs
	assert.NotContains(t, s.logs.String(), "p@ss1234")
	assert.NotContains(t, s.logs.String(), body.Token)
}

func TestRegister_DuplicateDifferentCase(t *testing.T) {
	s := newServer(t, nil)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/auth/register", adaRegister, "").Code)

	w := s.do(http.MethodPost, "/auth/register", `{"full_name":"Ada","email":"ADA@x.com","password":"other","role":"student"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	b := errBody(t, w)
	assert.Equal(t, response.CodeEmailExists, b.ErrorCode)
	assert.Equal(t, "Email already registered", b.Message)
}

func TestRegister_Errors(t *testing.T) {
	s := newServer(t, nil)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"instructor without position", `{"full_name":"G","email":"g@x.com","password":"pw","role":"instructor","department":"CS"}`, http.StatusBadRequest, response.CodeMissingInstructorFields},
		{"invalid role", `{"full_name":"G","email":"g@x.com","password":"pw","role":"Student"}`, http.StatusBadRequest, response.CodeInvalidRole},
		{"missing fields", `{"email":"g@x.com"}`, http.StatusBadRequest, response.CodeValidation},
		{"malformed email", `{"full_name":"G","email":"not-an-email","password":"pw","role":"student"}`, http.StatusBadRequest, response.CodeValidation},
		{"malformed json", `{"full_name":`, http.StatusBadRequest, response.CodeValidation},
		{"wrong type", `{"full_name":42}`, http.StatusBadRequest, response.CodeValidation},
		{"empty body", ``, http.StatusBadRequest, response.CodeValidation},
		{"undeclared field", `{"full_name":"G","email":"g@x.com","password":"pw","role":"student","is_admin":true}`, http.StatusBadRequest, response.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/auth/register", tt.body, "")
			assert.Equal(t, tt.status, w.Code)
			b := errBody(t, w)
			assert.Equal(t, tt.code, b.ErrorCode)
			assert.NotEmpty(t, b.Message)
		})
	}
}

func TestLogin_UndeclaredFieldNamed(t *testing.T) {
	s := newServer(t, nil)

	w := s.do(http.MethodPost, "/auth/login", `{"email":"ada@x.com","password":"pw","remember":true}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "remember is not allowed", errBody(t, w).Message)
}

func TestRegister_PaddedEmailMatchesLogin(t *testing.T) {
	s := newServer(t, nil)

	w := s.do(http.MethodPost, "/auth/register", `{"full_name":"Ada","email":"  Ada@X.com ","password":"p@ss1234","role":"student"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/auth/login", `{"email":" ada@x.com  ","password":"p@ss1234"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body loginBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ada@x.com", body.User.Email)

	w = s.do(http.MethodPost, "/auth/register", `{"full_name":"Ada","email":"ADA@x.com\t","password":"p@ss1234","role":"student"}`, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.CodeEmailExists, errBody(t, w).ErrorCode)
}

func TestLogin_InvalidCredentialsIdentical(t *testing.T) {
	s := newServer(t, nil)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/auth/register", adaRegister, "").Code)

	wrong := s.do(http.MethodPost, "/auth/login", `{"email":"ada@x.com","password":"wrong"}`, "")
	unknown := s.do(http.MethodPost, "/auth/login", `{"email":"nobody@x.com","password":"p@ss1234"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.Equal(t, response.CodeInvalidCredentials, errBody(t, wrong).ErrorCode)
}

func TestLogin_MissingFields(t *testing.T) {
	s := newServer(t, nil)

	w := s.do(http.MethodPost, "/auth/login", `{"email":"ada@x.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.CodeValidation, errBody(t, w).ErrorCode)
}

func TestLogin_ReturnsPreviousLastLogin(t *testing.T) {
	s := newServer(t, nil)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/auth/register", adaRegister, "").Code)

	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/auth/login", `{"email":"ada@x.com","password":"p@ss1234"}`, "").Code)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.bg.Wait(ctx))

	w := s.do(http.MethodPost, "/auth/login", `{"email":"ada@x.com","password":"p@ss1234"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body loginBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotNil(t, body.User.LastLogin)
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	s := newServer(t, nil)

	const n = 6
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = s.do(http.MethodPost, "/auth/register", adaRegister, "").Code
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, c := range codes {
		switch c {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)
}

type downRepo struct {
	repository.UserRepository
}

func (downRepo) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, errDown
}

var errDown = errors.New("dial tcp 10.0.0.5:5432: connect: connection refused")

func TestStoreDown_IsServerErrorWithoutDetail(t *testing.T) {
	s := newServer(t, downRepo{})

	for _, path := range []string{"/auth/register", "/auth/login"} {
		w := s.do(http.MethodPost, path, adaRegister, "")
		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		b := errBody(t, w)
		assert.Equal(t, response.CodeServerError, b.ErrorCode)
		assert.NotContains(t, w.Body.String(), "10.0.0.5")
	}
	// detail is kept server side
	assert.Contains(t, s.logs.String(), "10.0.0.5")
}

func TestMe(t *testing.T) {
	s := newServer(t, nil)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/auth/register", adaRegister, "").Code)

	w := s.do(http.MethodPost, "/auth/login", `{"email":"ada@x.com","password":"p@ss1234"}`, "")
	var body loginBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	w = s.do(http.MethodGet, "/auth/me", "", body.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Success bool `json:"success"`
		User    struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, body.User.ID, me.User.ID)
	assert.Equal(t, "ada@x.com", me.User.Email)
	assert.Equal(t, "student", me.User.Role)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), me.ExpiresAt, time.Minute)

	forged, _, err := helpers.NewJWTManager("other-secret", "learnpath-auth", time.Hour).Generate(body.User.ID, "admin", "ada@x.com")
	require.NoError(t, err)
	w = s.do(http.MethodGet, "/auth/me", "", forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.CodeUnauthorized, errBody(t, w).ErrorCode)

	w = s.do(http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSearch_AdminOnly(t *testing.T) {
	s := newServer(t, nil)

	student, _, err := s.jwt.Generate("u-1", "student", "ada@x.com")
	require.NoError(t, err)
	admin, _, err := s.jwt.Generate("u-2", "admin", "root@x.com")
	require.NoError(t, err)

	w := s.do(http.MethodGet, "/api/users/search?q=ada", "", student)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.CodeForbidden, errBody(t, w).ErrorCode)

	w = s.do(http.MethodGet, "/api/users/search?q=ada", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/users/search?q=ada", "", admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"users":[]}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	s := newServer(t, nil)
	w := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
