// internal/interfaces/http/handlers/auth_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/config"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/infrastructure/storage"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/interfaces/http/middleware"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/pkg/auth"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *auth.Session) {
	router, session, _ := newAuthRouterWithCounter(t)
	return router, session
}

func newAuthRouterWithCounter(t *testing.T) (*gin.Engine, *auth.Session, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backendCalls := new(int)
	backendServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*backendCalls++
		switch r.URL.Path {
		case "/api/auth/register", "/api/auth/register/producer":
			w.Write([]byte(`{"token": "tok123", "user": {"id": 11, "email": "nou@x.ro"}}`))
		case "/api/auth/login":
			var creds api.Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			if creds.Password != "parola" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "Invalid credentials"}`))
				return
			}
			w.Write([]byte(`{"token": "tok123", "user": {"id": 10, "email": "m@x.ro", "full_name": "Maria Pop"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(backendServer.Close)

	cfg := &config.Config{}
	cfg.Backend.BaseURL = backendServer.URL

	logger := testLogger()
	session := auth.NewSession(storage.NewMemoryStore(), logger)
	backend := api.NewClient(cfg, session, logger)
	handler := NewAuthHandler(backend, session, logger)

	router := gin.New()
	router.Use(middleware.LoadUser(session))
	router.POST("/auth/register", handler.Register)
	router.POST("/auth/register/producer", handler.RegisterProducer)
	router.POST("/auth/login", handler.Login)
	router.POST("/auth/logout", handler.Logout)
	router.GET("/auth/me", middleware.RequireAuth(), handler.Me)
	return router, session, backendCalls
}

func TestRegisterRejectsPasswordMismatchLocally(t *testing.T) {
	router, session, backendCalls := newAuthRouterWithCounter(t)

	w := doJSON(router, http.MethodPost, "/auth/register",
		`{"email": "nou@x.ro", "password": "parola1", "confirmPassword": "parola2", "fullName": "Ion Pop"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Zero(t, *backendCalls)
	assert.Empty(t, session.Token())
}

func TestRegisterRejectsMissingFieldsLocally(t *testing.T) {
	router, _, backendCalls := newAuthRouterWithCounter(t)

	w := doJSON(router, http.MethodPost, "/auth/register",
		`{"email": "nou@x.ro", "password": "parola1", "confirmPassword": "parola1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, *backendCalls)
}

func TestRegisterEstablishesSession(t *testing.T) {
	router, session, _ := newAuthRouterWithCounter(t)

	w := doJSON(router, http.MethodPost, "/auth/register",
		`{"email": "nou@x.ro", "password": "parola1", "confirmPassword": "parola1", "fullName": "Ion Pop"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok123", session.Token())
}

func TestRegisterProducerCarriesStorefrontFields(t *testing.T) {
	router, session, _ := newAuthRouterWithCounter(t)

	w := doJSON(router, http.MethodPost, "/auth/register/producer",
		`{"email": "nou@x.ro", "password": "parola1", "confirmPassword": "parola1", "fullName": "Ion Pop", "location": "Dumbrăvița", "specialty": "miere"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tok123", session.Token())
}

func TestLoginEstablishesSession(t *testing.T) {
	router, session := newAuthRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/login", `{"email": "m@x.ro", "password": "parola"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "tok123", session.Token())
	user := session.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Maria Pop", user.FullName)
}

func TestLoginFailurePreservesBackendStatus(t *testing.T) {
	router, session := newAuthRouter(t)

	w := doJSON(router, http.MethodPost, "/auth/login", `{"email": "m@x.ro", "password": "gresit"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid credentials", resp["error"])
	assert.Empty(t, session.Token())
}

func TestMeRequiresSession(t *testing.T) {
	router, _ := newAuthRouter(t)

	w := doJSON(router, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeReturnsSessionUser(t *testing.T) {
	router, _ := newAuthRouter(t)

	doJSON(router, http.MethodPost, "/auth/login", `{"email": "m@x.ro", "password": "parola"}`)

	w := doJSON(router, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User *api.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "m@x.ro", resp.User.Email)
}

func TestLogoutClearsSession(t *testing.T) {
	router, session := newAuthRouter(t)

	doJSON(router, http.MethodPost, "/auth/login", `{"email": "m@x.ro", "password": "parola"}`)
	require.NotEmpty(t, session.Token())

	w := doJSON(router, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, session.Token())
}
