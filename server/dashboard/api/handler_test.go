package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooldesk/server/common/infra/backend"
	"schooldesk/server/common/transport/httpresp"
	"schooldesk/server/dashboard/domain"
	"schooldesk/server/dashboard/service"
)

const testToken = "test-access-token"

// newBackendStub serves the auth and notification slices of the school
// backend contract, rejecting panel calls without the issued bearer token.
func newBackendStub(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		if req.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": testToken,
			"user_info":    map[string]any{"id": 7, "username": req.Username, "role": "teacher"},
		})
	})
	mux.HandleFunc("GET /notifications", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Missing Authorization Header"})
			return
		}
		_ = json.NewEncoder(w).Encode([]domain.Notification{{ID: 1, Title: "Sports day", Type: "event"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) (*gin.Engine, *service.AppState) {
	gin.SetMode(gin.TestMode)
	stub := newBackendStub(t)

	state := service.NewAppState()
	tokens := service.NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	api := backend.NewClient(stub.URL, time.Second, state)

	sessions := service.NewSessionService(service.NewAuthClient(api), state, tokens)
	view := service.NewMessagingView(service.NewMessageClient(api), state)
	handler := NewHandler(
		sessions,
		state,
		view,
		service.NewNotificationsPanel(service.NewNotificationClient(api)),
		service.NewFormsPanel(service.NewFormClient(api)),
		service.NewEvaluationsPanel(service.NewEvaluationClient(api)),
		service.NewRewardsPanel(service.NewRewardClient(api)),
	)

	router := gin.New()
	handler.RegisterRoutes(router)
	return router, state
}

func doJSON(router *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPanelRoutesRequireSession(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(router, http.MethodGet, "/panels/notifications", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "login is required", resp.Error)
}

func TestLoginThenPanelThenLogout(t *testing.T) {
	router, state := newTestRouter(t)

	rec := doJSON(router, http.MethodPost, "/auth/login",
		map[string]string{"username": "t1", "password": "pw", "role": "teacher"})
	require.Equal(t, http.StatusOK, rec.Code)

	var login httpresp.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, int64(7), login.UserID)
	assert.Equal(t, "t1", login.Username)
	assert.Equal(t, "teacher", login.Role)
	assert.Equal(t, testToken, state.Token())

	rec = doJSON(router, http.MethodGet, "/panels/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []domain.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Sports day", items[0].Title)

	rec = doJSON(router, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, state.HasSession())

	rec = doJSON(router, http.MethodGet, "/panels/notifications", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectionKeepsBackendStatus(t *testing.T) {
	router, state := newTestRouter(t)

	rec := doJSON(router, http.MethodPost, "/auth/login",
		map[string]string{"username": "t1", "password": "wrong", "role": "teacher"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, state.HasSession())
}

func TestLoginValidatesPayload(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(router, http.MethodPost, "/auth/login", map[string]string{"username": "t1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpiredBackendTokenAnswersSessionExpired(t *testing.T) {
	router, state := newTestRouter(t)
	state.SetCurrentUser(&domain.Session{UserID: 7, Username: "t1", Role: domain.RoleTeacher, Token: "stale-token"})

	rec := doJSON(router, http.MethodGet, "/panels/notifications", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session expired, log in again", resp.Error)

	// The session is not cleared client-side; the caller decides when to
	// re-login.
	assert.True(t, state.HasSession())
}

func TestInvalidPathIDAnswersBadRequest(t *testing.T) {
	router, state := newTestRouter(t)
	state.SetCurrentUser(&domain.Session{UserID: 7, Token: testToken})

	rec := doJSON(router, http.MethodPost, "/panels/notifications/abc/read", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
