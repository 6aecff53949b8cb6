package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Kariqs/fishing-store-api/initializers"
	"github.com/Kariqs/fishing-store-api/models"
	"github.com/Kariqs/fishing-store-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

// newTestServer builds the full engine on top of an in-memory sqlite database.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("SMTP_ADDRESS", "")
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := initializers.OpenDB("sqlite", dsn)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	initializers.DB = db
	require.NoError(t, initializers.SyncDatabase())

	initializers.Feed = utils.NewOrderFeed()
	initializers.Notifier = nil
	initializers.Images = nil

	return &testServer{t: t, engine: NewServer()}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// signUp registers a user, optionally promotes it to staff, and returns an access token.
func (s *testServer) signUp(username string, staff bool) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "tightlines1",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	if staff {
		require.NoError(s.t, initializers.DB.Model(&models.User{}).
			Where("username = ?", username).
			Update("is_staff", true).Error)
	}

	w = s.do(http.MethodPost, "/token", "", gin.H{"username": username, "password": "tightlines1"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]any](s.t, w)["access"].(string)
}

func (s *testServer) mustCreate(path, token string, body any) map[string]any {
	s.t.Helper()
	w := s.do(http.MethodPost, path, token, body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](s.t, w)
}

func idOf(v map[string]any) uint {
	return uint(v["id"].(float64))
}
