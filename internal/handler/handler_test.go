package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dnaarchive/internal/access"
	"dnaarchive/internal/audit"
	"dnaarchive/internal/middleware"
	"dnaarchive/internal/model"
	"dnaarchive/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var (
	adminUser   = access.AuthenticatedUser{ID: 1, Name: "Admin", Email: "admin@dna.test", Role: model.RoleAdmin}
	officerUser = access.AuthenticatedUser{ID: 2, Name: "Officer", Email: "officer@dna.test", Role: model.RoleScientificOfficer}
	keeperUser  = access.AuthenticatedUser{ID: 3, Name: "Keeper", Email: "keeper@dna.test", Role: model.RoleArchiveInCharge}
)

// bearerResolver treats the bearer value as the session email
type bearerResolver struct{}

func (bearerResolver) Resolve(r *http.Request) (*session.Session, error) {
	email, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || email == "" {
		return nil, session.ErrNoSession
	}
	return &session.Session{Email: email}, nil
}

type staticDirectory map[string]access.AuthenticatedUser

func (d staticDirectory) Lookup(_ context.Context, email string) (*access.AuthenticatedUser, error) {
	u, ok := d[email]
	if !ok {
		return nil, access.ErrUserNotFound
	}
	return &u, nil
}

type memRecorder struct {
	entries []audit.Entry
}

func (m *memRecorder) Record(_ context.Context, e audit.Entry) (*model.AuditTrail, error) {
	m.entries = append(m.entries, e)
	return &model.AuditTrail{ID: uint(len(m.entries)), EntityType: e.EntityType, Action: e.Action}, nil
}

type routes interface {
	RegisterRoutes(*gin.RouterGroup, *middleware.Access)
}

func newRouter(h routes) (*gin.Engine, *memRecorder) {
	gin.SetMode(gin.TestMode)
	rec := &memRecorder{}
	dir := staticDirectory{
		adminUser.Email:   adminUser,
		officerUser.Email: officerUser,
		keeperUser.Email:  keeperUser,
	}
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"), middleware.NewAccess(bearerResolver{}, dir, rec))
	return r, rec
}

func do(r http.Handler, method, path, body string, as *access.AuthenticatedUser) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+as.Email)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}
