package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dnaarchive/internal/middleware"
	"dnaarchive/internal/service"
	"dnaarchive/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	service.AuthService
	oauth      bool
	gotRefresh string
	gotLogout  string
	gotCode    string
	gotMe      uint
	err        error
}

func tokensFor(user *service.UserResponse) *service.TokenResponse {
	return &service.TokenResponse{
		AccessToken:      "access-jwt",
		AccessExpiresAt:  time.Now().Add(time.Hour),
		RefreshToken:     "refresh-uuid",
		RefreshExpiresAt: time.Now().Add(24 * time.Hour),
		User:             user,
	}
}

func (f *fakeAuthService) Login(_ context.Context, req service.LoginRequest) (*service.TokenResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return tokensFor(&service.UserResponse{ID: 2, Email: req.Email}), nil
}

func (f *fakeAuthService) Refresh(_ context.Context, token string) (*service.TokenResponse, error) {
	f.gotRefresh = token
	if f.err != nil {
		return nil, f.err
	}
	return tokensFor(nil), nil
}

func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	f.gotLogout = token
	return nil
}

func (f *fakeAuthService) Me(_ context.Context, id uint) (*service.UserResponse, error) {
	f.gotMe = id
	return &service.UserResponse{ID: id}, nil
}

func (f *fakeAuthService) OAuthEnabled() bool { return f.oauth }

func (f *fakeAuthService) OAuthURL(state string) (string, error) {
	return "https://idp.example.com/authorize?state=" + state, nil
}

func (f *fakeAuthService) OAuthLogin(_ context.Context, code string) (*service.TokenResponse, error) {
	f.gotCode = code
	return tokensFor(nil), nil
}

type fakeTwoFactorService struct {
	service.TwoFactorService
	gotUser uint
	gotCode string
	err     error
}

func (f *fakeTwoFactorService) Verify(_ context.Context, userID uint, code string) error {
	f.gotUser, f.gotCode = userID, code
	return f.err
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginSetsSessionCookies(t *testing.T) {
	r, rec := newRouter(NewAuthHandler(&fakeAuthService{}, &fakeTwoFactorService{}, nil, false))

	w := do(r, http.MethodPost, "/api/auth/login", `{"email":"officer@dna.test","password":"hunter22"}`, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	access := cookieNamed(w, session.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "access-jwt", access.Value)
	assert.True(t, access.HttpOnly)
	assert.NotNil(t, cookieNamed(w, session.RefreshTokenCookie))
	assert.Empty(t, rec.entries, "login audits itself in the service")
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"bad payload", `{"email":"not-an-email"}`, nil, http.StatusBadRequest},
		{"wrong password", `{"email":"a@dna.test","password":"x"}`, service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"code required", `{"email":"a@dna.test","password":"x"}`, service.ErrTwoFactorRequired, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newRouter(NewAuthHandler(&fakeAuthService{err: tt.err}, &fakeTwoFactorService{}, nil, false))

			w := do(r, http.MethodPost, "/api/auth/login", tt.body, nil)

			assert.Equal(t, tt.status, w.Code)
			assert.Nil(t, cookieNamed(w, session.AccessTokenCookie))
		})
	}
}

func TestLoginIsRateLimited(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(0.001, 1)
	r, _ := newRouter(NewAuthHandler(&fakeAuthService{}, &fakeTwoFactorService{}, limiter, false))

	body := `{"email":"officer@dna.test","password":"hunter22"}`
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/auth/login", body, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/auth/login", body, nil).Code)
}

func TestRefresh(t *testing.T) {
	svc := &fakeAuthService{}
	r, _ := newRouter(NewAuthHandler(svc, &fakeTwoFactorService{}, nil, false))

	w := do(r, http.MethodPost, "/api/auth/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/auth/refresh", `{"refresh_token":"from-body"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from-body", svc.gotRefresh)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: session.RefreshTokenCookie, Value: "from-cookie"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from-cookie", svc.gotRefresh)
}

func TestLogoutRevokesAndClears(t *testing.T) {
	svc := &fakeAuthService{}
	r, _ := newRouter(NewAuthHandler(svc, &fakeTwoFactorService{}, nil, false))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.RefreshTokenCookie, Value: "old-refresh"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "old-refresh", svc.gotLogout)
	cleared := cookieNamed(w, session.AccessTokenCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestMeRequiresSession(t *testing.T) {
	svc := &fakeAuthService{}
	r, _ := newRouter(NewAuthHandler(svc, &fakeTwoFactorService{}, nil, false))

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/auth/me", "", nil).Code)

	w := do(r, http.MethodGet, "/api/auth/me", "", &keeperUser)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, keeperUser.ID, svc.gotMe)
}

func TestOAuthRoutesOnlyWhenConfigured(t *testing.T) {
	r, _ := newRouter(NewAuthHandler(&fakeAuthService{}, &fakeTwoFactorService{}, nil, false))
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/auth/oauth/login", "", nil).Code)
}

func TestOAuthStateRoundTrip(t *testing.T) {
	svc := &fakeAuthService{oauth: true}
	r, _ := newRouter(NewAuthHandler(svc, &fakeTwoFactorService{}, nil, false))

	w := do(r, http.MethodGet, "/api/auth/oauth/login", "", nil)
	require.Equal(t, http.StatusFound, w.Code)
	state := cookieNamed(w, oauthStateCookie)
	require.NotNil(t, state)
	assert.True(t, strings.HasSuffix(w.Header().Get("Location"), "state="+state.Value))

	forged := httptest.NewRequest(http.MethodGet, "/api/auth/oauth/callback?code=abc&state=forged", nil)
	forged.AddCookie(state)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, forged)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.gotCode)

	ok := httptest.NewRequest(http.MethodGet, "/api/auth/oauth/callback?code=abc&state="+state.Value, nil)
	ok.AddCookie(state)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, ok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", svc.gotCode)
	assert.NotNil(t, cookieNamed(w, session.AccessTokenCookie))
}

func TestVerifyTwoFactorIsAudited(t *testing.T) {
	tf := &fakeTwoFactorService{}
	r, rec := newRouter(NewAuthHandler(&fakeAuthService{}, tf, nil, false))

	w := do(r, http.MethodPost, "/api/auth/2fa/verify", `{"code":"123456"}`, &officerUser)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, officerUser.ID, tf.gotUser)
	assert.Equal(t, "123456", tf.gotCode)
	require.Len(t, rec.entries, 1)
	assert.Equal(t, "POST Two Factor", rec.entries[0].Action)
}

func TestVerifyTwoFactorWrongCode(t *testing.T) {
	tf := &fakeTwoFactorService{err: service.ErrInvalidTwoFactorCode}
	r, _ := newRouter(NewAuthHandler(&fakeAuthService{}, tf, nil, false))

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/auth/2fa/verify", `{"code":"000000"}`, &officerUser).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/auth/2fa/verify", `{"code":"12ab"}`, &officerUser).Code)
}
