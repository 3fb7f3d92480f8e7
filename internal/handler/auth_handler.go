package handler

import (
	"net/http"
	"time"

	"dnaarchive/internal/middleware"
	"dnaarchive/internal/service"
	"dnaarchive/internal/session"
	"dnaarchive/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	authService      service.AuthService
	twoFactorService service.TwoFactorService
	loginLimiter     *middleware.IPRateLimiter
	secureCookies    bool
}

func NewAuthHandler(authService service.AuthService, twoFactorService service.TwoFactorService, loginLimiter *middleware.IPRateLimiter, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		twoFactorService: twoFactorService,
		loginLimiter:     loginLimiter,
		secureCookies:    secureCookies,
	}
}

// RegisterRoutes binds /auth endpoints. Login and register are public.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, acc *middleware.Access) {
	auth := router.Group("/auth")
	{
		if h.loginLimiter != nil {
			auth.POST("/login", h.loginLimiter.Middleware(), h.Login)
		} else {
			auth.POST("/login", h.Login)
		}
		auth.POST("/register", h.Register)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", acc.Authenticated(), h.Me)

		if h.authService.OAuthEnabled() {
			auth.GET("/oauth/login", h.OAuthLogin)
			auth.GET("/oauth/callback", h.OAuthCallback)
		}

		twoFactor := auth.Group("/2fa", acc.WithAuditLogging("Two Factor"))
		twoFactor.POST("/setup", h.SetupTwoFactor)
		twoFactor.POST("/verify", h.VerifyTwoFactor)
		twoFactor.POST("/disable", h.DisableTwoFactor)
	}
}

func (h *AuthHandler) setCookies(c *gin.Context, tokens *service.TokenResponse) {
	middleware.SetTokenCookies(c, h.secureCookies,
		tokens.AccessToken, time.Until(tokens.AccessExpiresAt),
		tokens.RefreshToken, time.Until(tokens.RefreshExpiresAt))
}

// Login handles POST /auth/login
// @Summary      Login user
// @Description  Authenticates by email and password (plus a TOTP code when 2FA is enabled) and sets session cookies
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setCookies(c, tokens)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Register handles POST /auth/register
// @Summary      Register user
// @Description  Creates an account with the Scientific Officer role
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterRequest  true  "Registration"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /auth/refresh
// @Summary      Refresh tokens
// @Description  Rotates the refresh token from the cookie or the request body
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TokenResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(session.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Refresh token is required"))
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		middleware.ClearTokenCookies(c, h.secureCookies)
		respondError(c, err)
		return
	}

	h.setCookies(c, tokens)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// Logout handles POST /auth/logout
// @Summary      Logout
// @Description  Revokes the refresh token and clears session cookies
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(session.RefreshTokenCookie); err == nil && refreshToken != "" {
		if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
			respondError(c, err)
			return
		}
	}

	middleware.ClearTokenCookies(c, h.secureCookies)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Logged out successfully"}))
}

// Me handles GET /auth/me
// @Summary      Get current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      401  {object}  response.ErrorBody
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}

	me, err := h.authService.Me(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, me))
}

// OAuthLogin handles GET /auth/oauth/login by redirecting to the identity provider
// @Summary      Start OAuth login
// @Tags         auth
// @Success      302
// @Router       /api/auth/oauth/login [get]
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	state := uuid.NewString()
	url, err := h.authService.OAuthURL(state)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, int((10 * time.Minute).Seconds()), "/", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, url)
}

// OAuthCallback handles GET /auth/oauth/callback
// @Summary      Complete OAuth login
// @Tags         auth
// @Produce      json
// @Param        code   query     string  true  "Authorization code"
// @Param        state  query     string  true  "State issued by /oauth/login"
// @Success      200    {object}  response.Response{data=service.TokenResponse}
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /api/auth/oauth/callback [get]
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid OAuth state"))
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookies, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing authorization code"))
		return
	}

	tokens, err := h.authService.OAuthLogin(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setCookies(c, tokens)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tokens))
}

// SetupTwoFactor handles POST /auth/2fa/setup
// @Summary      Start 2FA enrolment
// @Description  Generates a TOTP secret and QR code; the secret is active after /verify
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.TwoFactorSetupResponse}
// @Failure      409  {object}  response.Response
// @Router       /api/auth/2fa/setup [post]
func (h *AuthHandler) SetupTwoFactor(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}

	setup, err := h.twoFactorService.Setup(c.Request.Context(), user.ID, user.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, setup))
}

// VerifyTwoFactor handles POST /auth/2fa/verify
// @Summary      Enable 2FA
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.TwoFactorCodeRequest  true  "TOTP code"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/2fa/verify [post]
func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}

	var req service.TwoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.twoFactorService.Verify(c.Request.Context(), user.ID, req.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Two-factor authentication enabled"}))
}

// DisableTwoFactor handles POST /auth/2fa/disable
// @Summary      Disable 2FA
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /api/auth/2fa/disable [post]
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	user, ok := actor(c)
	if !ok {
		return
	}

	if err := h.twoFactorService.Disable(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Two-factor authentication disabled"}))
}
