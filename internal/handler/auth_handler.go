package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolhub/schoolhub-backend/internal/config"
	"github.com/schoolhub/schoolhub-backend/internal/middleware"
	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/response"
	"github.com/schoolhub/schoolhub-backend/internal/service"
	"github.com/schoolhub/schoolhub-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	cfg  *config.Config
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{cfg: cfg, auth: auth}
}

// LoginPage godoc
// GET /auth/login and /auth/login/:schoolCode
// Returns the login page payload: school branding for the branded variant and
// the "from" location a guard redirect preserved.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	payload := gin.H{"from": c.Query("from")}

	if code := c.Param("schoolCode"); code != "" {
		school, err := h.auth.School(c.Request.Context(), code)
		if err != nil {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		payload["school"] = school
	}

	response.Success(c, http.StatusOK, payload)
}

// Login godoc
// POST /auth/login and /auth/login/:schoolCode
// Validates email + password for the requested role and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	h.setSessionCookie(c, token)
	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Register godoc
// POST /auth/register
// Creates a new account and opens a session for it.
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterData
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		case errors.Is(err, service.ErrSchoolNotFound):
			response.Fail(c, http.StatusBadRequest, response.ErrUnknownSchool)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrRegistrationFailed)
		}
		return
	}

	h.setSessionCookie(c, token)
	response.Success(c, http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// RegisterSchool godoc
// POST /auth/register-school
// Creates a new school plus its proprietor account in one step.
func (h *AuthHandler) RegisterSchool(c *gin.Context) {
	var req model.SchoolRegistrationData
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	school, user, token, err := h.auth.RegisterSchool(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrSchoolExists):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrRegistrationFailed)
		}
		return
	}

	h.setSessionCookie(c, token)
	response.Success(c, http.StatusCreated, gin.H{
		"token":  token,
		"user":   user,
		"school": school,
	})
}

// ForgotPassword godoc
// POST /auth/forgot-password
// Sends a password-reset message. Always succeeds so the endpoint cannot be
// used to probe for registered emails.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Email); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "If an account exists for that email, a reset link has been sent.",
	})
}

// Me godoc
// GET /auth/me
// Returns the profile of the current session user.
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"user": middleware.GetUser(c)})
}

// Logout godoc
// POST /auth/logout
// Clears the session and sends the client back to the landing page.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.ExtractToken(c); token != "" {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
	}

	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// UpdateProfile godoc
// PATCH /auth/profile
// Merge-patches the current user's profile; patch fields win.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), middleware.ExtractToken(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			response.Fail(c, http.StatusUnauthorized, response.ErrNotAuthenticated)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrProfileUpdateFailed)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.TokenCookie, token, int(h.cfg.JWTExpiry.Seconds()), "/", "", false, true)
}
