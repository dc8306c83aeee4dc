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

// InvitationHandler handles invitation management and acceptance endpoints.
type InvitationHandler struct {
	cfg         *config.Config
	invitations *service.InvitationService
}

// NewInvitationHandler creates a new InvitationHandler.
func NewInvitationHandler(cfg *config.Config, invitations *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{cfg: cfg, invitations: invitations}
}

// InvitePage godoc
// GET /dashboard/invite-users
// Returns the invite-users page payload for the proprietor.
func (h *InvitationHandler) InvitePage(c *gin.Context) {
	user := middleware.GetUser(c)
	response.Success(c, http.StatusOK, gin.H{
		"school_code": user.SchoolCode,
		"school_name": user.SchoolName,
		"roles":       model.AllRoles,
	})
}

// Create godoc
// POST /dashboard/invite-users
// Issues a new invitation and mails the acceptance link.
func (h *InvitationHandler) Create(c *gin.Context) {
	var req model.CreateInvitationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inv, err := h.invitations.Create(c.Request.Context(), middleware.GetUser(c), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"invitation": inv})
}

// List godoc
// GET /dashboard/manage-invitations
// Lists every invitation for the proprietor's school, newest first.
func (h *InvitationHandler) List(c *gin.Context) {
	user := middleware.GetUser(c)
	invs, err := h.invitations.List(c.Request.Context(), user.SchoolCode)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"invitations": invs})
}

// Revoke godoc
// DELETE /dashboard/manage-invitations/:token
// Withdraws a pending invitation belonging to the proprietor's school.
func (h *InvitationHandler) Revoke(c *gin.Context) {
	user := middleware.GetUser(c)
	err := h.invitations.Revoke(c.Request.Context(), c.Param("token"), user.SchoolCode)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// BulkImportPage godoc
// GET /dashboard/bulk-import
// Returns the bulk-import page payload: the recognized CSV columns and which
// of them every row must carry.
func (h *InvitationHandler) BulkImportPage(c *gin.Context) {
	user := middleware.GetUser(c)
	response.Success(c, http.StatusOK, gin.H{
		"school_code": user.SchoolCode,
		"school_name": user.SchoolName,
		"columns":     service.CSVColumns,
		"required":    service.CSVColumns[:4],
	})
}

// BulkImport godoc
// POST /dashboard/bulk-import
// Accepts a CSV upload and creates one invitation per valid row.
func (h *InvitationHandler) BulkImport(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	result, err := h.invitations.ImportCSV(c.Request.Context(), middleware.GetUser(c), file)
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidCSV, map[string]string{
			"detail": err.Error(),
		})
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Resolve godoc
// GET /auth/accept-invitation?token=&school=&role=
// Resolves an invitation token for the acceptance page. A missing or bad
// token is a terminal state: the only recovery is navigating home.
func (h *InvitationHandler) Resolve(c *gin.Context) {
	inv, branding, err := h.invitations.Resolve(c.Request.Context(), c.Query("token"))
	if err != nil {
		h.failResolution(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"invitation": inv,
		"branding":   branding,
		"fields":     roleFormFields(inv.Role),
	})
}

// Accept godoc
// POST /auth/accept-invitation?token=
// Accepts the invitation with the submitted registration form and opens the
// new user's session.
func (h *InvitationHandler) Accept(c *gin.Context) {
	var req model.AcceptInvitationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, token, err := h.invitations.Accept(c.Request.Context(), c.Query("token"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			response.Fail(c, http.StatusBadRequest, response.ErrPasswordMismatch)
		case errors.Is(err, service.ErrPasswordTooShort):
			response.Fail(c, http.StatusBadRequest, response.ErrPasswordTooShort)
		case errors.Is(err, service.ErrParentEmailRequired):
			response.Fail(c, http.StatusBadRequest, response.ErrParentEmailRequired)
		case errors.Is(err, service.ErrRelationshipRequired):
			response.Fail(c, http.StatusBadRequest, response.ErrRelationshipRequired)
		case errors.Is(err, service.ErrInvitationInvalid), errors.Is(err, service.ErrInvitationExpired):
			h.failResolution(c, err)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrAcceptFailed)
		}
		return
	}

	c.SetCookie(middleware.TokenCookie, token, int(h.cfg.JWTExpiry.Seconds()), "/", "", false, true)
	response.Success(c, http.StatusCreated, gin.H{
		"token":    token,
		"user":     user,
		"redirect": "/school",
	})
}

func (h *InvitationHandler) failResolution(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvitationExpired) {
		response.Fail(c, http.StatusGone, response.ErrInvitationExpired)
		return
	}
	response.Fail(c, http.StatusNotFound, response.ErrInvitationInvalid)
}

// roleFormFields lists the extra acceptance-form fields per role; the form
// adapts its field set to the invitation's role, which is never
// user-selectable.
func roleFormFields(role model.Role) []string {
	common := []string{"password", "confirm_password", "phone", "address"}
	switch role {
	case model.RoleStudent:
		return append(common, "parent_email", "date_of_birth")
	case model.RoleParent:
		return append(common, "relationship", "occupation")
	case model.RoleTeacher:
		return append(common, "qualifications", "experience")
	case model.RoleAdmin, model.RoleSecretary, model.RoleProprietor:
		return append(common, "experience")
	}
	return common
}
