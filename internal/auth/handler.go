package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"billaudit-backend/internal/mail"
	"billaudit-backend/internal/otp"
	sharedauth "billaudit-backend/internal/shared/auth"
	"billaudit-backend/internal/shared/server/middleware"
	"billaudit-backend/internal/shared/server/respond"
	"billaudit-backend/internal/shared/telemetry"
	"billaudit-backend/internal/users"
)

// OTPService issues and verifies emailed login codes.
type OTPService interface {
	Issue(ctx context.Context, email string) (otp.OTP, error)
	Verify(ctx context.Context, email, code string) (bool, error)
}

// Handler serves token-based login: Google ID tokens and emailed passcodes.
type Handler struct {
	verifier IDTokenVerifier
	users    *users.Service
	otps     OTPService
	mailer   mail.Mailer
}

func NewHandler(verifier IDTokenVerifier, userSvc *users.Service, otps OTPService, mailer mail.Mailer) *Handler {
	return &Handler{verifier: verifier, users: userSvc, otps: otps, mailer: mailer}
}

// RegisterPublicRoutes attaches login endpoints that need no session.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/google", h.googleLogin)
	rg.POST("/auth/send-otp", h.sendOTP)
	rg.POST("/auth/verify-otp", h.verifyOTP)
}

// RegisterProtectedRoutes attaches endpoints that require a session.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.me)
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
}

func (h *Handler) googleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Credential) == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "credential is required", nil)
		return
	}

	ctx := c.Request.Context()
	profile, err := h.verifier.Verify(ctx, req.Credential)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "invalid_credential", "Invalid Google credential", nil)
		return
	}
	if profile.Sub == "" || profile.Email == "" {
		respond.Error(c, http.StatusUnauthorized, "invalid_credential", "Invalid Google credential", nil)
		return
	}

	user, err := h.users.FindOrCreateFromGoogle(ctx, profile.Sub, profile.Email, profile.Name)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	h.issueSession(c, user)
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

func (h *Handler) sendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "email is required", nil)
		return
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "email is required", nil)
		return
	}

	code, err := h.otps.Issue(c.Request.Context(), email)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue code", nil)
		return
	}
	if err := h.mailer.SendOTP(email, code.Code); err != nil {
		telemetry.Error("auth.otp_send_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusBadGateway, "mail_failed", "failed to send code", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"success": true, "message": "OTP sent"})
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *Handler) verifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "email and otp are required", nil)
		return
	}
	email := normalizeEmail(req.Email)
	code := strings.TrimSpace(req.OTP)
	if email == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "email and otp are required", nil)
		return
	}

	ctx := c.Request.Context()
	ok, err := h.otps.Verify(ctx, email, code)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to verify code", nil)
		return
	}
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_otp", "Invalid or expired OTP", nil)
		return
	}

	user, err := h.users.FindOrCreateFromEmail(ctx, email)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}
	h.issueSession(c, user)
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"success": true, "user": publicUser(user)})
}

// issueSession rejects blocked accounts, then signs and returns a session.
func (h *Handler) issueSession(c *gin.Context, user users.User) {
	if user.Status == users.StatusBlocked {
		respond.Error(c, http.StatusForbidden, "account_blocked", "Account is blocked", nil)
		return
	}

	token, err := sharedauth.SignSession(user.ID, user.Email, user.Name)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	telemetry.Info("auth.login", map[string]any{"user_id": user.ID})
	respond.JSON(c, http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    publicUser(user),
	})
}

func publicUser(u users.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role":      u.Role,
		"isPremium": u.IsPremium,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
