// Package web serves the server-rendered job tracker UI. It talks to the
// API only through the client SDK and to Supabase Auth for accounts.
package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"job-tracker-backend/internal/domain"
	"job-tracker-backend/pkg/client"
	"job-tracker-backend/pkg/logger"
	"job-tracker-backend/pkg/security"
	"job-tracker-backend/pkg/supabase"
	"job-tracker-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const sessionContextKey = "session"

// ApplicationsAPI is the subset of the client SDK the UI calls.
type ApplicationsAPI interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Application, error)
	Get(ctx context.Context, applicationID string) (*domain.Application, error)
	Create(ctx context.Context, input domain.ApplicationInput) (*domain.Application, error)
	Update(ctx context.Context, applicationID string, patch domain.ApplicationPatch) (*domain.Application, error)
	Delete(ctx context.Context, applicationID string) error
}

// Authenticator signs users in against Supabase Auth.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*supabase.User, error)
	SignUp(ctx context.Context, email, password, fullName string) (*supabase.User, error)
}

type Handler struct {
	api      ApplicationsAPI
	auth     Authenticator
	sessions *SessionManager
	validate *validator.Validate
}

func NewHandler(api ApplicationsAPI, auth Authenticator, sessions *SessionManager) *Handler {
	return &Handler{
		api:      api,
		auth:     auth,
		sessions: sessions,
		validate: validation.New(),
	}
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,strong_password"`
}

type registerForm struct {
	Name            string `form:"name" validate:"max=100"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,strong_password"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
}

type authPage struct {
	Title  string
	CSRF   string
	Email  string
	Name   string
	Errors []string
	Flash  *Flash
}

// requireSession sends anonymous visitors to the login page.
func (h *Handler) requireSession(c *gin.Context) {
	sess, err := h.sessions.Current(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.Set(sessionContextKey, sess)
	c.Next()
}

func currentSession(c *gin.Context) *Session {
	sess, _ := c.MustGet(sessionContextKey).(*Session)
	return sess
}

func (h *Handler) LoginPage(c *gin.Context) {
	if _, err := h.sessions.Current(c); err == nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", authPage{Title: "Sign in", CSRF: csrfToken(c), Flash: takeFlash(c)})
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	_ = c.ShouldBind(&form)
	form.Email = strings.TrimSpace(form.Email)

	page := authPage{Title: "Sign in", CSRF: csrfToken(c), Email: form.Email}
	if err := h.validate.Struct(form); err != nil {
		page.Errors = validation.FormatValidationErrors(err)
		c.HTML(http.StatusBadRequest, "login.html", page)
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		security.DefaultLogger().LogLoginFailed(ctx, form.Email, c.ClientIP(), c.GetHeader("User-Agent"), "sign_in_rejected")
		page.Errors = []string{authMessage(err, "Invalid email or password")}
		c.HTML(http.StatusUnauthorized, "login.html", page)
		return
	}

	if err := h.sessions.Start(c, user); err != nil {
		logger.Log.Error("Failed to sign session", "error", err)
		page.Errors = []string{"Could not start your session. Please try again."}
		c.HTML(http.StatusInternalServerError, "login.html", page)
		return
	}
	security.DefaultLogger().LogLoginSuccess(ctx, user.ID, c.ClientIP(), c.GetHeader("User-Agent"))
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", authPage{Title: "Create account", CSRF: csrfToken(c)})
}

func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	_ = c.ShouldBind(&form)
	form.Email = strings.TrimSpace(form.Email)
	form.Name = strings.TrimSpace(form.Name)

	page := authPage{Title: "Create account", CSRF: csrfToken(c), Email: form.Email, Name: form.Name}
	if err := h.validate.Struct(form); err != nil {
		page.Errors = validation.FormatValidationErrors(err)
		c.HTML(http.StatusBadRequest, "register.html", page)
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.SignUp(ctx, form.Email, form.Password, form.Name)
	if err != nil {
		security.DefaultLogger().LogLoginFailed(ctx, form.Email, c.ClientIP(), c.GetHeader("User-Agent"), "sign_up_rejected")
		page.Errors = []string{authMessage(err, "Registration failed")}
		c.HTML(http.StatusBadRequest, "register.html", page)
		return
	}

	security.DefaultLogger().LogRegistered(ctx, user.ID, c.ClientIP(), c.GetHeader("User-Agent"))
	setFlash(c, FlashSuccess, "Account created. Please sign in.")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	setFlash(c, FlashInfo, "You have been signed out.")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) Dashboard(c *gin.Context) {
	sess := currentSession(c)
	view := dashboardView{
		Title:    "Dashboard",
		User:     *sess,
		CSRF:     csrfToken(c),
		Flash:    takeFlash(c),
		Statuses: domain.ApplicationStatuses(),
	}

	apps, err := h.api.ListByUser(c.Request.Context(), sess.UserID)
	if err != nil {
		view.Flash = &Flash{Kind: FlashError, Message: apiMessage(err)}
	}
	view.fill(apps)

	c.HTML(http.StatusOK, "dashboard.html", view)
}

func (h *Handler) CreateApplication(c *gin.Context) {
	sess := currentSession(c)

	input := domain.ApplicationInput{
		UserID:      sess.UserID,
		CompanyName: optional(c.PostForm("company_name")),
		Recruiter:   optional(c.PostForm("recruiter")),
		JobTitle:    optional(c.PostForm("job_title")),
		JobURL:      optional(c.PostForm("job_url")),
		Notes:       optional(c.PostForm("notes")),
	}
	var err error
	if input.Status, err = optionalStatus(c.PostForm("status")); err != nil {
		redirectHome(c, FlashError, err.Error())
		return
	}
	if input.AppliedDate, err = optionalDate(c.PostForm("applied_date")); err != nil {
		redirectHome(c, FlashError, err.Error())
		return
	}

	if _, err := h.api.Create(c.Request.Context(), input); err != nil {
		redirectHome(c, FlashError, apiMessage(err))
		return
	}
	redirectHome(c, FlashSuccess, "Application added.")
}

func (h *Handler) UpdateApplication(c *gin.Context) {
	id := c.Param("id")
	if !h.owns(c, id) {
		return
	}

	patch := domain.ApplicationPatch{
		CompanyName: optional(c.PostForm("company_name")),
		Recruiter:   optional(c.PostForm("recruiter")),
		JobTitle:    optional(c.PostForm("job_title")),
		JobURL:      optional(c.PostForm("job_url")),
		Notes:       optional(c.PostForm("notes")),
	}
	var err error
	if patch.Status, err = optionalStatus(c.PostForm("status")); err != nil {
		redirectHome(c, FlashError, err.Error())
		return
	}
	if patch.AppliedDate, err = optionalDate(c.PostForm("applied_date")); err != nil {
		redirectHome(c, FlashError, err.Error())
		return
	}
	if patch.IsEmpty() {
		redirectHome(c, FlashInfo, "Nothing to update.")
		return
	}

	if _, err := h.api.Update(c.Request.Context(), id, patch); err != nil {
		redirectHome(c, FlashError, apiMessage(err))
		return
	}
	redirectHome(c, FlashSuccess, "Application updated.")
}

func (h *Handler) DeleteApplication(c *gin.Context) {
	id := c.Param("id")
	if !h.owns(c, id) {
		return
	}

	if err := h.api.Delete(c.Request.Context(), id); err != nil {
		redirectHome(c, FlashError, apiMessage(err))
		return
	}
	redirectHome(c, FlashSuccess, "Application deleted.")
}

// owns loads the application and checks it belongs to the signed-in user.
// On failure it has already redirected.
func (h *Handler) owns(c *gin.Context, applicationID string) bool {
	app, err := h.api.Get(c.Request.Context(), applicationID)
	if err != nil {
		redirectHome(c, FlashError, apiMessage(err))
		return false
	}
	if app.UserID != currentSession(c).UserID {
		redirectHome(c, FlashError, "Application not found")
		return false
	}
	return true
}

func redirectHome(c *gin.Context, kind FlashKind, message string) {
	setFlash(c, kind, message)
	c.Redirect(http.StatusSeeOther, "/")
}

// apiMessage turns an SDK error into text fit for a flash message.
func apiMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	logger.Log.Error("API request failed", "error", err)
	return "The tracker API is unreachable. Please try again later."
}

func authMessage(err error, fallback string) string {
	var apiErr *supabase.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if !errors.Is(err, supabase.ErrNoUser) {
		logger.Log.Error("Supabase auth request failed", "error", err)
	}
	return fallback
}

func optional(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}

func optionalStatus(raw string) (*domain.ApplicationStatus, error) {
	if raw = strings.TrimSpace(raw); raw == "" {
		return nil, nil
	}
	status, err := domain.ParseApplicationStatus(raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func optionalDate(raw string) (*domain.Date, error) {
	if raw = strings.TrimSpace(raw); raw == "" {
		return nil, nil
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		return nil, errors.New("applied date must be YYYY-MM-DD")
	}
	return &date, nil
}
