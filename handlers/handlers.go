package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"kycpay-web/config"
	"kycpay-web/forms"
	"kycpay-web/middleware"
	"kycpay-web/models"
	"kycpay-web/session"
)

const noticeCookie = "notice"

// Backend is every call the pages make to the payments and KYC backend.
type Backend interface {
	forms.KycStore
	forms.PaymentProcessor
	Register(ctx context.Context, req models.RegisterRequest) error
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error)
	Dashboard(ctx context.Context, credential string) ([]models.Transaction, error)
	DownloadReport(ctx context.Context, credential string, w io.Writer) (int64, error)
}

type Sessions interface {
	middleware.SessionLoader
	Create(ctx context.Context, email string, tokens models.TokenPair, ipAddress, userAgent string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

type Handlers struct {
	db        *gorm.DB
	config    *config.Config
	backend   Backend
	sessions  Sessions
	logger    *zap.Logger
	templates *templates
}

func NewHandlers(db *gorm.DB, cfg *config.Config, backend Backend, sessions Sessions, logger *zap.Logger) (*Handlers, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &Handlers{
		db:        db,
		config:    cfg,
		backend:   backend,
		sessions:  sessions,
		logger:    logger,
		templates: tmpl,
	}, nil
}

func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "kycpay-web",
	})
}

func (h *Handlers) render(w http.ResponseWriter, status int, page string, data interface{}) {
	if err := h.templates.render(w, status, page, data); err != nil {
		h.logger.Error("failed to render page", zap.String("page", page), zap.Error(err))
	}
}

// logAudit records a submission outcome. Only non-sensitive details belong here.
func (h *Handlers) logAudit(r *http.Request, sessionID, action, resource, outcome, details string) {
	audit := models.AuditLog{
		SessionID: sessionID,
		Action:    action,
		Resource:  resource,
		Outcome:   outcome,
		Details:   details,
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	if err := h.db.WithContext(r.Context()).Create(&audit).Error; err != nil {
		h.logger.Error("failed to write audit log",
			zap.String("action", action),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
	}
}

// setNotice leaves a one-shot message for the next page the browser loads.
func (h *Handlers) setNotice(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) takeNotice(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(noticeCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}
