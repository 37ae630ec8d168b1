package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"kycpay-web/backend"
	"kycpay-web/middleware"
	"kycpay-web/models"
	"kycpay-web/utils"
)

type authPage struct {
	Error     string
	Notice    string
	FirstName string
	LastName  string
	Email     string
}

var (
	loginFieldOrder    = []string{"email", "password"}
	registerFieldOrder = []string{"firstname", "lastname", "email", "password"}
)

// LoginPage shows the login form, or skips to the dashboard for a signed in browser.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.LoadSession(r, h.sessions); err == nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, "login.html", authPage{Notice: h.takeNotice(w, r)})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "login.html", authPage{Error: "Invalid form submission"})
		return
	}

	req := models.LoginRequest{
		Email:    utils.SanitizeString(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
	}
	page := authPage{Email: req.Email}

	if err := utils.ValidateStruct(req); err != nil {
		page.Error = firstMessage(utils.FormatValidationError(err), loginFieldOrder)
		h.render(w, http.StatusUnprocessableEntity, "login.html", page)
		return
	}

	tokens, err := h.backend.Login(r.Context(), req)
	if err != nil {
		h.logger.Info("login rejected", zap.Error(err))
		page.Error = backend.Notice(err, "An error occurred. Please try again.")
		h.render(w, http.StatusUnauthorized, "login.html", page)
		return
	}

	sess, err := h.sessions.Create(r.Context(), req.Email, *tokens, r.RemoteAddr, r.UserAgent())
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		page.Error = "An error occurred. Please try again."
		h.render(w, http.StatusInternalServerError, "login.html", page)
		return
	}

	middleware.SetSessionCookie(w, sess, h.config.CookieSecure)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "register.html", authPage{})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "register.html", authPage{Error: "Invalid form submission"})
		return
	}

	req := models.RegisterRequest{
		FirstName: utils.SanitizeString(r.PostForm.Get("first_name")),
		LastName:  utils.SanitizeString(r.PostForm.Get("last_name")),
		Email:     utils.SanitizeString(r.PostForm.Get("email")),
		Password:  r.PostForm.Get("password"),
	}
	page := authPage{FirstName: req.FirstName, LastName: req.LastName, Email: req.Email}

	if err := utils.ValidateStruct(req); err != nil {
		page.Error = firstMessage(utils.FormatValidationError(err), registerFieldOrder)
		h.render(w, http.StatusUnprocessableEntity, "register.html", page)
		return
	}

	if err := h.backend.Register(r.Context(), req); err != nil {
		h.logger.Info("registration rejected", zap.Error(err))
		page.Error = backend.Notice(err, "Registration failed.")
		h.render(w, http.StatusBadRequest, "register.html", page)
		return
	}

	h.setNotice(w, "User registered successfully")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Error("failed to delete session", zap.Error(err))
		}
	}
	middleware.ClearSessionCookie(w, h.config.CookieSecure)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// NotFound sends unknown paths to the login page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.LoginPage(w, r)
}

func firstMessage(fieldErrors map[string]string, order []string) string {
	for _, field := range order {
		if msg, ok := fieldErrors[field]; ok {
			return msg
		}
	}
	for _, msg := range fieldErrors {
		return msg
	}
	return "Invalid form submission"
}
