package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hongminglow/kitchen-guide/internal/auth"
	"github.com/hongminglow/kitchen-guide/internal/http/render"
	"github.com/hongminglow/kitchen-guide/internal/middleware"
	"github.com/hongminglow/kitchen-guide/internal/models"
	"github.com/hongminglow/kitchen-guide/internal/storage"
)

// Generic on purpose: the same message for unknown user and wrong password
// avoids user enumeration.
const invalidCredentialsMsg = "Invalid username or password"

type loginView struct {
	render.Page
	Error string
}

type registerView struct {
	render.Page
	Error string
}

// LoginForm renders the login page, or redirects home when already logged in.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.gate.OptionalIdentity(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.HTML(w, http.StatusOK, "login", loginView{})
}

// Login verifies credentials, issues a token, and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	user, err := h.users.FindByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.renderer.HTML(w, http.StatusUnauthorized, "login", loginView{Error: invalidCredentialsMsg})
			return
		}
		h.logger.Error().Err(err).Msg("find user")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		h.logger.Error().Err(err).Msg("verify password")
		h.renderer.ServerError(w, h.page(r))
		return
	}
	if !ok {
		h.renderer.HTML(w, http.StatusUnauthorized, "login", loginView{Error: invalidCredentialsMsg})
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.logger.Error().Err(err).Msg("issue token")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	setAuthCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterForm renders the registration page, or redirects home when already
// logged in.
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.gate.OptionalIdentity(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.HTML(w, http.StatusOK, "register", registerView{})
}

// Register validates the submission, hashes the password, creates the user,
// and logs the new account in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := models.RegisterForm{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	if err := form.Validate(); err != nil {
		h.renderer.HTML(w, http.StatusBadRequest, "register", registerView{Error: err.Error()})
		return
	}

	// Checked up front for a friendlier conflict; the unique constraint still
	// backstops the race where two registrations interleave.
	if _, err := h.users.FindByEmail(r.Context(), form.Email); err == nil {
		h.renderer.HTML(w, http.StatusConflict, "register", registerView{Error: "Username or email is already taken"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		h.logger.Error().Err(err).Msg("find user by email")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		h.logger.Error().Err(err).Msg("hash password")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	user, err := h.users.CreateUser(r.Context(), form.Username, form.Email, hash)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			h.renderer.HTML(w, http.StatusConflict, "register", registerView{Error: "Username or email is already taken"})
			return
		}
		h.logger.Error().Err(err).Msg("create user")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.logger.Error().Err(err).Msg("issue token")
		h.renderer.ServerError(w, h.page(r))
		return
	}

	setAuthCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session cookie and redirects home. Tokens are stateless,
// so this only instructs the client to discard its copy.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Unauthorized renders the standalone 401 page.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.renderer.Unauthorized(w)
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
}
