package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/kitchen-guide/internal/auth"
	"github.com/hongminglow/kitchen-guide/internal/http/render"
	"github.com/hongminglow/kitchen-guide/internal/middleware"
	"github.com/hongminglow/kitchen-guide/internal/models"
	"github.com/hongminglow/kitchen-guide/internal/storage"
)

type stubUserStore struct {
	byUsername map[string]models.User
	createErr  error
}

func (s *stubUserStore) CreateUser(_ context.Context, username, email, passwordHash string) (models.User, error) {
	if s.createErr != nil {
		return models.User{}, s.createErr
	}
	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if s.byUsername == nil {
		s.byUsername = map[string]models.User{}
	}
	s.byUsername[username] = user
	return user, nil
}

func (s *stubUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	if user, ok := s.byUsername[username]; ok {
		return user, nil
	}
	return models.User{}, storage.ErrNotFound
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.byUsername {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func newTestHandler(t *testing.T, users storage.UserStore) (*Handler, *auth.TokenManager) {
	t.Helper()
	renderer, err := render.New(zerolog.Nop())
	require.NoError(t, err)
	tokens := auth.NewTokenManager("test_secret_key_for_testing", 24*time.Hour)
	gate := middleware.NewAuth(tokens, renderer, zerolog.Nop())
	h := New(nil, nil, users, nil, tokens, gate, renderer, zerolog.Nop(), 20<<20)
	return h, tokens
}

func seedUser(t *testing.T, users *stubUserStore, username, password string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user, err := users.CreateUser(context.Background(), username, username+"@example.com", hash)
	require.NoError(t, err)
	return user
}

func postForm(h http.HandlerFunc, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func authCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	return nil
}

func TestLoginSuccess(t *testing.T) {
	users := &stubUserStore{}
	user := seedUser(t, users, "kitchenhand", "secret-password")
	h, tokens := newTestHandler(t, users)

	rec := postForm(h.Login, "/login", url.Values{
		"username": {"kitchenhand"},
		"password": {"secret-password"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookie := authCookie(t, rec)
	require.NotNil(t, cookie, "login must set the session cookie")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	claims, err := tokens.Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "kitchenhand", claims.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	users := &stubUserStore{}
	seedUser(t, users, "kitchenhand", "secret-password")
	h, _ := newTestHandler(t, users)

	rec := postForm(h.Login, "/login", url.Values{
		"username": {"kitchenhand"},
		"password": {"wrong"},
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password")
	assert.Nil(t, authCookie(t, rec))
}

func TestLoginUnknownUserSameMessage(t *testing.T) {
	h, _ := newTestHandler(t, &stubUserStore{})

	rec := postForm(h.Login, "/login", url.Values{
		"username": {"nobody"},
		"password": {"whatever"},
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password")
}

func TestLogoutClearsCookie(t *testing.T) {
	h, _ := newTestHandler(t, &stubUserStore{})

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := authCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestRegisterSuccessLogsIn(t *testing.T) {
	users := &stubUserStore{}
	h, tokens := newTestHandler(t, users)

	rec := postForm(h.Register, "/register", url.Values{
		"username":         {"new_user"},
		"email":            {"new_user@example.com"},
		"password":         {"longenough"},
		"confirm_password": {"longenough"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)

	cookie := authCookie(t, rec)
	require.NotNil(t, cookie)
	claims, err := tokens.Validate(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "new_user", claims.Username)

	stored, err := users.FindByUsername(context.Background(), "new_user")
	require.NoError(t, err)
	assert.NotEqual(t, "longenough", stored.PasswordHash, "password must be stored hashed")
}

func TestRegisterPasswordMismatch(t *testing.T) {
	h, _ := newTestHandler(t, &stubUserStore{})

	rec := postForm(h.Register, "/register", url.Values{
		"username":         {"new_user"},
		"email":            {"new_user@example.com"},
		"password":         {"longenough"},
		"confirm_password": {"different"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords do not match")
}

func TestRegisterDuplicate(t *testing.T) {
	users := &stubUserStore{createErr: storage.ErrAlreadyExists}
	h, _ := newTestHandler(t, users)

	rec := postForm(h.Register, "/register", url.Values{
		"username":         {"taken"},
		"email":            {"taken@example.com"},
		"password":         {"longenough"},
		"confirm_password": {"longenough"},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already taken")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := &stubUserStore{}
	seedUser(t, users, "existing", "secret-password")
	h, _ := newTestHandler(t, users)

	rec := postForm(h.Register, "/register", url.Values{
		"username":         {"someone_else"},
		"email":            {"existing@example.com"},
		"password":         {"longenough"},
		"confirm_password": {"longenough"},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already taken")
	assert.Nil(t, authCookie(t, rec))
}

func TestLoginFormRedirectsWhenAuthenticated(t *testing.T) {
	h, tokens := newTestHandler(t, &stubUserStore{})
	token, err := tokens.Issue(uuid.New(), "kitchenhand")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	rec := httptest.NewRecorder()
	h.LoginForm(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}
