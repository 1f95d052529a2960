package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/notely/notely/internal/middleware"
	"github.com/notely/notely/internal/models"
	"github.com/notely/notely/internal/noteerr"
)

// recordingAuthService captures the credentials the handler passed
// down.
type recordingAuthService struct {
	fakeAuthService
	username string
	password string
}

func (s *recordingAuthService) Login(_ context.Context, username, password string) (string, *models.User, error) {
	s.username, s.password = username, password
	return s.fakeAuthService.Login(context.Background(), username, password)
}

func TestRegister_Success(t *testing.T) {
	fake := &fakeAuthService{user: &models.User{ID: "u1", Username: "alice"}}
	router := newRouterWithAuth(fake)

	req := jsonRequest(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "a@b.c", "password": "pw", "fullName": "Alice"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; want %d; body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	var u models.User
	if err := json.NewDecoder(w.Body).Decode(&u); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("username = %q; want alice", u.Username)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	fake := &fakeAuthService{err: fmt.Errorf("%w: username already taken", noteerr.ErrInvalidArgument)}
	router := newRouterWithAuth(fake)

	req := jsonRequest(t, http.MethodPost, "/api/auth/register",
		map[string]string{"username": "alice", "email": "a@b.c", "password": "pw"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want %d", w.Code, http.StatusBadRequest)
	}
}

func TestLogin_SetsCookieAndReturnsToken(t *testing.T) {
	fake := &recordingAuthService{fakeAuthService: fakeAuthService{user: &models.User{ID: "u1", Username: "alice"}}}
	router := newRouterWithAuth(fake)

	req := jsonRequest(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice", "password": "pw"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}
	if fake.username != "alice" || fake.password != "pw" {
		t.Errorf("service called with %q/%q; want alice/pw", fake.username, fake.password)
	}

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("token missing from response body")
	}

	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			found = true
			if !c.HttpOnly {
				t.Error("token cookie must be HttpOnly")
			}
			if c.Value != resp.Token {
				t.Error("cookie token differs from body token")
			}
		}
	}
	if !found {
		t.Error("token cookie not set")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	fake := &fakeAuthService{err: fmt.Errorf("%w: invalid username or password", noteerr.ErrUnauthenticated)}
	router := newRouterWithAuth(fake)

	req := jsonRequest(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "alice", "password": "wrong"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusUnauthorized)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "unauthenticated" {
		t.Errorf("error kind = %q; want unauthenticated", resp.Error)
	}
}

func TestMe_ReturnsProfile(t *testing.T) {
	fake := &fakeAuthService{user: &models.User{ID: "u1", Username: "alice", Email: "a@b.c"}}
	router := newRouterWithAuth(fake)

	req := authedRequest(t, http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}
	var u models.User
	if err := json.NewDecoder(w.Body).Decode(&u); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if u.Email != "a@b.c" {
		t.Errorf("email = %q; want a@b.c", u.Email)
	}
}

func TestLogout_ExpiresCookie(t *testing.T) {
	router := newRouterWithAuth(&fakeAuthService{user: &models.User{ID: "u1"}})

	req := authedRequest(t, http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	var found bool
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			found = true
			if c.Value != "" {
				t.Errorf("cookie value = %q; want empty", c.Value)
			}
		}
	}
	if !found {
		t.Error("expiring cookie not set")
	}
}
