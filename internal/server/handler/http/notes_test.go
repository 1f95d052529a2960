package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/notely/notely/internal/auth"
	"github.com/notely/notely/internal/models"
	"github.com/notely/notely/internal/noteerr"
	handler "github.com/notely/notely/internal/server/handler/http"
	"github.com/notely/notely/internal/service"
)

var secret = []byte("test-secret")

// fakeNoteService records calls and returns preconfigured results.
type fakeNoteService struct {
	note  *models.Note
	notes []models.Note
	err   error

	lastNoteID string
	lastUserID string
	lastPatch  models.NotePatch
	lastTarget string
	lastRole   models.Role
}

func (f *fakeNoteService) Create(_ context.Context, ownerID string, _ service.CreateNoteParams) (*models.Note, error) {
	f.lastUserID = ownerID
	return f.note, f.err
}

func (f *fakeNoteService) Fetch(_ context.Context, noteID, userID string) (*models.Note, error) {
	f.lastNoteID, f.lastUserID = noteID, userID
	return f.note, f.err
}

func (f *fakeNoteService) List(_ context.Context, userID string, _ models.NoteFilter) ([]models.Note, error) {
	f.lastUserID = userID
	return f.notes, f.err
}

func (f *fakeNoteService) Update(_ context.Context, noteID, userID string, p models.NotePatch) (*models.Note, error) {
	f.lastNoteID, f.lastUserID, f.lastPatch = noteID, userID, p
	return f.note, f.err
}

func (f *fakeNoteService) Delete(_ context.Context, noteID, userID string) error {
	f.lastNoteID, f.lastUserID = noteID, userID
	return f.err
}

func (f *fakeNoteService) AddCollaborator(_ context.Context, noteID, userID, target string, role models.Role) (*models.Note, error) {
	f.lastNoteID, f.lastUserID, f.lastTarget, f.lastRole = noteID, userID, target, role
	return f.note, f.err
}

func (f *fakeNoteService) RemoveCollaborator(_ context.Context, noteID, userID, target string) (*models.Note, error) {
	f.lastNoteID, f.lastUserID, f.lastTarget = noteID, userID, target
	return f.note, f.err
}

// fakeAuthService satisfies the auth handler interface; only UserByID
// is exercised here.
type fakeAuthService struct {
	user *models.User
	err  error
}

func (f *fakeAuthService) Register(context.Context, string, string, string, string) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeAuthService) Login(context.Context, string, string) (string, *models.User, error) {
	return "token", f.user, f.err
}

func (f *fakeAuthService) UserByID(context.Context, string) (*models.User, error) {
	return f.user, f.err
}

type fakeNotebookService struct{}

func (fakeNotebookService) Create(context.Context, string, string, string) (*models.Notebook, error) {
	return &models.Notebook{}, nil
}
func (fakeNotebookService) List(context.Context, string) ([]models.Notebook, error) { return nil, nil }
func (fakeNotebookService) Delete(context.Context, string, string) error            { return nil }

func newRouter(notes *fakeNoteService) http.Handler {
	return handler.NewRouter(
		&handler.AuthHandler{AuthService: &fakeAuthService{user: &models.User{ID: "u1"}}, Logger: zap.NewNop()},
		&handler.NoteHandler{NoteService: notes, Logger: zap.NewNop()},
		&handler.NotebookHandler{NotebookService: fakeNotebookService{}, Logger: zap.NewNop()},
		secret,
		zap.NewNop(),
	)
}

func newRouterWithAuth(svc handler.AuthService) http.Handler {
	return handler.NewRouter(
		&handler.AuthHandler{AuthService: svc, Logger: zap.NewNop()},
		&handler.NoteHandler{NoteService: &fakeNoteService{}, Logger: zap.NewNop()},
		&handler.NotebookHandler{NotebookService: fakeNotebookService{}, Logger: zap.NewNop()},
		secret,
		zap.NewNop(),
	)
}

// jsonRequest builds an unauthenticated request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// authedRequest builds a request carrying a freshly minted bearer
// token for user u1.
func authedRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	req := jsonRequest(t, method, target, body)
	token, err := auth.GenerateToken("u1", secret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestNotes_Unauthenticated(t *testing.T) {
	router := newRouter(&fakeNoteService{})
	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestGetNote_Success(t *testing.T) {
	fake := &fakeNoteService{note: &models.Note{ID: "n1", Title: "T", Content: "C"}}
	router := newRouter(fake)

	req := authedRequest(t, http.MethodGet, "/api/notes/n1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}
	if fake.lastNoteID != "n1" || fake.lastUserID != "u1" {
		t.Errorf("service called with note %q user %q; want n1/u1", fake.lastNoteID, fake.lastUserID)
	}

	var got models.Note
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Title != "T" || got.Content != "C" {
		t.Errorf("note = %+v; want title T content C", got)
	}
}

func TestGetNote_NotFoundShape(t *testing.T) {
	fake := &fakeNoteService{err: noteerr.ErrNotFound}
	router := newRouter(fake)

	req := authedRequest(t, http.MethodGet, "/api/notes/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusNotFound)
	}
	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "not_found" {
		t.Errorf("error kind = %q; want not_found", resp.Error)
	}
}

func TestUpdateNote_Forbidden(t *testing.T) {
	fake := &fakeNoteService{err: fmt.Errorf("%w: editing requires the editor role", noteerr.ErrForbidden)}
	router := newRouter(fake)

	req := authedRequest(t, http.MethodPatch, "/api/notes/n1", map[string]string{"content": "X"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d; want %d", w.Code, http.StatusForbidden)
	}
}

func TestUpdateNote_PatchDecoding(t *testing.T) {
	fake := &fakeNoteService{note: &models.Note{ID: "n1"}}
	router := newRouter(fake)

	req := authedRequest(t, http.MethodPatch, "/api/notes/n1", map[string]string{"title": "New"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if fake.lastPatch.Title == nil || *fake.lastPatch.Title != "New" {
		t.Errorf("patch title = %v; want New", fake.lastPatch.Title)
	}
	if fake.lastPatch.Content != nil {
		t.Errorf("patch content = %v; want nil (field not provided)", fake.lastPatch.Content)
	}
}

func TestUpdateNote_BadJSON(t *testing.T) {
	router := newRouter(&fakeNoteService{})

	req := httptest.NewRequest(http.MethodPatch, "/api/notes/n1", bytes.NewBufferString("not-a-json"))
	req.Header.Set("Content-Type", "application/json")
	token, err := auth.GenerateToken("u1", secret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAddCollaborator_PassesRoleThrough(t *testing.T) {
	fake := &fakeNoteService{note: &models.Note{ID: "n1"}}
	router := newRouter(fake)

	req := authedRequest(t, http.MethodPost, "/api/notes/n1/collaborators",
		map[string]string{"username": "bob", "role": "viewer"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}
	if fake.lastTarget != "bob" || fake.lastRole != models.RoleViewer {
		t.Errorf("service called with target %q role %q; want bob/viewer", fake.lastTarget, fake.lastRole)
	}
}

func TestRemoveCollaborator(t *testing.T) {
	fake := &fakeNoteService{note: &models.Note{ID: "n1"}}
	router := newRouter(fake)

	req := authedRequest(t, http.MethodDelete, "/api/notes/n1/collaborators",
		map[string]string{"username": "bob"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if fake.lastTarget != "bob" {
		t.Errorf("target = %q; want bob", fake.lastTarget)
	}
}

func TestListNotes_EmptyIsArray(t *testing.T) {
	router := newRouter(&fakeNoteService{})

	req := authedRequest(t, http.MethodGet, "/api/notes?isArchived=false", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("body = %q; want empty JSON array", body)
	}
}

func TestDeleteNote(t *testing.T) {
	fake := &fakeNoteService{}
	router := newRouter(fake)

	req := authedRequest(t, http.MethodDelete, "/api/notes/n1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusOK)
	}
	if fake.lastNoteID != "n1" {
		t.Errorf("note id = %q; want n1", fake.lastNoteID)
	}
}

func TestInternalErrorIsGeneric(t *testing.T) {
	fake := &fakeNoteService{err: fmt.Errorf("pq: connection refused")}
	router := newRouter(fake)

	req := authedRequest(t, http.MethodGet, "/api/notes/n1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want %d", w.Code, http.StatusInternalServerError)
	}
	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "internal error" {
		t.Errorf("message = %q; internal detail must not leak", resp.Message)
	}
}
