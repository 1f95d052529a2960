// Package api implements the REST client for the note service. Every
// failure is mapped back onto the shared error taxonomy, so callers
// can branch with errors.Is exactly as server-side code does.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/notely/notely/internal/models"
	"github.com/notely/notely/internal/noteerr"
)

// Client talks to one note server. It is safe for concurrent use once
// the token has been set by Login.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a Client pointed at baseURL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs an identity token obtained out of band.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current identity token, empty before login.
func (c *Client) Token() string {
	return c.token
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, username, email, password, fullName string) (*models.User, error) {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
		"fullName": fullName,
	}
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login verifies credentials and stores the returned token for
// subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp.User, nil
}

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateNoteParams mirrors the note-creation payload.
type CreateNoteParams struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	NotebookID string `json:"notebookId,omitempty"`
	PageType   string `json:"pageType,omitempty"`
	PageColor  string `json:"pageColor,omitempty"`
	Margins    string `json:"margins,omitempty"`
	IsPinned   bool   `json:"isPinned,omitempty"`
	IsArchived bool   `json:"isArchived,omitempty"`
}

// CreateNote makes a new note owned by the authenticated user.
func (c *Client) CreateNote(ctx context.Context, p CreateNoteParams) (*models.Note, error) {
	var n models.Note
	if err := c.do(ctx, http.MethodPost, "/api/notes", p, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotes returns the notes visible to the authenticated user,
// owned and shared alike.
func (c *Client) ListNotes(ctx context.Context, f models.NoteFilter) ([]models.Note, error) {
	q := url.Values{}
	if f.NotebookID != "" {
		q.Set("notebookId", f.NotebookID)
	}
	if f.IsPinned != nil {
		q.Set("isPinned", fmt.Sprintf("%t", *f.IsPinned))
	}
	if f.IsArchived != nil {
		q.Set("isArchived", fmt.Sprintf("%t", *f.IsArchived))
	}
	path := "/api/notes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var notes []models.Note
	if err := c.do(ctx, http.MethodGet, path, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// GetNote fetches one note by id. A note the user cannot see yields
// ErrNotFound, indistinguishable from a nonexistent one.
func (c *Client) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var n models.Note
	if err := c.do(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(id), nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNote applies a partial patch and returns the canonical
// post-update record.
func (c *Client) UpdateNote(ctx context.Context, id string, p models.NotePatch) (*models.Note, error) {
	var n models.Note
	if err := c.do(ctx, http.MethodPatch, "/api/notes/"+url.PathEscape(id), p, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// DeleteNote destroys a note. Owner only.
func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), nil, nil)
}

// AddCollaborator shares a note with another user by username.
func (c *Client) AddCollaborator(ctx context.Context, noteID, username string, role models.Role) (*models.Note, error) {
	body := map[string]string{"username": username, "role": string(role)}
	var n models.Note
	if err := c.do(ctx, http.MethodPost, "/api/notes/"+url.PathEscape(noteID)+"/collaborators", body, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// RemoveCollaborator revokes a user's access to a note.
func (c *Client) RemoveCollaborator(ctx context.Context, noteID, username string) (*models.Note, error) {
	body := map[string]string{"username": username}
	var n models.Note
	if err := c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(noteID)+"/collaborators", body, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNotebook makes a new notebook.
func (c *Client) CreateNotebook(ctx context.Context, name, color string) (*models.Notebook, error) {
	body := map[string]string{"name": name, "color": color}
	var nb models.Notebook
	if err := c.do(ctx, http.MethodPost, "/api/notebooks", body, &nb); err != nil {
		return nil, err
	}
	return &nb, nil
}

// ListNotebooks returns the user's notebooks.
func (c *Client) ListNotebooks(ctx context.Context) ([]models.Notebook, error) {
	var nbs []models.Notebook
	if err := c.do(ctx, http.MethodGet, "/api/notebooks", nil, &nbs); err != nil {
		return nil, err
	}
	return nbs, nil
}

// DeleteNotebook removes a notebook along with every note filed in it.
func (c *Client) DeleteNotebook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notebooks/"+url.PathEscape(id), nil, nil)
}

// do executes one request. Non-2xx responses are decoded into the
// taxonomy: the body's error kind becomes the sentinel, the message
// becomes the wrapping text.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", noteerr.ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns an error response into a sentinel-wrapped error.
// Bodies that are not the structured shape still map via status code.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return fmt.Errorf("%w: %s", noteerr.FromKind(body.Error), body.Message)
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		sentinel = noteerr.ErrUnauthenticated
	case http.StatusNotFound:
		sentinel = noteerr.ErrNotFound
	case http.StatusForbidden:
		sentinel = noteerr.ErrForbidden
	case http.StatusBadRequest:
		sentinel = noteerr.ErrInvalidArgument
	case http.StatusConflict:
		sentinel = noteerr.ErrConflict
	default:
		sentinel = noteerr.ErrInternal
	}
	return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
}
