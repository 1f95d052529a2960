// Package session holds the client-side editing state for one open
// note. It decides locally whether the user may type, keeps an edit
// buffer apart from the canonical record, and serializes saves so a
// slow response can never clobber a newer edit.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/notely/notely/internal/access"
	"github.com/notely/notely/internal/models"
	"github.com/notely/notely/internal/noteerr"
)

// NoteAPI is the slice of the REST client a session needs.
type NoteAPI interface {
	GetNote(ctx context.Context, id string) (*models.Note, error)
	UpdateNote(ctx context.Context, id string, p models.NotePatch) (*models.Note, error)
}

// State is the lifecycle phase of a session.
type State int

const (
	// Uninitialized means Open has not been called.
	Uninitialized State = iota
	// Loading means the initial fetch is in flight.
	Loading
	// Ready means the buffer matches the canonical record.
	Ready
	// Editing means the buffer holds unsaved local edits.
	Editing
	// Saving means a save is in flight and no newer edit exists.
	Saving
	// Errored means the last save failed and resync also failed; the
	// buffer may diverge from the server.
	Errored
)

// String returns the lifecycle phase name.
func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	case Errored:
		return "errored"
	default:
		return "uninitialized"
	}
}

// Session is the editing state for one note opened by one user. All
// methods are safe for concurrent use.
type Session struct {
	api    NoteAPI
	userID string

	mu       sync.Mutex
	state    State
	note     *models.Note
	title    string
	content  string
	canEdit  bool
	seq      uint64 // bumped on every local edit
	savedSeq uint64 // highest seq acknowledged by the server
	lastErr  error

	wg sync.WaitGroup
}

// New returns a session acting as userID against the given transport.
func New(api NoteAPI, userID string) *Session {
	return &Session{api: api, userID: userID}
}

// Open loads the note and moves the session to Ready. The editability
// decision is made here, from the fetched record, with the same
// permission rules the server applies.
func (s *Session) Open(ctx context.Context, noteID string) error {
	s.mu.Lock()
	s.state = Loading
	s.mu.Unlock()

	n, err := s.api.GetNote(ctx, noteID)
	if err != nil {
		s.mu.Lock()
		s.state = Errored
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adopt(n)
	s.state = Ready
	s.lastErr = nil
	return nil
}

// adopt replaces the canonical record and resets the buffer to it.
// Callers hold s.mu.
func (s *Session) adopt(n *models.Note) {
	s.note = n
	s.title = n.Title
	s.content = n.Content
	s.canEdit = access.ResolveLevel(n, s.userID).Allows(access.Edit)
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CanEdit reports whether local edits are accepted. Owners and editors
// may type; viewers get a read-only session.
func (s *Session) CanEdit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canEdit
}

// Title returns the buffered title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Content returns the buffered content.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Note returns a copy of the canonical record, nil before Open.
func (s *Session) Note() *models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.note == nil {
		return nil
	}
	n := *s.note
	return &n
}

// LastError returns the error from the most recent failed operation,
// nil after a clean save or resync.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// SetTitle records a local title edit.
func (s *Session) SetTitle(title string) error {
	return s.edit(func() { s.title = title })
}

// SetContent records a local content edit.
func (s *Session) SetContent(content string) error {
	return s.edit(func() { s.content = content })
}

func (s *Session) edit(apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.note == nil {
		return fmt.Errorf("%w: session not opened", noteerr.ErrInvalidArgument)
	}
	if !s.canEdit {
		return fmt.Errorf("%w: read-only session", noteerr.ErrForbidden)
	}
	apply()
	s.seq++
	s.state = Editing
	return nil
}

// Save snapshots the buffer and sends it asynchronously. Title and
// content always travel together, so a save is a full-record write and
// concurrent saves resolve last-write-wins. A response belonging to a
// snapshot older than the newest local edit is discarded: it must not
// roll the buffer back. A failed save triggers a resync that replaces
// the buffer with the canonical record.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.note == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: session not opened", noteerr.ErrInvalidArgument)
	}
	if !s.canEdit {
		s.mu.Unlock()
		return fmt.Errorf("%w: read-only session", noteerr.ErrForbidden)
	}
	if s.seq == s.savedSeq {
		s.mu.Unlock()
		return nil
	}

	snapSeq := s.seq
	title, content := s.title, s.content
	noteID := s.note.ID
	s.state = Saving
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		n, err := s.api.UpdateNote(ctx, noteID, models.NotePatch{Title: &title, Content: &content})
		s.settle(ctx, snapSeq, n, err)
	}()
	return nil
}

// settle applies the outcome of one save attempt.
func (s *Session) settle(ctx context.Context, snapSeq uint64, n *models.Note, err error) {
	s.mu.Lock()

	if err == nil {
		if snapSeq > s.savedSeq {
			s.savedSeq = snapSeq
		}
		if snapSeq == s.seq {
			// Latest snapshot acknowledged: the canonical record may
			// replace the buffer.
			s.adopt(n)
			s.state = Ready
			s.lastErr = nil
		}
		// A stale success only advances savedSeq; the buffer already
		// holds newer edits and the state stays Editing.
		s.mu.Unlock()
		return
	}

	if snapSeq < s.seq {
		// A newer edit exists; its own save will report the truth.
		s.mu.Unlock()
		return
	}

	s.state = Errored
	s.lastErr = err
	s.mu.Unlock()

	s.resync(ctx)
}

// resync refetches the canonical record after a failed save. The
// divergent buffer is discarded; if the failure was a revocation the
// refreshed record flips the session to read-only, and if the note is
// gone the session stays Errored.
func (s *Session) resync(ctx context.Context) {
	n, err := s.api.GetNote(ctx, s.noteID())
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = Errored
		s.lastErr = err
		return
	}
	s.adopt(n)
	s.savedSeq = s.seq
	s.state = Ready
	s.lastErr = nil
}

func (s *Session) noteID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.note.ID
}

// Wait blocks until every in-flight save has settled.
func (s *Session) Wait() {
	s.wg.Wait()
}
