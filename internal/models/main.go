// Package models defines the core data structures for users, notebooks,
// and notes.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the unique login name chosen by the user.
	Username string `json:"username"`
	// Email is the unique email address of the user.
	Email string `json:"email"`
	// FullName is the display name of the user.
	FullName string `json:"fullName"`
	// PasswordHash is the bcrypt hash of the user's password.
	// It is never serialized.
	PasswordHash []byte `json:"-"`
	// CreatedAt is the registration timestamp.
	CreatedAt time.Time `json:"createdAt"`
}

// UserRef is the subset of User embedded in note records for display.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Ref returns the display reference for the user.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName}
}

// Notebook groups notes for one user. A notebook is exclusively owned;
// deleting it cascades deletion of the notes filed into it.
type Notebook struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// Role identifies what a collaborator may do with a note. The owner's
// authority is implicit and is never stored as a collaborator role.
type Role string

const (
	// RoleEditor may read and modify title/content.
	RoleEditor Role = "editor"
	// RoleViewer may only read.
	RoleViewer Role = "viewer"
)

// ValidCollaboratorRole reports whether r may be assigned to a
// collaborator entry.
func ValidCollaboratorRole(r Role) bool {
	return r == RoleEditor || r == RoleViewer
}

// Collaborator is one entry of a note's collaborator list.
type Collaborator struct {
	User UserRef `json:"user"`
	Role Role    `json:"role"`
}

// Page layout metadata values. Presentation only; access control never
// consults them.
const (
	PageTypeDefault = "default"
	PageTypeRuled   = "ruled"
	PageTypeGrid    = "grid"
	PageTypeDotted  = "dotted"

	MarginsNarrow = "narrow"
	MarginsNormal = "normal"
	MarginsWide   = "wide"
)

// Note is the central entity. Exactly one owner, an ordered
// collaborator list with pairwise-distinct user ids, and opaque text
// content that may carry inline highlight/color markup.
type Note struct {
	ID            string         `json:"id"`
	Owner         UserRef        `json:"owner"`
	Collaborators []Collaborator `json:"collaborators"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	NotebookID    string         `json:"notebookId,omitempty"`
	PageType      string         `json:"pageType"`
	PageColor     string         `json:"pageColor"`
	Margins       string         `json:"margins"`
	IsPinned      bool           `json:"isPinned"`
	IsArchived    bool           `json:"isArchived"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}
