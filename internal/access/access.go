// Package access is the single place where note permissions are
// decided. Every read and every mutation, server- or client-side, asks
// this package instead of inspecting owner/collaborator fields inline.
package access

import "github.com/notely/notely/internal/models"

// Level is the effective privilege of a user with respect to one note.
// Levels are totally ordered: None < Viewer < Editor < Owner.
type Level int

const (
	// None means the user has no relation to the note.
	None Level = iota
	// Viewer may read the note.
	Viewer
	// Editor may read the note and modify its title and content.
	Editor
	// Owner holds full authority: read, edit, manage collaborators,
	// delete. Ownership is implicit, never stored as a collaborator
	// entry.
	Owner
)

// String returns the wire name of the level.
func (l Level) String() string {
	switch l {
	case Owner:
		return "owner"
	case Editor:
		return "editor"
	case Viewer:
		return "viewer"
	default:
		return "none"
	}
}

// Operation is a permission-relevant action on a note.
type Operation int

const (
	// Read covers fetching the note and appearing in list results.
	Read Operation = iota
	// Edit covers title and content mutation.
	Edit
	// ManageCollaborators covers adding and removing collaborator
	// entries.
	ManageCollaborators
	// Delete covers destroying the note.
	Delete
)

// ResolveLevel computes the acting user's effective level for a note.
// The owner check runs first and is exclusive: an id that is both
// owner and (invalidly) listed as collaborator still resolves to
// Owner.
func ResolveLevel(n *models.Note, userID string) Level {
	if userID == "" {
		return None
	}
	if n.Owner.ID == userID {
		return Owner
	}
	for _, c := range n.Collaborators {
		if c.User.ID == userID {
			return fromRole(c.Role)
		}
	}
	return None
}

// Allows reports whether the level permits the operation, per the
// permission table:
//
//	operation            owner  editor  viewer  none
//	read                   ✓      ✓       ✓      ✗
//	edit title/content     ✓      ✓       ✗      ✗
//	manage collaborators   ✓      ✗       ✗      ✗
//	delete note            ✓      ✗       ✗      ✗
func (l Level) Allows(op Operation) bool {
	return l >= required(op)
}

// required returns the minimum level for an operation.
func required(op Operation) Level {
	switch op {
	case Read:
		return Viewer
	case Edit:
		return Editor
	case ManageCollaborators, Delete:
		return Owner
	default:
		return Owner
	}
}

// fromRole maps a stored collaborator role to a level. Unknown role
// strings grant nothing.
func fromRole(r models.Role) Level {
	switch r {
	case models.RoleEditor:
		return Editor
	case models.RoleViewer:
		return Viewer
	default:
		return None
	}
}
