package access_test

import (
	"testing"

	"github.com/notely/notely/internal/access"
	"github.com/notely/notely/internal/models"
)

func note(ownerID string, collabs ...models.Collaborator) *models.Note {
	return &models.Note{
		ID:            "n1",
		Owner:         models.UserRef{ID: ownerID, Username: "owner"},
		Collaborators: collabs,
	}
}

func collab(userID string, role models.Role) models.Collaborator {
	return models.Collaborator{User: models.UserRef{ID: userID}, Role: role}
}

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		name   string
		note   *models.Note
		userID string
		want   access.Level
	}{
		{"owner", note("u1"), "u1", access.Owner},
		{"editor", note("u1", collab("u2", models.RoleEditor)), "u2", access.Editor},
		{"viewer", note("u1", collab("u2", models.RoleViewer)), "u2", access.Viewer},
		{"unrelated", note("u1", collab("u2", models.RoleEditor)), "u3", access.None},
		{"empty user id", note("u1"), "", access.None},
		{"second collaborator", note("u1", collab("u2", models.RoleEditor), collab("u3", models.RoleViewer)), "u3", access.Viewer},
		{"unknown stored role grants nothing", note("u1", collab("u2", models.Role("admin"))), "u2", access.None},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := access.ResolveLevel(tc.note, tc.userID); got != tc.want {
				t.Errorf("ResolveLevel = %v; want %v", got, tc.want)
			}
		})
	}
}

// The owner check is exclusive: even if the owner id is (invalidly)
// present in the collaborator list, the owner resolves to Owner.
func TestResolveLevel_OwnerWinsOverCollaboratorEntry(t *testing.T) {
	n := note("u1", collab("u1", models.RoleViewer))
	if got := access.ResolveLevel(n, "u1"); got != access.Owner {
		t.Errorf("ResolveLevel = %v; want Owner", got)
	}
}

func TestAllows(t *testing.T) {
	type row struct {
		level access.Level
		read  bool
		edit  bool
		mng   bool
		del   bool
	}
	table := []row{
		{access.Owner, true, true, true, true},
		{access.Editor, true, true, false, false},
		{access.Viewer, true, false, false, false},
		{access.None, false, false, false, false},
	}

	for _, r := range table {
		t.Run(r.level.String(), func(t *testing.T) {
			if got := r.level.Allows(access.Read); got != r.read {
				t.Errorf("Allows(Read) = %v; want %v", got, r.read)
			}
			if got := r.level.Allows(access.Edit); got != r.edit {
				t.Errorf("Allows(Edit) = %v; want %v", got, r.edit)
			}
			if got := r.level.Allows(access.ManageCollaborators); got != r.mng {
				t.Errorf("Allows(ManageCollaborators) = %v; want %v", got, r.mng)
			}
			if got := r.level.Allows(access.Delete); got != r.del {
				t.Errorf("Allows(Delete) = %v; want %v", got, r.del)
			}
		})
	}
}

func TestLevelOrdering(t *testing.T) {
	if !(access.None < access.Viewer && access.Viewer < access.Editor && access.Editor < access.Owner) {
		t.Fatal("levels are not totally ordered None < Viewer < Editor < Owner")
	}
}
