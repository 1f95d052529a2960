package models

// NotePatch carries the optional fields of a note update. Nil fields
// are left untouched. The editor always sends Title and Content
// together, so concurrent full-record saves are last-write-wins; the
// patch form does not make independent field-level edits merge-safe.
type NotePatch struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	NotebookID *string `json:"notebookId,omitempty"`
	PageType   *string `json:"pageType,omitempty"`
	PageColor  *string `json:"pageColor,omitempty"`
	Margins    *string `json:"margins,omitempty"`
	IsPinned   *bool   `json:"isPinned,omitempty"`
	IsArchived *bool   `json:"isArchived,omitempty"`
}

// NoteFilter narrows note list results.
type NoteFilter struct {
	NotebookID string
	IsPinned   *bool
	IsArchived *bool
}
