package models

import "time"

type Note struct {
	ID            string
	UserID        string
	Title         string
	Content       string
	ProjectID     *string
	IsProjectNote bool
	CreatedAt     time.Time
	LastModified  time.Time
}

// NoteUpdate holds the fields of a partial note update.
type NoteUpdate struct {
	Title   *string
	Content *string
}

func (u NoteUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil
}

func (n *Note) Apply(u NoteUpdate) {
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Content != nil {
		n.Content = *u.Content
	}
}

type NoteKey struct {
	ID        string
	UserID    string
	ProjectID string
}

// NoteFilter selects notes of a single owner. Notes are always ordered
// by last modification, newest first.
type NoteFilter struct {
	UserID    string
	Scope     Scope
	ProjectID string
}
