package models

import "time"

type Project struct {
	ID         string
	UserID     string
	Name       string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// ProjectDetails is a project joined with its tasks and notes at read time.
type ProjectDetails struct {
	Project
	Tasks []*Task
	Notes []*Note
}

// Scope restricts a listing by project membership.
type Scope int

const (
	ScopeAny Scope = iota
	ScopeStandalone
	ScopeProject
)
