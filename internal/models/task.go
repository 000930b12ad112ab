package models

import "time"

type Task struct {
	ID            string
	UserID        string
	Text          string
	Completed     bool
	ScheduledDate time.Time
	// ProjectID is nil for standalone tasks.
	ProjectID     *string
	IsProjectTask bool
	CreatedAt     time.Time
}

// TaskUpdate holds the fields of a partial task update.
// A nil field is left untouched.
type TaskUpdate struct {
	Text          *string
	Completed     *bool
	ScheduledDate *time.Time
}

func (u TaskUpdate) IsEmpty() bool {
	return u.Text == nil && u.Completed == nil && u.ScheduledDate == nil
}

// Apply copies the present fields of u onto the task.
func (t *Task) Apply(u TaskUpdate) {
	if u.Text != nil {
		t.Text = *u.Text
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	if u.ScheduledDate != nil {
		t.ScheduledDate = *u.ScheduledDate
	}
}

// TaskKey identifies a task within its owner's scope. When ProjectID is set,
// the task must also be a member of that project.
type TaskKey struct {
	ID        string
	UserID    string
	ProjectID string
}

type TaskOrder int

const (
	// TaskOrderSchedule sorts by completion, then scheduled date ascending.
	TaskOrderSchedule TaskOrder = iota
	// TaskOrderCreated sorts by completion, then creation time descending.
	TaskOrderCreated
)

type TaskFilter struct {
	UserID    string
	Scope     Scope
	ProjectID string
	// ScheduledFrom and ScheduledTo bound the scheduled date as [from, to).
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	Order         TaskOrder
}
