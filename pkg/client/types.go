package client

import "time"

type User struct {
	ID        string    `json:"_id"`
	GoogleID  string    `json:"googleId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Task struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"userId"`
	Text          string    `json:"text"`
	Completed     bool      `json:"completed"`
	ScheduledDate time.Time `json:"scheduledDate"`
	ProjectID     *string   `json:"projectId"`
	IsProjectTask bool      `json:"isProjectTask"`
	Created       time.Time `json:"created"`
}

type Note struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ProjectID     *string   `json:"projectId"`
	IsProjectNote bool      `json:"isProjectNote"`
	Created       time.Time `json:"created"`
	LastModified  time.Time `json:"lastModified"`
}

// Project carries its tasks and notes when listed or created.
type Project struct {
	ID       string    `json:"_id"`
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Tasks    []Task    `json:"tasks"`
	Notes    []Note    `json:"notes"`
}

type NewTask struct {
	Text string `json:"text"`
	// ScheduledDate defaults to the creation time on the server.
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
}

// TaskUpdate is a partial update. Nil fields are not sent.
type TaskUpdate struct {
	Text          *string    `json:"text,omitempty"`
	Completed     *bool      `json:"completed,omitempty"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
}

// NewNote creates a note with empty content. Set the content with a
// follow-up update.
type NewNote struct {
	Title string `json:"title"`
}

type NoteUpdate struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}
