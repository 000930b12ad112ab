package sqlite

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adanyl0v/go-planner/internal/models"
)

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// toMillis stores t as unix milliseconds, the precision every backend keeps.
// Unlike nanoseconds it covers any date a client can send.
func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// where joins AND-ed conditions the way the list queries need them.
type where struct {
	conditions []string
	args       []any
}

func (w *where) add(condition string, args ...any) {
	w.conditions = append(w.conditions, condition)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	return strings.Join(w.conditions, " AND ")
}

type userRow struct {
	ID        string `db:"id"`
	GoogleID  string `db:"google_id"`
	Email     string `db:"email"`
	Name      string `db:"name"`
	Picture   string `db:"picture"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

func (r userRow) model() *models.User {
	return &models.User{
		ID:        r.ID,
		GoogleID:  r.GoogleID,
		Email:     r.Email,
		Name:      r.Name,
		Picture:   r.Picture,
		CreatedAt: fromMillis(r.CreatedAt),
		UpdatedAt: fromMillis(r.UpdatedAt),
	}
}

type taskRow struct {
	ID            string  `db:"id"`
	UserID        string  `db:"user_id"`
	Text          string  `db:"text"`
	Completed     bool    `db:"completed"`
	ScheduledDate int64   `db:"scheduled_date"`
	ProjectID     *string `db:"project_id"`
	IsProjectTask bool    `db:"is_project_task"`
	CreatedAt     int64   `db:"created_at"`
}

func (r taskRow) model() *models.Task {
	return &models.Task{
		ID:            r.ID,
		UserID:        r.UserID,
		Text:          r.Text,
		Completed:     r.Completed,
		ScheduledDate: fromMillis(r.ScheduledDate),
		ProjectID:     r.ProjectID,
		IsProjectTask: r.IsProjectTask,
		CreatedAt:     fromMillis(r.CreatedAt),
	}
}

type noteRow struct {
	ID            string  `db:"id"`
	UserID        string  `db:"user_id"`
	Title         string  `db:"title"`
	Content       string  `db:"content"`
	ProjectID     *string `db:"project_id"`
	IsProjectNote bool    `db:"is_project_note"`
	CreatedAt     int64   `db:"created_at"`
	LastModified  int64   `db:"last_modified"`
}

func (r noteRow) model() *models.Note {
	return &models.Note{
		ID:            r.ID,
		UserID:        r.UserID,
		Title:         r.Title,
		Content:       r.Content,
		ProjectID:     r.ProjectID,
		IsProjectNote: r.IsProjectNote,
		CreatedAt:     fromMillis(r.CreatedAt),
		LastModified:  fromMillis(r.LastModified),
	}
}

type projectRow struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`
	Name       string `db:"name"`
	CreatedAt  int64  `db:"created_at"`
	ModifiedAt int64  `db:"modified_at"`
}

func (r projectRow) model() *models.Project {
	return &models.Project{
		ID:         r.ID,
		UserID:     r.UserID,
		Name:       r.Name,
		CreatedAt:  fromMillis(r.CreatedAt),
		ModifiedAt: fromMillis(r.ModifiedAt),
	}
}
