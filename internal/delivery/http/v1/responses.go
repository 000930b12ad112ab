package v1

import (
	"time"

	"github.com/adanyl0v/go-planner/internal/models"
)

type getUserResponse struct {
	ID        string    `json:"_id"`
	GoogleID  string    `json:"googleId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newGetUserResponse(user *models.User) getUserResponse {
	return getUserResponse{
		ID:        user.ID,
		GoogleID:  user.GoogleID,
		Email:     user.Email,
		Name:      user.Name,
		Picture:   user.Picture,
		CreatedAt: user.CreatedAt.UTC(),
		UpdatedAt: user.UpdatedAt.UTC(),
	}
}

type getTaskResponse struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"userId"`
	Text          string    `json:"text"`
	Completed     bool      `json:"completed"`
	ScheduledDate time.Time `json:"scheduledDate"`
	ProjectID     *string   `json:"projectId"`
	IsProjectTask bool      `json:"isProjectTask"`
	Created       time.Time `json:"created"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:            task.ID,
		UserID:        task.UserID,
		Text:          task.Text,
		Completed:     task.Completed,
		ScheduledDate: task.ScheduledDate.UTC(),
		ProjectID:     task.ProjectID,
		IsProjectTask: task.IsProjectTask,
		Created:       task.CreatedAt.UTC(),
	}
}

func newGetTasksResponse(tasks []*models.Task) []getTaskResponse {
	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}
	return response
}

type getNoteResponse struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ProjectID     *string   `json:"projectId"`
	IsProjectNote bool      `json:"isProjectNote"`
	Created       time.Time `json:"created"`
	LastModified  time.Time `json:"lastModified"`
}

func newGetNoteResponse(note *models.Note) getNoteResponse {
	return getNoteResponse{
		ID:            note.ID,
		UserID:        note.UserID,
		Title:         note.Title,
		Content:       note.Content,
		ProjectID:     note.ProjectID,
		IsProjectNote: note.IsProjectNote,
		Created:       note.CreatedAt.UTC(),
		LastModified:  note.LastModified.UTC(),
	}
}

func newGetNotesResponse(notes []*models.Note) []getNoteResponse {
	response := make([]getNoteResponse, len(notes))
	for i, note := range notes {
		response[i] = newGetNoteResponse(note)
	}
	return response
}

type getProjectResponse struct {
	ID       string    `json:"_id"`
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

func newGetProjectResponse(project *models.Project) getProjectResponse {
	return getProjectResponse{
		ID:       project.ID,
		UserID:   project.UserID,
		Name:     project.Name,
		Created:  project.CreatedAt.UTC(),
		Modified: project.ModifiedAt.UTC(),
	}
}

type getProjectDetailsResponse struct {
	getProjectResponse
	Tasks []getTaskResponse `json:"tasks"`
	Notes []getNoteResponse `json:"notes"`
}

func newGetProjectDetailsResponse(project *models.ProjectDetails) getProjectDetailsResponse {
	return getProjectDetailsResponse{
		getProjectResponse: newGetProjectResponse(&project.Project),
		Tasks:              newGetTasksResponse(project.Tasks),
		Notes:              newGetNotesResponse(project.Notes),
	}
}
