package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-planner/internal/services"
)

type createProjectRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type createProjectNoteRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

func (h *handlerImpl) HandleGetProjects(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	projects, err := h.projects.ListProjects(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to list projects")
		abort(c, newServiceError(err))
		return
	}

	response := make([]getProjectDetailsResponse, len(projects))
	for i, project := range projects {
		response[i] = newGetProjectDetailsResponse(project)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req createProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	project, err := h.projects.CreateProject(c, services.CreateProjectParams{
		UserID: userID,
		Name:   req.Name,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to create project")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusCreated, newGetProjectDetailsResponse(project))
}

func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	project, err := h.projects.DeleteProject(c, services.DeleteProjectParams{
		ID:     c.Param("id"),
		UserID: userID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", c.Param("id")).
			Msg("failed to delete project")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetProjectResponse(project))
}

func (h *handlerImpl) HandleCreateProjectTask(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.projects.CreateProjectTask(c, services.CreateProjectTaskParams{
		ProjectID:     c.Param("id"),
		UserID:        userID,
		Text:          req.Text,
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", c.Param("id")).
			Msg("failed to create project task")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateProjectTask(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.projects.UpdateProjectTask(c, services.UpdateProjectTaskParams{
		ProjectID: c.Param("id"),
		TaskID:    c.Param("taskId"),
		UserID:    userID,
		Update:    req.update(),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", c.Param("id")).
			Str("task_id", c.Param("taskId")).
			Msg("failed to update project task")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteProjectTask(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	task, err := h.projects.DeleteProjectTask(c, services.DeleteProjectItemParams{
		ProjectID: c.Param("id"),
		ItemID:    c.Param("taskId"),
		UserID:    userID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", c.Param("id")).
			Str("task_id", c.Param("taskId")).
			Msg("failed to delete project task")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleCreateProjectNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req createProjectNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	note, err := h.projects.CreateProjectNote(c, services.CreateProjectNoteParams{
		ProjectID: c.Param("id"),
		UserID:    userID,
		Title:     req.Title,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", c.Param("id")).
			Msg("failed to create project note")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusCreated, newGetNoteResponse(note))
}

func (h *handlerImpl) HandleUpdateProjectNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req updateNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	note, err := h.projects.UpdateProjectNote(c, services.UpdateProjectNoteParams{
		ProjectID: c.Param("id"),
		NoteID:    c.Param("noteId"),
		UserID:    userID,
		Update:    req.update(),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", c.Param("id")).
			Str("note_id", c.Param("noteId")).
			Msg("failed to update project note")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetNoteResponse(note))
}

func (h *handlerImpl) HandleDeleteProjectNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	note, err := h.projects.DeleteProjectNote(c, services.DeleteProjectItemParams{
		ProjectID: c.Param("id"),
		ItemID:    c.Param("noteId"),
		UserID:    userID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("project_id", c.Param("id")).
			Str("note_id", c.Param("noteId")).
			Msg("failed to delete project note")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetNoteResponse(note))
}
