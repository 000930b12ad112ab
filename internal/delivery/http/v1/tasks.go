package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/services"
)

type createTaskRequest struct {
	Text          string     `json:"text" binding:"required,max=1000"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
}

type updateTaskRequest struct {
	Text          *string    `json:"text,omitempty" binding:"omitempty,max=1000"`
	Completed     *bool      `json:"completed,omitempty"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
}

func (r updateTaskRequest) update() models.TaskUpdate {
	return models.TaskUpdate{
		Text:          r.Text,
		Completed:     r.Completed,
		ScheduledDate: r.ScheduledDate,
	}
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c, services.ListTasksParams{
		UserID: userID,
		Today:  c.Query("today") == "true",
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to list tasks")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTasksResponse(tasks))
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:        userID,
		Text:          req.Text,
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to create task")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:     c.Param("id"),
		UserID: userID,
		Update: req.update(),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", c.Param("id")).
			Msg("failed to update task")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	task, err := h.tasks.DeleteTask(c, services.DeleteTaskParams{
		ID:     c.Param("id"),
		UserID: userID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", c.Param("id")).
			Msg("failed to delete task")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetTaskResponse(task))
}
