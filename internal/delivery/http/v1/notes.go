package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-planner/internal/models"
	"github.com/adanyl0v/go-planner/internal/services"
)

type createNoteRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

type updateNoteRequest struct {
	Title   *string `json:"title,omitempty" binding:"omitempty,max=255"`
	Content *string `json:"content,omitempty" binding:"omitempty,max=100000"`
}

func (r updateNoteRequest) update() models.NoteUpdate {
	return models.NoteUpdate{
		Title:   r.Title,
		Content: r.Content,
	}
}

func (h *handlerImpl) HandleGetNotes(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	notes, err := h.notes.ListNotes(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to list notes")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetNotesResponse(notes))
}

func (h *handlerImpl) HandleCreateNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req createNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	note, err := h.notes.CreateNote(c, services.CreateNoteParams{
		UserID: userID,
		Title:  req.Title,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to create note")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusCreated, newGetNoteResponse(note))
}

func (h *handlerImpl) HandleUpdateNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req updateNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	note, err := h.notes.UpdateNote(c, services.UpdateNoteParams{
		ID:     c.Param("id"),
		UserID: userID,
		Update: req.update(),
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("note_id", c.Param("id")).
			Msg("failed to update note")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetNoteResponse(note))
}

func (h *handlerImpl) HandleDeleteNote(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	note, err := h.notes.DeleteNote(c, services.DeleteNoteParams{
		ID:     c.Param("id"),
		UserID: userID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("note_id", c.Param("id")).
			Msg("failed to delete note")
		abort(c, newServiceError(err))
		return
	}

	c.JSON(http.StatusOK, newGetNoteResponse(note))
}
