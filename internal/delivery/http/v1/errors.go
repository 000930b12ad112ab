package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-planner/internal/services"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errMissingAuthHeader  = errors.New("authorization header required")
	errInvalidAuthHeader  = errors.New("invalid authorization header")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, err)
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

// newServiceError maps a service error to its response.
func newServiceError(err error) apiError {
	for _, target := range []error{
		services.ErrUserNotFound,
		services.ErrTaskNotFound,
		services.ErrNoteNotFound,
		services.ErrProjectNotFound,
	} {
		if errors.Is(err, target) {
			return newNotFoundError(target.Error())
		}
	}

	for _, target := range []error{
		services.ErrInvalidTaskText,
		services.ErrInvalidNoteTitle,
		services.ErrInvalidNoteContent,
		services.ErrInvalidProjectName,
	} {
		if errors.Is(err, target) {
			return newBadRequestError(target.Error())
		}
	}

	return newStatusTextError(http.StatusInternalServerError)
}
