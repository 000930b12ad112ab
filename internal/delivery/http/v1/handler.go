package v1

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-planner/internal/services"
)

const healthPingTimeout = 2 * time.Second

type Handler interface {
	HandleHealth(c *gin.Context)

	HandleGoogleLogin(c *gin.Context)
	HandleGoogleCallback(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
	HandleGetProfile(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleGetNotes(c *gin.Context)
	HandleCreateNote(c *gin.Context)
	HandleUpdateNote(c *gin.Context)
	HandleDeleteNote(c *gin.Context)

	HandleGetProjects(c *gin.Context)
	HandleCreateProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)
	HandleCreateProjectTask(c *gin.Context)
	HandleUpdateProjectTask(c *gin.Context)
	HandleDeleteProjectTask(c *gin.Context)
	HandleCreateProjectNote(c *gin.Context)
	HandleUpdateProjectNote(c *gin.Context)
	HandleDeleteProjectNote(c *gin.Context)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	// FrontendURL is where the OAuth callback redirects after login.
	FrontendURL string
	// SecureCookies marks the OAuth state cookie as Secure.
	SecureCookies bool
}

type handlerImpl struct {
	logger   zerolog.Logger
	cfg      Config
	pinger   Pinger
	auth     services.AuthService
	tasks    services.TaskService
	notes    services.NoteService
	projects services.ProjectService
}

func New(
	logger zerolog.Logger,
	cfg Config,
	pinger Pinger,
	authService services.AuthService,
	taskService services.TaskService,
	noteService services.NoteService,
	projectService services.ProjectService,
) Handler {
	return &handlerImpl{
		logger:   logger,
		cfg:      cfg,
		pinger:   pinger,
		auth:     authService,
		tasks:    taskService,
		notes:    noteService,
		projects: projectService,
	}
}

// RegisterRoutes mounts every endpoint of h on the router.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/health", h.HandleHealth)

	authRouter := router.Group("/auth")
	authRouter.GET("/google", h.HandleGoogleLogin)
	authRouter.POST("/google", h.HandleGoogleLogin)
	authRouter.GET("/google/callback", h.HandleGoogleCallback)
	authRouter.POST("/google/callback", h.HandleGoogleCallback)

	apiRouter := router.Group("/api", h.HandleAuthMiddleware)
	apiRouter.GET("/user/profile", h.HandleGetProfile)

	tasksRouter := apiRouter.Group("/tasks")
	tasksRouter.GET("", h.HandleGetTasks)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.PATCH("/:id", h.HandleUpdateTask)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)

	notesRouter := apiRouter.Group("/notes")
	notesRouter.GET("", h.HandleGetNotes)
	notesRouter.POST("", h.HandleCreateNote)
	notesRouter.PATCH("/:id", h.HandleUpdateNote)
	notesRouter.DELETE("/:id", h.HandleDeleteNote)

	projectsRouter := apiRouter.Group("/projects")
	projectsRouter.GET("", h.HandleGetProjects)
	projectsRouter.POST("", h.HandleCreateProject)
	projectsRouter.DELETE("/:id", h.HandleDeleteProject)
	projectsRouter.POST("/:id/tasks", h.HandleCreateProjectTask)
	projectsRouter.PATCH("/:id/tasks/:taskId", h.HandleUpdateProjectTask)
	projectsRouter.DELETE("/:id/tasks/:taskId", h.HandleDeleteProjectTask)
	projectsRouter.POST("/:id/notes", h.HandleCreateProjectNote)
	projectsRouter.PATCH("/:id/notes/:noteId", h.HandleUpdateProjectNote)
	projectsRouter.DELETE("/:id/notes/:noteId", h.HandleDeleteProjectNote)
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, healthPingTimeout)
	defer cancel()

	err := h.pinger.Ping(ctx)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to ping storage")
		abort(c, newStatusTextError(http.StatusServiceUnavailable))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// userID returns the id set by the auth middleware. It aborts with 401
// when the request did not pass through it.
func (h *handlerImpl) userID(c *gin.Context) (string, bool) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok || userID == "" {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newStatusTextError(http.StatusUnauthorized))
		return "", false
	}
	return userID, true
}

// bindJSON binds the request body. An empty body leaves req untouched.
func (h *handlerImpl) bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return false
	}
	return true
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}
