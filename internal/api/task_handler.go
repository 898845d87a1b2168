package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/taskwise/taskwise-api/internal/api/shared"
	"github.com/taskwise/taskwise-api/internal/domain"
	"github.com/taskwise/taskwise-api/internal/service"
	"github.com/taskwise/taskwise-api/internal/store"
)

// TaskHandler handles task-related HTTP requests.
//
// The owner ID is resolved once at startup (the bootstrapped default user)
// and passed explicitly into every service call that creates data. There is
// deliberately no hardcoded owner below this point; an auth layer would only
// change where this ID comes from.
type TaskHandler struct {
	taskService service.TaskService
	ownerID     uuid.UUID
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler acting on behalf of the given owner.
func NewTaskHandler(taskService service.TaskService, ownerID uuid.UUID, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		ownerID:     ownerID,
		validator:   validator.New(),
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// RegisterRoutes mounts all task routes on the given router.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.CreateTask)
		r.Get("/", h.ListTasks)
		r.Post("/generate", h.GenerateTasks)
		r.Get("/categories", h.Categories)
		r.Get("/search", h.SearchTasks)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTask)
			r.Put("/", h.UpdateTask)
			r.Delete("/", h.DeleteTask)
			r.Put("/complete", h.ToggleCompletion)
			r.Post("/notes", h.AppendNote)
			r.Put("/progress", h.SetProgress)
			r.Get("/assistance", h.GetAssistance)
			r.Post("/subtasks", h.GenerateSubtasks)
			r.Get("/subtasks", h.ListSubtasks)
		})
	})
}

// GenerateTasks handles POST /tasks/generate requests.
// The returned drafts are not persisted; a malformed upstream reply degrades
// to a single fallback draft rather than failing the request.
func (h *TaskHandler) GenerateTasks(w http.ResponseWriter, r *http.Request) {
	var req GenerateTasksRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	drafts, err := h.taskService.GenerateTasks(r.Context(), req.Prompt)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, drafts)
}

// CreateTask handles POST /tasks/ requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.Create(r.Context(), h.ownerID, draftFromCreateRequest(req))
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /tasks/ requests with skip/limit pagination.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	skip, ok := queryInt(w, r, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", 100)
	if !ok {
		return
	}

	tasks, err := h.taskService.List(r.Context(), skip, limit)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Categories handles GET /tasks/categories requests.
func (h *TaskHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.taskService.Categories(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// SearchTasks handles GET /tasks/search requests.
// All filters are optional and AND-combined.
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	filter := store.TaskFilter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Priority: domain.Priority(r.URL.Query().Get("priority")),
	}

	if completed := r.URL.Query().Get("completed"); completed != "" {
		value, err := strconv.ParseBool(completed)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest,
				"Query parameter 'completed' must be a boolean")
			return
		}
		filter.Completed = &value
	}

	tasks, err := h.taskService.Search(r.Context(), filter)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// UpdateTask handles PUT /tasks/{id} requests; only provided fields change.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.taskService.Update(r.Context(), id, updateFromRequest(req))
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Success)
}

// ToggleCompletion handles PUT /tasks/{id}/complete requests.
func (h *TaskHandler) ToggleCompletion(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.ToggleCompletion(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// AppendNote handles POST /tasks/{id}/notes requests.
func (h *TaskHandler) AppendNote(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	var req AppendNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.taskService.AppendNote(r.Context(), id, req.Note); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Success)
}

// SetProgress handles PUT /tasks/{id}/progress requests.
func (h *TaskHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	var req SetProgressRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.taskService.SetProgress(r.Context(), id, *req.Progress); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, shared.Success)
}

// GetAssistance handles GET /tasks/{id}/assistance requests.
func (h *TaskHandler) GetAssistance(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	report, err := h.taskService.Assist(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// GenerateSubtasks handles POST /tasks/{id}/subtasks requests.
// Children are persisted in one batch; an upstream or parse failure creates
// nothing.
func (h *TaskHandler) GenerateSubtasks(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	subtasks, err := h.taskService.GenerateSubtasks(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, tasksToResponse(subtasks))
}

// ListSubtasks handles GET /tasks/{id}/subtasks requests.
func (h *TaskHandler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromRequest(w, r)
	if !ok {
		return
	}

	subtasks, err := h.taskService.Subtasks(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(subtasks))
}

// respondWithServiceError translates a service error into a sanitized HTTP
// error response, logging the full details.
func (h *TaskHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// taskIDFromRequest extracts and parses the {id} route parameter.
// Writes a 400 response and returns false when the ID is not a valid UUID.
func taskIDFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt parses a non-negative integer query parameter with a default.
// Writes a 400 response and returns false on a malformed or negative value.
func queryInt(w http.ResponseWriter, r *http.Request, name string, defaultValue int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Query parameter '"+name+"' must be a non-negative integer")
		return 0, false
	}
	return value, true
}
