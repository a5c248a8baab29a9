package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shii2003/TaskManagementApp/apperrors"
	"github.com/shii2003/TaskManagementApp/middleware"
	"github.com/shii2003/TaskManagementApp/models"
	"github.com/shii2003/TaskManagementApp/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskHandler struct {
	TaskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{TaskService: taskService}
}

// callerID resolves the authenticated account id placed in the context by the
// auth middleware.
func callerID(r *http.Request) (primitive.ObjectID, error) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return primitive.NilObjectID, apperrors.Unauthorized("User not authenticated")
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return primitive.NilObjectID, apperrors.Unauthorized("User not authenticated")
	}
	return id, nil
}

func taskIDFromRequest(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		return primitive.NilObjectID, apperrors.BadRequest("Invalid task ID")
	}
	return id, nil
}

type CreateTaskRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	AssignedTo  string            `json:"assignedTo"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	owner, err := callerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperrors.BadRequest("Invalid request data"))
		return
	}

	task, err := h.TaskService.CreateTask(r.Context(), owner, req.Title, req.Description, req.Status, req.AssignedTo)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, models.SuccessResponse("Task created successfully", task))
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	owner, err := callerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	query := r.URL.Query()
	filter := models.TaskFilter{
		Status:     query.Get("status"),
		AssignedTo: query.Get("assignedTo"),
		Search:     query.Get("search"),
	}

	tasks, err := h.TaskService.GetTasks(r.Context(), owner, filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, models.SuccessResponse("Tasks fetched successfully", tasks))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, err := taskIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	task, err := h.TaskService.GetTaskByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, models.SuccessResponse("Task fetched successfully", task))
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := taskIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var update models.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		WriteError(w, apperrors.BadRequest("Invalid request data"))
		return
	}

	task, err := h.TaskService.UpdateTask(r.Context(), id, caller, update)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, models.SuccessResponse("Task updated successfully", task))
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, err := callerID(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := taskIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), id, caller); err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, models.SuccessResponse("Task deleted successfully", nil))
}

type UpdateStatusRequest struct {
	Status models.TaskStatus `json:"status"`
}

// UpdateTaskStatus is the status-only transition. It requires a valid token
// but, unlike UpdateTask, does not require the caller to be the creator.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := callerID(r); err != nil {
		WriteError(w, err)
		return
	}

	id, err := taskIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, apperrors.BadRequest("Invalid request data"))
		return
	}

	task, err := h.TaskService.UpdateTaskStatus(r.Context(), id, req.Status)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, models.SuccessResponse("Task status updated successfully", task))
}
