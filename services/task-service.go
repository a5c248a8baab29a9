package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shii2003/TaskManagementApp/apperrors"
	"github.com/shii2003/TaskManagementApp/logging"
	"github.com/shii2003/TaskManagementApp/models"
	"github.com/shii2003/TaskManagementApp/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskService struct {
	Tasks repositories.TaskRepository
	Users repositories.UserRepository
}

func NewTaskService(tasks repositories.TaskRepository, users repositories.UserRepository) *TaskService {
	return &TaskService{Tasks: tasks, Users: users}
}

// resolveCreator fills in the creator's name and email with a second lookup
// keyed by the stored reference id. A missing creator record leaves the field
// empty rather than failing the read.
func (s *TaskService) resolveCreator(ctx context.Context, task *models.Task) error {
	user, err := s.Users.FindByID(ctx, task.CreatedBy)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return apperrors.WrapInternal(err, "Something went wrong while fetching task")
	}
	public := user.Public()
	task.Creator = &public
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID primitive.ObjectID, title, description string, status models.TaskStatus, assignedTo string) (*models.Task, error) {
	if ownerID.IsZero() {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.BadRequest("Title is required")
	}
	if status == "" {
		status = models.StatusTodo
	}
	if !status.IsValid() {
		return nil, apperrors.BadRequest("Invalid status value")
	}
	if assignedTo != "" && !models.IsAssignableEmail(assignedTo) {
		return nil, apperrors.BadRequest("Invalid assignee email")
	}

	now := time.Now().UTC()
	task := &models.Task{
		Title:       title,
		Description: description,
		Status:      status,
		AssignedTo:  assignedTo,
		CreatedBy:   ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := s.Tasks.Insert(ctx, task)
	if err != nil {
		logging.Logger.Errorf("Event ID: TASK_CREATE_FAILED, Description: Error creating task: %v", err)
		return nil, apperrors.WrapInternal(err, "Something went wrong while creating task")
	}
	task.ID = id

	if err := s.resolveCreator(ctx, task); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task created by user %s: %s", ownerID.Hex(), title)
	return task, nil
}

// GetTasks lists the caller's own tasks, newest first. Filters compose
// conjunctively; search alone fans out over title and description.
func (s *TaskService) GetTasks(ctx context.Context, ownerID primitive.ObjectID, filter models.TaskFilter) ([]models.Task, error) {
	if ownerID.IsZero() {
		return nil, apperrors.Unauthorized("User not authenticated")
	}

	tasks, err := s.Tasks.FindByOwner(ctx, ownerID, filter)
	if err != nil {
		logging.Logger.Errorf("Event ID: TASKS_FETCH_FAILED, Description: Error fetching tasks: %v", err)
		return nil, apperrors.WrapInternal(err, "Something went wrong while fetching tasks")
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	// One owner, one lookup; every listed task shares the same creator.
	if len(tasks) > 0 {
		if err := s.resolveCreator(ctx, &tasks[0]); err != nil {
			return nil, err
		}
		for i := 1; i < len(tasks); i++ {
			tasks[i].Creator = tasks[0].Creator
		}
	}

	return tasks, nil
}

// GetTaskByID retrieves a task without an ownership check: any authenticated
// caller who knows the id may read it.
func (s *TaskService) GetTaskByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, err := s.Tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		logging.Logger.Errorf("Event ID: TASK_FETCH_FAILED, Description: Error fetching task by id: %v", err)
		return nil, apperrors.WrapInternal(err, "Something went wrong while fetching task")
	}

	if err := s.resolveCreator(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id, callerID primitive.ObjectID, update models.TaskUpdate) (*models.Task, error) {
	task, err := s.Tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		logging.Logger.Errorf("Event ID: TASK_UPDATE_FETCH_FAILED, Description: Error fetching task for update: %v", err)
		return nil, apperrors.WrapInternal(err, "Something went wrong while updating task")
	}

	if task.CreatedBy != callerID {
		return nil, apperrors.Forbidden("Not authorized to update this task")
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		if !update.Status.IsValid() {
			return nil, apperrors.BadRequest("Invalid status value")
		}
		task.Status = *update.Status
	}
	if update.AssignedTo != nil {
		if *update.AssignedTo != "" && !models.IsAssignableEmail(*update.AssignedTo) {
			return nil, apperrors.BadRequest("Invalid assignee email")
		}
		task.AssignedTo = *update.AssignedTo
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.Tasks.Update(ctx, task); err != nil {
		logging.Logger.Errorf("Event ID: TASK_UPDATE_FAILED, Description: Error updating task: %v", err)
		return nil, apperrors.WrapInternal(err, "Something went wrong while updating task")
	}

	updated, err := s.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.WrapInternal(err, "Something went wrong while updating task")
	}
	if err := s.resolveCreator(ctx, updated); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_UPDATED, Description: Task updated by user %s: %s", callerID.Hex(), id.Hex())
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id, callerID primitive.ObjectID) error {
	task, err := s.Tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Task not found")
		}
		logging.Logger.Errorf("Event ID: TASK_DELETE_FETCH_FAILED, Description: Error fetching task for delete: %v", err)
		return apperrors.WrapInternal(err, "Something went wrong while deleting task")
	}

	if task.CreatedBy != callerID {
		return apperrors.Forbidden("Not authorized to delete this task")
	}

	if err := s.Tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFound("Task not found")
		}
		logging.Logger.Errorf("Event ID: TASK_DELETE_FAILED, Description: Error deleting task: %v", err)
		return apperrors.WrapInternal(err, "Something went wrong while deleting task")
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task deleted by user %s: %s", callerID.Hex(), id.Hex())
	return nil
}

// UpdateTaskStatus transitions a task's status with no ownership check: any
// authenticated caller can move any task between todo, in_progress and
// completed. Update and Delete stay creator-only; the asymmetry is the
// intended behavior, not an oversight.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, id primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	if !status.IsValid() {
		return nil, apperrors.BadRequest("Invalid status value")
	}

	task, err := s.Tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		logging.Logger.Errorf("Event ID: TASK_STATUS_FETCH_FAILED, Description: Error fetching task for status update: %v", err)
		return nil, apperrors.WrapInternal(err, "Something went wrong while updating task status")
	}

	task.Status = status
	task.UpdatedAt = time.Now().UTC()
	if err := s.Tasks.Update(ctx, task); err != nil {
		logging.Logger.Errorf("Event ID: TASK_STATUS_UPDATE_FAILED, Description: Error updating task status: %v", err)
		return nil, apperrors.WrapInternal(err, "Something went wrong while updating task status")
	}

	updated, err := s.Tasks.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.WrapInternal(err, "Something went wrong while updating task status")
	}
	if err := s.resolveCreator(ctx, updated); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_STATUS_UPDATED, Description: Task status updated: %s -> %s", id.Hex(), status)
	return updated, nil
}
