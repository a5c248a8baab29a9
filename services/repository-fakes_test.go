package services

import (
	"context"
	"sort"
	"strings"

	"github.com/shii2003/TaskManagementApp/models"
	"github.com/shii2003/TaskManagementApp/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories backing the service tests. They mirror the Mongo
// implementations' observable behavior, including filter semantics and
// newest-first ordering.

type fakeUserRepo struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (r *fakeUserRepo) Insert(_ context.Context, user *models.User) (primitive.ObjectID, error) {
	id := user.ID
	if id.IsZero() {
		id = primitive.NewObjectID()
	}
	stored := *user
	stored.ID = id
	r.users[id] = stored
	return id, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	found := user
	return &found, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeTaskRepo struct {
	tasks map[primitive.ObjectID]models.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[primitive.ObjectID]models.Task)}
}

func (r *fakeTaskRepo) Insert(_ context.Context, task *models.Task) (primitive.ObjectID, error) {
	id := task.ID
	if id.IsZero() {
		id = primitive.NewObjectID()
	}
	stored := *task
	stored.ID = id
	stored.Creator = nil
	r.tasks[id] = stored
	return id, nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	found := task
	return &found, nil
}

func matchesFilter(task models.Task, filter models.TaskFilter) bool {
	if filter.Status != "" && string(task.Status) != filter.Status {
		return false
	}
	if filter.AssignedTo != "" && task.AssignedTo != filter.AssignedTo {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		inTitle := strings.Contains(strings.ToLower(task.Title), needle)
		inDescription := strings.Contains(strings.ToLower(task.Description), needle)
		if !inTitle && !inDescription {
			return false
		}
	}
	return true
}

func (r *fakeTaskRepo) FindByOwner(_ context.Context, ownerID primitive.ObjectID, filter models.TaskFilter) ([]models.Task, error) {
	var tasks []models.Task
	for _, task := range r.tasks {
		if task.CreatedBy != ownerID {
			continue
		}
		if matchesFilter(task, filter) {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *models.Task) error {
	stored, ok := r.tasks[task.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored.Title = task.Title
	stored.Description = task.Description
	stored.Status = task.Status
	stored.AssignedTo = task.AssignedTo
	stored.UpdatedAt = task.UpdatedAt
	r.tasks[task.ID] = stored
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.tasks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}
