package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// AssignableEmails is the closed set of collaborator identities a task may be
// assigned to. These are the seeded accounts, not a live user lookup.
var AssignableEmails = []string{
	"john.doe@example.com",
	"jane.smith@example.com",
	"mike.johnson@example.com",
	"sarah.wilson@example.com",
}

func IsAssignableEmail(email string) bool {
	for _, e := range AssignableEmails {
		if e == email {
			return true
		}
	}
	return false
}

type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Status      TaskStatus         `bson:"status" json:"status"`
	AssignedTo  string             `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"-"`
	Creator     *PublicUser        `bson:"-" json:"createdBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TaskFilter narrows an owner-scoped listing. Zero values mean "no filter".
type TaskFilter struct {
	Status     string
	AssignedTo string
	Search     string
}

// TaskUpdate carries a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	AssignedTo  *string     `json:"assignedTo,omitempty"`
}
