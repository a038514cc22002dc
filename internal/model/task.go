package model

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (status TaskStatus) Valid() bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task это ресурс, принадлежащий пользователю. OwnerID не меняется после создания.
type Task struct {
	ID          string     `db:"id" json:"id"`
	OwnerID     string     `db:"owner_id" json:"createdBy"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Status      TaskStatus `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// TaskPatch содержит изменяемые поля задачи; nil означает "поле не передано".
type TaskPatch struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Status      *TaskStatus `json:"status"`
}

func (patch TaskPatch) Empty() bool {
	return patch.Title == nil && patch.Description == nil && patch.Status == nil
}

func (patch TaskPatch) Complete() bool {
	return patch.Title != nil && patch.Description != nil && patch.Status != nil
}
