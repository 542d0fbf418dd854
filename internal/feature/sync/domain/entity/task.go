package entity

import "time"

// Task groups time entries under a user-defined activity. Tasks travel
// through the same revision-based merge path as time entries.
type Task struct {
	// ID is the client-generated identifier (UUID), unique per user.
	ID string `gorm:"primaryKey;size:36"`

	// UserID is the owning user.
	UserID uint `gorm:"primaryKey;autoIncrement:false;index:idx_tasks_user_revision,priority:1"`

	// Title is the user-visible name of the task.
	Title string `gorm:"size:255;not null"`

	// Description optionally elaborates on the task.
	Description string

	// CreatedAt is the client-reported creation time, immutable after insert.
	CreatedAt time.Time

	// DeletedAt marks the task as tombstoned when set.
	DeletedAt *time.Time

	// ClientRevision is the client's claimed revision (conflict line).
	ClientRevision int64 `gorm:"not null;default:0"`

	// Revision is the server-assigned revision (cursor line).
	Revision int64 `gorm:"not null;index:idx_tasks_user_revision,priority:2"`
}

// TableName pins the table name used in raw conflict clauses.
func (Task) TableName() string { return "tasks" }

// Deleted reports whether the task is tombstoned.
func (t *Task) Deleted() bool { return t.DeletedAt != nil }
