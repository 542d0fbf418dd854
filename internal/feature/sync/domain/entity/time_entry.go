// Package entity defines the domain entities for the sync feature.
package entity

import "time"

// TimeEntry represents a single tracked span of time owned by a user.
//
// Two revision lines coexist on every row:
//   - ClientRevision is the last-writer-wins line. Clients bump it on every
//     local edit and the store only accepts a write whose claimed value
//     strictly exceeds the stored one (ties keep the server copy).
//   - Revision is the server's per-user monotonic counter, assigned on every
//     accepted write. It orders the delta stream and drives the sync cursor.
//
// Deletion is a tombstone (DeletedAt set), never a hard delete, so deletes
// propagate to other clients through the same revision-based merge path.
type TimeEntry struct {
	// ID is the client-generated identifier (UUID), unique per user.
	ID string `gorm:"primaryKey;size:36"`

	// UserID is the owning user. Entries are never visible across users.
	UserID uint `gorm:"primaryKey;autoIncrement:false;index:idx_time_entries_user_revision,priority:1"`

	// TaskID optionally links the entry to a task of the same user.
	TaskID *string `gorm:"size:36"`

	// StartedAt is when the tracked span began.
	StartedAt time.Time `gorm:"not null"`

	// StoppedAt is when the span ended; nil while the entry is running.
	// When present it is never before StartedAt.
	StoppedAt *time.Time

	// Label is the user-visible description of the entry.
	Label string `gorm:"size:255"`

	// CreatedAt is the client-reported creation time, immutable after insert.
	CreatedAt time.Time

	// DeletedAt marks the entry as tombstoned when set.
	DeletedAt *time.Time

	// ClientRevision is the client's claimed revision (conflict line).
	ClientRevision int64 `gorm:"not null;default:0"`

	// Revision is the server-assigned revision (cursor line).
	Revision int64 `gorm:"not null;index:idx_time_entries_user_revision,priority:2"`
}

// TableName pins the table name used in raw conflict clauses.
func (TimeEntry) TableName() string { return "time_entries" }

// Deleted reports whether the entry is tombstoned.
func (e *TimeEntry) Deleted() bool { return e.DeletedAt != nil }
