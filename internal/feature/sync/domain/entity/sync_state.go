package entity

// SyncState holds the per-user revision counter. Every accepted write takes
// the next value, so revisions order all of a user's changes across tasks
// and time entries on a single line.
type SyncState struct {
	// UserID identifies the counter's owner.
	UserID uint `gorm:"primaryKey;autoIncrement:false"`

	// Revision is the highest revision handed out for this user so far.
	Revision int64 `gorm:"not null;default:0"`
}

// TableName pins the table name used in raw counter updates.
func (SyncState) TableName() string { return "sync_states" }
