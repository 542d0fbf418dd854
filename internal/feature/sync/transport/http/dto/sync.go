// Package dto はsyncフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"github.com/micvant/TimeCheck-backend/internal/feature/sync/domain/entity"
)

// TaskPayload はタスク1件のワイヤ表現です。
// revisionはクライアントが編集ごとに加算するclaimed revisionを運びます。
type TaskPayload struct {
	ID          string     `json:"id"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	Revision    int64      `json:"revision"`
}

// TimeEntryPayload はタイムエントリ1件のワイヤ表現です。
// stopped_atが無いエントリは計測中を意味します。
type TimeEntryPayload struct {
	ID        string     `json:"id"`
	TaskID    *string    `json:"task_id,omitempty"`
	StartedAt time.Time  `json:"started_at" binding:"required"`
	StoppedAt *time.Time `json:"stopped_at,omitempty"`
	Label     string     `json:"label"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	Revision  int64      `json:"revision"`
}

// ChangeSet はクライアントが前回同期以降にローカルで変更した記録の集合です。
type ChangeSet struct {
	Tasks       []TaskPayload      `json:"tasks" binding:"omitempty,dive"`
	TimeEntries []TimeEntryPayload `json:"time_entries" binding:"omitempty,dive"`
}

// SyncReq は/syncエンドポイントのリクエストボディを表します。
// last_sync_revが0（または省略）の場合は初回同期として全件が返されます。
type SyncReq struct {
	LastSyncRev int64     `json:"last_sync_rev"`
	Changes     ChangeSet `json:"changes"`
}

// SyncRes は/syncエンドポイントのレスポンスボディを表します。
// tasks/time_entriesにはカーソル以降に確定した変更（墓石含む）が
// Revision昇順で並び、new_cursorは次回リクエストに渡す値です。
type SyncRes struct {
	ServerTime  time.Time          `json:"server_time"`
	NewCursor   int64              `json:"new_cursor"`
	Tasks       []TaskPayload      `json:"tasks"`
	TimeEntries []TimeEntryPayload `json:"time_entries"`
}

// ToEntity はワイヤ表現をドメインエンティティへ変換します。
func (p TaskPayload) ToEntity() entity.Task {
	return entity.Task{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		CreatedAt:      p.CreatedAt,
		DeletedAt:      p.DeletedAt,
		ClientRevision: p.Revision,
	}
}

// ToEntity はワイヤ表現をドメインエンティティへ変換します。
func (p TimeEntryPayload) ToEntity() entity.TimeEntry {
	return entity.TimeEntry{
		ID:             p.ID,
		TaskID:         p.TaskID,
		StartedAt:      p.StartedAt,
		StoppedAt:      p.StoppedAt,
		Label:          p.Label,
		CreatedAt:      p.CreatedAt,
		DeletedAt:      p.DeletedAt,
		ClientRevision: p.Revision,
	}
}

// FromTask はドメインエンティティをワイヤ表現へ変換します。
// クライアントが比較・加算するのはclaimed revisionのため、revisionには
// ClientRevisionを載せます（サーバー内部のRevisionはnew_cursorが運ぶ）。
func FromTask(t entity.Task) TaskPayload {
	return TaskPayload{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		DeletedAt:   t.DeletedAt,
		Revision:    t.ClientRevision,
	}
}

// FromTimeEntry はドメインエンティティをワイヤ表現へ変換します。
func FromTimeEntry(e entity.TimeEntry) TimeEntryPayload {
	return TimeEntryPayload{
		ID:        e.ID,
		TaskID:    e.TaskID,
		StartedAt: e.StartedAt,
		StoppedAt: e.StoppedAt,
		Label:     e.Label,
		CreatedAt: e.CreatedAt,
		DeletedAt: e.DeletedAt,
		Revision:  e.ClientRevision,
	}
}
