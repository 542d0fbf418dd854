// Package usecase はsyncフィーチャーのビジネスロジック（照合アルゴリズム）を実装します。
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/micvant/TimeCheck-backend/internal/feature/sync/domain/entity"
)

// TaskRepository はタスクの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type TaskRepository interface {
	// UpsertBatch はクライアント提出のタスク群を1トランザクションで適用します。
	// claimed revisionが保存済みの値を厳密に上回る行のみ受理し（同値はサーバー優先）、
	// 受理された行の確定コピーを返します。
	UpsertBatch(ctx context.Context, userID uint, tasks []entity.Task) ([]entity.Task, error)

	// ListSince はRevisionがcursorを超えるタスク（墓石含む）をRevision昇順で返します。
	ListSince(ctx context.Context, userID uint, cursor int64) ([]entity.Task, error)
}

// EntryRepository はタイムエントリの永続化層を抽象化します。
type EntryRepository interface {
	// UpsertBatch はクライアント提出のエントリ群を1トランザクションで適用します。
	// claimed revisionが保存済みの値を厳密に上回る行のみ受理し（同値はサーバー優先）、
	// 受理された行の確定コピーを返します。
	UpsertBatch(ctx context.Context, userID uint, entries []entity.TimeEntry) ([]entity.TimeEntry, error)

	// ListSince はRevisionがcursorを超えるエントリ（墓石含む）をRevision昇順で返します。
	ListSince(ctx context.Context, userID uint, cursor int64) ([]entity.TimeEntry, error)
}

// SyncResult は1回の同期呼び出しの確定結果を表します。
type SyncResult struct {
	// Tasks はcursor以降に変化したタスク（受理された変更の確定コピーを含む）です。
	Tasks []entity.Task
	// Entries はcursor以降に変化したタイムエントリです。
	Entries []entity.TimeEntry
	// NewCursor は次回の同期で渡すべきカーソル値です。入力cursorを下回りません。
	NewCursor int64
	// ServerTime は応答を組み立てた時点のサーバー時刻（UTC）です。
	ServerTime time.Time
}

// syncUsecase は同期の照合アルゴリズムを実装します。
type syncUsecase struct {
	tasks   TaskRepository
	entries EntryRepository
}

// NewSyncUsecase はsyncUsecaseの新しいインスタンスを生成します。
func NewSyncUsecase(tasks TaskRepository, entries EntryRepository) *syncUsecase {
	return &syncUsecase{
		tasks:   tasks,
		entries: entries,
	}
}

// Sync は1ユーザー分のクライアント変更を取り込み、サーバー確定状態の差分を返します。
//
// アルゴリズム:
//  1. ペイロードを検証する（stopped_atはstarted_at以降、タスクはタイトル必須）。
//  2. ID未設定の行へUUIDを採番し、バッチ内の重複IDをclaimed revision最大の1件へ畳み込む。
//  3. UpsertBatchで受理判定を行う。claimed revisionが保存値を厳密に上回る行だけが
//     書き込まれ、同値の場合はサーバーのコピーが残る（タイブレークの決定性）。
//  4. 書き込み後にListSinceで差分を取得する。受理された変更の確定コピーと、
//     クライアントが未取得のサーバー側変更が同じ応答に揃う。
//  5. NewCursor = 差分中の最大Revision。差分が空でも入力cursorを下回らない。
//
// 同じ引数での再送は安全である: 受理済みのclaimed revisionとの比較は同値となり
// サーバー優先で棄却されるため、状態は変化せず応答は収束する。
func (u *syncUsecase) Sync(ctx context.Context, userID uint, cursor int64, taskChanges []entity.Task, entryChanges []entity.TimeEntry) (*SyncResult, error) {
	if cursor < 0 {
		return nil, ErrInvalidCursor
	}

	taskChanges, err := prepareTasks(taskChanges)
	if err != nil {
		return nil, err
	}
	entryChanges, err = prepareEntries(entryChanges)
	if err != nil {
		return nil, err
	}

	if len(taskChanges) > 0 {
		if _, err := u.tasks.UpsertBatch(ctx, userID, taskChanges); err != nil {
			return nil, fmt.Errorf("failed to apply task changes: %w", err)
		}
	}
	if len(entryChanges) > 0 {
		if _, err := u.entries.UpsertBatch(ctx, userID, entryChanges); err != nil {
			return nil, fmt.Errorf("failed to apply entry changes: %w", err)
		}
	}

	// 書き込みの後に差分を読むことで、受理分の確定コピーも必ず応答へ含まれる
	mergedTasks, err := u.tasks.ListSince(ctx, userID, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to list task changes: %w", err)
	}
	mergedEntries, err := u.entries.ListSince(ctx, userID, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry changes: %w", err)
	}

	newCursor := cursor
	for i := range mergedTasks {
		if mergedTasks[i].Revision > newCursor {
			newCursor = mergedTasks[i].Revision
		}
	}
	for i := range mergedEntries {
		if mergedEntries[i].Revision > newCursor {
			newCursor = mergedEntries[i].Revision
		}
	}

	return &SyncResult{
		Tasks:      mergedTasks,
		Entries:    mergedEntries,
		NewCursor:  newCursor,
		ServerTime: time.Now().UTC(),
	}, nil
}

// prepareTasks は受信タスクを検証し、ID未設定の行へUUIDを採番した上で、
// バッチ内の重複IDをclaimed revision最大の1件へ畳み込みます。
func prepareTasks(tasks []entity.Task) ([]entity.Task, error) {
	out := make([]entity.Task, 0, len(tasks))
	index := make(map[string]int, len(tasks))
	for _, task := range tasks {
		if task.Title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrInvalidTask)
		}
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		if i, ok := index[task.ID]; ok {
			// バッチ内重複はclaimed revisionが大きい方を残す
			if task.ClientRevision > out[i].ClientRevision {
				out[i] = task
			}
			continue
		}
		index[task.ID] = len(out)
		out = append(out, task)
	}
	return out, nil
}

// prepareEntries は受信タイムエントリを検証し、ID未設定の行へUUIDを採番した上で、
// バッチ内の重複IDをclaimed revision最大の1件へ畳み込みます。
func prepareEntries(entries []entity.TimeEntry) ([]entity.TimeEntry, error) {
	out := make([]entity.TimeEntry, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.StartedAt.IsZero() {
			return nil, fmt.Errorf("%w: started_at is required", ErrInvalidEntry)
		}
		if e.StoppedAt != nil && e.StoppedAt.Before(e.StartedAt) {
			return nil, fmt.Errorf("%w: stopped_at precedes started_at", ErrInvalidEntry)
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if i, ok := index[e.ID]; ok {
			// バッチ内重複はclaimed revisionが大きい方を残す
			if e.ClientRevision > out[i].ClientRevision {
				out[i] = e
			}
			continue
		}
		index[e.ID] = len(out)
		out = append(out, e)
	}
	return out, nil
}
