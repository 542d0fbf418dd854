package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/micvant/TimeCheck-backend/internal/feature/sync/domain/entity"
	"github.com/micvant/TimeCheck-backend/internal/feature/sync/usecase"
)

type entryGorm struct {
	db *gorm.DB
}

var _ usecase.EntryRepository = (*entryGorm)(nil)

func NewEntryGorm(db *gorm.DB) *entryGorm {
	return &entryGorm{db: db}
}

// 競合時に上書きする列。created_atは初回値を保持する。
var entryUpdateColumns = []string{"task_id", "started_at", "stopped_at", "label", "deleted_at", "client_revision", "revision"}

// UpsertBatch は1トランザクションでバッチを適用します。行ごとの受理判定は
// claimed revision（client_revision）の厳密比較で行い、同値・以下の主張は
// 既存行を保持します（サーバー優先のタイブレーク）。
func (r *entryGorm) UpsertBatch(ctx context.Context, userID uint, entries []entity.TimeEntry) ([]entity.TimeEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	var accepted []entity.TimeEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base, err := allocateRevisions(tx, userID, len(entries))
		if err != nil {
			return err
		}
		accepted = make([]entity.TimeEntry, 0, len(entries))
		for i := range entries {
			row := entries[i]
			row.UserID = userID
			row.Revision = base + int64(i)
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}, {Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns(entryUpdateColumns),
				Where: clause.Where{Exprs: []clause.Expression{
					gorm.Expr("time_entries.client_revision < excluded.client_revision"),
				}},
			}).Create(&row)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				accepted = append(accepted, row)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accepted, nil
}

// ListSince はRevisionがcursorを超える行（墓石含む）をRevision昇順で返します。
func (r *entryGorm) ListSince(ctx context.Context, userID uint, cursor int64) ([]entity.TimeEntry, error) {
	var rows []entity.TimeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND revision > ?", userID, cursor).
		Order("revision ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
