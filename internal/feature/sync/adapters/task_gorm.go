package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/micvant/TimeCheck-backend/internal/feature/sync/domain/entity"
	"github.com/micvant/TimeCheck-backend/internal/feature/sync/usecase"
)

type taskGorm struct {
	db *gorm.DB
}

var _ usecase.TaskRepository = (*taskGorm)(nil)

func NewTaskGorm(db *gorm.DB) *taskGorm {
	return &taskGorm{db: db}
}

// 競合時に上書きする列。created_atは初回値を保持する。
var taskUpdateColumns = []string{"title", "description", "deleted_at", "client_revision", "revision"}

// UpsertBatch は1トランザクションでバッチを適用します。受理判定はエントリと同じ
// claimed revisionの厳密比較です（同値はサーバー優先）。
func (r *taskGorm) UpsertBatch(ctx context.Context, userID uint, tasks []entity.Task) ([]entity.Task, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	var accepted []entity.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base, err := allocateRevisions(tx, userID, len(tasks))
		if err != nil {
			return err
		}
		accepted = make([]entity.Task, 0, len(tasks))
		for i := range tasks {
			row := tasks[i]
			row.UserID = userID
			row.Revision = base + int64(i)
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}, {Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns(taskUpdateColumns),
				Where: clause.Where{Exprs: []clause.Expression{
					gorm.Expr("tasks.client_revision < excluded.client_revision"),
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
func (r *taskGorm) ListSince(ctx context.Context, userID uint, cursor int64) ([]entity.Task, error) {
	var rows []entity.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND revision > ?", userID, cursor).
		Order("revision ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
