// Package adapters はsyncフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/micvant/TimeCheck-backend/internal/feature/sync/domain/entity"
)

// allocateRevisions はユーザーのリビジョンカウンタをn進め、割り当てた区間の先頭値を返します。
// カウンタ行のロックはトランザクションのコミットまで保持されるため、同一ユーザーの
// 並行するUpsertBatchはここで直列化されます。
func allocateRevisions(tx *gorm.DB, userID uint, n int) (int64, error) {
	// カウンタ行が無ければ作成する（既存なら何もしない）
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.SyncState{UserID: userID}).Error; err != nil {
		return 0, err
	}

	var end int64
	if err := tx.Raw(
		"UPDATE sync_states SET revision = revision + ? WHERE user_id = ? RETURNING revision",
		n, userID,
	).Scan(&end).Error; err != nil {
		return 0, err
	}
	return end - int64(n) + 1, nil
}
