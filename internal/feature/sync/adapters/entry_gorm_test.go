package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/micvant/TimeCheck-backend/internal/feature/sync/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.Task{}, &entity.TimeEntry{}, &entity.SyncState{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func entryFixture(id string, rev int64) entity.TimeEntry {
	started := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return entity.TimeEntry{
		ID:             id,
		StartedAt:      started,
		Label:          "work",
		CreatedAt:      started,
		ClientRevision: rev,
	}
}

func TestEntryGorm_UpsertBatch_InsertNew(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryGorm(db)
	ctx := context.Background()

	accepted, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{
		entryFixture("e1", 1),
		entryFixture("e2", 1),
	})

	require.NoError(t, err)
	require.Len(t, accepted, 2, "both new entries should be accepted")

	assert.Equal(t, uint(1), accepted[0].UserID, "owner should be stamped")
	assert.Equal(t, int64(1), accepted[0].Revision, "first revision comes from the counter")
	assert.Equal(t, int64(2), accepted[1].Revision, "revisions increase within the batch")

	var count int64
	require.NoError(t, db.Model(&entity.TimeEntry{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestEntryGorm_UpsertBatch_HigherClaimWins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryGorm(db)
	ctx := context.Background()

	original := entryFixture("e1", 1)
	_, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{original})
	require.NoError(t, err)

	edit := entryFixture("e1", 2)
	edit.Label = "edited"
	edit.CreatedAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) // must not overwrite the stored value
	accepted, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{edit})
	require.NoError(t, err)
	require.Len(t, accepted, 1, "strictly greater claim should be accepted")

	var stored entity.TimeEntry
	require.NoError(t, db.Where("user_id = ? AND id = ?", 1, "e1").First(&stored).Error)
	assert.Equal(t, "edited", stored.Label)
	assert.Equal(t, int64(2), stored.ClientRevision)
	assert.Equal(t, int64(2), stored.Revision, "second counter value")
	assert.Equal(t, original.CreatedAt.Unix(), stored.CreatedAt.Unix(), "created_at is immutable after insert")
}

func TestEntryGorm_UpsertBatch_TieKeepsServerCopy(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryGorm(db)
	ctx := context.Background()

	server := entryFixture("e1", 5)
	server.Label = "server"
	_, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{server})
	require.NoError(t, err)

	client := entryFixture("e1", 5)
	client.Label = "client"
	accepted, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{client})
	require.NoError(t, err)
	assert.Empty(t, accepted, "equal claim must lose the tie")

	var stored entity.TimeEntry
	require.NoError(t, db.Where("user_id = ? AND id = ?", 1, "e1").First(&stored).Error)
	assert.Equal(t, "server", stored.Label, "server copy wins ties")
	assert.Equal(t, int64(1), stored.Revision, "rejected write must not touch the row")
}

func TestEntryGorm_UpsertBatch_LowerClaimRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryGorm(db)
	ctx := context.Background()

	server := entryFixture("e1", 5)
	server.Label = "server"
	_, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{server})
	require.NoError(t, err)

	stale := entryFixture("e1", 3)
	stale.Label = "stale"
	accepted, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{stale})
	require.NoError(t, err)
	assert.Empty(t, accepted)

	var stored entity.TimeEntry
	require.NoError(t, db.Where("user_id = ? AND id = ?", 1, "e1").First(&stored).Error)
	assert.Equal(t, "server", stored.Label)
	assert.Equal(t, int64(5), stored.ClientRevision)
}

// 墓石と編集が同じリビジョン比較で解決されることを検証します。
func TestEntryGorm_UpsertBatch_TombstoneConflicts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryGorm(db)
	ctx := context.Background()

	deletedAt := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	tombstone := entryFixture("e1", 10)
	tombstone.DeletedAt = &deletedAt
	_, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{tombstone})
	require.NoError(t, err)

	// A stale edit (rev 9) must not resurrect the entry
	staleEdit := entryFixture("e1", 9)
	accepted, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{staleEdit})
	require.NoError(t, err)
	assert.Empty(t, accepted, "tombstone with higher revision wins")

	var stored entity.TimeEntry
	require.NoError(t, db.Where("user_id = ? AND id = ?", 1, "e1").First(&stored).Error)
	assert.True(t, stored.Deleted(), "entry should remain tombstoned")

	// A later edit (rev 11) un-deletes it
	revive := entryFixture("e1", 11)
	revive.Label = "revived"
	accepted, err = repo.UpsertBatch(ctx, 1, []entity.TimeEntry{revive})
	require.NoError(t, err)
	require.Len(t, accepted, 1, "higher revision edit wins over the tombstone")

	require.NoError(t, db.Where("user_id = ? AND id = ?", 1, "e1").First(&stored).Error)
	assert.False(t, stored.Deleted(), "entry should be un-deleted")
	assert.Equal(t, "revived", stored.Label)
}

func TestEntryGorm_UpsertBatch_EmptyBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryGorm(db)

	accepted, err := repo.UpsertBatch(context.Background(), 1, nil)

	require.NoError(t, err)
	assert.Empty(t, accepted)

	var states int64
	require.NoError(t, db.Model(&entity.SyncState{}).Count(&states).Error)
	assert.Zero(t, states, "empty batch must not touch the counter")
}

func TestEntryGorm_ListSince(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryGorm(db)
	ctx := context.Background()

	deletedAt := time.Date(2024, 5, 3, 8, 0, 0, 0, time.UTC)
	tombstone := entryFixture("e3", 1)
	tombstone.DeletedAt = &deletedAt

	_, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{
		entryFixture("e1", 1), // revision 1
		entryFixture("e2", 1), // revision 2
		tombstone,             // revision 3
		entryFixture("e4", 1), // revision 4
	})
	require.NoError(t, err)

	t.Run("cursor zero returns everything in revision order", func(t *testing.T) {
		rows, err := repo.ListSince(ctx, 1, 0)
		require.NoError(t, err)
		require.Len(t, rows, 4)
		for i := 1; i < len(rows); i++ {
			assert.Greater(t, rows[i].Revision, rows[i-1].Revision, "rows must be ordered by revision ascending")
		}
	})

	t.Run("cursor filters already-seen revisions", func(t *testing.T) {
		rows, err := repo.ListSince(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "e3", rows[0].ID)
		assert.Equal(t, "e4", rows[1].ID)
	})

	t.Run("tombstones are included in the delta", func(t *testing.T) {
		rows, err := repo.ListSince(ctx, 1, 2)
		require.NoError(t, err)
		assert.True(t, rows[0].Deleted(), "tombstone must propagate through the delta")
	})

	t.Run("cursor at the top returns an empty delta", func(t *testing.T) {
		rows, err := repo.ListSince(ctx, 1, 4)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestEntryGorm_UserIsolation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryGorm(db)
	ctx := context.Background()

	// Same entry ID under two different users must stay independent rows
	mine := entryFixture("shared-id", 1)
	mine.Label = "mine"
	_, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{mine})
	require.NoError(t, err)

	theirs := entryFixture("shared-id", 99)
	theirs.Label = "theirs"
	_, err = repo.UpsertBatch(ctx, 2, []entity.TimeEntry{theirs})
	require.NoError(t, err)

	rows1, err := repo.ListSince(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, rows1, 1)
	assert.Equal(t, "mine", rows1[0].Label)
	assert.Equal(t, int64(1), rows1[0].ClientRevision, "another user's claim must not leak")

	rows2, err := repo.ListSince(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, rows2, 1)
	assert.Equal(t, "theirs", rows2[0].Label)

	// Per-user counters are independent as well
	assert.Equal(t, int64(1), rows1[0].Revision)
	assert.Equal(t, int64(1), rows2[0].Revision)
}

func TestEntryGorm_RevisionsMonotonicAcrossBatches(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEntryGorm(db)
	ctx := context.Background()

	first, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{entryFixture("e1", 1), entryFixture("e2", 1)})
	require.NoError(t, err)
	second, err := repo.UpsertBatch(ctx, 1, []entity.TimeEntry{entryFixture("e3", 1)})
	require.NoError(t, err)

	require.Len(t, first, 2)
	require.Len(t, second, 1)
	assert.Greater(t, second[0].Revision, first[1].Revision, "later batches take later revisions")
}
