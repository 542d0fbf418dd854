// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	syncadapters "github.com/micvant/TimeCheck-backend/internal/feature/sync/adapters"
	"github.com/micvant/TimeCheck-backend/internal/feature/sync/usecase"
	"github.com/micvant/TimeCheck-backend/internal/platform/cache"
)

// entryCacheTTL bounds how long a cached delta can outlive a concurrent write.
const entryCacheTTL = 5 * time.Minute

// NewEntryRepository creates an EntryRepository implementation.
// If Redis is available, delta reads are served through a Redis cache
// that is invalidated whenever a write is accepted for the user.
// Otherwise, it falls back to plain GORM access.
func NewEntryRepository(rdb *redis.Client, db *gorm.DB) usecase.EntryRepository {
	if rdb != nil {
		return cache.NewCachingEntryRepository(rdb, entryCacheTTL, syncadapters.NewEntryGorm(db), "entries")
	}
	return syncadapters.NewEntryGorm(db)
}
