package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sandeepkv93/edumeet-backend/internal/domain"
	"github.com/sandeepkv93/edumeet-backend/internal/observability"
)

// Models lists every table owned by the service in dependency order.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Class{},
		&domain.StudentClass{},
		&domain.Meeting{},
	}
}

func Migrate(db *gorm.DB) error {
	start := time.Now()
	ctx := context.Background()
	defer func() {
		observability.RecordDatabaseStartupDuration(ctx, "migrate", time.Since(start))
	}()
	if err := db.AutoMigrate(Models()...); err != nil {
		observability.RecordDatabaseStartupEvent(ctx, "migrate", "error")
		return err
	}
	observability.RecordDatabaseStartupEvent(ctx, "migrate", "success")
	return nil
}
