package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	"gorm.io/gorm"
)

const (
	migrateTimeout = 2 * time.Minute

	// schemaLockKey identifies subview's schema lock among other
	// pg_advisory_lock users of the same database.
	schemaLockKey int64 = 0x5375_6276_6965_77
)

var ErrSchemaLocked = errors.New("schema_locked")

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&subscriptiondomain.SnapshotVersion{},
	}
}

// Run brings the schema up to date. On Postgres it runs on one pinned
// connection holding an advisory lock; a second replica migrating at the
// same time gets ErrSchemaLocked.
func Run(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()
	db := conn.WithContext(ctx)

	if db.Dialector.Name() != "postgres" {
		return autoMigrate(db)
	}
	return db.Connection(func(session *gorm.DB) (err error) {
		if err := lockSchema(session); err != nil {
			return err
		}
		defer func() {
			if unlockErr := unlockSchema(session); err == nil {
				err = unlockErr
			}
		}()
		return autoMigrate(session)
	})
}

func autoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func lockSchema(session *gorm.DB) error {
	var locked bool
	if err := session.Raw("SELECT pg_try_advisory_lock(?)", schemaLockKey).Scan(&locked).Error; err != nil {
		return fmt.Errorf("lock schema: %w", err)
	}
	if !locked {
		return ErrSchemaLocked
	}
	return nil
}

func unlockSchema(session *gorm.DB) error {
	var released bool
	if err := session.Raw("SELECT pg_advisory_unlock(?)", schemaLockKey).Scan(&released).Error; err != nil {
		return fmt.Errorf("unlock schema: %w", err)
	}
	if !released {
		return fmt.Errorf("unlock schema: lock %d was not held by this session", schemaLockKey)
	}
	return nil
}
