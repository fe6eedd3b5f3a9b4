package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SnapshotVersion records one snapshot fetched from the billing API.
type SnapshotVersion struct {
	ID                 snowflake.ID   `gorm:"primaryKey" json:"id"`
	SubscriptionID     string         `gorm:"type:text;not null;index" json:"subscription_id"`
	SubscriptionNumber string         `gorm:"type:text;not null;index" json:"subscription_number"`
	Version            int            `gorm:"not null" json:"version"`
	Status             string         `gorm:"type:text" json:"status"`
	Payload            datatypes.JSON `gorm:"not null" json:"-"`
	FetchedAt          time.Time      `gorm:"not null" json:"fetched_at"`
}

func (SnapshotVersion) TableName() string { return "subscription_snapshot_versions" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, v *SnapshotVersion) error
	// ListByKey returns versions for a subscription id or number, newest
	// first.
	ListByKey(ctx context.Context, db *gorm.DB, key string) ([]SnapshotVersion, error)
	FindLatest(ctx context.Context, db *gorm.DB, key string) (*SnapshotVersion, error)
}
