package repository

import (
	"context"
	"errors"

	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() subscriptiondomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, v *subscriptiondomain.SnapshotVersion) error {
	return db.WithContext(ctx).Create(v).Error
}

func (r *repo) ListByKey(ctx context.Context, db *gorm.DB, key string) ([]subscriptiondomain.SnapshotVersion, error) {
	var items []subscriptiondomain.SnapshotVersion
	err := db.WithContext(ctx).
		Select("id", "subscription_id", "subscription_number", "version", "status", "fetched_at").
		Where("subscription_id = ? OR subscription_number = ?", key, key).
		Order("fetched_at DESC").
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindLatest(ctx context.Context, db *gorm.DB, key string) (*subscriptiondomain.SnapshotVersion, error) {
	var v subscriptiondomain.SnapshotVersion
	err := db.WithContext(ctx).
		Where("subscription_id = ? OR subscription_number = ?", key, key).
		Order("fetched_at DESC").
		Order("id DESC").
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}
