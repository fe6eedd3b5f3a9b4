package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/subview/internal/clock"
	"github.com/railzwaylabs/subview/internal/config"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	timelinedomain "github.com/railzwaylabs/subview/internal/timeline/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	Config     config.Config
	Clock      clock.Clock
	GenID      *snowflake.Node
	Repo       subscriptiondomain.Repository
	DB         *gorm.DB                  `optional:"true"`
	Cache      subscriptiondomain.Cache  `optional:"true"`
	Fixtures   subscriptiondomain.Source `name:"fixtures" optional:"true"`
	BillingAPI subscriptiondomain.Source `name:"billing_api" optional:"true"`
}

type Service struct {
	log        *zap.Logger
	clock      clock.Clock
	genID      *snowflake.Node
	db         *gorm.DB
	repo       subscriptiondomain.Repository
	cache      subscriptiondomain.Cache
	fixtures   subscriptiondomain.Source
	billingAPI subscriptiondomain.Source
	normalizer *Normalizer
}

func NewService(p ServiceParam) (subscriptiondomain.Service, error) {
	tags, err := NewTagRules(p.Config.Tags)
	if err != nil {
		return nil, err
	}
	return &Service{
		log:        p.Log.Named("subscription.service"),
		clock:      p.Clock,
		genID:      p.GenID,
		db:         p.DB,
		repo:       p.Repo,
		cache:      p.Cache,
		fixtures:   p.Fixtures,
		billingAPI: p.BillingAPI,
		normalizer: NewNormalizer(tags),
	}, nil
}

// Load implements subscriptiondomain.Service.
func (s *Service) Load(ctx context.Context, key string) (subscriptiondomain.Resolved, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return subscriptiondomain.Resolved{}, subscriptiondomain.ErrInvalidKey
	}
	log := s.log.With(zap.String("key", key))

	if s.fixtures != nil {
		snap, err := s.fixtures.Fetch(ctx, key)
		switch {
		case err == nil:
			return s.resolved(ctx, snap, subscriptiondomain.OriginFixture), nil
		case !errors.Is(err, subscriptiondomain.ErrNotFound):
			return subscriptiondomain.Resolved{}, err
		}
	}

	if s.cache != nil {
		snap, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			return s.resolved(ctx, snap, subscriptiondomain.OriginCache), nil
		case !errors.Is(err, subscriptiondomain.ErrCacheMiss):
			log.Warn("snapshot cache read failed", zap.Error(err))
		}
	}

	if s.billingAPI == nil {
		return subscriptiondomain.Resolved{}, subscriptiondomain.ErrNotFound
	}
	snap, err := s.billingAPI.Fetch(ctx, key)
	if err != nil {
		return subscriptiondomain.Resolved{}, err
	}
	resolved := s.resolved(ctx, snap, subscriptiondomain.OriginBillingAPI)

	if s.cache != nil {
		if err := s.cache.Set(ctx, snap); err != nil {
			log.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	if err := s.recordVersion(ctx, resolved); err != nil {
		log.Warn("failed to record snapshot version", zap.Error(err))
	}

	log.Info("snapshot fetched", zap.String("subscription_id", snap.ID), zap.Int("version", snap.Version))
	return resolved, nil
}

func (s *Service) resolved(ctx context.Context, snap *subscriptiondomain.Snapshot, origin subscriptiondomain.Origin) subscriptiondomain.Resolved {
	return subscriptiondomain.Resolved{
		Snapshot:  snap,
		Origin:    origin,
		FetchedAt: s.clock.Now(ctx).UTC(),
	}
}

func (s *Service) recordVersion(ctx context.Context, r subscriptiondomain.Resolved) error {
	if s.db == nil || s.repo == nil || s.genID == nil {
		return nil
	}
	payload, err := json.Marshal(r.Snapshot)
	if err != nil {
		return err
	}
	return s.repo.Insert(ctx, s.db, &subscriptiondomain.SnapshotVersion{
		ID:                 s.genID.Generate(),
		SubscriptionID:     r.Snapshot.ID,
		SubscriptionNumber: r.Snapshot.SubscriptionNumber,
		Version:            r.Snapshot.Version,
		Status:             r.Snapshot.Status,
		Payload:            datatypes.JSON(payload),
		FetchedAt:          r.FetchedAt,
	})
}

// Subscription implements subscriptiondomain.Service.
func (s *Service) Subscription(ctx context.Context, key string) (timelinedomain.Subscription, subscriptiondomain.Resolved, error) {
	resolved, err := s.Load(ctx, key)
	if err != nil {
		return timelinedomain.Subscription{}, subscriptiondomain.Resolved{}, err
	}
	sub, err := s.Normalize(resolved.Snapshot)
	if err != nil {
		return timelinedomain.Subscription{}, resolved, err
	}
	return sub, resolved, nil
}

// Normalize implements subscriptiondomain.Service.
func (s *Service) Normalize(snap *subscriptiondomain.Snapshot) (timelinedomain.Subscription, error) {
	return s.normalizer.Normalize(snap)
}

// Versions implements subscriptiondomain.Service. Without a database there
// is no history and the result is empty.
func (s *Service) Versions(ctx context.Context, key string) ([]subscriptiondomain.SnapshotVersion, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, subscriptiondomain.ErrInvalidKey
	}
	if s.db == nil || s.repo == nil {
		return []subscriptiondomain.SnapshotVersion{}, nil
	}
	items, err := s.repo.ListByKey(ctx, s.db, key)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []subscriptiondomain.SnapshotVersion{}
	}
	return items, nil
}
