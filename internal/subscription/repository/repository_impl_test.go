package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&subscriptiondomain.SnapshotVersion{}))
	return db
}

func TestRepository_ListByKey(t *testing.T) {
	db := setupDB(t)
	r := Provide()
	ctx := context.Background()
	node, _ := snowflake.NewNode(1)
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	// 1. two versions of one subscription and one of another
	for i, v := range []subscriptiondomain.SnapshotVersion{
		{SubscriptionID: "sub-1", SubscriptionNumber: "A-S0001", Version: 1},
		{SubscriptionID: "sub-1", SubscriptionNumber: "A-S0001", Version: 2},
		{SubscriptionID: "sub-2", SubscriptionNumber: "A-S0002", Version: 1},
	} {
		v.ID = node.Generate()
		v.Status = "Active"
		v.Payload = datatypes.JSON(`{"id":"` + v.SubscriptionID + `"}`)
		v.FetchedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, r.Insert(ctx, db, &v))
	}

	// 2. lookup by number, newest first
	items, err := r.ListByKey(ctx, db, "A-S0001")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Version)
	assert.Equal(t, 1, items[1].Version)
	assert.Empty(t, items[0].Payload)

	// 3. lookup by id
	items, err = r.ListByKey(ctx, db, "sub-2")
	require.NoError(t, err)
	require.Len(t, items, 1)

	// 4. unknown key
	items, err = r.ListByKey(ctx, db, "missing")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRepository_FindLatest(t *testing.T) {
	db := setupDB(t)
	r := Provide()
	ctx := context.Background()
	node, _ := snowflake.NewNode(1)

	got, err := r.FindLatest(ctx, db, "sub-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	for v := 1; v <= 3; v++ {
		require.NoError(t, r.Insert(ctx, db, &subscriptiondomain.SnapshotVersion{
			ID:                 node.Generate(),
			SubscriptionID:     "sub-1",
			SubscriptionNumber: "A-S0001",
			Version:            v,
			Payload:            datatypes.JSON(`{}`),
			FetchedAt:          time.Date(2024, 6, v, 0, 0, 0, 0, time.UTC),
		}))
	}

	got, err = r.FindLatest(ctx, db, "sub-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Version)
	assert.JSONEq(t, `{}`, string(got.Payload))
}
