package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/railzwaylabs/subview/internal/config"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const single = `{
	"id": "8a8082c1",
	"subscriptionNumber": "A-S0001",
	"status": "Active",
	"termStartDate": "2024-01-01",
	"termEndDate": "2025-01-01",
	"ratePlans": []
}`

const canned = `{
	"holiday": {"id": "8a8082c2", "subscriptionNumber": "A-S0002", "termStartDate": "2024-01-01", "termEndDate": "2025-01-01", "ratePlans": []},
	"lapsed":  {"id": "8a8082c3", "subscriptionNumber": "A-S0003", "termStartDate": "2023-01-01", "termEndDate": "2024-01-01", "ratePlans": []}
}`

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func newTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := NewStore(config.Config{Fixtures: config.FixturesConfig{Dir: dir}}, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestStore_Fetch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "delivery.json", single)
	writeFile(t, dir, "canned.json", canned)
	writeFile(t, dir, "broken.json", `{"id": `)
	writeFile(t, dir, "notes.txt", `ignored`)

	s := newTestStore(t, dir)
	ctx := context.Background()

	for _, key := range []string{"delivery", "8a8082c1", "A-S0001"} {
		snap, err := s.Fetch(ctx, key)
		require.NoError(t, err, key)
		assert.Equal(t, "8a8082c1", snap.ID)
	}

	snap, err := s.Fetch(ctx, "lapsed")
	require.NoError(t, err)
	assert.Equal(t, "A-S0003", snap.SubscriptionNumber)

	_, err = s.Fetch(ctx, "missing")
	assert.ErrorIs(t, err, subscriptiondomain.ErrNotFound)

	assert.Contains(t, s.Keys(), "holiday")
	assert.Len(t, s.Keys(), 9)
}

func TestStore_NoDirectory(t *testing.T) {
	s := newTestStore(t, "")

	_, err := s.Fetch(context.Background(), "A-S0001")
	assert.ErrorIs(t, err, subscriptiondomain.ErrNotFound)
	assert.Error(t, s.Watch())
	assert.NoError(t, s.Stop())
}

func TestDecode(t *testing.T) {
	got, err := Decode([]byte(single), "fallback")
	require.NoError(t, err)
	require.Contains(t, got, "fallback")

	got, err = Decode([]byte(canned), "ignored")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = Decode([]byte(`[1, 2]`), "x")
	assert.ErrorIs(t, err, subscriptiondomain.ErrInvalidSnapshot)

	_, err = Decode([]byte(`{"a": "not a snapshot"}`), "x")
	assert.ErrorIs(t, err, subscriptiondomain.ErrInvalidSnapshot)
}

func TestStore_WatchReloads(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)
	require.NoError(t, s.Watch())
	t.Cleanup(func() { _ = s.Stop() })

	writeFile(t, dir, "delivery.json", single)

	require.Eventually(t, func() bool {
		_, err := s.Fetch(context.Background(), "A-S0001")
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(dir, "delivery.json")))

	require.Eventually(t, func() bool {
		_, err := s.Fetch(context.Background(), "A-S0001")
		return err != nil
	}, 5*time.Second, 50*time.Millisecond)
}
