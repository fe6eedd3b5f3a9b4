// Package fixture serves canned subscription snapshots from JSON files on
// disk. A file holds either one snapshot or an object mapping keys to
// snapshots. Every snapshot is reachable by its map key, id and number.
package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/railzwaylabs/subview/internal/config"
	subscriptiondomain "github.com/railzwaylabs/subview/internal/subscription/domain"
	"go.uber.org/zap"
)

const reloadDebounce = 200 * time.Millisecond

type Store struct {
	dir string
	log *zap.Logger

	mu    sync.RWMutex
	index map[string]*subscriptiondomain.Snapshot

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewStore(cfg config.Config, log *zap.Logger) (*Store, error) {
	s := &Store{
		dir:   cfg.Fixtures.Dir,
		log:   log.Named("fixture.store"),
		index: map[string]*subscriptiondomain.Snapshot{},
	}
	if s.dir == "" {
		return s, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Fetch implements subscriptiondomain.Source.
func (s *Store) Fetch(_ context.Context, key string) (*subscriptiondomain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.index[key]
	if !ok {
		return nil, subscriptiondomain.ErrNotFound
	}
	return snap, nil
}

// Keys lists every key a snapshot can be fetched by.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.index))
	for k := range s.index {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Reload rereads every *.json file in the directory. A file that fails to
// parse is logged and skipped; the rest of the index is still replaced.
func (s *Store) Reload() error {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return err
	}

	index := make(map[string]*subscriptiondomain.Snapshot)
	for _, path := range paths {
		snaps, err := ReadFile(path)
		if err != nil {
			s.log.Warn("skipping fixture", zap.String("path", path), zap.Error(err))
			continue
		}
		for key, snap := range snaps {
			for _, k := range []string{key, snap.ID, snap.SubscriptionNumber} {
				if k != "" {
					index[k] = snap
				}
			}
		}
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()

	s.log.Info("fixtures loaded", zap.String("dir", s.dir), zap.Int("files", len(paths)), zap.Int("keys", len(index)))
	return nil
}

// ReadFile decodes one fixture file.
func ReadFile(path string) (map[string]*subscriptiondomain.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(raw, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// Decode accepts a single snapshot, keyed by fallbackKey, or a map of
// snapshots.
func Decode(raw []byte, fallbackKey string) (map[string]*subscriptiondomain.Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", subscriptiondomain.ErrInvalidSnapshot, err)
	}

	_, hasID := probe["id"]
	_, hasPlans := probe["ratePlans"]
	if hasID || hasPlans {
		var snap subscriptiondomain.Snapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			return nil, fmt.Errorf("%w: %v", subscriptiondomain.ErrInvalidSnapshot, err)
		}
		return map[string]*subscriptiondomain.Snapshot{fallbackKey: &snap}, nil
	}

	out := make(map[string]*subscriptiondomain.Snapshot, len(probe))
	for key, value := range probe {
		var snap subscriptiondomain.Snapshot
		if err := json.Unmarshal(value, &snap); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", subscriptiondomain.ErrInvalidSnapshot, key, err)
		}
		out[key] = &snap
	}
	return out, nil
}

// Watch reloads the store whenever a fixture file changes, until Stop.
func (s *Store) Watch() error {
	if s.dir == "" {
		return errors.New("fixture directory not configured")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(s.dir); err != nil {
		_ = w.Close()
		return err
	}

	s.watcher = w
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.loop()
	return nil
}

func (s *Store) Stop() error {
	if s.watcher == nil {
		return nil
	}
	close(s.done)
	s.wg.Wait()
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

func (s *Store) loop() {
	defer s.wg.Done()

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	for {
		select {
		case <-s.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
				!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			trigger = timer.C

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("fixture watcher error", zap.Error(err))

		case <-trigger:
			trigger = nil
			if err := s.Reload(); err != nil {
				s.log.Error("fixture reload failed", zap.Error(err))
			}
		}
	}
}
