package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketPreferences = []byte("preferences")

// PreferenceStore implements domain.PreferenceStore using BoltDB.
type PreferenceStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte

	changes *notifier
	logger  *slog.Logger
}

var _ domain.PreferenceStore = (*PreferenceStore)(nil)

// OpenPreferences opens the preference database in dir.
// An empty dir keeps preferences in memory only.
func OpenPreferences(dir string, logger *slog.Logger) (*PreferenceStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &PreferenceStore{
		cache:   make(map[string][]byte),
		changes: newNotifier(),
		logger:  logger,
	}
	if dir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "preferences.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPreferences)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func (s *PreferenceStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Preference returns the value stored under key, or defaultValue if unset
func (s *PreferenceStore) Preference(key domain.PreferenceKey, defaultValue string) (string, error) {
	var value string
	ok, err := s.get(key.String(), &value)
	if err != nil {
		return defaultValue, err
	}
	if !ok {
		return defaultValue, nil
	}
	return value, nil
}

func (s *PreferenceStore) SetPreference(key domain.PreferenceKey, value string) error {
	if err := s.set(key.String(), value); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	s.changes.notify()
	return nil
}

func (s *PreferenceStore) RemovePreference(key domain.PreferenceKey) error {
	if err := s.delete(key.String()); err != nil {
		return fmt.Errorf("failed to remove preference %s: %w", key, err)
	}
	s.changes.notify()
	return nil
}

// ClearPreferences deletes every stored preference
func (s *PreferenceStore) ClearPreferences() error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			if err := tx.DeleteBucket(bucketPreferences); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
			_, err := tx.CreateBucket(bucketPreferences)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to clear preferences: %w", err)
		}
	}

	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	s.changes.notify()
	return nil
}

// WatchPreference streams the value for key: the current value first, then
// the value after every preference change. Unchanged values are not repeated.
func (s *PreferenceStore) WatchPreference(ctx context.Context, key domain.PreferenceKey, defaultValue string) <-chan domain.Update[string] {
	in := watch(ctx, s.changes, s.logger, func() (string, error) {
		return s.Preference(key, defaultValue)
	})

	out := make(chan domain.Update[string], 1)
	go func() {
		defer close(out)
		first := true
		var last string
		for u := range in {
			if !first && u.Err == nil && u.Value == last {
				continue
			}
			first = false
			if u.Err == nil {
				last = u.Value
			}
			select {
			case out <- u:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// === Generic helpers ===

func (s *PreferenceStore) get(key string, dest any) (bool, error) {
	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return true, json.Unmarshal(data, dest)
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false, nil
	}

	// Read from BoltDB
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPreferences)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return true, json.Unmarshal(data, dest)
}

func (s *PreferenceStore) set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketPreferences).Put([]byte(key), data)
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()
	return nil
}

func (s *PreferenceStore) delete(key string) error {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPreferences)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}
