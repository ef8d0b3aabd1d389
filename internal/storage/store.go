// Package storage persists the user's feed list. Only identity and sort
// mode are saved; entries and comments always come fresh from upstream.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"reddlist/internal/feed"
)

var feedsBucket = []byte("feeds")

// Store is a bbolt-backed key-value store of saved feeds. Keys are the
// lowercased feed name, which makes feed names case-insensitively unique.
type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(feedsBucket)
		return createErr
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func feedKey(name string) []byte {
	return []byte(strings.ToLower(name))
}

// SaveFeed inserts or overwrites a saved feed.
func (s *Store) SaveFeed(saved feed.SavedFeed) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(saved)
		if err != nil {
			return err
		}
		return tx.Bucket(feedsBucket).Put(feedKey(saved.Name), data)
	})
}

// GetFeed looks a saved feed up by name, case-insensitively.
func (s *Store) GetFeed(name string) (feed.SavedFeed, error) {
	var saved feed.SavedFeed
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(feedsBucket).Get(feedKey(name))
		if data == nil {
			return fmt.Errorf("feed %q not found", name)
		}
		return json.Unmarshal(data, &saved)
	})
	return saved, err
}

// HasFeed reports whether a feed of that name is saved.
func (s *Store) HasFeed(name string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(feedsBucket).Get(feedKey(name)) != nil
		return nil
	})
	return found, err
}

// GetAllFeeds returns every saved feed, ordered by name.
func (s *Store) GetAllFeeds() ([]feed.SavedFeed, error) {
	var feeds []feed.SavedFeed
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(feedsBucket).ForEach(func(_ []byte, v []byte) error {
			var saved feed.SavedFeed
			if err := json.Unmarshal(v, &saved); err != nil {
				return err
			}
			feeds = append(feeds, saved)
			return nil
		})
	})
	return feeds, err
}

// DeleteFeed removes a saved feed; deleting an absent feed is a no-op.
func (s *Store) DeleteFeed(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(feedsBucket).Delete(feedKey(name))
	})
}
