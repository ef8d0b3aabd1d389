package storage

import (
	"os"
	"path/filepath"
	"testing"

	"reddlist/internal/feed"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	tmpDir, err := os.MkdirTemp("", "store-test-*")
	if err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := NewStore(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatal(err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func TestStore_SaveAndGetFeed(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	saved := feed.SavedFeed{Name: "golang", Sort: feed.SortTop}
	if err := store.SaveFeed(saved); err != nil {
		t.Fatalf("failed to save feed: %v", err)
	}

	got, err := store.GetFeed("golang")
	if err != nil {
		t.Fatalf("failed to get feed: %v", err)
	}
	if got != saved {
		t.Errorf("expected %+v, got %+v", saved, got)
	}
}

func TestStore_CaseInsensitiveKeys(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.SaveFeed(feed.SavedFeed{Name: "GoLang", Sort: feed.SortHot}); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetFeed("gOlAnG")
	if err != nil {
		t.Fatalf("case-insensitive lookup failed: %v", err)
	}
	if got.Name != "GoLang" {
		t.Errorf("expected stored name GoLang, got %s", got.Name)
	}

	// Saving under a different casing overwrites, it does not duplicate.
	if err := store.SaveFeed(feed.SavedFeed{Name: "GOLANG", Sort: feed.SortNew}); err != nil {
		t.Fatal(err)
	}
	feeds, err := store.GetAllFeeds()
	if err != nil {
		t.Fatal(err)
	}
	if len(feeds) != 1 {
		t.Errorf("expected 1 feed, got %d", len(feeds))
	}
	if feeds[0].Sort != feed.SortNew {
		t.Errorf("expected overwritten sort new, got %s", feeds[0].Sort)
	}
}

func TestStore_GetFeed_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if _, err := store.GetFeed("missing"); err == nil {
		t.Error("expected error for missing feed, got nil")
	}

	found, err := store.HasFeed("missing")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("HasFeed reported a missing feed as present")
	}
}

func TestStore_GetAllFeeds_Ordered(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	for _, name := range []string{"zig", "golang", "rust"} {
		if err := store.SaveFeed(feed.SavedFeed{Name: name, Sort: feed.SortHot}); err != nil {
			t.Fatal(err)
		}
	}

	feeds, err := store.GetAllFeeds()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"golang", "rust", "zig"}
	if len(feeds) != len(want) {
		t.Fatalf("expected %d feeds, got %d", len(want), len(feeds))
	}
	for i, name := range want {
		if feeds[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, feeds[i].Name)
		}
	}
}

func TestStore_DeleteFeed(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.SaveFeed(feed.SavedFeed{Name: "golang", Sort: feed.SortHot}); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteFeed("GOLANG"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetFeed("golang"); err == nil {
		t.Error("expected error after delete")
	}

	// Deleting an absent feed is a no-op.
	if err := store.DeleteFeed("golang"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
