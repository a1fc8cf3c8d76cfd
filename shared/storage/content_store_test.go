package storage

import (
	"testing"
	"time"

	"socialforge/internal/models"
)

func testResult() *models.PipelineResult {
	return &models.PipelineResult{
		Items: []models.FinalizedItem{
			{ID: "content_tiktok_1", Platform: "tiktok", Status: models.ItemPending},
			{ID: "content_youtube_1", Platform: "youtube_shorts", Status: models.ItemDegraded, Degraded: true},
		},
		Errors:       []models.StageError{{Stage: models.StageCreative, Platform: "youtube_shorts", Message: "boom"}},
		CostEstimate: 0.05,
		Stage:        models.StageComplete,
	}
}

func TestContentStorePersistence(t *testing.T) {
	dir := t.TempDir()

	store, err := NewContentStore(dir)
	if err != nil {
		t.Fatalf("NewContentStore: %v", err)
	}

	if err := store.SaveRun(testResult(), "flowly"); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	// Reload from disk to verify the round trip.
	reloaded, err := NewContentStore(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.ItemCount() != 2 {
		t.Errorf("ItemCount = %d, want 2", reloaded.ItemCount())
	}

	pending := reloaded.PendingItems()
	if len(pending) != 1 {
		t.Fatalf("got %d pending items, want 1 (degraded items are not queued)", len(pending))
	}
	if pending[0].ID != "content_tiktok_1" {
		t.Errorf("pending item = %s, want content_tiktok_1", pending[0].ID)
	}
}

func TestContentStoreMarkApproved(t *testing.T) {
	store, err := NewContentStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewContentStore: %v", err)
	}
	if err := store.SaveRun(testResult(), "flowly"); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	if err := store.MarkApproved("content_tiktok_1"); err != nil {
		t.Fatalf("MarkApproved: %v", err)
	}
	if len(store.PendingItems()) != 0 {
		t.Error("approved item should leave the pending queue")
	}

	if err := store.MarkApproved("content_tiktok_1"); err == nil {
		t.Error("approving twice should fail")
	}
	if err := store.MarkApproved("missing"); err == nil {
		t.Error("approving a missing item should fail")
	}
}

func TestContentStoreCostSince(t *testing.T) {
	store, err := NewContentStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewContentStore: %v", err)
	}
	if err := store.SaveRun(testResult(), "flowly"); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := store.SaveRun(testResult(), "flowly"); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	total := store.CostSince(time.Now().Add(-time.Hour))
	if total != 0.10 {
		t.Errorf("CostSince = %f, want 0.10", total)
	}
	if future := store.CostSince(time.Now().Add(time.Hour)); future != 0 {
		t.Errorf("CostSince(future) = %f, want 0", future)
	}
}
