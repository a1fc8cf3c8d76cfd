package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"socialforge/internal/models"
)

// ContentStore persists finalized content awaiting approval, along with
// per-run cost records for budget tracking.
type ContentStore struct {
	filePath string
	mu       sync.RWMutex
	state    storeState
}

type storeState struct {
	Items []models.FinalizedItem `json:"items"`
	Runs  []RunRecord            `json:"runs"`
}

// RunRecord summarizes one completed pipeline run.
type RunRecord struct {
	ProductID string    `json:"product_id"`
	RunAt     time.Time `json:"run_at"`
	Items     int       `json:"items"`
	Errors    int       `json:"errors"`
	Cost      float64   `json:"cost"`
}

// NewContentStore creates a store backed by a JSON file under dataDir.
func NewContentStore(dataDir string) (*ContentStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store := &ContentStore{
		filePath: filepath.Join(dataDir, "content_queue.json"),
	}

	if err := store.load(); err != nil {
		return nil, fmt.Errorf("failed to load content store: %w", err)
	}

	return store, nil
}

// SaveRun appends a run's items and records its cost.
func (s *ContentStore) SaveRun(result *models.PipelineResult, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Items = append(s.state.Items, result.Items...)
	s.state.Runs = append(s.state.Runs, RunRecord{
		ProductID: productID,
		RunAt:     time.Now(),
		Items:     len(result.Items),
		Errors:    len(result.Errors),
		Cost:      result.CostEstimate,
	})

	return s.save()
}

// PendingItems returns the items queued for approval. Degraded items are
// stored but never queued.
func (s *ContentStore) PendingItems() []models.FinalizedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []models.FinalizedItem
	for _, item := range s.state.Items {
		if item.Status == models.ItemPending {
			pending = append(pending, item)
		}
	}
	return pending
}

// MarkApproved transitions a pending item to approved.
func (s *ContentStore) MarkApproved(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Items {
		if s.state.Items[i].ID == itemID {
			if s.state.Items[i].Status != models.ItemPending {
				return fmt.Errorf("item %s is %s, not pending", itemID, s.state.Items[i].Status)
			}
			s.state.Items[i].Status = "approved"
			return s.save()
		}
	}
	return fmt.Errorf("item %s not found", itemID)
}

// CostSince sums run costs recorded at or after the cutoff.
func (s *ContentStore) CostSince(cutoff time.Time) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, run := range s.state.Runs {
		if !run.RunAt.Before(cutoff) {
			total += run.Cost
		}
	}
	return total
}

// ItemCount returns the number of stored items.
func (s *ContentStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Items)
}

func (s *ContentStore) load() error {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open store file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&s.state); err != nil {
		return fmt.Errorf("failed to decode store data: %w", err)
	}
	return nil
}

func (s *ContentStore) save() error {
	file, err := os.Create(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s.state)
}
