package media

import (
	"testing"

	"socialforge/internal/models"
)

func TestListCandidatesOrdering(t *testing.T) {
	registry := NewDefaultRegistry(nil)
	credentials := map[string]string{
		"OPENAI_API_KEY":      "sk-test",
		"HUGGINGFACE_TOKEN":   "hf-test",
		"REPLICATE_API_TOKEN": "r8-test",
	}

	candidates := registry.ListCandidates(models.CapabilityImage, credentials, nil)
	if len(candidates) != 3 {
		t.Fatalf("expected 3 image candidates, got %d", len(candidates))
	}

	expected := []string{"huggingface", "replicate", "openai"}
	for i, name := range expected {
		if candidates[i].Name != name {
			t.Errorf("candidate %d = %s, want %s", i, candidates[i].Name, name)
		}
	}
}

func TestListCandidatesCredentialFiltering(t *testing.T) {
	registry := NewDefaultRegistry(nil)

	tests := []struct {
		name        string
		capability  models.MediaCapability
		credentials map[string]string
		want        int
	}{
		{
			name:        "no credentials yields no candidates",
			capability:  models.CapabilityImage,
			credentials: nil,
			want:        0,
		},
		{
			name:        "empty credential value is treated as absent",
			capability:  models.CapabilityImage,
			credentials: map[string]string{"HUGGINGFACE_TOKEN": ""},
			want:        0,
		},
		{
			name:        "one credential yields one candidate",
			capability:  models.CapabilityVideo,
			credentials: map[string]string{"RUNWAY_API_KEY": "key"},
			want:        1,
		},
		{
			name:       "replicate token serves image and video separately",
			capability: models.CapabilityVideo,
			credentials: map[string]string{
				"REPLICATE_API_TOKEN": "r8-test",
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := registry.ListCandidates(tt.capability, tt.credentials, nil)
			if len(candidates) != tt.want {
				t.Errorf("got %d candidates, want %d", len(candidates), tt.want)
			}
		})
	}
}

func TestListCandidatesTierFilter(t *testing.T) {
	registry := NewDefaultRegistry(nil)
	credentials := map[string]string{
		"HUGGINGFACE_TOKEN": "hf-test",
		"OPENAI_API_KEY":    "sk-test",
	}

	free := models.TierFree
	candidates := registry.ListCandidates(models.CapabilityImage, credentials, &free)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 free candidate, got %d", len(candidates))
	}
	if candidates[0].Name != "huggingface" {
		t.Errorf("free candidate = %s, want huggingface", candidates[0].Name)
	}

	premium := models.TierPremium
	candidates = registry.ListCandidates(models.CapabilityImage, credentials, &premium)
	if len(candidates) != 1 || candidates[0].Name != "openai" {
		t.Errorf("premium filter returned %v, want [openai]", candidates)
	}
}

func TestCredentialPrecedence(t *testing.T) {
	registry := NewDefaultRegistry(map[string]string{
		"HUGGINGFACE_TOKEN": "process-default",
	})

	desc := DefaultCatalogue()[0] // huggingface

	t.Run("per-run credential overrides default", func(t *testing.T) {
		key := registry.credential(desc, map[string]string{"HUGGINGFACE_TOKEN": "per-run"})
		if key != "per-run" {
			t.Errorf("credential = %s, want per-run", key)
		}
	})

	t.Run("default used when per-run map lacks the key", func(t *testing.T) {
		key := registry.credential(desc, nil)
		if key != "process-default" {
			t.Errorf("credential = %s, want process-default", key)
		}
	})
}

func TestTierRankOrdering(t *testing.T) {
	if models.TierFree.Rank() >= models.TierCheap.Rank() {
		t.Error("free should rank before cheap")
	}
	if models.TierCheap.Rank() >= models.TierPremium.Rank() {
		t.Error("cheap should rank before premium")
	}
	if models.ProviderTier("mystery").Rank() <= models.TierPremium.Rank() {
		t.Error("unknown tiers should rank last")
	}
}
