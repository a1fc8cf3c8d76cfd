package models

// MediaCapability identifies a kind of generated media.
type MediaCapability string

const (
	CapabilityImage MediaCapability = "image"
	CapabilityVideo MediaCapability = "video"
	CapabilityAudio MediaCapability = "audio"
)

// ProviderTier ranks providers by cost class. Candidate ordering is
// free < cheap < premium.
type ProviderTier string

const (
	TierFree    ProviderTier = "free"
	TierCheap   ProviderTier = "cheap"
	TierPremium ProviderTier = "premium"
)

// Rank returns the sort order for a tier; unknown tiers sort last.
func (t ProviderTier) Rank() int {
	switch t {
	case TierFree:
		return 0
	case TierCheap:
		return 1
	case TierPremium:
		return 2
	default:
		return 3
	}
}

// ProviderDescriptor is the static configuration for one media provider.
// Immutable for the duration of a run.
type ProviderDescriptor struct {
	Name          string
	Capability    MediaCapability
	Tier          ProviderTier
	CostPerUnit   float64 // per generation, or per character for audio
	CredentialKey string  // key looked up in the merged credential map
	BaseURL       string
	Model         string
}

// Asset statuses.
const (
	AssetCompleted = "completed"
	AssetFailed    = "failed"
)

// PlaceholderProvider names the synthetic provider used when no real
// provider could serve a request. Placeholder assets are still "completed"
// so the pipeline never blocks on media.
const PlaceholderProvider = "placeholder"

// MediaAsset is the uniform descriptor returned by the media router.
// Immutable once returned.
type MediaAsset struct {
	ID         string            `json:"id"`
	Capability MediaCapability   `json:"capability"`
	URL        string            `json:"url"`
	Status     string            `json:"status"`
	Provider   string            `json:"provider"`
	Cost       float64           `json:"cost"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// MediaSet holds the assets generated for one platform's content package.
type MediaSet struct {
	Image *MediaAsset `json:"image,omitempty"`
	Video *MediaAsset `json:"video,omitempty"`
	Audio *MediaAsset `json:"audio,omitempty"`
}

// URLs returns the non-empty asset locators in image, video, audio order.
func (m *MediaSet) URLs() []string {
	if m == nil {
		return nil
	}
	var urls []string
	for _, asset := range []*MediaAsset{m.Image, m.Video, m.Audio} {
		if asset != nil && asset.URL != "" {
			urls = append(urls, asset.URL)
		}
	}
	return urls
}

// TotalCost sums the incurred cost of all assets in the set.
func (m *MediaSet) TotalCost() float64 {
	if m == nil {
		return 0
	}
	var total float64
	for _, asset := range []*MediaAsset{m.Image, m.Video, m.Audio} {
		if asset != nil {
			total += asset.Cost
		}
	}
	return total
}

// CostBreakdown is a pre-flight media cost estimate for one content package.
type CostBreakdown struct {
	Image float64 `json:"image"`
	Video float64 `json:"video"`
	Audio float64 `json:"audio"`
	Total float64 `json:"total"`
}
