package media

import (
	"context"
	"errors"
	"strings"
	"testing"

	"socialforge/internal/models"
)

type stubClient struct {
	url   string
	cost  float64
	err   error
	calls int
}

func (s *stubClient) Generate(_ context.Context, req Request) (*models.MediaAsset, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.MediaAsset{URL: s.url, Cost: s.cost}, nil
}

func testDraft(platform string, withVideo, withImage bool) *models.CreativeDraft {
	draft := &models.CreativeDraft{Platform: platform}
	if withImage {
		draft.ImagePrompts = &models.ImagePromptSet{Primary: "product showcase"}
	}
	if withVideo {
		draft.VideoScript = &models.VideoScript{
			Title: "Speed Test",
			Hook:  "We put them head to head...",
			Scenes: []models.SceneDirection{
				{Audio: "We've all been there..."},
				{Audio: "Never going back!"},
			},
		}
	}
	return draft
}

func TestGenerateFallsBackToPlaceholderWithoutProviders(t *testing.T) {
	registry := NewDefaultRegistry(nil)
	router := NewRouterWithClients(registry, nil, models.PlanFree, nil)

	asset := router.Generate(context.Background(), models.CapabilityImage, "a product shot", "instagram")
	if asset == nil {
		t.Fatal("Generate returned nil asset")
	}
	if asset.Provider != models.PlaceholderProvider {
		t.Errorf("Provider = %s, want %s", asset.Provider, models.PlaceholderProvider)
	}
	if asset.Status != models.AssetCompleted {
		t.Errorf("Status = %s, want %s", asset.Status, models.AssetCompleted)
	}
	if asset.Cost != 0 {
		t.Errorf("Cost = %f, want 0", asset.Cost)
	}
	if !strings.Contains(asset.URL, "w=1024") {
		t.Errorf("placeholder URL missing platform dimensions: %s", asset.URL)
	}
}

func TestGenerateFallsBackWhenAllProvidersFail(t *testing.T) {
	registry := NewDefaultRegistry(nil)
	failing := &stubClient{err: errors.New("rate limited")}
	clients := map[string]ProviderClient{
		"huggingface": failing,
		"openai":      failing,
	}
	credentials := map[string]string{
		"HUGGINGFACE_TOKEN": "hf",
		"OPENAI_API_KEY":    "sk",
	}

	router := NewRouterWithClients(registry, credentials, models.PlanPro, clients)
	asset := router.Generate(context.Background(), models.CapabilityImage, "prompt", "twitter")

	if asset.Provider != models.PlaceholderProvider {
		t.Errorf("Provider = %s, want placeholder after all failures", asset.Provider)
	}
	if failing.calls != 2 {
		t.Errorf("expected 2 provider attempts, got %d", failing.calls)
	}
}

func TestGenerateTriesNextProviderOnFailure(t *testing.T) {
	registry := NewDefaultRegistry(nil)
	clients := map[string]ProviderClient{
		"huggingface": &stubClient{err: errors.New("model loading")},
		"openai":      &stubClient{url: "https://cdn.example.com/img.png", cost: 0.04},
	}
	credentials := map[string]string{
		"HUGGINGFACE_TOKEN": "hf",
		"OPENAI_API_KEY":    "sk",
	}

	router := NewRouterWithClients(registry, credentials, models.PlanPro, clients)
	asset := router.Generate(context.Background(), models.CapabilityImage, "prompt", "instagram")

	if asset.Provider != "openai" {
		t.Errorf("Provider = %s, want openai", asset.Provider)
	}
	if asset.Status != models.AssetCompleted {
		t.Errorf("Status = %s, want completed", asset.Status)
	}
	if asset.ID == "" || !strings.HasPrefix(asset.ID, "img_") {
		t.Errorf("ID = %q, want img_ prefix", asset.ID)
	}
}

func TestFreePlanPrefersFreeTier(t *testing.T) {
	registry := NewDefaultRegistry(nil)
	freeClient := &stubClient{url: "https://hf.example.com/img.png"}
	premiumClient := &stubClient{url: "https://openai.example.com/img.png", cost: 0.04}
	clients := map[string]ProviderClient{
		"huggingface": freeClient,
		"openai":      premiumClient,
	}
	credentials := map[string]string{
		"HUGGINGFACE_TOKEN": "hf",
		"OPENAI_API_KEY":    "sk",
	}

	router := NewRouterWithClients(registry, credentials, models.PlanFree, clients)
	asset := router.Generate(context.Background(), models.CapabilityImage, "prompt", "instagram")

	if asset.Provider != "huggingface" {
		t.Errorf("Provider = %s, want huggingface under free plan", asset.Provider)
	}
	if premiumClient.calls != 0 {
		t.Error("premium provider should not be tried while a free provider succeeds")
	}
}

func TestFreePlanWidensWhenNoFreeProvider(t *testing.T) {
	registry := NewDefaultRegistry(nil)
	premiumClient := &stubClient{url: "https://openai.example.com/img.png", cost: 0.04}
	clients := map[string]ProviderClient{"openai": premiumClient}
	credentials := map[string]string{"OPENAI_API_KEY": "sk"}

	router := NewRouterWithClients(registry, credentials, models.PlanFree, clients)
	asset := router.Generate(context.Background(), models.CapabilityImage, "prompt", "instagram")

	if asset.Provider != "openai" {
		t.Errorf("Provider = %s, want openai when no free provider exists", asset.Provider)
	}
}

func TestGenerateSetProducesExpectedAssets(t *testing.T) {
	registry := NewDefaultRegistry(nil)
	router := NewRouterWithClients(registry, nil, models.PlanFree, nil)

	tests := []struct {
		name      string
		draft     *models.CreativeDraft
		wantImage bool
		wantVideo bool
		wantAudio bool
	}{
		{
			name:      "video platform gets video and voiceover",
			draft:     testDraft("tiktok", true, false),
			wantVideo: true,
			wantAudio: true,
		},
		{
			name:      "image platform gets image only",
			draft:     testDraft("linkedin", false, true),
			wantImage: true,
		},
		{
			name:  "empty draft gets nothing",
			draft: testDraft("twitter", false, false),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := router.GenerateSet(context.Background(), tt.draft)
			if err != nil {
				t.Fatalf("GenerateSet returned error: %v", err)
			}
			if (set.Image != nil) != tt.wantImage {
				t.Errorf("Image present = %v, want %v", set.Image != nil, tt.wantImage)
			}
			if (set.Video != nil) != tt.wantVideo {
				t.Errorf("Video present = %v, want %v", set.Video != nil, tt.wantVideo)
			}
			if (set.Audio != nil) != tt.wantAudio {
				t.Errorf("Audio present = %v, want %v", set.Audio != nil, tt.wantAudio)
			}
		})
	}
}

func TestAudioPlaceholderHasEmptyLocator(t *testing.T) {
	registry := NewDefaultRegistry(nil)
	router := NewRouterWithClients(registry, nil, models.PlanFree, nil)

	set, err := router.GenerateSet(context.Background(), testDraft("tiktok", true, false))
	if err != nil {
		t.Fatalf("GenerateSet returned error: %v", err)
	}
	if set.Audio == nil {
		t.Fatal("expected audio placeholder asset")
	}
	if set.Audio.Status != models.AssetCompleted {
		t.Errorf("audio Status = %s, want completed", set.Audio.Status)
	}
	if set.Audio.URL != "" {
		t.Errorf("audio URL = %q, want empty locator", set.Audio.URL)
	}
	if set.Audio.Provider != models.PlaceholderProvider {
		t.Errorf("audio Provider = %s, want placeholder", set.Audio.Provider)
	}

	// URLs must skip the empty audio locator.
	for _, url := range set.URLs() {
		if url == "" {
			t.Error("URLs() returned an empty locator")
		}
	}
}

func TestEstimateCost(t *testing.T) {
	registry := NewDefaultRegistry(nil)
	credentials := map[string]string{
		"OPENAI_API_KEY":      "sk",
		"REPLICATE_API_TOKEN": "r8",
		"ELEVENLABS_API_KEY":  "el",
	}
	router := NewRouterWithClients(registry, credentials, models.PlanPro, nil)

	draft := testDraft("tiktok", true, true)
	breakdown := router.EstimateCost(draft)

	if breakdown.Image != 0.01 {
		t.Errorf("Image estimate = %f, want 0.01 (cheapest available)", breakdown.Image)
	}
	if breakdown.Video != 0.05 {
		t.Errorf("Video estimate = %f, want 0.05", breakdown.Video)
	}

	voiceover := voiceoverText(draft.VideoScript)
	wantAudio := float64(len(voiceover)) * 0.0001
	if breakdown.Audio != wantAudio {
		t.Errorf("Audio estimate = %f, want %f", breakdown.Audio, wantAudio)
	}
	wantTotal := breakdown.Image + breakdown.Video + breakdown.Audio
	if breakdown.Total != wantTotal {
		t.Errorf("Total = %f, want %f", breakdown.Total, wantTotal)
	}
}

func TestEstimateCostNoCredentialsIsZero(t *testing.T) {
	registry := NewDefaultRegistry(nil)
	router := NewRouterWithClients(registry, nil, models.PlanFree, nil)

	breakdown := router.EstimateCost(testDraft("tiktok", true, true))
	if breakdown.Total != 0 {
		t.Errorf("Total = %f, want 0 with no providers", breakdown.Total)
	}
}

func TestVoiceoverText(t *testing.T) {
	tests := []struct {
		name   string
		script *models.VideoScript
		want   string
	}{
		{
			name: "joins scene audio",
			script: &models.VideoScript{
				Hook: "The hook",
				Scenes: []models.SceneDirection{
					{Audio: "We've all been there..."},
					{Audio: "ok"}, // too short, skipped
					{Audio: "Never going back!"},
				},
			},
			want: "We've all been there... Never going back!",
		},
		{
			name:   "falls back to hook",
			script: &models.VideoScript{Hook: "The hook", Scenes: []models.SceneDirection{{Audio: "hi"}}},
			want:   "The hook",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := voiceoverText(tt.script); got != tt.want {
				t.Errorf("voiceoverText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPlatformDimensions(t *testing.T) {
	tests := []struct {
		platform string
		width    int
		height   int
	}{
		{"instagram", 1024, 1024},
		{"tiktok", 1080, 1920},
		{"youtube_shorts", 1920, 1080},
		{"unknown", 1024, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			width, height := dimensionsFor(tt.platform)
			if width != tt.width || height != tt.height {
				t.Errorf("dimensionsFor(%s) = %dx%d, want %dx%d", tt.platform, width, height, tt.width, tt.height)
			}
		})
	}
}
