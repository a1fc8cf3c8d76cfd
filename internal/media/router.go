package media

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"socialforge/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrNotImplemented marks a catalogued provider whose generation call is
// not wired yet. The router treats it like any other provider failure.
var ErrNotImplemented = errors.New("provider not implemented")

// Request carries everything a provider client needs for one generation.
type Request struct {
	Descriptor models.ProviderDescriptor
	Key        string
	Prompt     string
	Platform   string
	Width      int
	Height     int
}

// ProviderClient is the uniform generation interface. Adding a provider
// means registering a descriptor in the catalogue and a client here, not
// editing a dispatch chain.
type ProviderClient interface {
	Generate(ctx context.Context, req Request) (*models.MediaAsset, error)
}

// Router selects among ranked providers with fallback. One router is built
// per pipeline run with that run's merged credentials and plan tier.
type Router struct {
	registry    *Registry
	clients     map[string]ProviderClient
	credentials map[string]string
	planTier    string
	callTimeout time.Duration
}

// NewRouter builds a router with the default provider clients.
func NewRouter(registry *Registry, credentials map[string]string, planTier string) *Router {
	httpClient := &http.Client{Timeout: 60 * time.Second}
	return NewRouterWithClients(registry, credentials, planTier, defaultClients(httpClient))
}

// NewRouterWithClients builds a router with explicit provider clients.
func NewRouterWithClients(registry *Registry, credentials map[string]string, planTier string, clients map[string]ProviderClient) *Router {
	return &Router{
		registry:    registry,
		clients:     clients,
		credentials: credentials,
		planTier:    planTier,
		callTimeout: 90 * time.Second,
	}
}

// platformDimensions maps a platform to its expected image size.
var platformDimensions = map[string][2]int{
	"instagram": {1024, 1024},
	"tiktok":    {1080, 1920},
	"youtube":   {1920, 1080},
	"twitter":   {1600, 900},
	"linkedin":  {1200, 627},
	"facebook":  {1200, 630},
}

// platformKey normalizes variants like "youtube_shorts" to their base name.
func platformKey(platform string) string {
	if idx := strings.Index(platform, "_"); idx > 0 {
		return platform[:idx]
	}
	return platform
}

func dimensionsFor(platform string) (int, int) {
	if dims, ok := platformDimensions[platformKey(platform)]; ok {
		return dims[0], dims[1]
	}
	return 1024, 1024
}

// Generate produces one asset for a capability, trying ranked candidates in
// order. It never fails: when the candidate list is empty or every
// candidate errors, a deterministic placeholder asset is returned so the
// pipeline is never blocked on media.
func (r *Router) Generate(ctx context.Context, capability models.MediaCapability, prompt, platform string) *models.MediaAsset {
	width, height := dimensionsFor(platform)
	candidates := r.candidates(capability)

	if len(candidates) == 0 {
		log.Printf("No %s providers available for %s, using placeholder", capability, platform)
		return placeholderAsset(capability, platform, prompt, width, height)
	}

	for _, desc := range candidates {
		client, ok := r.clients[desc.Name]
		if !ok {
			continue
		}

		req := Request{
			Descriptor: desc,
			Key:        r.registry.credential(desc, r.credentials),
			Prompt:     prompt,
			Platform:   platform,
			Width:      width,
			Height:     height,
		}

		callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
		asset, err := client.Generate(callCtx, req)
		cancel()
		if err != nil {
			log.Printf("Warning: %s %s generation failed: %v, trying next provider", desc.Name, capability, err)
			continue
		}

		asset.ID = assetID(capability)
		asset.Capability = capability
		asset.Status = models.AssetCompleted
		asset.Provider = desc.Name
		return asset
	}

	log.Printf("All %s providers failed for %s, using placeholder", capability, platform)
	return placeholderAsset(capability, platform, prompt, width, height)
}

// GenerateSet produces the media assets a content package calls for: an
// image when image prompts exist, plus a video and voiceover when a video
// script exists. Asset generation runs concurrently per capability.
func (r *Router) GenerateSet(ctx context.Context, draft *models.CreativeDraft) (*models.MediaSet, error) {
	set := &models.MediaSet{}
	g, gctx := errgroup.WithContext(ctx)

	if draft.ImagePrompts != nil {
		prompt := draft.ImagePrompts.Primary
		g.Go(func() error {
			set.Image = r.Generate(gctx, models.CapabilityImage, prompt, draft.Platform)
			return nil
		})
	}

	if draft.VideoScript != nil {
		script := draft.VideoScript
		g.Go(func() error {
			prompt := fmt.Sprintf("Short promotional video: %s", script.Title)
			set.Video = r.Generate(gctx, models.CapabilityVideo, prompt, draft.Platform)
			return nil
		})

		if text := voiceoverText(script); text != "" {
			g.Go(func() error {
				set.Audio = r.Generate(gctx, models.CapabilityAudio, text, draft.Platform)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return set, err
	}
	return set, ctx.Err()
}

// EstimateCost performs candidate selection without generating anything,
// pricing each needed capability at its cheapest available provider.
func (r *Router) EstimateCost(draft *models.CreativeDraft) models.CostBreakdown {
	var breakdown models.CostBreakdown

	if draft.ImagePrompts != nil {
		if desc, ok := r.cheapest(models.CapabilityImage); ok {
			breakdown.Image = desc.CostPerUnit
		}
	}

	if draft.VideoScript != nil {
		if desc, ok := r.cheapest(models.CapabilityVideo); ok {
			breakdown.Video = desc.CostPerUnit
		}
		if text := voiceoverText(draft.VideoScript); text != "" {
			if desc, ok := r.cheapest(models.CapabilityAudio); ok {
				breakdown.Audio = float64(len(text)) * desc.CostPerUnit
			}
		}
	}

	breakdown.Total = breakdown.Image + breakdown.Video + breakdown.Audio
	return breakdown
}

// candidates applies the plan's tier preference: free accounts restrict to
// free providers first and widen only when the free set is empty.
func (r *Router) candidates(capability models.MediaCapability) []models.ProviderDescriptor {
	if r.planTier == models.PlanFree {
		free := models.TierFree
		if candidates := r.registry.ListCandidates(capability, r.credentials, &free); len(candidates) > 0 {
			return candidates
		}
	}
	return r.registry.ListCandidates(capability, r.credentials, nil)
}

func (r *Router) cheapest(capability models.MediaCapability) (models.ProviderDescriptor, bool) {
	candidates := r.registry.ListCandidates(capability, r.credentials, nil)
	if len(candidates) == 0 {
		return models.ProviderDescriptor{}, false
	}
	best := candidates[0]
	for _, desc := range candidates[1:] {
		if desc.CostPerUnit < best.CostPerUnit {
			best = desc
		}
	}
	return best, true
}

// voiceoverText joins the spoken lines of a script, falling back to the
// hook when no scene carries audio.
func voiceoverText(script *models.VideoScript) string {
	var lines []string
	for _, scene := range script.Scenes {
		if len(scene.Audio) > 5 {
			lines = append(lines, scene.Audio)
		}
	}
	if len(lines) == 0 {
		return script.Hook
	}
	return strings.Join(lines, " ")
}

func assetID(capability models.MediaCapability) string {
	prefix := map[models.MediaCapability]string{
		models.CapabilityImage: "img",
		models.CapabilityVideo: "vid",
		models.CapabilityAudio: "aud",
	}[capability]
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// placeholderAsset is the deterministic fallback for a capability, sized to
// the platform's expected aspect ratio.
func placeholderAsset(capability models.MediaCapability, platform, prompt string, width, height int) *models.MediaAsset {
	asset := &models.MediaAsset{
		ID:         assetID(capability),
		Capability: capability,
		Status:     models.AssetCompleted,
		Provider:   models.PlaceholderProvider,
		Cost:       0,
		Metadata: map[string]string{
			"prompt":   prompt,
			"platform": platform,
			"note":     "placeholder - no provider available",
		},
	}

	switch capability {
	case models.CapabilityImage:
		asset.URL = fmt.Sprintf("https://images.unsplash.com/photo-1551434678-e076c223a692?w=%d&h=%d&fit=crop", width, height)
	case models.CapabilityVideo:
		asset.URL = "https://assets.mixkit.co/videos/preview/mixkit-typing-on-a-laptop-in-a-coffee-shop-484-large.mp4"
	case models.CapabilityAudio:
		// No stock voiceover exists; finalize treats an empty locator on a
		// completed placeholder as "no voiceover".
		asset.URL = ""
	}

	return asset
}
