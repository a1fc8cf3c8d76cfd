package media

import (
	"sort"

	"socialforge/internal/models"
)

// Registry maps media capabilities to ranked provider descriptors. It is
// built once from static configuration plus process-wide credential
// defaults; per-run credential maps are merged at call time, never stored.
type Registry struct {
	descriptors []models.ProviderDescriptor
	defaults    map[string]string
}

// NewRegistry builds a registry over the given provider catalogue.
// defaults holds process-wide credentials keyed by credential name.
func NewRegistry(descriptors []models.ProviderDescriptor, defaults map[string]string) *Registry {
	return &Registry{
		descriptors: descriptors,
		defaults:    defaults,
	}
}

// NewDefaultRegistry builds a registry over the built-in provider catalogue.
func NewDefaultRegistry(defaults map[string]string) *Registry {
	return NewRegistry(DefaultCatalogue(), defaults)
}

// ListCandidates returns the providers for a capability that have a
// credential in the merged (per-run over defaults) credential map, ordered
// ascending by tier (free, cheap, premium) then by declared cost. A nil
// tierFilter returns all tiers. An empty result is not an error: callers
// fall back to placeholder assets.
func (r *Registry) ListCandidates(capability models.MediaCapability, credentials map[string]string, tierFilter *models.ProviderTier) []models.ProviderDescriptor {
	var candidates []models.ProviderDescriptor
	for _, desc := range r.descriptors {
		if desc.Capability != capability {
			continue
		}
		if tierFilter != nil && desc.Tier != *tierFilter {
			continue
		}
		if r.credential(desc, credentials) == "" {
			continue
		}
		candidates = append(candidates, desc)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Tier.Rank() != candidates[j].Tier.Rank() {
			return candidates[i].Tier.Rank() < candidates[j].Tier.Rank()
		}
		return candidates[i].CostPerUnit < candidates[j].CostPerUnit
	})

	return candidates
}

// credential resolves a provider's key: caller-supplied credentials take
// precedence over process-wide defaults.
func (r *Registry) credential(desc models.ProviderDescriptor, credentials map[string]string) string {
	if key, ok := credentials[desc.CredentialKey]; ok && key != "" {
		return key
	}
	return r.defaults[desc.CredentialKey]
}

// DefaultCatalogue is the built-in provider configuration. Order within a
// tier is the declaration order used for tie-breaking.
func DefaultCatalogue() []models.ProviderDescriptor {
	return []models.ProviderDescriptor{
		// Image
		{Name: "huggingface", Capability: models.CapabilityImage, Tier: models.TierFree, CostPerUnit: 0.0,
			CredentialKey: "HUGGINGFACE_TOKEN", BaseURL: "https://api-inference.huggingface.co/models", Model: "black-forest-labs/FLUX.1-dev"},
		{Name: "siliconflow", Capability: models.CapabilityImage, Tier: models.TierFree, CostPerUnit: 0.0,
			CredentialKey: "SILICONFLOW_API_KEY", BaseURL: "https://api.siliconflow.cn/v1", Model: "stabilityai/stable-diffusion-xl-base-1.0"},
		{Name: "replicate", Capability: models.CapabilityImage, Tier: models.TierCheap, CostPerUnit: 0.01,
			CredentialKey: "REPLICATE_API_TOKEN", BaseURL: "https://api.replicate.com/v1", Model: "black-forest-labs/flux-schnell"},
		{Name: "fal", Capability: models.CapabilityImage, Tier: models.TierCheap, CostPerUnit: 0.02,
			CredentialKey: "FAL_AI_KEY", BaseURL: "https://fal.run", Model: "fal-ai/flux/dev"},
		{Name: "leonardo", Capability: models.CapabilityImage, Tier: models.TierPremium, CostPerUnit: 0.03,
			CredentialKey: "LEONARDO_API_KEY", BaseURL: "https://cloud.leonardo.ai/api/rest/v1", Model: "e71a1c2f-4f18-462c-9e24-724f8d609b57"},
		{Name: "openai", Capability: models.CapabilityImage, Tier: models.TierPremium, CostPerUnit: 0.04,
			CredentialKey: "OPENAI_API_KEY", BaseURL: "https://api.openai.com/v1", Model: "dall-e-3"},

		// Video
		{Name: "replicate-video", Capability: models.CapabilityVideo, Tier: models.TierCheap, CostPerUnit: 0.05,
			CredentialKey: "REPLICATE_API_TOKEN", BaseURL: "https://api.replicate.com/v1", Model: "stability-ai/stable-video-diffusion"},
		{Name: "runway", Capability: models.CapabilityVideo, Tier: models.TierPremium, CostPerUnit: 0.20,
			CredentialKey: "RUNWAY_API_KEY", BaseURL: "https://api.runwayml.com/v1"},
		{Name: "heygen", Capability: models.CapabilityVideo, Tier: models.TierPremium, CostPerUnit: 0.30,
			CredentialKey: "HEYGEN_API_KEY", BaseURL: "https://api.heygen.com/v1"},

		// Audio (cost per character)
		{Name: "coqui", Capability: models.CapabilityAudio, Tier: models.TierFree, CostPerUnit: 0.0,
			CredentialKey: "COQUI_API_KEY", BaseURL: "https://app.coqui.ai/api/v1"},
		{Name: "playht", Capability: models.CapabilityAudio, Tier: models.TierCheap, CostPerUnit: 0.00005,
			CredentialKey: "PLAYHT_API_KEY", BaseURL: "https://play.ht/api/v1"},
		{Name: "elevenlabs", Capability: models.CapabilityAudio, Tier: models.TierPremium, CostPerUnit: 0.0001,
			CredentialKey: "ELEVENLABS_API_KEY", BaseURL: "https://api.elevenlabs.io/v1"},
	}
}
