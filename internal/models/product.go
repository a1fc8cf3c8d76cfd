package models

// Product describes a tracked product the pipeline generates content for.
type Product struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Category       string   `yaml:"category" json:"category"`
	Description    string   `yaml:"description" json:"description"`
	KeyFeatures    []string `yaml:"key_features" json:"key_features"`
	TargetAudience string   `yaml:"target_audience" json:"target_audience"`
	SiteURL        string   `yaml:"url" json:"url"`
	Platforms      []string `yaml:"platforms" json:"platforms"`
}

// RunRequest is one pipeline invocation for a (user, product) pair.
type RunRequest struct {
	Product     Product
	Platforms   []string
	Credentials map[string]string
	PlanTier    string
}

// Plan tiers. Free accounts prefer free-tier media providers.
const (
	PlanFree = "free"
	PlanPro  = "pro"
)
