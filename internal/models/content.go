package models

import (
	"fmt"
	"time"
)

// SceneDirection is one timed scene in a short-form video script.
type SceneDirection struct {
	Time    string `json:"time"`
	Visual  string `json:"visual"`
	Audio   string `json:"audio"`
	Overlay string `json:"overlay"`
}

// VideoScript is a short-form video plan for one platform.
type VideoScript struct {
	Title           string           `json:"title"`
	Hook            string           `json:"hook"`
	Scenes          []SceneDirection `json:"scenes"`
	CTA             string           `json:"cta"`
	DurationSeconds int              `json:"duration_seconds"`
	KeyMessage      string           `json:"key_message"`
	SuggestedAudio  string           `json:"suggested_audio"`
}

// Caption is the written copy for one platform.
type Caption struct {
	Text           string   `json:"text"`
	Hashtags       []string `json:"hashtags"`
	CharacterCount int      `json:"character_count"`
	Tone           string   `json:"tone"`
}

// ImagePromptSet holds generation prompts for the platform's visuals.
type ImagePromptSet struct {
	Primary        string   `json:"primary"`
	Alternatives   []string `json:"alternatives"`
	NegativePrompt string   `json:"negative_prompt"`
	Style          string   `json:"style"`
	AspectRatio    string   `json:"aspect_ratio"`
}

// CTASet carries call-to-action alternatives in declaration order; the
// first entry of Variations is the recommended one.
type CTASet struct {
	Recommended string   `json:"recommended"`
	Variations  []string `json:"variations"`
}

// CreativeDraft is the creative stage output for one platform: the content
// package handed to media synthesis and optimization.
type CreativeDraft struct {
	Platform     string          `json:"platform"`
	Angle        ContentAngle    `json:"angle"`
	Caption      Caption         `json:"caption"`
	VideoScript  *VideoScript    `json:"video_script,omitempty"`
	ImagePrompts *ImagePromptSet `json:"image_prompts,omitempty"`
	CTA          CTASet          `json:"cta"`
	GeneratedAt  time.Time       `json:"generated_at"`
}

// OptimizedDraft is the optimize stage output for one platform.
type OptimizedDraft struct {
	Platform       string     `json:"platform"`
	Caption        Caption    `json:"caption"`
	Hashtags       []string   `json:"hashtags"`
	HookVariations []string   `json:"hook_variations"`
	FormatHints    []string   `json:"format_hints"`
	Score          ViralScore `json:"score"`
}

// ContentVariant is one A/B rendering of a platform's content package.
// ConfidenceEstimate is an explicit heuristic, not a significance level.
type ContentVariant struct {
	VariantID          string     `json:"variant_id"`
	Title              string     `json:"title"`
	Caption            string     `json:"caption"`
	Hashtags           []string   `json:"hashtags"`
	CTA                string     `json:"cta"`
	Score              ViralScore `json:"score"`
	ConfidenceEstimate float64    `json:"confidence_estimate"`
	Hypothesis         string     `json:"hypothesis"`
}

// Finalized item statuses. Degraded items are excluded from auto-queueing.
const (
	ItemPending  = "pending"
	ItemDegraded = "degraded"
)

// GenerationMetadata records how a finalized item was produced.
type GenerationMetadata struct {
	ResearchedAt   time.Time `json:"researched_at"`
	TrendingTopics []string  `json:"trending_topics"`
	CostEstimate   float64   `json:"cost_estimate"`
}

// FinalizedItem is the per-platform pipeline output queued for approval.
type FinalizedItem struct {
	ID                 string             `json:"id"`
	ProductID          string             `json:"product_id"`
	Platform           string             `json:"platform"`
	ContentType        string             `json:"content_type"`
	Status             string             `json:"status"`
	Degraded           bool               `json:"degraded"`
	Title              string             `json:"title"`
	Body               string             `json:"body"`
	Hashtags           []string           `json:"hashtags"`
	MediaURLs          []string           `json:"media_urls"`
	Score              ViralScore         `json:"score"`
	VariantID          string             `json:"variant_id"`
	ConfidenceEstimate float64            `json:"confidence_estimate"`
	Angle              ContentAngle       `json:"angle"`
	Metadata           GenerationMetadata `json:"metadata"`
}

// Stage tags the pipeline's terminal-forward states.
type Stage string

const (
	StageResearch Stage = "research"
	StageCreative Stage = "creative"
	StageMedia    Stage = "media"
	StageOptimize Stage = "optimize"
	StageABTest   Stage = "ab_test"
	StageFinalize Stage = "finalize"
	StageComplete Stage = "complete"
)

// StageError records a recovered per-platform failure inside a stage.
type StageError struct {
	Stage    Stage  `json:"stage"`
	Platform string `json:"platform,omitempty"`
	Message  string `json:"message"`
}

func (e StageError) Error() string {
	if e.Platform == "" {
		return fmt.Sprintf("%s failed: %s", e.Stage, e.Message)
	}
	return fmt.Sprintf("%s failed for %s: %s", e.Stage, e.Platform, e.Message)
}

// PipelineResult is returned unconditionally once finalize completes: the
// produced items are always separated from the errors encountered.
type PipelineResult struct {
	Items        []FinalizedItem `json:"items"`
	Errors       []StageError    `json:"errors"`
	CostEstimate float64         `json:"cost_estimate"`
	Stage        Stage           `json:"stage"`
}
