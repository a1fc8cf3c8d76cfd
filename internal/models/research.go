package models

import "time"

// TrendTopic is one trending topic aggregated from a research source.
type TrendTopic struct {
	Topic  string `json:"topic"`
	Source string `json:"source"`
	Score  int    `json:"score"`
	Volume string `json:"volume,omitempty"`
	Growth string `json:"growth,omitempty"`
}

// ContentAngle is a creative direction a draft can be built around.
type ContentAngle struct {
	Title        string   `json:"title"`
	Hook         string   `json:"hook"`
	Platforms    []string `json:"platforms"`
	Format       string   `json:"format"`
	KeyMessage   string   `json:"key_message"`
	CTA          string   `json:"cta"`
	TrendAligned bool     `json:"trend_aligned,omitempty"`
}

// HashtagSuggestion recommends one hashtag with its targeting rationale.
type HashtagSuggestion struct {
	Tag      string `json:"tag"`
	Category string `json:"category"` // branded, industry, topic, audience, trending
	Reach    string `json:"reach"`    // low, medium, high
}

// CompetitorInsight summarizes an observed competitor content pattern.
type CompetitorInsight struct {
	CommonFormat      string `json:"common_format"`
	EngagementPattern string `json:"engagement_pattern"`
	PostingFrequency  string `json:"posting_frequency"`
}

// PlatformPractices captures current best practices for one platform.
type PlatformPractices struct {
	OptimalLength   string   `json:"optimal_length"`
	HookDuration    string   `json:"hook_duration"`
	CaptionStyle    string   `json:"caption_style"`
	HashtagCount    string   `json:"hashtag_count"`
	PostingTimes    []string `json:"posting_times"`
	BestFormats     []string `json:"best_formats"`
	EngagementHooks []string `json:"engagement_hooks"`
}

// ResearchSnapshot is the research stage output shared by every platform in
// a run. It is read-only for downstream stages.
type ResearchSnapshot struct {
	ProductID           string                       `json:"product_id"`
	ResearchedAt        time.Time                    `json:"researched_at"`
	TrendingTopics      []TrendTopic                 `json:"trending_topics"`
	TrendingCategories  []string                     `json:"trending_categories"`
	TrendingHashtags    []string                     `json:"trending_hashtags"`
	ContentAngles       []ContentAngle               `json:"content_angles"`
	RecommendedHashtags []HashtagSuggestion          `json:"recommended_hashtags"`
	CompetitorInsights  []CompetitorInsight          `json:"competitor_insights"`
	BestPractices       map[string]PlatformPractices `json:"best_practices"`
	SiteSummary         string                       `json:"site_summary,omitempty"`
	Fallback            bool                         `json:"fallback,omitempty"`
}
