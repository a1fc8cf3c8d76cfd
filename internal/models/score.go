package models

// ViralScore is the scoring engine's composite engagement estimate for one
// content package on one platform. All sub-scores and the overall score are
// in [0,100]. Recomputed fresh per package, never mutated in place.
type ViralScore struct {
	Overall          int      `json:"overall"`
	HookStrength     int      `json:"hook_strength"`
	EmotionalImpact  int      `json:"emotional_impact"`
	Shareability     int      `json:"shareability"`
	TimingScore      int      `json:"timing_score"`
	Uniqueness       int      `json:"uniqueness"`
	TrendAlignment   int      `json:"trend_alignment"`
	ViralProbability int      `json:"viral_probability"`
	EstimatedReach   int      `json:"estimated_reach"`
	PositiveFactors  []string `json:"positive_factors"`
	NegativeFactors  []string `json:"negative_factors"`
	Recommendations  []string `json:"recommendations"`
}
