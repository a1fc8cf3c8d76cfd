package scoring

import (
	"regexp"
	"strings"
	"time"

	"socialforge/internal/models"
)

// Engine computes viral scores from six weighted sub-scores. The clock is
// injectable so the timing sub-score is testable.
type Engine struct {
	now func() time.Time
}

// NewEngine builds an engine on the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock builds an engine with an explicit clock.
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Sub-score weights. They sum to 1.0.
const (
	weightHook         = 0.25
	weightEmotional    = 0.20
	weightShareability = 0.20
	weightTiming       = 0.10
	weightUniqueness   = 0.15
	weightTrend        = 0.10
)

var hookPatterns = []*regexp.Regexp{
	regexp.MustCompile(`wait (until|for)`),
	regexp.MustCompile(`this changes everything`),
	regexp.MustCompile(`can't believe`),
	regexp.MustCompile(`stop doing`),
	regexp.MustCompile(`secret`),
	regexp.MustCompile(`nobody`),
	regexp.MustCompile(`pov:`),
	regexp.MustCompile(`hot take`),
	regexp.MustCompile(`unpopular opinion`),
}

var (
	positiveWords = []string{"amazing", "incredible", "love", "perfect", "game changer", "transform"}
	negativeWords = []string{"struggle", "problem", "frustrated", "waste", "difficult"}
	urgencyWords  = []string{"now", "today", "limited", "urgent", "don't miss"}
)

// optimalPostingHours are per-platform engagement peaks, in local time.
var optimalPostingHours = map[string][]int{
	"youtube":   {12, 15, 18},
	"tiktok":    {7, 12, 19},
	"instagram": {11, 14, 19},
	"facebook":  {9, 13, 15},
	"twitter":   {8, 12, 17},
	"linkedin":  {8, 12, 17},
}

var baseReach = map[string]int{
	"youtube":   10000,
	"tiktok":    50000,
	"instagram": 15000,
	"facebook":  8000,
	"twitter":   5000,
	"linkedin":  3000,
}

var standoutFormats = map[string]bool{
	"pov":            true,
	"transformation": true,
	"day_in_life":    true,
	"comparison":     true,
}

var hotCategories = map[string]bool{
	"SaaS":            true,
	"Developer Tools": true,
	"AI":              true,
}

// platformKey normalizes variants like "youtube_shorts" to their base name.
func platformKey(platform string) string {
	if idx := strings.Index(platform, "_"); idx > 0 {
		return platform[:idx]
	}
	return platform
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Score rates a content package for one platform. Identical inputs under an
// identical clock produce an identical score.
func (e *Engine) Score(draft *models.CreativeDraft, platform string, product models.Product, trends *models.ResearchSnapshot) models.ViralScore {
	base := platformKey(platform)

	score := models.ViralScore{
		HookStrength:    e.scoreHook(draft, base),
		EmotionalImpact: e.scoreEmotional(draft),
		Shareability:    e.scoreShareability(draft, base),
		TimingScore:     e.scoreTiming(base),
		Uniqueness:      e.scoreUniqueness(draft, product),
		TrendAlignment:  e.scoreTrend(product, trends),
	}

	overall := float64(score.HookStrength)*weightHook +
		float64(score.EmotionalImpact)*weightEmotional +
		float64(score.Shareability)*weightShareability +
		float64(score.TimingScore)*weightTiming +
		float64(score.Uniqueness)*weightUniqueness +
		float64(score.TrendAlignment)*weightTrend

	score.Overall = clamp(int(overall))
	score.ViralProbability = clamp(int(float64(score.Overall) * 0.85))

	reach := baseReach[base]
	if reach == 0 {
		reach = 10000
	}
	score.EstimatedReach = reach * score.Overall / 50

	e.appendFeedback(&score)
	return score
}

func (e *Engine) scoreHook(draft *models.CreativeDraft, platform string) int {
	hook := ""
	if draft.VideoScript != nil {
		hook = draft.VideoScript.Hook
	}
	if hook == "" {
		hook = draft.Caption.Text
	}
	lowered := strings.ToLower(hook)

	score := 50
	for _, pattern := range hookPatterns {
		if pattern.MatchString(lowered) {
			score += 10
		}
	}

	switch {
	case len(hook) < 10:
		score -= 10
	case len(hook) > 100:
		score -= 5
	default:
		score += 5
	}

	if platform == "tiktok" {
		for _, marker := range []string{"pov", "tell me", "the way"} {
			if strings.Contains(lowered, marker) {
				score += 10
				break
			}
		}
	}

	return clamp(score)
}

func (e *Engine) scoreEmotional(draft *models.CreativeDraft) int {
	text := strings.ToLower(draft.Caption.Text)

	score := 50
	for _, word := range positiveWords {
		if strings.Contains(text, word) {
			score += 5
		}
	}
	for _, word := range negativeWords {
		// Pain-point language is relatable, not penalized.
		if strings.Contains(text, word) {
			score += 3
		}
	}
	for _, word := range urgencyWords {
		if strings.Contains(text, word) {
			score += 4
		}
	}

	return clamp(score)
}

func (e *Engine) scoreShareability(draft *models.CreativeDraft, platform string) int {
	score := 50
	if draft.CTA.Recommended != "" {
		score += 10
	}
	if len(draft.Caption.Text) > 50 {
		score += 5
	}
	if draft.ImagePrompts != nil || draft.VideoScript != nil {
		score += 15
	}
	if (platform == "tiktok" || platform == "instagram") && draft.VideoScript != nil {
		score += 10
	}
	return clamp(score)
}

func (e *Engine) scoreTiming(platform string) int {
	hours, ok := optimalPostingHours[platform]
	if !ok {
		hours = []int{12}
	}

	current := e.now().Hour()
	best := 60
	for _, hour := range hours {
		switch {
		case current == hour:
			return 90
		case current == hour-1 || current == hour+1:
			if best < 75 {
				best = 75
			}
		}
	}
	return best
}

func (e *Engine) scoreUniqueness(draft *models.CreativeDraft, product models.Product) int {
	score := 60
	if standoutFormats[draft.Angle.Format] {
		score += 15
	}

	name := strings.ToLower(product.Name)
	if name != "" {
		if strings.Contains(strings.ToLower(draft.Caption.Text), name) {
			score += 10
		} else if draft.VideoScript != nil && strings.Contains(strings.ToLower(draft.VideoScript.Title), name) {
			score += 10
		}
	}

	return clamp(score)
}

func (e *Engine) scoreTrend(product models.Product, trends *models.ResearchSnapshot) int {
	score := 50
	if trends != nil {
		for _, category := range trends.TrendingCategories {
			if strings.EqualFold(category, product.Category) {
				score += 25
				break
			}
		}
	}
	if hotCategories[product.Category] {
		score += 15
	}
	return clamp(score)
}

// feedbackThreshold splits sub-scores into positive factors and
// recommendations.
const feedbackThreshold = 70

// appendFeedback fills the factor and recommendation lists in a fixed
// sub-score order so output is deterministic.
func (e *Engine) appendFeedback(score *models.ViralScore) {
	if score.HookStrength >= feedbackThreshold {
		score.PositiveFactors = append(score.PositiveFactors, "Strong hook that grabs attention immediately")
	} else {
		score.NegativeFactors = append(score.NegativeFactors, "Hook could be more compelling")
		score.Recommendations = append(score.Recommendations, "Start with a question, bold statement, or curiosity gap")
	}

	if score.EmotionalImpact >= feedbackThreshold {
		score.PositiveFactors = append(score.PositiveFactors, "Good emotional resonance with audience")
	} else {
		score.Recommendations = append(score.Recommendations, "Add more emotional language and relatable scenarios")
	}

	if score.Shareability >= feedbackThreshold {
		score.PositiveFactors = append(score.PositiveFactors, "High shareability factor")
	} else {
		score.Recommendations = append(score.Recommendations, "Include a clear call-to-action and value proposition")
	}

	if score.TimingScore >= feedbackThreshold {
		score.PositiveFactors = append(score.PositiveFactors, "Optimal posting time")
	} else {
		score.Recommendations = append(score.Recommendations, "Consider posting during peak engagement hours")
	}

	if score.Uniqueness >= feedbackThreshold {
		score.PositiveFactors = append(score.PositiveFactors, "Unique angle that stands out")
	} else {
		score.Recommendations = append(score.Recommendations, "Try a different content format or angle")
	}

	if score.TrendAlignment >= feedbackThreshold {
		score.PositiveFactors = append(score.PositiveFactors, "Well-aligned with current trends")
	} else {
		score.Recommendations = append(score.Recommendations, "Incorporate trending topics or hashtags")
	}
}
