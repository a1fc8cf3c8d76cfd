package optimize

import (
	"fmt"
	"regexp"
	"strings"

	"socialforge/internal/models"
	"socialforge/internal/scoring"
)

// Optimizer rewrites a creative draft for maximum engagement on its
// platform: caption formatting, hashtags, emoji enhancement, hook
// variations, format hints, and a viral score. All transforms are
// deterministic.
type Optimizer struct {
	engine *scoring.Engine
}

func NewOptimizer(engine *scoring.Engine) *Optimizer {
	return &Optimizer{engine: engine}
}

// viralHooks are proven hook patterns per platform. "{topic}" is replaced
// with the product category.
var viralHooks = map[string][]string{
	"youtube": {
		"Wait until you see this...",
		"This changes EVERYTHING",
		"I can't believe this actually works",
		"Stop doing this wrong",
		"The secret nobody talks about",
	},
	"tiktok": {
		"POV: You finally found the answer",
		"This is your sign to...",
		"Tell me you {topic} without telling me you {topic}",
		"The way I just...",
		"Nobody asked but...",
	},
	"instagram": {
		"Save this for later!",
		"Which one are you?",
		"Tag someone who needs this",
		"This is your reminder to...",
		"The secret to...",
	},
	"twitter": {
		"Hot take:",
		"Unpopular opinion:",
		"What if I told you...",
		"The real reason...",
		"Stop believing this myth:",
	},
	"linkedin": {
		"I made a $X mistake so you don't have to",
		"After X years in {industry}, here's what I learned",
		"The biggest misconception about...",
		"Why most people fail at...",
		"The framework that changed everything",
	},
}

var categoryHashtags = map[string][]string{
	"SaaS":            {"#SaaS", "#Productivity", "#Startup", "#TechTools", "#WorkSmarter", "#AITools", "#RemoteWork"},
	"Developer Tools": {"#DevTools", "#Programming", "#Coding", "#SoftwareEngineering", "#OpenSource", "#WebDev"},
	"Productivity":    {"#Productivity", "#TimeManagement", "#Efficiency", "#WorkLifeBalance", "#Focus", "#Success"},
	"AI":              {"#AI", "#MachineLearning", "#ArtificialIntelligence", "#ChatGPT", "#Automation", "#FutureOfWork"},
	"Marketing":       {"#Marketing", "#DigitalMarketing", "#ContentMarketing", "#GrowthHacking", "#SocialMedia"},
}

var optimalHashtagCount = map[string]int{
	"instagram": 8,
	"tiktok":    4,
	"twitter":   1,
	"linkedin":  4,
	"facebook":  3,
	"youtube":   4,
}

var formatHints = map[string][]string{
	"youtube":   {"Add chapters and timestamps", "Structure description as About / Resources / Connect", "Pin a comment with the CTA"},
	"tiktok":    {"Place caption at the bottom", "Use on-screen text overlays", "Keep hashtags in the caption", "Credit the sound"},
	"instagram": {"Add alt text to visuals", "Tag a location", "Lead carousels with the hook slide"},
	"twitter":   {"Thread long content with numbered tweets", "Lead with the media"},
	"linkedin":  {"Keep a professional tone", "Tag relevant industries", "Reply to early comments"},
	"facebook":  {"Speak to the community", "Prompt shares", "Encourage tagging friends"},
}

var casualEmojis = []string{"🔥", "💯", "😎", "👏", "🙌", "✨", "💪", "🚀"}

var sentenceBreak = regexp.MustCompile(`([.!?])\s+`)

// platformKey normalizes variants like "youtube_shorts" to their base name.
func platformKey(platform string) string {
	if idx := strings.Index(platform, "_"); idx > 0 {
		return platform[:idx]
	}
	return platform
}

// Optimize produces the optimized rendering of a draft along with its viral
// score.
func (o *Optimizer) Optimize(draft *models.CreativeDraft, product models.Product, trends *models.ResearchSnapshot) models.OptimizedDraft {
	base := platformKey(draft.Platform)

	// Emoji decoration happens first so the platform length cap applies to
	// the final text.
	text := addEmojis(draft.Caption.Text, base)
	text = optimizeText(text, base)

	caption := models.Caption{
		Text:           text,
		Hashtags:       draft.Caption.Hashtags,
		CharacterCount: len(text),
		Tone:           draft.Caption.Tone,
	}

	return models.OptimizedDraft{
		Platform:       draft.Platform,
		Caption:        caption,
		Hashtags:       o.optimizeHashtags(product, base, trends),
		HookVariations: hookVariations(base, product),
		FormatHints:    formatHints[base],
		Score:          o.engine.Score(draft, draft.Platform, product, trends),
	}
}

// optimizeText applies platform length rules and readability line breaks.
func optimizeText(text, platform string) string {
	if platform == "twitter" {
		if runes := []rune(text); len(runes) > 280 {
			text = string(runes[:277]) + "..."
		}
	}

	text = sentenceBreak.ReplaceAllString(text, "$1\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// addEmojis decorates the text's key lines. Picks cycle through the emoji
// set by line index so the output is stable across runs.
func addEmojis(text, platform string) string {
	var set []string
	var maxEmojis int
	switch platform {
	case "linkedin":
		set, maxEmojis = []string{"💼", "📊", "💡", "✅"}, 3
	case "twitter":
		set, maxEmojis = []string{"🔥", "💯", "⚡", "🎯"}, 2
	default:
		set, maxEmojis = casualEmojis, 5
	}

	lines := strings.Split(text, "\n")
	count := 0
	for i, line := range lines {
		if count >= maxEmojis {
			break
		}
		pick := set[i%len(set)]
		switch {
		case i == 0 && len(line) > 10:
			lines[i] = pick + " " + line
			count++
		case strings.Contains(line, "?"):
			lines[i] = line + " 🤔"
			count++
		case containsAny(strings.ToLower(line), "free", "try", "start"):
			lines[i] = line + " 🚀"
			count++
		}
	}
	return strings.Join(lines, "\n")
}

func containsAny(text string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

// optimizeHashtags mixes a branded tag, category tags, and researched
// trending tags, capped at the platform's optimal count.
func (o *Optimizer) optimizeHashtags(product models.Product, platform string, trends *models.ResearchSnapshot) []string {
	limit, ok := optimalHashtagCount[platform]
	if !ok {
		limit = 4
	}

	category := categoryHashtags[product.Category]
	if category == nil {
		category = categoryHashtags["SaaS"]
	}

	branded := "#" + strings.ReplaceAll(product.Name, " ", "")
	all := append([]string{branded}, category...)
	if trends != nil {
		for _, suggestion := range trends.TrendingHashtags {
			all = append(all, suggestion)
		}
	}

	seen := make(map[string]bool, limit)
	var selected []string
	for _, tag := range all {
		if len(selected) == limit {
			break
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		selected = append(selected, tag)
	}
	return selected
}

// hookVariations personalizes the platform's top hook patterns.
func hookVariations(platform string, product models.Product) []string {
	hooks, ok := viralHooks[platform]
	if !ok {
		hooks = viralHooks["youtube"]
	}

	category := strings.ToLower(product.Category)
	if category == "" {
		category = "this"
	}

	variations := make([]string, 0, 3)
	for _, hook := range hooks[:3] {
		variations = append(variations, strings.ReplaceAll(hook, "{topic}", category))
	}
	return variations
}

// FallbackDraft is the safe optimize result used when scoring a platform's
// package fails upstream: the caption passes through and the score pins to
// the neutral midpoint.
func FallbackDraft(draft *models.CreativeDraft) models.OptimizedDraft {
	return models.OptimizedDraft{
		Platform: draft.Platform,
		Caption:  draft.Caption,
		Hashtags: draft.Caption.Hashtags,
		Score: models.ViralScore{
			Overall:          50,
			HookStrength:     50,
			EmotionalImpact:  50,
			Shareability:     50,
			TimingScore:      50,
			Uniqueness:       50,
			TrendAlignment:   50,
			ViralProbability: 42,
			Recommendations:  []string{fmt.Sprintf("Rescore %s content after regeneration", draft.Platform)},
		},
	}
}
