package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"socialforge/internal/models"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const userAgent = "socialforge/1.0"

// Service gathers trend research from public sources. Every source is
// optional: a source that fails is logged and skipped, and a run with no
// usable sources falls back to the static category tables.
type Service struct {
	http          *http.Client
	youtube       *youtube.Service
	redditEnabled bool
}

// NewService builds a research service. An empty YouTube API key disables
// the YouTube trending source.
func NewService(ctx context.Context, youtubeAPIKey string, redditEnabled bool) (*Service, error) {
	svc := &Service{
		http:          &http.Client{Timeout: 15 * time.Second},
		redditEnabled: redditEnabled,
	}

	if youtubeAPIKey != "" {
		yt, err := youtube.NewService(ctx, option.WithAPIKey(youtubeAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service: %w", err)
		}
		svc.youtube = yt
	}

	return svc, nil
}

// subredditsByCategory maps product categories to communities worth mining.
var subredditsByCategory = map[string][]string{
	"SaaS":            {"SaaS", "startups", "Entrepreneur", "Productivity"},
	"Developer Tools": {"webdev", "programming", "developer", "coding"},
	"Productivity":    {"productivity", "getdisciplined", "timemanagement"},
	"AI":              {"MachineLearning", "artificial", "ChatGPT", "LocalLLaMA"},
	"Marketing":       {"marketing", "DigitalMarketing", "content_marketing"},
}

var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

// Research produces the run-wide snapshot for one product. Source failures
// degrade to the fallback tables; the returned error is reserved for
// context cancellation.
func (s *Service) Research(ctx context.Context, product models.Product) (*models.ResearchSnapshot, error) {
	var (
		redditTopics  []models.TrendTopic
		youtubeTopics []models.TrendTopic
		siteSummary   string
	)

	g, gctx := errgroup.WithContext(ctx)

	if s.redditEnabled {
		g.Go(func() error {
			topics, err := s.redditTrends(gctx, product.Category)
			if err != nil {
				log.Printf("Warning: Reddit research failed: %v", err)
				return nil
			}
			redditTopics = topics
			return nil
		})
	}

	if s.youtube != nil {
		g.Go(func() error {
			topics, err := s.youtubeTrends(gctx)
			if err != nil {
				log.Printf("Warning: YouTube research failed: %v", err)
				return nil
			}
			youtubeTopics = topics
			return nil
		})
	}

	if product.SiteURL != "" {
		g.Go(func() error {
			summary, err := s.crawlSite(gctx, product.SiteURL)
			if err != nil {
				log.Printf("Warning: site crawl failed for %s: %v", product.SiteURL, err)
				return nil
			}
			siteSummary = summary
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topics := aggregateTopics(append(redditTopics, youtubeTopics...))
	fallback := len(topics) == 0
	if fallback {
		topics = fallbackTrends(product.Category)
	}

	suggestions := hashtagSuggestions(product)

	snapshot := &models.ResearchSnapshot{
		ProductID:           product.ID,
		ResearchedAt:        time.Now(),
		TrendingTopics:      topics,
		TrendingCategories:  trendingCategories(product, fallback),
		TrendingHashtags:    trendingTags(suggestions),
		ContentAngles:       contentAngles(product, topics),
		RecommendedHashtags: suggestions,
		CompetitorInsights:  competitorInsights(),
		BestPractices:       platformBestPractices(),
		SiteSummary:         siteSummary,
		Fallback:            fallback,
	}

	return snapshot, nil
}

// FallbackSnapshot is the fully static snapshot used when research cannot
// run at all. Downstream stages always receive a usable snapshot.
func FallbackSnapshot(product models.Product) *models.ResearchSnapshot {
	suggestions := hashtagSuggestions(product)
	topics := fallbackTrends(product.Category)

	return &models.ResearchSnapshot{
		ProductID:           product.ID,
		ResearchedAt:        time.Now(),
		TrendingTopics:      topics,
		TrendingCategories:  trendingCategories(product, true),
		TrendingHashtags:    trendingTags(suggestions),
		ContentAngles:       contentAngles(product, topics),
		RecommendedHashtags: suggestions,
		CompetitorInsights:  competitorInsights(),
		BestPractices:       platformBestPractices(),
		Fallback:            true,
	}
}

// redditTrends mines hot post titles from the category's top communities
// via the public JSON endpoint.
func (s *Service) redditTrends(ctx context.Context, category string) ([]models.TrendTopic, error) {
	subreddits, ok := subredditsByCategory[category]
	if !ok {
		subreddits = []string{"SaaS", "startups"}
	}

	var topics []models.TrendTopic
	for _, subreddit := range subreddits[:2] {
		url := fmt.Sprintf("https://www.reddit.com/r/%s/hot.json?limit=10", subreddit)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := s.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		var listing struct {
			Data struct {
				Children []struct {
					Data struct {
						Title string `json:"title"`
						Score int    `json:"score"`
					} `json:"data"`
				} `json:"children"`
			} `json:"data"`
		}
		err = json.NewDecoder(resp.Body).Decode(&listing)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode r/%s listing: %w", subreddit, err)
		}

		for i, child := range listing.Data.Children {
			if i >= 5 {
				break
			}
			for _, word := range capitalizedWord.FindAllString(child.Data.Title, -1) {
				topics = append(topics, models.TrendTopic{Topic: word, Source: "reddit", Score: 1})
			}
		}
	}

	return topics, nil
}

// youtubeTrends mines the most-popular chart for title keywords.
func (s *Service) youtubeTrends(ctx context.Context) ([]models.TrendTopic, error) {
	response, err := s.youtube.Videos.List([]string{"snippet"}).
		Chart("mostPopular").
		MaxResults(10).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("trending chart request failed: %w", err)
	}

	var topics []models.TrendTopic
	for _, video := range response.Items {
		if video.Snippet == nil {
			continue
		}
		for _, word := range capitalizedWord.FindAllString(video.Snippet.Title, -1) {
			topics = append(topics, models.TrendTopic{Topic: word, Source: "youtube", Score: 2})
		}
	}
	return topics, nil
}

// crawlSite extracts the title, meta description, and feature mentions from
// the product's landing page.
func (s *Service) crawlSite(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	var parts []string
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		parts = append(parts, title)
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && desc != "" {
		parts = append(parts, strings.TrimSpace(desc))
	}

	var features []string
	doc.Find("h2, h3, li").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		lowered := strings.ToLower(text)
		for _, keyword := range []string{"feature", "benefit", "solution", "capability"} {
			if strings.Contains(lowered, keyword) && len(text) < 100 {
				features = append(features, text)
				break
			}
		}
		return len(features) < 3
	})
	if len(features) > 0 {
		parts = append(parts, "Features: "+strings.Join(features, "; "))
	}

	return strings.Join(parts, " | "), nil
}

// aggregateTopics deduplicates topics across sources, keeps the highest
// score per topic, and caps the list at 15.
func aggregateTopics(topics []models.TrendTopic) []models.TrendTopic {
	seen := make(map[string]bool)
	var unique []models.TrendTopic
	for _, topic := range topics {
		key := strings.ToLower(topic.Topic)
		if len(key) <= 2 || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, topic)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Score > unique[j].Score
	})

	if len(unique) > 15 {
		unique = unique[:15]
	}
	return unique
}

// fallbackTrends are the static per-category trend tables used when every
// live source fails.
func fallbackTrends(category string) []models.TrendTopic {
	tables := map[string][]models.TrendTopic{
		"SaaS": {
			{Topic: "AI-powered productivity", Source: "fallback", Score: 3, Volume: "High", Growth: "+145%"},
			{Topic: "Remote work tools", Source: "fallback", Score: 3, Volume: "High", Growth: "+67%"},
			{Topic: "Workflow automation", Source: "fallback", Score: 2, Volume: "Medium", Growth: "+89%"},
		},
		"Developer Tools": {
			{Topic: "AI code assistants", Source: "fallback", Score: 3, Volume: "High", Growth: "+234%"},
			{Topic: "Developer experience", Source: "fallback", Score: 2, Volume: "Medium", Growth: "+45%"},
			{Topic: "Code collaboration", Source: "fallback", Score: 2, Volume: "Medium", Growth: "+56%"},
		},
		"Productivity": {
			{Topic: "Time blocking", Source: "fallback", Score: 3, Volume: "High", Growth: "+78%"},
			{Topic: "Focus techniques", Source: "fallback", Score: 2, Volume: "Medium", Growth: "+34%"},
			{Topic: "Task prioritization", Source: "fallback", Score: 2, Volume: "Medium", Growth: "+52%"},
		},
		"AI": {
			{Topic: "Generative AI", Source: "fallback", Score: 3, Volume: "High", Growth: "+312%"},
			{Topic: "AI automation", Source: "fallback", Score: 3, Volume: "High", Growth: "+189%"},
			{Topic: "LLM tools", Source: "fallback", Score: 2, Volume: "Medium", Growth: "+145%"},
		},
	}

	if trends, ok := tables[category]; ok {
		return trends
	}
	return tables["SaaS"]
}

func trendingCategories(product models.Product, fallback bool) []string {
	categories := []string{"AI", "SaaS", "Developer Tools"}
	if fallback {
		return categories
	}
	for _, category := range categories {
		if category == product.Category {
			return categories
		}
	}
	return append(categories, product.Category)
}

// contentAngles builds the angle catalogue, seeded with the top trending
// topic.
func contentAngles(product models.Product, topics []models.TrendTopic) []models.ContentAngle {
	name := product.Name
	if name == "" {
		name = "Your Product"
	}
	category := product.Category
	if category == "" {
		category = "SaaS"
	}
	trending := "productivity"
	if len(topics) > 0 {
		trending = topics[0].Topic
	}

	return []models.ContentAngle{
		{
			Title:        fmt.Sprintf("How %s Saves You 5 Hours Every Week", name),
			Hook:         "Stop wasting time on manual tasks...",
			Platforms:    []string{"youtube", "tiktok", "instagram"},
			Format:       "tutorial",
			KeyMessage:   fmt.Sprintf("%s automates your workflow", name),
			CTA:          "Try it free for 14 days",
			TrendAligned: true,
		},
		{
			Title:      fmt.Sprintf("Before vs After: The %s Transformation", name),
			Hook:       "This is what changed everything...",
			Platforms:  []string{"tiktok", "instagram", "facebook"},
			Format:     "transformation",
			KeyMessage: "See real results from real users",
			CTA:        "Start your transformation",
		},
		{
			Title:        fmt.Sprintf("5 Ways %s Boosts Your %s", name, titleCase(trending)),
			Hook:         "Number 3 will surprise you...",
			Platforms:    []string{"youtube", "instagram", "linkedin"},
			Format:       "listicle",
			KeyMessage:   "Multiple benefits in one tool",
			CTA:          "Learn more",
			TrendAligned: true,
		},
		{
			Title:      fmt.Sprintf("Why Top %s Companies Choose %s", category, name),
			Hook:       "The secret weapon of industry leaders...",
			Platforms:  []string{"linkedin", "twitter"},
			Format:     "social_proof",
			KeyMessage: "Trusted by industry leaders",
			CTA:        "Join the leaders",
		},
		{
			Title:      fmt.Sprintf("POV: You Just Discovered %s", name),
			Hook:       "That moment when everything clicks...",
			Platforms:  []string{"tiktok", "instagram"},
			Format:     "pov",
			KeyMessage: "The feeling of finding the perfect tool",
			CTA:        "Experience it yourself",
		},
		{
			Title:      fmt.Sprintf("The Real Cost of Not Using %s", name),
			Hook:       "You're losing more than you think...",
			Platforms:  []string{"youtube", "linkedin", "twitter"},
			Format:     "educational",
			KeyMessage: "Highlight the cost of inaction",
			CTA:        "Don't wait, start today",
		},
		{
			Title:      fmt.Sprintf("A Day in the Life: Using %s", name),
			Hook:       "From chaos to calm in 24 hours...",
			Platforms:  []string{"youtube", "tiktok", "instagram"},
			Format:     "day_in_life",
			KeyMessage: "Seamless integration into daily workflow",
			CTA:        "Transform your day",
		},
		{
			Title:      fmt.Sprintf("%s vs Manual: The Speed Test", name),
			Hook:       "We put them head to head...",
			Platforms:  []string{"youtube", "tiktok"},
			Format:     "comparison",
			KeyMessage: "Quantifiable time savings",
			CTA:        "Save time now",
		},
	}
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// hashtagSuggestions combines the branded tag with the category's set.
func hashtagSuggestions(product models.Product) []models.HashtagSuggestion {
	sets := map[string][]models.HashtagSuggestion{
		"SaaS": {
			{Tag: "SaaS", Category: "industry", Reach: "high"},
			{Tag: "Productivity", Category: "topic", Reach: "high"},
			{Tag: "Startup", Category: "audience", Reach: "high"},
			{Tag: "TechTools", Category: "topic", Reach: "medium"},
			{Tag: "WorkSmarter", Category: "topic", Reach: "medium"},
			{Tag: "AITools", Category: "trending", Reach: "high"},
			{Tag: "RemoteWork", Category: "topic", Reach: "medium"},
			{Tag: "Entrepreneur", Category: "audience", Reach: "high"},
		},
		"Developer Tools": {
			{Tag: "DevTools", Category: "industry", Reach: "medium"},
			{Tag: "Programming", Category: "topic", Reach: "high"},
			{Tag: "Coding", Category: "topic", Reach: "high"},
			{Tag: "SoftwareEngineering", Category: "topic", Reach: "medium"},
			{Tag: "OpenSource", Category: "topic", Reach: "medium"},
			{Tag: "WebDev", Category: "topic", Reach: "high"},
			{Tag: "TechStack", Category: "topic", Reach: "low"},
			{Tag: "Developer", Category: "audience", Reach: "high"},
		},
		"Productivity": {
			{Tag: "Productivity", Category: "topic", Reach: "high"},
			{Tag: "TimeManagement", Category: "topic", Reach: "medium"},
			{Tag: "Efficiency", Category: "topic", Reach: "medium"},
			{Tag: "WorkLifeBalance", Category: "topic", Reach: "high"},
			{Tag: "Focus", Category: "topic", Reach: "medium"},
			{Tag: "GoalSetting", Category: "topic", Reach: "medium"},
			{Tag: "MorningRoutine", Category: "topic", Reach: "high"},
			{Tag: "Success", Category: "topic", Reach: "high"},
		},
		"AI": {
			{Tag: "AI", Category: "topic", Reach: "high"},
			{Tag: "MachineLearning", Category: "topic", Reach: "high"},
			{Tag: "ArtificialIntelligence", Category: "topic", Reach: "high"},
			{Tag: "ChatGPT", Category: "trending", Reach: "high"},
			{Tag: "GenerativeAI", Category: "trending", Reach: "high"},
			{Tag: "AIAutomation", Category: "topic", Reach: "medium"},
			{Tag: "FutureOfWork", Category: "topic", Reach: "medium"},
			{Tag: "AITools", Category: "trending", Reach: "high"},
		},
	}

	base, ok := sets[product.Category]
	if !ok {
		base = sets["SaaS"]
	}

	branded := models.HashtagSuggestion{
		Tag:      strings.ReplaceAll(product.Name, " ", ""),
		Category: "branded",
		Reach:    "low",
	}
	return append([]models.HashtagSuggestion{branded}, base...)
}

// trendingTags extracts the "#tag" form of trending-category suggestions.
func trendingTags(suggestions []models.HashtagSuggestion) []string {
	var tags []string
	for _, suggestion := range suggestions {
		if suggestion.Category == "trending" {
			tags = append(tags, "#"+suggestion.Tag)
		}
	}
	return tags
}

func competitorInsights() []models.CompetitorInsight {
	return []models.CompetitorInsight{
		{
			CommonFormat:      "Short tutorial videos (30-60s)",
			EngagementPattern: "How-to content gets 3x more engagement",
			PostingFrequency:  "2-3 times per day",
		},
		{
			CommonFormat:      "Before/after transformations",
			EngagementPattern: "Visual proof drives conversions",
			PostingFrequency:  "1-2 times per day",
		},
		{
			CommonFormat:      "Quick tips and tricks",
			EngagementPattern: "Actionable content gets saved more",
			PostingFrequency:  "3-5 times per day",
		},
	}
}

func platformBestPractices() map[string]models.PlatformPractices {
	return map[string]models.PlatformPractices{
		"youtube_shorts": {
			OptimalLength:   "15-60 seconds",
			HookDuration:    "0-3 seconds",
			CaptionStyle:    "Large, centered, high contrast text",
			HashtagCount:    "3-5 relevant hashtags",
			PostingTimes:    []string{"12:00 PM", "3:00 PM", "6:00 PM"},
			BestFormats:     []string{"Tutorials", "Quick tips", "Behind the scenes"},
			EngagementHooks: []string{"Watch until the end", "Save this for later", "Comment if you agree"},
		},
		"tiktok": {
			OptimalLength:   "15-30 seconds",
			HookDuration:    "0-1 seconds",
			CaptionStyle:    "Trending sounds + text overlay",
			HashtagCount:    "3-5 hashtags including 1-2 trending",
			PostingTimes:    []string{"7:00 AM", "12:00 PM", "7:00 PM"},
			BestFormats:     []string{"Trending sounds", "POV videos", "Storytelling"},
			EngagementHooks: []string{"Wait for it", "Part 2?", "This changed everything"},
		},
		"instagram_reels": {
			OptimalLength:   "15-30 seconds",
			HookDuration:    "0-3 seconds",
			CaptionStyle:    "Engaging cover image + trending audio",
			HashtagCount:    "5-10 hashtags",
			PostingTimes:    []string{"11:00 AM", "2:00 PM", "7:00 PM"},
			BestFormats:     []string{"Aesthetic videos", "Educational carousels", "Day in the life"},
			EngagementHooks: []string{"Save this", "Tag someone who needs this", "Which one are you?"},
		},
		"facebook_reels": {
			OptimalLength:   "15-60 seconds",
			HookDuration:    "0-3 seconds",
			CaptionStyle:    "Conversational, community-focused",
			HashtagCount:    "2-5 hashtags",
			PostingTimes:    []string{"9:00 AM", "1:00 PM", "3:00 PM"},
			BestFormats:     []string{"Community stories", "Product demos", "Customer testimonials"},
			EngagementHooks: []string{"Share your thoughts", "Who can relate?", "Tag a friend"},
		},
		"twitter": {
			OptimalLength:   "Short, punchy text + media",
			HookDuration:    "Strong opening line",
			CaptionStyle:    "Concise with strong hook",
			HashtagCount:    "1-2 hashtags max",
			PostingTimes:    []string{"8:00 AM", "12:00 PM", "5:00 PM"},
			BestFormats:     []string{"Threads", "Quick tips", "Hot takes"},
			EngagementHooks: []string{"What do you think?", "Agree or disagree?", "Drop a 💯 if you agree"},
		},
		"linkedin": {
			OptimalLength:   "Professional, value-driven",
			HookDuration:    "Strong opening line",
			CaptionStyle:    "Professional tone, industry insights",
			HashtagCount:    "3-5 relevant hashtags",
			PostingTimes:    []string{"8:00 AM", "12:00 PM", "5:00 PM"},
			BestFormats:     []string{"Industry insights", "Career advice", "Company updates"},
			EngagementHooks: []string{"What's your experience?", "Share your thoughts", "Agree?"},
		},
	}
}
