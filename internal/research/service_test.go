package research

import (
	"testing"

	"socialforge/internal/models"
)

func TestFallbackSnapshot(t *testing.T) {
	product := models.Product{
		ID:       "prod-1",
		Name:     "Flowly",
		Category: "SaaS",
	}

	snapshot := FallbackSnapshot(product)

	if !snapshot.Fallback {
		t.Error("Fallback flag not set")
	}
	if snapshot.ProductID != "prod-1" {
		t.Errorf("ProductID = %s, want prod-1", snapshot.ProductID)
	}
	if snapshot.ResearchedAt.IsZero() {
		t.Error("ResearchedAt is zero")
	}
	if len(snapshot.TrendingTopics) == 0 {
		t.Error("fallback snapshot must carry trend topics")
	}
	if len(snapshot.ContentAngles) != 8 {
		t.Errorf("got %d content angles, want 8", len(snapshot.ContentAngles))
	}
	if len(snapshot.BestPractices) != 6 {
		t.Errorf("got %d platform practice entries, want 6", len(snapshot.BestPractices))
	}
	if len(snapshot.CompetitorInsights) != 3 {
		t.Errorf("got %d competitor insights, want 3", len(snapshot.CompetitorInsights))
	}
	if snapshot.RecommendedHashtags[0].Category != "branded" {
		t.Error("first hashtag suggestion should be the branded tag")
	}
}

func TestFallbackTrendsByCategory(t *testing.T) {
	tests := []struct {
		category string
		first    string
	}{
		{"SaaS", "AI-powered productivity"},
		{"Developer Tools", "AI code assistants"},
		{"AI", "Generative AI"},
		{"Unknown Category", "AI-powered productivity"}, // defaults to SaaS
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			trends := fallbackTrends(tt.category)
			if len(trends) != 3 {
				t.Fatalf("got %d trends, want 3", len(trends))
			}
			if trends[0].Topic != tt.first {
				t.Errorf("first topic = %q, want %q", trends[0].Topic, tt.first)
			}
			for _, trend := range trends {
				if trend.Source != "fallback" {
					t.Errorf("trend source = %s, want fallback", trend.Source)
				}
			}
		})
	}
}

func TestAggregateTopics(t *testing.T) {
	topics := []models.TrendTopic{
		{Topic: "Automation", Source: "reddit", Score: 1},
		{Topic: "AI", Source: "reddit", Score: 1}, // too short, dropped
		{Topic: "automation", Source: "youtube", Score: 2},
		{Topic: "Workflows", Source: "youtube", Score: 2},
	}

	aggregated := aggregateTopics(topics)

	if len(aggregated) != 2 {
		t.Fatalf("got %d topics, want 2 (dedup + short filter)", len(aggregated))
	}
	if aggregated[0].Topic != "Workflows" {
		t.Errorf("first topic = %q, want highest-scoring Workflows", aggregated[0].Topic)
	}
	// The first occurrence of a topic wins the dedup.
	if aggregated[1].Source != "reddit" {
		t.Errorf("deduped topic source = %s, want reddit", aggregated[1].Source)
	}
}

func TestAggregateTopicsCap(t *testing.T) {
	var topics []models.TrendTopic
	for i := 0; i < 30; i++ {
		topics = append(topics, models.TrendTopic{
			Topic: "Topic" + string(rune('A'+i)),
			Score: 1,
		})
	}

	if got := len(aggregateTopics(topics)); got != 15 {
		t.Errorf("got %d topics, want capped at 15", got)
	}
}

func TestContentAnglesSeededByTrend(t *testing.T) {
	product := models.Product{Name: "Flowly", Category: "SaaS"}
	topics := []models.TrendTopic{{Topic: "workflow automation", Score: 3}}

	angles := contentAngles(product, topics)

	found := false
	for _, angle := range angles {
		if angle.Title == "5 Ways Flowly Boosts Your Workflow Automation" {
			found = true
		}
	}
	if !found {
		t.Error("listicle angle should be seeded with the top trending topic")
	}

	formats := map[string]bool{}
	for _, angle := range angles {
		formats[angle.Format] = true
	}
	for _, format := range []string{"tutorial", "transformation", "pov", "comparison"} {
		if !formats[format] {
			t.Errorf("missing %s angle", format)
		}
	}
}

func TestTrendingTags(t *testing.T) {
	suggestions := hashtagSuggestions(models.Product{Name: "Flowly", Category: "AI"})
	tags := trendingTags(suggestions)

	if len(tags) == 0 {
		t.Fatal("AI category should yield trending tags")
	}
	for _, tag := range tags {
		if tag[0] != '#' {
			t.Errorf("trending tag %q should carry the # prefix", tag)
		}
	}
}

func TestTrendingCategories(t *testing.T) {
	product := models.Product{Category: "Gardening"}

	fallback := trendingCategories(product, true)
	for _, category := range fallback {
		if category == "Gardening" {
			t.Error("fallback categories should not include the product's own category")
		}
	}

	live := trendingCategories(product, false)
	found := false
	for _, category := range live {
		if category == "Gardening" {
			found = true
		}
	}
	if !found {
		t.Error("live research should treat the product's category as trending")
	}
}
