package variants

import (
	"strings"
	"testing"

	"socialforge/internal/models"
)

func optimizedDraft(overall int, hooks []string) *models.OptimizedDraft {
	return &models.OptimizedDraft{
		Platform: "tiktok",
		Caption: models.Caption{
			Text: "POV: you found the answer\nTry Flowly free for 14 days",
		},
		Hashtags:       []string{"#Flowly", "#SaaS"},
		HookVariations: hooks,
		Score:          models.ViralScore{Overall: overall},
	}
}

func TestGenerateControlAlways(t *testing.T) {
	g := NewGenerator()
	draft := &models.CreativeDraft{Platform: "twitter"}
	opt := &models.OptimizedDraft{Caption: models.Caption{Text: "Plain caption"}}

	variants := g.Generate("twitter", draft, opt)
	if len(variants) != 1 {
		t.Fatalf("expected only the control variant, got %d", len(variants))
	}
	control := variants[0]
	if control.VariantID != "A" {
		t.Errorf("VariantID = %s, want A", control.VariantID)
	}
	if control.Hypothesis != "Original optimized version" {
		t.Errorf("Hypothesis = %q", control.Hypothesis)
	}
	if control.ConfidenceEstimate != 0.8 {
		t.Errorf("ConfidenceEstimate = %f, want 0.8", control.ConfidenceEstimate)
	}
}

func TestGenerateHookVariant(t *testing.T) {
	g := NewGenerator()
	draft := &models.CreativeDraft{
		Platform:    "tiktok",
		VideoScript: &models.VideoScript{Hook: "original hook"},
	}
	opt := optimizedDraft(60, []string{"POV: You finally found the answer", "This is your sign to..."})

	variants := g.Generate("tiktok", draft, opt)
	if len(variants) != 2 {
		t.Fatalf("expected control plus hook variant, got %d", len(variants))
	}

	b := variants[1]
	if b.VariantID != "B" {
		t.Errorf("VariantID = %s, want B", b.VariantID)
	}
	if b.Title != "POV: You finally found the answer" {
		t.Errorf("Title = %q, want first hook variation", b.Title)
	}
	if b.Score.Overall != 65 {
		t.Errorf("Score.Overall = %d, want control+5", b.Score.Overall)
	}
	if b.Hypothesis != "Alternative hook variation" {
		t.Errorf("Hypothesis = %q", b.Hypothesis)
	}
}

func TestGenerateHookVariantScoreCapped(t *testing.T) {
	g := NewGenerator()
	draft := &models.CreativeDraft{
		Platform:    "tiktok",
		VideoScript: &models.VideoScript{Hook: "hook"},
	}
	opt := optimizedDraft(98, []string{"alt hook"})

	variants := g.Generate("tiktok", draft, opt)
	if variants[1].Score.Overall != 100 {
		t.Errorf("Score.Overall = %d, want capped at 100", variants[1].Score.Overall)
	}
}

func TestGenerateCTAVariant(t *testing.T) {
	g := NewGenerator()
	draft := &models.CreativeDraft{
		Platform: "linkedin",
		CTA: models.CTASet{
			Recommended: "Try Flowly free for 14 days",
			Variations:  []string{"Try Flowly free for 14 days", "Start your free trial"},
		},
	}
	opt := &models.OptimizedDraft{
		Caption: models.Caption{Text: "Great tool.\nTry Flowly free for 14 days"},
	}

	variants := g.Generate("linkedin", draft, opt)
	if len(variants) != 2 {
		t.Fatalf("expected control plus CTA variant, got %d", len(variants))
	}

	c := variants[1]
	if c.VariantID != "C" {
		t.Errorf("VariantID = %s, want C", c.VariantID)
	}
	if c.CTA != "Start your free trial" {
		t.Errorf("CTA = %q, want second variation", c.CTA)
	}
	if !strings.Contains(c.Caption, "Start your free trial") {
		t.Errorf("Caption should contain the swapped CTA: %q", c.Caption)
	}
	if strings.Contains(c.Caption, "14 days") {
		t.Errorf("Caption still contains the original CTA: %q", c.Caption)
	}
}

func TestGenerateAllThreeVariants(t *testing.T) {
	g := NewGenerator()
	draft := &models.CreativeDraft{
		Platform:    "tiktok",
		VideoScript: &models.VideoScript{Hook: "hook"},
		CTA: models.CTASet{
			Recommended: "Try it free",
			Variations:  []string{"Try it free", "Start now"},
		},
	}
	opt := optimizedDraft(70, []string{"alt hook"})

	variants := g.Generate("tiktok", draft, opt)
	if len(variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(variants))
	}
	ids := []string{variants[0].VariantID, variants[1].VariantID, variants[2].VariantID}
	if ids[0] != "A" || ids[1] != "B" || ids[2] != "C" {
		t.Errorf("variant order = %v, want [A B C]", ids)
	}
}

func TestSelectWinner(t *testing.T) {
	g := NewGenerator()

	tests := []struct {
		name     string
		variants []models.ContentVariant
		want     string
	}{
		{
			name: "highest score wins",
			variants: []models.ContentVariant{
				{VariantID: "A", Score: models.ViralScore{Overall: 60}},
				{VariantID: "B", Score: models.ViralScore{Overall: 75}},
			},
			want: "B",
		},
		{
			name: "tie goes to the control",
			variants: []models.ContentVariant{
				{VariantID: "A", Score: models.ViralScore{Overall: 70}},
				{VariantID: "B", Score: models.ViralScore{Overall: 70}},
			},
			want: "A",
		},
		{
			name: "single variant",
			variants: []models.ContentVariant{
				{VariantID: "A", Score: models.ViralScore{Overall: 50}},
			},
			want: "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner := g.SelectWinner(tt.variants)
			if winner.VariantID != tt.want {
				t.Errorf("SelectWinner() = %s, want %s", winner.VariantID, tt.want)
			}
		})
	}
}

func TestTitleFrom(t *testing.T) {
	tests := []struct {
		name    string
		caption string
		want    string
	}{
		{"first line", "Hook line\nrest of the caption", "Hook line"},
		{"long line truncated", strings.Repeat("x", 80), strings.Repeat("x", 50)},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titleFrom(tt.caption); got != tt.want {
				t.Errorf("titleFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}
