package variants

import (
	"strings"

	"socialforge/internal/models"
)

// Generator produces A/B test variants from an optimized content package.
// Variant A is always the optimized control; B and C exist only when the
// draft carries the material they test.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns the variant set for one platform, control first.
func (g *Generator) Generate(platform string, draft *models.CreativeDraft, opt *models.OptimizedDraft) []models.ContentVariant {
	control := models.ContentVariant{
		VariantID:          "A",
		Title:              titleFrom(opt.Caption.Text),
		Caption:            opt.Caption.Text,
		Hashtags:           opt.Hashtags,
		CTA:                draft.CTA.Recommended,
		Score:              opt.Score,
		ConfidenceEstimate: 0.8,
		Hypothesis:         "Original optimized version",
	}
	variants := []models.ContentVariant{control}

	// Variant B swaps the hook; only video content has a hook to swap.
	if draft.VideoScript != nil && len(opt.HookVariations) > 0 {
		b := control
		b.VariantID = "B"
		b.Title = opt.HookVariations[0]
		b.Score.Overall = min(100, control.Score.Overall+5)
		b.ConfidenceEstimate = 0.6
		b.Hypothesis = "Alternative hook variation"
		variants = append(variants, b)
	}

	// Variant C swaps the call to action.
	if len(draft.CTA.Variations) >= 2 {
		alternative := draft.CTA.Variations[1]
		c := control
		c.VariantID = "C"
		c.Caption = strings.Replace(control.Caption, draft.CTA.Recommended, alternative, 1)
		c.CTA = alternative
		c.ConfidenceEstimate = 0.6
		c.Hypothesis = "Alternative CTA"
		variants = append(variants, c)
	}

	return variants
}

// SelectWinner picks the variant with the highest overall score. Ties go to
// the earliest variant, which keeps the control on equal footing.
func (g *Generator) SelectWinner(variants []models.ContentVariant) models.ContentVariant {
	winner := variants[0]
	for _, variant := range variants[1:] {
		if variant.Score.Overall > winner.Score.Overall {
			winner = variant
		}
	}
	return winner
}

// titleFrom derives a short title from the caption's opening.
func titleFrom(caption string) string {
	title := caption
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	if len(title) > 50 {
		title = title[:50]
	}
	return strings.TrimSpace(title)
}
