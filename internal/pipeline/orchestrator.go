package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"socialforge/internal/models"
	"socialforge/internal/optimize"
	"socialforge/internal/research"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Researcher produces the run-wide research snapshot.
type Researcher interface {
	Research(ctx context.Context, product models.Product) (*models.ResearchSnapshot, error)
}

// Creator builds one platform's content package.
type Creator interface {
	GeneratePackage(ctx context.Context, snapshot *models.ResearchSnapshot, product models.Product, platform string) (*models.CreativeDraft, error)
}

// Optimizer rewrites a draft for engagement and scores it.
type Optimizer interface {
	Optimize(draft *models.CreativeDraft, product models.Product, trends *models.ResearchSnapshot) models.OptimizedDraft
}

// VariantGenerator produces and judges A/B variants.
type VariantGenerator interface {
	Generate(platform string, draft *models.CreativeDraft, opt *models.OptimizedDraft) []models.ContentVariant
	SelectWinner(variants []models.ContentVariant) models.ContentVariant
}

// MediaGenerator synthesizes a draft's media set.
type MediaGenerator interface {
	GenerateSet(ctx context.Context, draft *models.CreativeDraft) (*models.MediaSet, error)
	EstimateCost(draft *models.CreativeDraft) models.CostBreakdown
}

// RouterFactory builds a media generator bound to one run's credentials and
// plan tier.
type RouterFactory func(credentials map[string]string, planTier string) MediaGenerator

// Deps wires the orchestrator's stage implementations.
type Deps struct {
	Research Researcher
	Creative Creator
	Optimize Optimizer
	Variants VariantGenerator
	NewMedia RouterFactory
}

// Orchestrator drives a run through the fixed stage sequence: research,
// creative, media, optimize, A/B test, finalize. Stages are barriers; work
// inside the creative and media stages fans out per platform.
type Orchestrator struct {
	deps Deps
}

func NewOrchestrator(deps Deps) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// runState accumulates per-platform results across stages. Errors are
// recovered in place: a platform that fails a stage continues through the
// rest of the pipeline on safe fallbacks.
type runState struct {
	mu     sync.Mutex
	drafts map[string]*models.CreativeDraft
	media  map[string]*models.MediaSet
	opts   map[string]models.OptimizedDraft
	errors []models.StageError
	cost   float64
}

func (s *runState) recordError(stage models.Stage, platform string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, models.StageError{
		Stage:    stage,
		Platform: platform,
		Message:  err.Error(),
	})
}

// Run executes the pipeline for one product. It returns an error only when
// the context is canceled; every other failure is recovered into the
// result's error list, and finalize always emits one item per requested
// platform.
func (o *Orchestrator) Run(ctx context.Context, req models.RunRequest) (*models.PipelineResult, error) {
	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = req.Product.Platforms
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("no target platforms for product %s", req.Product.Name)
	}

	planTier := req.PlanTier
	if planTier == "" {
		planTier = models.PlanFree
	}

	state := &runState{
		drafts: make(map[string]*models.CreativeDraft, len(platforms)),
		media:  make(map[string]*models.MediaSet, len(platforms)),
		opts:   make(map[string]models.OptimizedDraft, len(platforms)),
	}

	// Research is run-wide: a failure degrades every platform to the static
	// snapshot instead of aborting the run.
	snapshot, err := o.deps.Research.Research(ctx, req.Product)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("Warning: research failed for %s, using fallback snapshot: %v", req.Product.Name, err)
		state.recordError(models.StageResearch, "", err)
		snapshot = research.FallbackSnapshot(req.Product)
	}

	if err := o.runCreative(ctx, req.Product, platforms, snapshot, state); err != nil {
		return nil, err
	}

	router := o.deps.NewMedia(req.Credentials, planTier)
	if err := o.runMedia(ctx, router, platforms, state); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.runOptimize(req.Product, platforms, snapshot, state)

	items := o.finalize(req.Product, platforms, snapshot, state)

	return &models.PipelineResult{
		Items:        items,
		Errors:       state.errors,
		CostEstimate: state.cost,
		Stage:        models.StageComplete,
	}, nil
}

// runCreative fans out package generation per platform. A platform whose
// generation fails gets an empty draft so downstream stages still see it;
// the emptiness surfaces as a degraded finalized item.
func (o *Orchestrator) runCreative(ctx context.Context, product models.Product, platforms []string, snapshot *models.ResearchSnapshot, state *runState) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, platform := range platforms {
		g.Go(func() error {
			draft, err := o.deps.Creative.GeneratePackage(gctx, snapshot, product, platform)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				state.recordError(models.StageCreative, platform, err)
				draft = emptyDraft(platform)
			}

			state.mu.Lock()
			state.drafts[platform] = draft
			state.mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

// runMedia fans out asset synthesis per platform and accumulates actual
// incurred cost. The router itself never fails a platform; only context
// cancellation stops this stage.
func (o *Orchestrator) runMedia(ctx context.Context, router MediaGenerator, platforms []string, state *runState) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, platform := range platforms {
		g.Go(func() error {
			state.mu.Lock()
			draft := state.drafts[platform]
			state.mu.Unlock()

			set, err := router.GenerateSet(gctx, draft)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				state.recordError(models.StageMedia, platform, err)
				set = &models.MediaSet{}
			}

			state.mu.Lock()
			state.media[platform] = set
			state.cost += set.TotalCost()
			state.mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

// runOptimize scores and rewrites each platform's draft. Drafts emptied by
// an upstream failure take the neutral fallback instead of being scored as
// real content.
func (o *Orchestrator) runOptimize(product models.Product, platforms []string, snapshot *models.ResearchSnapshot, state *runState) {
	for _, platform := range platforms {
		draft := state.drafts[platform]
		if draft.Caption.Text == "" && draft.VideoScript == nil {
			state.opts[platform] = optimize.FallbackDraft(draft)
			continue
		}
		state.opts[platform] = o.deps.Optimize.Optimize(draft, product, snapshot)
	}
}

// finalize emits exactly one item per requested platform, in request order.
// Items missing a body or media are marked degraded and excluded from
// auto-queueing but still returned.
func (o *Orchestrator) finalize(product models.Product, platforms []string, snapshot *models.ResearchSnapshot, state *runState) []models.FinalizedItem {
	topics := make([]string, 0, len(snapshot.TrendingTopics))
	for _, topic := range snapshot.TrendingTopics {
		topics = append(topics, topic.Topic)
	}

	items := make([]models.FinalizedItem, 0, len(platforms))
	for _, platform := range platforms {
		draft := state.drafts[platform]
		opt := state.opts[platform]
		set := state.media[platform]

		variants := o.deps.Variants.Generate(platform, draft, &opt)
		winner := o.deps.Variants.SelectWinner(variants)

		item := models.FinalizedItem{
			ID:                 fmt.Sprintf("content_%s_%s", platform, uuid.NewString()),
			ProductID:          product.ID,
			Platform:           platform,
			ContentType:        contentType(platform),
			Status:             models.ItemPending,
			Title:              winner.Title,
			Body:               winner.Caption,
			Hashtags:           winner.Hashtags,
			MediaURLs:          set.URLs(),
			Score:              winner.Score,
			VariantID:          winner.VariantID,
			ConfidenceEstimate: winner.ConfidenceEstimate,
			Angle:              draft.Angle,
			Metadata: models.GenerationMetadata{
				ResearchedAt:   snapshot.ResearchedAt,
				TrendingTopics: topics,
				CostEstimate:   state.cost,
			},
		}

		if item.Title == "" || item.Body == "" || len(item.MediaURLs) == 0 {
			item.Status = models.ItemDegraded
			item.Degraded = true
		}

		items = append(items, item)
	}

	return items
}

// emptyDraft stands in for a platform whose creative generation failed. Its
// emptiness propagates into a degraded finalized item.
func emptyDraft(platform string) *models.CreativeDraft {
	return &models.CreativeDraft{
		Platform: platform,
		Angle: models.ContentAngle{
			Title:     "Content generation failed",
			Platforms: []string{platform},
			Format:    "general",
		},
		GeneratedAt: time.Now(),
	}
}

// contentType classifies a platform's primary deliverable.
func contentType(platform string) string {
	switch {
	case platform == "tiktok", strings.HasSuffix(platform, "_shorts"), strings.HasSuffix(platform, "_reels"):
		return "video"
	case platform == "instagram", platform == "facebook":
		return "image"
	default:
		return "text"
	}
}
