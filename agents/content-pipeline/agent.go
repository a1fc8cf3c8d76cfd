package contentpipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"socialforge/internal/creative"
	"socialforge/internal/media"
	"socialforge/internal/models"
	"socialforge/internal/optimize"
	"socialforge/internal/pipeline"
	"socialforge/internal/research"
	"socialforge/internal/scoring"
	"socialforge/internal/variants"
	"socialforge/shared/config"
	"socialforge/shared/email"
	"socialforge/shared/scheduler"
	"socialforge/shared/storage"
)

// ContentAgent implements the scheduler.Agent interface. Each run drives
// every configured product through the generation pipeline and queues the
// results for approval.
type ContentAgent struct {
	config       *config.Config
	orchestrator *pipeline.Orchestrator
	store        *storage.ContentStore
	emailSender  *email.Sender
	credentials  map[string]string
}

func NewContentAgent(cfg *config.Config) *ContentAgent {
	return &ContentAgent{
		config: cfg,
	}
}

func (c *ContentAgent) Name() string {
	return "Content Pipeline"
}

func (c *ContentAgent) Initialize() error {
	log.Printf("Initializing %s...", c.Name())
	ctx := context.Background()

	researcher, err := research.NewService(ctx, c.config.Research.YouTubeAPIKey, c.config.Research.RedditEnabled)
	if err != nil {
		return fmt.Errorf("failed to create research service: %w", err)
	}

	creator, err := creative.NewGenerator(ctx, c.config.AI.GeminiAPIKey, c.config.AI.Model)
	if err != nil {
		return fmt.Errorf("failed to create creative generator: %w", err)
	}

	c.credentials = c.config.ProviderCredentials()
	registry := media.NewDefaultRegistry(c.credentials)

	c.orchestrator = pipeline.NewOrchestrator(pipeline.Deps{
		Research: researcher,
		Creative: creator,
		Optimize: optimize.NewOptimizer(scoring.NewEngine()),
		Variants: variants.NewGenerator(),
		NewMedia: func(credentials map[string]string, planTier string) pipeline.MediaGenerator {
			return media.NewRouter(registry, credentials, planTier)
		},
	})

	store, err := storage.NewContentStore(c.config.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("failed to create content store: %w", err)
	}
	c.store = store
	log.Printf("Content store initialized (%d items stored)", store.ItemCount())

	if c.config.EmailConfigured() {
		c.emailSender = email.NewSender(&c.config.Email)
		log.Println("Email sender initialized")
	}

	return nil
}

// runMetrics summarizes one agent run across all products.
type runMetrics struct {
	products int
	items    int
	degraded int
	errors   int
	cost     float64
}

func (m runMetrics) GetSummary() string {
	return fmt.Sprintf("%d products, %d items generated (%d degraded, %d stage errors, $%.4f media cost)",
		m.products, m.items, m.degraded, m.errors, m.cost)
}

func (c *ContentAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()

	var metrics runMetrics
	var runItems []models.FinalizedItem
	var failedProducts int

	for _, product := range c.config.Products {
		log.Printf("Generating content for %s (%d platforms)", product.Name, len(product.Platforms))

		result, err := c.orchestrator.Run(ctx, models.RunRequest{
			Product:     product,
			Platforms:   product.Platforms,
			Credentials: c.credentials,
			PlanTier:    c.config.PlanTier,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Warning: run failed for %s: %v", product.Name, err)
			failedProducts++
			continue
		}

		if err := c.store.SaveRun(result, product.ID); err != nil {
			return fmt.Errorf("failed to persist run for %s: %w", product.Name, err)
		}

		metrics.products++
		metrics.items += len(result.Items)
		metrics.errors += len(result.Errors)
		metrics.cost += result.CostEstimate
		for _, item := range result.Items {
			if item.Degraded {
				metrics.degraded++
			}
		}
		runItems = append(runItems, result.Items...)
	}

	duration := time.Since(startTime)

	if failedProducts == len(c.config.Products) {
		err := fmt.Errorf("all %d products failed", failedProducts)
		if events != nil && events.OnCriticalFailure != nil {
			events.OnCriticalFailure(err, duration)
		}
		return err
	}

	if c.emailSender != nil {
		if err := c.emailSender.SendDigest(runItems, metrics.cost); err != nil {
			log.Printf("Warning: failed to send approval digest: %v", err)
		}
	}

	if failedProducts > 0 || metrics.errors > 0 {
		if events != nil && events.OnPartialFailure != nil {
			events.OnPartialFailure(fmt.Errorf("%d products failed, %d stage errors", failedProducts, metrics.errors), duration)
		}
	} else if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, duration)
	}

	log.Printf("Run complete: %s (took %v)", metrics.GetSummary(), duration)
	return nil
}
