package creative

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"socialforge/internal/models"

	"google.golang.org/genai"
)

// Generator produces the per-platform content package for a run. Template
// generation is fully deterministic; when a Gemini client is configured the
// caption is additionally refined by the model, falling back to the
// template output on any model failure.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator builds a generator. An empty API key disables model
// refinement and leaves the deterministic template path.
func NewGenerator(ctx context.Context, apiKey, model string) (*Generator, error) {
	g := &Generator{model: model}

	if apiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		g.client = client
	}

	return g, nil
}

var videoPlatforms = map[string]bool{
	"youtube_shorts":  true,
	"tiktok":          true,
	"instagram_reels": true,
	"facebook_reels":  true,
}

var imagePlatforms = map[string]bool{
	"instagram": true,
	"facebook":  true,
	"twitter":   true,
	"linkedin":  true,
}

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// platformKey normalizes variants like "youtube_shorts" to their base name.
func platformKey(platform string) string {
	if idx := strings.Index(platform, "_"); idx > 0 {
		return platform[:idx]
	}
	return platform
}

// GeneratePackage builds the complete creative draft for one platform.
func (g *Generator) GeneratePackage(ctx context.Context, snapshot *models.ResearchSnapshot, product models.Product, platform string) (*models.CreativeDraft, error) {
	angle := selectAngle(snapshot.ContentAngles, platform)

	draft := &models.CreativeDraft{
		Platform:    platform,
		Angle:       angle,
		Caption:     buildCaption(angle, product, platform),
		CTA:         ctaSet(product),
		GeneratedAt: time.Now(),
	}

	if videoPlatforms[platform] {
		draft.VideoScript = buildVideoScript(angle, product, platform)
	}
	if imagePlatforms[platform] {
		draft.ImagePrompts = buildImagePrompts(product, platform)
	}

	if g.client != nil {
		if refined, err := g.refineCaption(ctx, draft, product); err != nil {
			log.Printf("Warning: caption refinement failed for %s, keeping template caption: %v", platform, err)
		} else {
			draft.Caption = refined
		}
	}

	return draft, nil
}

// selectAngle prefers the first angle declared for the platform, then the
// first angle overall. Declaration order makes the choice reproducible.
func selectAngle(angles []models.ContentAngle, platform string) models.ContentAngle {
	if len(angles) == 0 {
		return models.ContentAngle{
			Title:      "Discover This Amazing Tool",
			Hook:       "You won't believe what this can do...",
			Platforms:  []string{platform},
			Format:     "general",
			KeyMessage: "This tool will help you",
			CTA:        "Try it now",
		}
	}

	base := platformKey(platform)
	for _, angle := range angles {
		for _, target := range angle.Platforms {
			if platformKey(target) == base {
				return angle
			}
		}
	}
	return angles[0]
}

func buildCaption(angle models.ContentAngle, product models.Product, platform string) models.Caption {
	name := product.Name
	if name == "" {
		name = "This Tool"
	}
	compact := strings.ReplaceAll(name, " ", "")
	message := angle.KeyMessage
	if message == "" {
		message = fmt.Sprintf("%s helps you work smarter", name)
	}

	var text string
	switch platformKey(platform) {
	case "youtube":
		text = fmt.Sprintf(`%s

%s

In this video, I break down exactly how %s can help you:
✅ Save 5+ hours per week
✅ Automate repetitive tasks
✅ Focus on what actually matters

Whether you're a freelancer, team lead, or entrepreneur, this is for you.

🚀 Try %s free: [link in bio]

#Productivity #%s #WorkSmarter #AITools #RemoteWork`, angle.Title, message, name, name, compact)

	case "tiktok":
		text = fmt.Sprintf(`%s 🔥

%s

Who else needs this? 👇

#%s #ProductivityHacks #AITools #WorkLife`, angle.Hook, message, compact)

	case "facebook":
		text = fmt.Sprintf(`%s

%s

After using %s for 30 days, here's what changed:

📊 40%% more productive
⏰ 5 hours saved per week
🎯 Better focus and clarity

The best part? It's free to try for 14 days.

Who else is ready to level up their productivity?

#%s #Productivity #BusinessGrowth`, angle.Title, message, name, compact)

	case "twitter":
		text = fmt.Sprintf(`%s

It's not magic, it's automation.

Here's what %s does:
• Automates repetitive tasks
• Prioritizes what matters
• Tracks your progress

Free trial: [link]

What's your biggest time waster? 🤔`, angle.Hook, name)

	case "linkedin":
		text = fmt.Sprintf(`%s

%s

In today's fast-paced environment, efficiency isn't optional, it's essential.

%s helps teams:
✅ Reduce manual work by 60%%
✅ Improve project delivery times
✅ Increase team satisfaction

Is your team ready to work smarter?

#Leadership #Productivity #BusinessStrategy #%s`, angle.Title, message, name, compact)

	default: // instagram and anything unrecognized
		text = fmt.Sprintf(`%s

%s

Save this for later! 📌

What's your biggest productivity struggle? Comment below! 👇

🔗 Link in bio to try %s free

#%s #ProductivityTips #Entrepreneur #WorkFromHome #Success`, angle.Title, message, name, compact)
	}

	return models.Caption{
		Text:           text,
		Hashtags:       extractHashtags(text),
		CharacterCount: len(text),
		Tone:           platformTone(platform),
	}
}

// scriptDurations are per-platform short-form video lengths in seconds.
var scriptDurations = map[string]int{
	"youtube_shorts":  45,
	"tiktok":          25,
	"instagram_reels": 30,
	"facebook_reels":  45,
}

func buildVideoScript(angle models.ContentAngle, product models.Product, platform string) *models.VideoScript {
	name := product.Name
	if name == "" {
		name = "This Tool"
	}
	hook := angle.Hook
	if hook == "" {
		hook = fmt.Sprintf("What if I told you %s could change everything?", name)
	}

	duration, ok := scriptDurations[platform]
	if !ok {
		duration = 30
	}

	var scenes []models.SceneDirection
	switch platform {
	case "tiktok":
		scenes = []models.SceneDirection{
			{Time: "0-1s", Visual: "Hook: " + hook, Audio: hook, Overlay: "WAIT FOR IT 🔥"},
			{Time: "1-10s", Visual: "Show the problem", Audio: "We've all been there...", Overlay: "The struggle is real 😩"},
			{Time: "10-20s", Visual: fmt.Sprintf("Show %s in action", name), Audio: fmt.Sprintf("But then I found %s...", name), Overlay: "Game changer! ✨"},
			{Time: "20-25s", Visual: "Show results", Audio: "Never going back!", Overlay: "Link in bio 👆"},
		}
	case "youtube_shorts":
		scenes = []models.SceneDirection{
			{Time: "0-3s", Visual: "Attention grabber: " + hook, Audio: hook, Overlay: "This changes EVERYTHING"},
			{Time: "3-10s", Visual: "Problem statement", Audio: "Here's what most people get wrong...", Overlay: "The problem:"},
			{Time: "10-35s", Visual: fmt.Sprintf("%s solution demo", name), Audio: fmt.Sprintf("%s solves this by...", name), Overlay: "The solution 💡"},
			{Time: "35-45s", Visual: "Results + CTA", Audio: "Try it yourself!", Overlay: "Link below 👇"},
		}
	default: // Instagram and Facebook reels
		scenes = []models.SceneDirection{
			{Time: "0-3s", Visual: "Eye-catching opener: " + hook, Audio: hook, Overlay: "Save this! 📌"},
			{Time: "3-15s", Visual: "Value demonstration", Audio: fmt.Sprintf("%s helps you...", name), Overlay: "Watch this 👀"},
			{Time: "15-25s", Visual: "Social proof/results", Audio: "Just look at these results...", Overlay: "The results 🤯"},
			{Time: "25-30s", Visual: "Call to action", Audio: "Start your free trial!", Overlay: "Link in bio ✨"},
		}
	}

	title := angle.Title
	if title == "" {
		title = fmt.Sprintf("How %s Changed Everything", name)
	}
	cta := angle.CTA
	if cta == "" {
		cta = fmt.Sprintf("Try %s free for 14 days", name)
	}
	message := angle.KeyMessage
	if message == "" {
		message = fmt.Sprintf("%s makes your life easier", name)
	}

	return &models.VideoScript{
		Title:           title,
		Hook:            hook,
		Scenes:          scenes,
		CTA:             cta,
		DurationSeconds: duration,
		KeyMessage:      message,
		SuggestedAudio:  trendingAudio(platform),
	}
}

var imageAspectRatios = map[string]string{
	"instagram": "1:1",
	"facebook":  "1.91:1",
	"twitter":   "16:9",
	"linkedin":  "1.91:1",
}

func buildImagePrompts(product models.Product, platform string) *models.ImagePromptSet {
	name := product.Name
	if name == "" {
		name = "Product"
	}
	category := product.Category
	if category == "" {
		category = "SaaS"
	}

	ratio, ok := imageAspectRatios[platform]
	if !ok {
		ratio = "1:1"
	}

	return &models.ImagePromptSet{
		Primary: fmt.Sprintf("Modern, professional product showcase for %s, a %s tool. "+
			"Clean minimalist design with gradient background in purple and blue tones. "+
			"Sleek interface mockup showing dashboard features. High-quality 3D render, "+
			"soft lighting, corporate aesthetic. No text, no watermarks, professional photography style.", name, category),
		Alternatives: []string{
			fmt.Sprintf("Before and after comparison showing productivity improvement with %s. "+
				"Split screen design, left side showing chaos and disorganization, right side showing "+
				"organized workflow. Modern flat design style, bright colors, clean lines. "+
				"Professional infographic aesthetic.", name),
			fmt.Sprintf("Happy professional using %s on laptop in modern home office setting. "+
				"Natural lighting, candid moment, genuine smile. Clean background, focus on screen "+
				"glow and satisfied expression. Lifestyle photography style, warm tones, aspirational mood.", name),
		},
		NegativePrompt: "text, watermark, logo, blurry, low quality, distorted, ugly, amateur",
		Style:          "professional, modern, clean",
		AspectRatio:    ratio,
	}
}

// ctaSet lists the call-to-action variations in fixed order, recommended
// first.
func ctaSet(product models.Product) models.CTASet {
	name := product.Name
	if name == "" {
		name = "This Tool"
	}

	variations := []string{
		fmt.Sprintf("Try %s free for 14 days", name),
		"Start your free trial",
		"Limited time: Get 50% off your first month",
		fmt.Sprintf("Join 10,000+ teams using %s", name),
		fmt.Sprintf("See what %s can do for you", name),
		fmt.Sprintf("Get %s now", name),
		"Save 5 hours every week",
		"Ready to boost your productivity?",
	}

	return models.CTASet{
		Recommended: variations[0],
		Variations:  variations,
	}
}

// trendingAudio picks the platform's lead audio suggestion.
func trendingAudio(platform string) string {
	suggestions := map[string]string{
		"youtube":   "Upbeat background music",
		"tiktok":    "Upbeat corporate",
		"instagram": "Trending Reels audio",
	}
	if audio, ok := suggestions[platformKey(platform)]; ok {
		return audio
	}
	return "Upbeat background music"
}

func extractHashtags(caption string) []string {
	var tags []string
	for _, match := range hashtagPattern.FindAllStringSubmatch(caption, -1) {
		tags = append(tags, match[1])
	}
	return tags
}

func platformTone(platform string) string {
	tones := map[string]string{
		"youtube":   "informative and engaging",
		"tiktok":    "casual and trendy",
		"instagram": "visual and aspirational",
		"facebook":  "community-focused and conversational",
		"twitter":   "concise and punchy",
		"linkedin":  "professional and insightful",
	}
	if tone, ok := tones[platformKey(platform)]; ok {
		return tone
	}
	return "neutral"
}

// refineCaption asks the model to rewrite the template caption for the
// platform while keeping the hashtags and CTA intact.
func (g *Generator) refineCaption(ctx context.Context, draft *models.CreativeDraft, product models.Product) (models.Caption, error) {
	prompt := fmt.Sprintf(`You are a social media copywriter. Rewrite the caption below for %s
to maximize engagement. Keep the same product facts, hashtags, and call to action.
Product: %s (%s). %s

Caption:
%s

Respond with a JSON object only:
{
  "text": "the rewritten caption including hashtags"
}`, draft.Platform, product.Name, product.Category, product.Description, draft.Caption.Text)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return models.Caption{}, fmt.Errorf("caption generation failed: %w", err)
	}

	responseText := result.Text()
	if responseText == "" {
		return models.Caption{}, fmt.Errorf("empty response from model")
	}

	text, err := parseCaptionResponse(responseText)
	if err != nil {
		return models.Caption{}, err
	}

	return models.Caption{
		Text:           text,
		Hashtags:       extractHashtags(text),
		CharacterCount: len(text),
		Tone:           draft.Caption.Tone,
	}, nil
}

func parseCaptionResponse(response string) (string, error) {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 {
		return "", fmt.Errorf("no JSON found in response: %s", response)
	}

	jsonStr := response[startIdx : endIdx+1]

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal JSON '%s': %w", jsonStr, err)
	}
	if result.Text == "" {
		return "", fmt.Errorf("caption text is required but was empty")
	}
	return result.Text, nil
}
