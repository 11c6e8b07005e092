// Package content generates personalized headline/description pairs for
// suggested destinations, with canned fallbacks when the LLM is
// unavailable.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"
)

const (
	// Pinned as a literal; the client library predates the gpt-4o family
	// and has no constant for it.
	defaultModel       = "gpt-4o-mini"
	maxHeadlineLen     = 50
	maxDescriptionLen  = 150
	maxRetries         = 3
	maxConcurrent      = 3
	defaultTemperature = 0.7
)

// Item is one destination to generate content for.
type Item struct {
	CountryCode string
	CountryName string
	Activities  []string
	KeyFactors  []string
}

// UserContext carries the preference fields the prompt personalizes on.
type UserContext struct {
	Interests   []string
	TravelStyle string
	Occasion    string
	BudgetLevel string
}

// Generated is the produced content for one destination. Fallback marks
// canned content, so callers can substitute their own.
type Generated struct {
	CountryCode string
	Headline    string
	Description string
	Fallback    bool
}

// chatCompleter is the slice of the OpenAI client the generator uses;
// extracted so tests can fake it.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator produces destination copy through the OpenAI chat API.
type Generator struct {
	client chatCompleter
	model  string
	log    *slog.Logger
	sleep  func(time.Duration)
}

// NewGenerator constructs a Generator with the given API key.
func NewGenerator(apiKey string, log *slog.Logger) *Generator {
	return &Generator{client: openai.NewClient(apiKey), model: defaultModel, log: log, sleep: time.Sleep}
}

// newGeneratorWithClient is the test constructor.
func newGeneratorWithClient(client chatCompleter, log *slog.Logger) *Generator {
	return &Generator{client: client, model: defaultModel, log: log, sleep: func(time.Duration) {}}
}

// GenerateBatch produces content for all items with bounded concurrency.
// Per-item failures resolve to Fallback content; the batch itself never
// fails.
func (g *Generator) GenerateBatch(ctx context.Context, items []Item, user UserContext) []Generated {
	results := make([]Generated, len(items))

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.SetLimit(maxConcurrent)

	for i, item := range items {
		grp.Go(func() error {
			headline, description, err := g.generateOne(grpCtx, item, user)
			fell := err != nil
			if fell {
				g.log.Warn("content generation failed, using fallback",
					"country", item.CountryCode, "err", err)
				headline, description = Fallback(item.CountryName, user.TravelStyle)
			}
			results[i] = Generated{CountryCode: item.CountryCode, Headline: headline, Description: description, Fallback: fell}
			return nil
		})
	}

	_ = grp.Wait()
	return results
}

// Fallback returns the generic canned content for a destination.
func Fallback(countryName, travelStyle string) (headline, description string) {
	if travelStyle == "" {
		travelStyle = "couple"
	}
	return fmt.Sprintf("%s, le choix ideal", countryName),
		fmt.Sprintf("Destination parfaite pour votre voyage %s.", travelStyle)
}

// generateOne calls the chat API with retries and exponential backoff
// (1s, 2s, 4s).
func (g *Generator) generateOne(ctx context.Context, item Item, user UserContext) (string, string, error) {
	prompt := buildPrompt(item, user)

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			g.sleep(time.Duration(1<<(attempt-1)) * time.Second)
		}

		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       g.model,
			Temperature: defaultTemperature,
			MaxTokens:   300,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "Tu es un copywriter voyage expert, creatif et precis. Reponds uniquement avec le format demande.",
				},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty completion for %s", item.CountryCode)
			continue
		}

		headline, description := parseResponse(resp.Choices[0].Message.Content)
		if headline == "" || description == "" {
			lastErr = fmt.Errorf("unparseable completion for %s", item.CountryCode)
			continue
		}
		return headline, description, nil
	}
	return "", "", lastErr
}

func buildPrompt(item Item, user UserContext) string {
	interests := "decouverte generale"
	if len(user.Interests) > 0 {
		interests = strings.Join(user.Interests, ", ")
	}
	factors := "destination adaptee"
	if len(item.KeyFactors) > 0 {
		factors = strings.Join(item.KeyFactors, ", ")
	}
	activities := item.Activities
	if len(activities) > 3 {
		activities = activities[:3]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tu es un expert en voyage. Genere du contenu pour %s pour un voyageur %s.\n\n",
		item.CountryName, user.TravelStyle)
	b.WriteString("Profil utilisateur:\n")
	fmt.Fprintf(&b, "- Interets: %s\n", interests)
	fmt.Fprintf(&b, "- Budget: %s\n", user.BudgetLevel)
	if user.Occasion != "" {
		fmt.Fprintf(&b, "- Occasion: %s\n", user.Occasion)
	}
	fmt.Fprintf(&b, "- Points forts de ce pays pour lui: %s\n", factors)
	fmt.Fprintf(&b, "- Activites populaires: %s\n\n", strings.Join(activities, ", "))
	b.WriteString("Genere:\n")
	b.WriteString("1. Un titre accrocheur (max 50 caracteres) qui explique pourquoi CE pays pour CE profil\n")
	b.WriteString("2. Une description personnalisee (max 150 caracteres) avec des details specifiques\n\n")
	b.WriteString("Format strict:\nHEADLINE: [titre]\nDESCRIPTION: [description]\n\n")
	b.WriteString("Sois specifique et evite les phrases generiques comme \"Decouvrez\" ou \"Explorez\".")
	return b.String()
}

var (
	headlinePattern    = regexp.MustCompile(`(?im)^\s*HEADLINE:\s*(.+)$`)
	descriptionPattern = regexp.MustCompile(`(?im)^\s*DESCRIPTION:\s*(.+)$`)
)

// parseResponse extracts the HEADLINE/DESCRIPTION pair from a completion,
// truncated to the contract lengths.
func parseResponse(completion string) (headline, description string) {
	if m := headlinePattern.FindStringSubmatch(completion); m != nil {
		headline = truncate(strings.TrimSpace(m[1]), maxHeadlineLen)
	}
	if m := descriptionPattern.FindStringSubmatch(completion); m != nil {
		description = truncate(strings.TrimSpace(m[1]), maxDescriptionLen)
	}
	return headline, description
}

// truncate caps s at max characters, counting runes so accented text is
// never cut mid-sequence.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
