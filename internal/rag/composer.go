package rag

import (
	"context"
	"fmt"
	"strings"

	"resume-chat/internal/models"
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Fallbacks holds the canned replies used when retrieval comes back empty or a
// backend fails. {name} is replaced with the persona name.
type Fallbacks struct {
	First    string
	Second   string
	Repeated string
	Failure  string
}

func DefaultFallbacks() Fallbacks {
	return Fallbacks{
		First:    models.FallbackFirst,
		Second:   models.FallbackSecond,
		Repeated: models.FallbackRepeated,
		Failure:  models.FailureMessage,
	}
}

// Merge fills empty fields of f from defaults.
func (f Fallbacks) Merge(defaults Fallbacks) Fallbacks {
	if f.First == "" {
		f.First = defaults.First
	}
	if f.Second == "" {
		f.Second = defaults.Second
	}
	if f.Repeated == "" {
		f.Repeated = defaults.Repeated
	}
	if f.Failure == "" {
		f.Failure = defaults.Failure
	}
	return f
}

// Composer produces the final answer from retrieved context.
type Composer struct {
	generator Generator
	persona   string
	fallbacks Fallbacks
}

func NewComposer(generator Generator, persona string, fallbacks Fallbacks) *Composer {
	expand := strings.NewReplacer("{name}", persona).Replace
	fallbacks = fallbacks.Merge(DefaultFallbacks())
	return &Composer{
		generator: generator,
		persona:   persona,
		fallbacks: Fallbacks{
			First:    expand(fallbacks.First),
			Second:   expand(fallbacks.Second),
			Repeated: expand(fallbacks.Repeated),
			Failure:  expand(fallbacks.Failure),
		},
	}
}

// Compose answers query. With context it returns the generator's output
// verbatim; without, it returns the fallback for the session's band and never
// calls the generator.
func (c *Composer) Compose(ctx context.Context, query string, chunks []models.ScoredChunk, sess Session) (string, error) {
	if len(chunks) == 0 {
		return c.Fallback(sess.Band()), nil
	}
	answer, err := c.generator.Generate(ctx, BuildPrompt(c.persona, query, chunks))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w: %w", models.ErrDependencyUnavailable, err)
	}
	return answer, nil
}

func (c *Composer) Fallback(band Band) string {
	switch band {
	case BandFresh, BandFirstMiss:
		return c.fallbacks.First
	case BandSecondMiss:
		return c.fallbacks.Second
	default:
		return c.fallbacks.Repeated
	}
}

func (c *Composer) FailureMessage() string {
	return c.fallbacks.Failure
}

// BuildPrompt stuffs every chunk, in the order given, and the question into one prompt.
func BuildPrompt(persona, query string, chunks []models.ScoredChunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = strings.TrimSpace(c.Content)
	}
	return fmt.Sprintf(models.StuffPromptTemplate, persona, strings.Join(parts, models.ContextSeparator), query)
}
