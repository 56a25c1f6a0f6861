package rag

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"resume-chat/internal/classifier"
	"resume-chat/internal/models"
)

// Router answers one query at a time for one session.
type Router struct {
	classifier *classifier.Classifier
	retriever  *Retriever
	composer   *Composer
	emptyReply string
}

func NewRouter(c *classifier.Classifier, r *Retriever, composer *Composer, persona string) *Router {
	return &Router{
		classifier: c,
		retriever:  r,
		composer:   composer,
		emptyReply: strings.ReplaceAll(models.EmptyQueryPrompt, "{name}", persona),
	}
}

// Answer routes query through the keyword classifier, then retrieval and
// generation, and returns the reply with the session that follows it.
//
// Canned answers leave the session untouched. A backend failure yields a
// ReplyFailure carrying the cause in Reply.Err, again with the session unchanged.
func (r *Router) Answer(ctx context.Context, query string, sess Session) (models.Reply, Session) {
	if strings.TrimSpace(query) == "" {
		return models.Reply{Text: r.emptyReply, Kind: models.ReplyPrompt}, sess
	}

	if m, ok := r.classifier.Classify(strings.ToLower(query)); ok {
		log.Debug().Str("category", m.Category).Msg("Keyword match")
		return models.Reply{Text: m.Response, Kind: models.ReplyCanned, Category: m.Category}, sess
	}

	chunks, err := r.retriever.Retrieve(ctx, query)
	if err != nil {
		return r.failure(err), sess
	}

	next := sess.AfterRetrieval(len(chunks))
	text, err := r.composer.Compose(ctx, query, chunks, next)
	if err != nil {
		return r.failure(err), sess
	}

	kind := models.ReplyGenerated
	if len(chunks) == 0 {
		kind = models.ReplyFallback
	}
	log.Debug().Str("kind", string(kind)).Int("chunks", len(chunks)).Int("miss_streak", next.MissStreak).Msg("Answered query")
	return models.Reply{Text: text, Kind: kind, Sources: chunks}, next
}

func (r *Router) failure(err error) models.Reply {
	log.Error().Err(err).Msg("Answering query failed")
	return models.Reply{Text: r.composer.FailureMessage(), Kind: models.ReplyFailure, Err: err}
}
