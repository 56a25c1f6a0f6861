package models

// ReplyKind tells which branch of the router produced an answer.
type ReplyKind string

const (
	ReplyCanned    ReplyKind = "canned"
	ReplyGenerated ReplyKind = "generated"
	ReplyFallback  ReplyKind = "fallback"
	ReplyFailure   ReplyKind = "failure"
	ReplyPrompt    ReplyKind = "prompt"
)

// Reply is the result of answering one query.
type Reply struct {
	Text     string
	Kind     ReplyKind
	Category string
	Sources  []ScoredChunk
	// Err is set only for ReplyFailure; Text then holds the user-facing message.
	Err error
}
