// internal/rag/orchestrator.go
package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"upsy-bot/internal/history"
	"upsy-bot/internal/prompt"

	"github.com/rs/zerolog/log"
)

const (
	// wakeWord is stripped from the question before retrieval so the
	// similarity search is not biased toward the assistant's own name.
	wakeWord = "upsy"

	contextTopK  = 5
	historyLines = 3
)

// Request is one question arriving from the chat surface.
type Request struct {
	Surface        prompt.Surface
	Question       string
	ChannelID      string
	UserID         string
	IncludeHistory bool
}

// Orchestrator runs the end-to-end pipeline for one request. Context and
// history failures degrade to empty sections; a completion failure is the
// only error a caller sees.
type Orchestrator struct {
	embedder    Embedder
	index       VectorIndex
	history     HistoryStore
	llm         Completer
	callTimeout time.Duration
}

func NewOrchestrator(embedder Embedder, index VectorIndex, historyStore HistoryStore, llm Completer, callTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		embedder:    embedder,
		index:       index,
		history:     historyStore,
		llm:         llm,
		callTimeout: callTimeout,
	}
}

// Query answers one question. The original question text goes to the model
// verbatim; only the retrieval query has the wake word removed. On success
// the turn is appended to the conversation history, user line first.
func (o *Orchestrator) Query(ctx context.Context, req Request) (string, error) {
	// Reject unknown surfaces before any external call is made.
	if req.Surface != prompt.SurfaceIM && req.Surface != prompt.SurfaceChannel {
		return "", fmt.Errorf("%w: %q", prompt.ErrUnknownSurface, req.Surface)
	}

	contextBlock := o.retrieveContext(ctx, req.Question)

	key := history.Key(req.ChannelID)
	historyBlock := ""
	if req.IncludeHistory {
		historyBlock = o.fetchHistory(ctx, key)
	}

	rendered, err := prompt.Render(req.Surface, req.Question, contextBlock, historyBlock)
	if err != nil {
		return "", err
	}

	cctx, cancel := o.bound(ctx)
	response, err := o.llm.Complete(cctx, rendered)
	cancel()
	if err != nil {
		// No fallback answer and nothing persisted.
		return "", err
	}

	o.persistTurn(ctx, key, req.Question, response)
	return response, nil
}

// retrieveContext embeds the stripped question and concatenates the contents
// of the nearest records in rank order, each followed by a newline. Any
// failure degrades to an empty context.
func (o *Orchestrator) retrieveContext(ctx context.Context, question string) string {
	stripped := strings.ReplaceAll(question, wakeWord, "")

	ectx, cancel := o.bound(ctx)
	vectors, err := o.embedder.Embed(ectx, []string{stripped})
	cancel()
	if err != nil {
		log.Warn().Err(err).Msg("context retrieval: embedding failed, answering without context")
		return ""
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return ""
	}

	qctx, cancel := o.bound(ctx)
	matches, err := o.index.Query(qctx, vectors[0], contextTopK)
	cancel()
	if err != nil {
		log.Warn().Err(err).Msg("context retrieval: similarity search failed, answering without context")
		return ""
	}

	var b strings.Builder
	for _, m := range matches {
		if m.Content == "" {
			continue
		}
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// fetchHistory returns the most recent stored lines in chronological order,
// joined with newlines. The store returns newest-first.
func (o *Orchestrator) fetchHistory(ctx context.Context, key string) string {
	hctx, cancel := o.bound(ctx)
	lines, err := o.history.RecentLines(hctx, key, historyLines)
	cancel()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("history fetch failed, answering without history")
		return ""
	}

	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return strings.Join(lines, "\n")
}

// persistTurn appends the user line then the assistant line. The answer has
// already been produced, so failures are logged and swallowed.
func (o *Orchestrator) persistTurn(ctx context.Context, key, question, response string) {
	uctx, cancel := o.bound(ctx)
	err := o.history.AppendLine(uctx, key, "User: "+question)
	cancel()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to persist user line")
		return
	}

	actx, cancel := o.bound(ctx)
	err = o.history.AppendLine(actx, key, "Upsy: "+response)
	cancel()
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to persist assistant line")
	}
}

func (o *Orchestrator) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.callTimeout)
}
