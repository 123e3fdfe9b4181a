// internal/rag/classify.go
package rag

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const isQuestionInstruction = `Decide whether the following message asks a question. Answer with YES or NO only.

Message: %s`

const reactionInstruction = `Suggest a single emoji matching the mood of the following message. If no reaction fits, answer with the word no.

Message: %s`

// Classifier runs single-shot model calls that share the completion gateway
// but hold no conversation state.
type Classifier struct {
	llm         Completer
	callTimeout time.Duration
}

func NewClassifier(llm Completer, callTimeout time.Duration) *Classifier {
	return &Classifier{llm: llm, callTimeout: callTimeout}
}

// IsQuestion reports whether the model judged the text to be a question.
// Any reply not starting with "yes" (case-folded) counts as no.
func (c *Classifier) IsQuestion(ctx context.Context, text string) (bool, error) {
	cctx, cancel := c.bound(ctx)
	defer cancel()

	resp, err := c.llm.Complete(cctx, fmt.Sprintf(isQuestionInstruction, text))
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(resp)), "yes"), nil
}

// SuggestReaction asks the model for an emoji matching the text's mood.
// ok is false when the model declined with a "no" reply; otherwise the raw
// reply is returned unmodified.
func (c *Classifier) SuggestReaction(ctx context.Context, text string) (emoji string, ok bool, err error) {
	cctx, cancel := c.bound(ctx)
	defer cancel()

	resp, err := c.llm.Complete(cctx, fmt.Sprintf(reactionInstruction, text))
	if err != nil {
		return "", false, err
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(resp)), "no") {
		return "", false, nil
	}
	return resp, true, nil
}

func (c *Classifier) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.callTimeout)
}
