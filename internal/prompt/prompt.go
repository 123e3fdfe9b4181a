// Package prompt renders the single prompt string sent to the model.
// Rendering is a pure function of the surface, the question, the retrieved
// context and the conversation history.
package prompt

import (
	"errors"
	"fmt"
)

// Surface is the conversation surface a question arrived on. It is a closed
// two-variant set; anything else is a caller contract violation.
type Surface string

const (
	// SurfaceIM is a one-on-one direct message.
	SurfaceIM Surface = "im"
	// SurfaceChannel is a shared guild channel.
	SurfaceChannel Surface = "channel"
)

// ErrUnknownSurface indicates a surface outside the closed set.
var ErrUnknownSurface = errors.New("unknown surface type")

const channelDirectives = `You are Upsy, a friendly and helpful assistant living in a Discord server. You answer questions from channel members using what you have learned from the server's past messages. Be conversational and honest; if the context does not cover the question, say so instead of guessing.`

const imDirectives = `You are Upsy, a friendly and helpful assistant chatting one-on-one in a Discord direct message. Be warm and personal, use the conversation so far to stay on topic, and answer plainly.`

const channelTemplate = `%s

CONTEXT:
%s

CONVERSATION SO FAR:
%s

QUESTION: %s

Answer using the context and conversation above when they help.`

const imTemplate = `%s

CONTEXT:
%s

CONVERSATION SO FAR:
%s

USER SAYS: %s

Reply directly to the user. Keep your answer under 2000 characters.`

// Render produces the prompt for one request. Empty context or history
// render as empty sections; the section headers stay in place.
func Render(surface Surface, question, context, history string) (string, error) {
	switch surface {
	case SurfaceChannel:
		return fmt.Sprintf(channelTemplate, channelDirectives, context, history, question), nil
	case SurfaceIM:
		return fmt.Sprintf(imTemplate, imDirectives, context, history, question), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSurface, surface)
	}
}
