// Package history provides the per-conversation turn log: an append-only
// list of lines per conversation key, stored newest-first.
package history

import (
	"context"
	"errors"
)

// ErrStore indicates a history read or append failure.
var ErrStore = errors.New("history store operation failed")

// Key derives the conversation key for a channel. Direct messages and
// shared channels both map through their channel id, which Discord keeps
// unique across surfaces.
func Key(channelID string) string {
	return "chat-" + channelID
}

// Store manages conversation history lines.
// Implementations must be safe for concurrent use.
type Store interface {
	// AppendLine adds a line at the head of the key's list.
	AppendLine(ctx context.Context, key, line string) error

	// RecentLines returns up to n lines for the key, newest first.
	RecentLines(ctx context.Context, key string, n int) ([]string, error)
}
