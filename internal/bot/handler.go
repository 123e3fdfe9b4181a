// internal/bot/handler.go
package bot

import (
	"context"
	"strings"

	"upsy-bot/internal/prompt"
	"upsy-bot/internal/rag"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const (
	// wakeWord triggers the bot in shared channels; matching is
	// case-insensitive here even though retrieval stripping is not.
	wakeWord = "upsy"

	// minIngestLength skips empty or very short messages.
	minIngestLength = 10

	// discordMessageLimit is Discord's hard cap per message.
	discordMessageLimit = 2000

	// backfillLimit is how many recent messages per channel are ingested
	// when the bot joins a guild.
	backfillLimit = 100

	failureReply = "Sorry, I couldn't generate a response right now."
)

type Handler struct {
	orchestrator *rag.Orchestrator
	ingestor     *rag.Ingestor
	classifier   *rag.Classifier
	session      *discordgo.Session
	botID        string
}

func NewHandler(orchestrator *rag.Orchestrator, ingestor *rag.Ingestor, classifier *rag.Classifier) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		ingestor:     ingestor,
		classifier:   classifier,
	}
}

func (h *Handler) SetSession(s *discordgo.Session) {
	h.session = s
	user, err := s.User("@me")
	if err != nil {
		log.Error().Err(err).Msg("error getting bot user")
		return
	}
	h.botID = user.ID
}

func (h *Handler) OnMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == h.botID || m.Author.Bot {
		return
	}

	// Direct message: always answer, with history.
	if m.GuildID == "" {
		go h.answer(s, m, prompt.SurfaceIM)
		return
	}

	// Store guild messages for retrieval.
	go h.ingestMessage(m)

	if h.isAddressed(m) {
		go h.handleAddressed(s, m)
	}
}

// isAddressed reports whether a channel message is aimed at the bot,
// either by mention or by name.
func (h *Handler) isAddressed(m *discordgo.MessageCreate) bool {
	if strings.Contains(m.Content, "<@"+h.botID+">") {
		return true
	}
	return strings.Contains(strings.ToLower(m.Content), wakeWord)
}

// handleAddressed answers questions and reacts to everything else.
func (h *Handler) handleAddressed(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx := context.Background()

	isQuestion, err := h.classifier.IsQuestion(ctx, m.Content)
	if err != nil {
		log.Warn().Err(err).Msg("question detection failed, answering anyway")
		isQuestion = true
	}

	if isQuestion {
		h.answer(s, m, prompt.SurfaceChannel)
		return
	}
	h.react(s, m)
}

func (h *Handler) answer(s *discordgo.Session, m *discordgo.MessageCreate, surface prompt.Surface) {
	s.ChannelTyping(m.ChannelID)

	response, err := h.orchestrator.Query(context.Background(), rag.Request{
		Surface:        surface,
		Question:       m.Content,
		ChannelID:      m.ChannelID,
		UserID:         m.Author.ID,
		IncludeHistory: true,
	})
	if err != nil {
		log.Error().Err(err).Str("channel_id", m.ChannelID).Msg("error generating response")
		s.ChannelMessageSend(m.ChannelID, failureReply)
		return
	}

	if len(response) > discordMessageLimit {
		response = response[:discordMessageLimit]
	}
	if _, err := s.ChannelMessageSend(m.ChannelID, response); err != nil {
		log.Error().Err(err).Str("channel_id", m.ChannelID).Msg("error sending response")
	}
}

func (h *Handler) react(s *discordgo.Session, m *discordgo.MessageCreate) {
	emoji, ok, err := h.classifier.SuggestReaction(context.Background(), m.Content)
	if err != nil {
		log.Warn().Err(err).Msg("reaction suggestion failed")
		return
	}
	if !ok {
		return
	}
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, strings.TrimSpace(emoji)); err != nil {
		log.Warn().Err(err).Str("emoji", emoji).Msg("error adding reaction")
	}
}

func (h *Handler) ingestMessage(m *discordgo.MessageCreate) {
	if len(m.Content) < minIngestLength {
		return
	}

	h.ingestor.AddDocument(context.Background(), rag.Message{
		ID:        m.ID,
		Content:   m.Content,
		Author:    m.Author.Username,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		SentAt:    m.Timestamp,
	})
}

// OnGuildCreate backfills recent channel history into the vector index so
// the bot has context the moment it joins.
func (h *Handler) OnGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	for _, channel := range g.Channels {
		if channel.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		go h.backfillChannel(s, g.ID, channel.ID)
	}
}

func (h *Handler) backfillChannel(s *discordgo.Session, guildID, channelID string) {
	messages, err := s.ChannelMessages(channelID, backfillLimit, "", "", "")
	if err != nil {
		log.Warn().Err(err).Str("channel_id", channelID).Msg("error fetching channel history")
		return
	}

	batch := make([]rag.Message, 0, len(messages))
	for _, m := range messages {
		if m.Author == nil || m.Author.Bot || len(m.Content) < minIngestLength {
			continue
		}
		batch = append(batch, rag.Message{
			ID:        m.ID,
			Content:   m.Content,
			Author:    m.Author.Username,
			GuildID:   guildID,
			ChannelID: channelID,
			SentAt:    m.Timestamp,
		})
	}
	if len(batch) == 0 {
		return
	}

	log.Info().Str("channel_id", channelID).Int("count", len(batch)).Msg("backfilling channel history")
	h.ingestor.AddDocuments(context.Background(), batch)
}
