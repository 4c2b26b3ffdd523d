package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"macrofeed/models"
	"macrofeed/services"
)

// DiscordRelayHandler turns messages posted in macro channels into updates.
// A channel belongs to a macro when its ID equals the macro's configured value.
type DiscordRelayHandler struct {
	discordSDKClient *discordgo.Session
	updatesService   services.UpdatesService
	macrosService    services.MacrosService
}

func NewDiscordRelayHandler(
	botToken string,
	updatesService services.UpdatesService,
	macrosService services.MacrosService,
) (*DiscordRelayHandler, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	handler := &DiscordRelayHandler{
		discordSDKClient: session,
		updatesService:   updatesService,
		macrosService:    macrosService,
	}

	session.AddHandler(handler.handleMessageCreatedEvent)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	return handler, nil
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordRelayHandler) StartBot() error {
	if err := h.discordSDKClient.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Printf("🤖 Discord relay is now running and listening for macro channel messages")
	return nil
}

// StopBot gracefully closes the Discord connection
func (h *DiscordRelayHandler) StopBot() {
	if err := h.discordSDKClient.Close(); err != nil {
		log.Printf("⚠️ Failed to close Discord session: %v", err)
	}
}

func (h *DiscordRelayHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil {
		return
	}

	selfID := ""
	if s != nil && s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}

	relayed, err := h.relayMessage(context.Background(), m.Message, selfID)
	if err != nil {
		log.Printf("❌ Failed to relay Discord message %s: %v", m.ID, err)
		return
	}
	if relayed {
		log.Printf("📨 Relayed Discord message %s from channel %s", m.ID, m.ChannelID)
	}
}

// relayMessage appends the message as an update if it was posted in a macro channel.
// It reports whether the message was relayed.
func (h *DiscordRelayHandler) relayMessage(ctx context.Context, msg *discordgo.Message, selfID string) (bool, error) {
	if msg.Author != nil && selfID != "" && msg.Author.ID == selfID {
		return false, nil
	}

	channelID, err := strconv.ParseInt(msg.ChannelID, 10, 64)
	if err != nil {
		return false, nil
	}

	maybeMacro, err := h.macrosService.GetMacroByValue(ctx, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to look up macro for channel %s: %w", msg.ChannelID, err)
	}
	if !maybeMacro.IsPresent() {
		return false, nil
	}

	payload, err := mapToWebhookPayload(maybeMacro.MustGet().Name, msg)
	if err != nil {
		return false, err
	}

	if _, err := h.updatesService.AppendUpdate(ctx, payload); err != nil {
		return false, fmt.Errorf("failed to append update for %s: %w", payload.Macro, err)
	}
	return true, nil
}

func mapToWebhookPayload(macro string, msg *discordgo.Message) (models.WebhookPayload, error) {
	payload := models.WebhookPayload{
		Macro:   macro,
		Content: msg.Content,
		Author:  models.DefaultAuthorName,
	}
	if msg.Author != nil && msg.Author.Username != "" {
		payload.Author = msg.Author.Username
	}

	if len(msg.Embeds) > 0 {
		embeds, err := json.Marshal(msg.Embeds)
		if err != nil {
			return payload, fmt.Errorf("failed to encode embeds of message %s: %w", msg.ID, err)
		}
		payload.Embeds = embeds
	}

	return payload, nil
}
