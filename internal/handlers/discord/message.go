package discord

import (
	"strings"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/bwmarrin/discordgo"
)

// toMessage converts a Discord message. Embed titles and descriptions are
// folded into the content since dice bots often announce rolls in embeds.
func toMessage(m *discordgo.Message, channelName string) *models.Message {
	msg := &models.Message{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		ChannelName: channelName,
		Content:     messageText(m),
		CreatedAt:   m.Timestamp,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorBot = m.Author.Bot
		msg.AuthorName = displayName(m.Author, m.Member)
	}
	for _, u := range m.Mentions {
		if u != nil {
			msg.Mentions = append(msg.Mentions, u.ID)
		}
	}
	return msg
}

func messageText(m *discordgo.Message) string {
	parts := []string{}
	if m.Content != "" {
		parts = append(parts, m.Content)
	}
	for _, e := range m.Embeds {
		if e == nil {
			continue
		}
		if e.Title != "" {
			parts = append(parts, e.Title)
		}
		if e.Description != "" {
			parts = append(parts, e.Description)
		}
	}
	return strings.Join(parts, "\n")
}

// displayName prefers the guild nickname, then the global display name
func displayName(u *discordgo.User, member *discordgo.Member) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
