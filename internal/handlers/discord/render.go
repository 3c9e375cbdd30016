package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/engine"
	"github.com/bwmarrin/discordgo"
)

const (
	colorOK      = 0x00ff00
	colorWarning = 0xffaa00
	colorError   = 0xff0000

	// maxEmbedFields is Discord's per-embed field limit
	maxEmbedFields = 25
)

// renderStatus renders the operator status view
func renderStatus(out *engine.StatusOutput) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Sniper status",
		Color: colorOK,
	}

	var wallets []string
	for _, b := range out.Balances {
		if b.Err != nil {
			wallets = append(wallets, fmt.Sprintf("%s: unavailable (%v)", b.Chain, b.Err))
			embed.Color = colorWarning
			continue
		}
		wallets = append(wallets, fmt.Sprintf("%s: %s", b.Chain, b.Balance.StringFixed(int32(b.Chain.Decimals()))))
	}
	if len(wallets) == 0 {
		wallets = append(wallets, "no wallets")
	}
	embed.Description = fmt.Sprintf("%s\nPending wagers: %d\nTickets: %d",
		strings.Join(wallets, "\n"), out.PendingWagers, len(out.Tickets))
	if quarantine := renderQuarantine(out); quarantine != nil {
		embed.Fields = append(embed.Fields, quarantine)
		embed.Color = colorWarning
	}

	for n, t := range out.Tickets {
		if len(embed.Fields) == maxEmbedFields-1 {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "…",
				Value: fmt.Sprintf("%d more", len(out.Tickets)-n),
			})
			break
		}
		if t.State == models.TicketStateError {
			embed.Color = colorError
		}
		embed.Fields = append(embed.Fields, renderTicket(t))
	}
	return embed
}

// maxQuarantineLines keeps the quarantine field under Discord's value limit
const maxQuarantineLines = 5

func renderQuarantine(out *engine.StatusOutput) *discordgo.MessageEmbedField {
	if out.QuarantineErr != nil {
		return &discordgo.MessageEmbedField{
			Name:  "Quarantine",
			Value: fmt.Sprintf("unavailable (%v)", out.QuarantineErr),
		}
	}
	if len(out.Quarantined) == 0 {
		return nil
	}
	var lines []string
	for i := len(out.Quarantined) - 1; i >= 0 && len(lines) < maxQuarantineLines; i-- {
		q := out.Quarantined[i]
		lines = append(lines, fmt.Sprintf("%s %s: %s", q.QuarantinedAt.Format(time.RFC3339), q.Kind, q.Reason))
	}
	if more := len(out.Quarantined) - len(lines); more > 0 {
		lines = append(lines, fmt.Sprintf("%d older", more))
	}
	return &discordgo.MessageEmbedField{
		Name:  fmt.Sprintf("Quarantine (%d)", len(out.Quarantined)),
		Value: strings.Join(lines, "\n"),
	}
}

func renderTicket(t *models.Ticket) *discordgo.MessageEmbedField {
	lines := []string{
		fmt.Sprintf("<#%s> vs <@%s>", t.ChannelID, t.Data.OpponentID),
		fmt.Sprintf("%s vs %s %s", t.Data.OurBet, t.Data.OpponentBet, t.Data.Chain),
	}
	switch t.State {
	case models.TicketStateGameInProgress, models.TicketStateAwaitingPayout:
		lines = append(lines, fmt.Sprintf("Score %d-%d", t.Data.GameScores.Bot, t.Data.GameScores.Opponent))
	case models.TicketStateError:
		lines = append(lines, "Reason: "+t.Data.ErrorReason)
	}
	if t.Data.SendTxID != "" {
		lines = append(lines, "Escrow tx: "+t.Data.SendTxID)
	}
	return &discordgo.MessageEmbedField{
		Name:  string(t.State),
		Value: strings.Join(lines, "\n"),
	}
}
