package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/engine"
	"github.com/bwmarrin/discordgo"
)

// SnipeCommand handles the operator's /snipe command
type SnipeCommand struct {
	BaseCommand
	engine Engine
}

// NewSnipeCommand creates the operator command handler. Only administrators
// can see it.
func NewSnipeCommand(eng Engine) *SnipeCommand {
	return &SnipeCommand{
		BaseCommand: BaseCommand{
			Name:        "snipe",
			Description: "Ticket sniper operator commands",
			Permissions: discordgo.PermissionAdministrator,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show live tickets and wallet balances",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "release",
					Description: "Forget a resolved ERROR or CANCELLED ticket",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "The ticket channel",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "simulate-payout",
					Description: "Deposit a ticket's pot into a simulated wallet",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "The ticket channel",
							Required:    true,
						},
					},
				},
			},
		},
		engine: eng,
	}
}

// Handle processes a Discord interaction for the snipe command
func (c *SnipeCommand) Handle(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	sub := data.Options[0]
	switch sub.Name {
	case "status":
		return RespondWithEphemeralEmbed(s, i, renderStatus(c.engine.Status(ctx)))
	case "release":
		channelID := ""
		if len(sub.Options) > 0 {
			channelID = optionChannelID(sub.Options[0])
		}
		return c.handleRelease(ctx, s, i, channelID)
	case "simulate-payout":
		channelID := ""
		if len(sub.Options) > 0 {
			channelID = optionChannelID(sub.Options[0])
		}
		return c.handleSimulatePayout(ctx, s, i, channelID)
	default:
		return RespondWithError(s, i, fmt.Sprintf("Unknown subcommand %q", sub.Name))
	}
}

func (c *SnipeCommand) handleRelease(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, channelID string) error {
	err := c.engine.Release(ctx, channelID)
	switch {
	case err == nil:
		return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Released <#%s>.", channelID))
	case errors.Is(err, models.ErrTicketNotFound):
		return RespondWithError(s, i, fmt.Sprintf("<#%s> has no ticket.", channelID))
	case errors.Is(err, engine.ErrNotSettled):
		return RespondWithError(s, i, fmt.Sprintf("<#%s> is still live; only ERROR or CANCELLED tickets can be released.", channelID))
	default:
		return RespondWithError(s, i, fmt.Sprintf("Release failed: %v", err))
	}
}

func (c *SnipeCommand) handleSimulatePayout(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, channelID string) error {
	tx, err := c.engine.SimulatePayout(ctx, channelID)
	if err != nil {
		return RespondWithError(s, i, simulateError(channelID, err))
	}
	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Deposited %s as %s for <#%s>; the next payout scan will match it.", tx.Amount, tx.TxID, channelID))
}

func simulateError(channelID string, err error) string {
	switch {
	case errors.Is(err, models.ErrTicketNotFound):
		return fmt.Sprintf("<#%s> has no ticket.", channelID)
	case errors.Is(err, engine.ErrNotAwaiting):
		return fmt.Sprintf("<#%s> is not waiting for a payout.", channelID)
	case errors.Is(err, engine.ErrNotSimulated):
		return "Payouts can only be simulated in simulation mode."
	default:
		return fmt.Sprintf("Simulated payout failed: %v", err)
	}
}

// optionChannelID reads a channel option without a session lookup
func optionChannelID(opt *discordgo.ApplicationCommandInteractionDataOption) string {
	if id, ok := opt.Value.(string); ok {
		return id
	}
	return ""
}
