package engine

import (
	"context"
	"strings"

	"github.com/KirkDiggler/ticketsnipe/internal/dice"
	"github.com/KirkDiggler/ticketsnipe/internal/models"
	"github.com/KirkDiggler/ticketsnipe/internal/services/messaging"
)

// onGameInProgress pairs dice-bot rolls into rounds. After the opponent
// rolls we issue our own dice command.
func (e *Engine) onGameInProgress(ctx context.Context, t *models.Ticket, msg *models.Message) error {
	roll, ok := dice.ParseRoll(msg, &dice.ParseConfig{
		SelfID:     e.messenger.SelfID(),
		DiceBotIDs: e.diceBots,
	})
	if !ok {
		return nil
	}

	side, ok := e.attribute(t, roll)
	if !ok {
		e.log.Debugf("Ignoring roll of %d by %s%s in %s", roll.Value, roll.UserID, roll.Name, t.ChannelID)
		return nil
	}

	var result *dice.RoundResult
	updated, err := e.tickets.UpdateData(t.ChannelID, func(d *models.TicketData) error {
		v := roll.Value
		switch side {
		case models.SideBot:
			if d.PendingBotRoll != nil {
				return nil
			}
			d.PendingBotRoll = &v
		case models.SideOpponent:
			if d.PendingOpponentRoll != nil {
				return nil
			}
			d.PendingOpponentRoll = &v
		}
		if d.PendingBotRoll == nil || d.PendingOpponentRoll == nil {
			return nil
		}

		tracker := dice.Restore(e.target, d.GameScores, d.Rounds)
		res, err := tracker.RecordRound(*d.PendingBotRoll, *d.PendingOpponentRoll)
		if err != nil {
			return err
		}
		result = res
		d.GameScores = tracker.Scores()
		d.Rounds = tracker.Rounds()
		d.PendingBotRoll = nil
		d.PendingOpponentRoll = nil
		return nil
	})
	if err != nil {
		return err
	}

	if result != nil {
		e.log.Debugf("Round %d in %s to %s, score %d-%d", len(updated.Data.Rounds), t.ChannelID,
			result.RoundWinner, result.Scores.Bot, result.Scores.Opponent)
		if result.GameOver {
			return e.finishGame(ctx, updated, result)
		}
		return nil
	}

	if side == models.SideOpponent && updated.Data.PendingBotRoll == nil {
		if _, err := e.messenger.Send(ctx, t.ChannelID, e.diceCommand); err != nil {
			e.log.Warnf("Issuing dice command in %s failed: %v", t.ChannelID, err)
		}
	}
	return nil
}

// attribute decides whose roll this is: the mentioned id first, then the
// display name, then arrival order
func (e *Engine) attribute(t *models.Ticket, roll *dice.Roll) (models.Side, bool) {
	if roll.UserID != "" {
		switch roll.UserID {
		case e.messenger.SelfID():
			return models.SideBot, true
		case t.Data.OpponentID:
			return models.SideOpponent, true
		default:
			return "", false
		}
	}
	if roll.Name != "" && t.Data.OpponentName != "" && strings.EqualFold(roll.Name, t.Data.OpponentName) {
		return models.SideOpponent, true
	}
	if t.Data.PendingOpponentRoll == nil {
		return models.SideOpponent, true
	}
	return models.SideBot, true
}

func (e *Engine) finishGame(ctx context.Context, t *models.Ticket, result *dice.RoundResult) error {
	botWon := result.Winner == models.SideBot

	var (
		done *models.Ticket
		err  error
	)
	if botWon {
		done, err = e.tickets.Transition(t.ChannelID, models.AwaitingPayout{Scores: result.Scores})
	} else {
		done, err = e.tickets.Transition(t.ChannelID, models.GameComplete{Winner: models.SideOpponent})
	}
	if err != nil {
		return err
	}
	e.log.Infof("Game in %s over %d-%d, bot won: %v", t.ChannelID, result.Scores.Bot, result.Scores.Opponent, botWon)

	out, err := e.messaging.GetGameOverMessage(ctx, &messaging.GetGameOverMessageInput{
		BotWon: botWon,
		Scores: result.Scores,
		Pot:    done.Pot(),
		Chain:  done.Data.Chain,
	})
	if err == nil {
		if _, err := e.messenger.Send(ctx, t.ChannelID, out.Message); err != nil {
			e.log.Warnf("Game over message in %s failed: %v", t.ChannelID, err)
		}
	}

	if !botWon {
		e.tickets.SetCooldown(done.Data.OpponentID, e.cooldown)
		if err := e.vouch.PostVouch(ctx, done); err != nil {
			e.log.Warnf("Vouch for %s failed: %v", t.ChannelID, err)
		}
	}
	return nil
}
