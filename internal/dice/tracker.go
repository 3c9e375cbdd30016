package dice

import (
	"github.com/KirkDiggler/ticketsnipe/internal/models"
)

// DefaultTarget is the number of round wins that ends a game (first to five)
const DefaultTarget = 5

// RoundResult is the outcome of recording one pair of rolls
type RoundResult struct {
	// RoundWinner is who took this round
	RoundWinner models.Side

	// GameOver is set once either side reaches the target
	GameOver bool

	// Winner is the game winner, empty until GameOver
	Winner models.Side

	// Scores are the scores after this round
	Scores models.Scores
}

// Tracker scores a first-to-N dice game for one ticket. A tied round goes
// to the bot.
type Tracker struct {
	target int
	scores models.Scores
	rounds []models.Round
}

// NewTracker creates a tracker for a first-to-target game
func NewTracker(target int) *Tracker {
	if target < 1 {
		target = DefaultTarget
	}
	return &Tracker{target: target}
}

// Restore rebuilds a tracker from persisted ticket data
func Restore(target int, scores models.Scores, rounds []models.Round) *Tracker {
	t := NewTracker(target)
	t.scores = scores
	t.rounds = append([]models.Round(nil), rounds...)
	return t
}

// RecordRound scores a pair of rolls
func (t *Tracker) RecordRound(botRoll, opponentRoll int) (*RoundResult, error) {
	if t.GameOver() {
		return nil, models.ErrGameOver
	}

	winner := models.SideBot
	if opponentRoll > botRoll {
		winner = models.SideOpponent
	}

	if winner == models.SideBot {
		t.scores.Bot++
	} else {
		t.scores.Opponent++
	}
	t.rounds = append(t.rounds, models.Round{
		BotRoll:      botRoll,
		OpponentRoll: opponentRoll,
		Winner:       winner,
	})

	result := &RoundResult{
		RoundWinner: winner,
		GameOver:    t.GameOver(),
		Scores:      t.scores,
	}
	if result.GameOver {
		result.Winner = winner
	}
	return result, nil
}

// GameOver reports whether either side has reached the target
func (t *Tracker) GameOver() bool {
	return t.scores.Bot >= t.target || t.scores.Opponent >= t.target
}

// DidBotWin is only meaningful once the game is over
func (t *Tracker) DidBotWin() (bool, error) {
	if !t.GameOver() {
		return false, models.ErrInvalidStateTransition
	}
	return t.scores.Bot >= t.target, nil
}

// Scores returns the current scores
func (t *Tracker) Scores() models.Scores {
	return t.scores
}

// Rounds returns a copy of the round log
func (t *Tracker) Rounds() []models.Round {
	return append([]models.Round(nil), t.rounds...)
}

// Target returns the number of wins needed
func (t *Tracker) Target() int {
	return t.target
}
