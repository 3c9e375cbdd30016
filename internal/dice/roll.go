package dice

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
)

// rollPattern matches dice-bot announcements such as "<@123> rolled a 5",
// "Name rolled **4**" and "Name has rolled 6"
var rollPattern = regexp.MustCompile(`(?i)(?:<@!?(\d+)>|([^\s<>*]+))\s+(?:has\s+)?rolled\s+(?:a\s+)?\**(\d{1,3})\**`)

// compactPattern matches the terse "🎲 Name: 5" and "🎲 <@123>: 5" forms
var compactPattern = regexp.MustCompile(`🎲\s*(?:<@!?(\d+)>|([^\s<>*:]+)):\s*\**(\d{1,3})\**`)

// Roll is a single parsed roll announcement
type Roll struct {
	// UserID is the mentioned roller, when the dice bot mentions them
	UserID string

	// Name is the roller's display name, when the dice bot names them
	Name string

	// Value is the rolled number
	Value int
}

// ParseConfig selects which messages count as dice-bot output
type ParseConfig struct {
	// SelfID is our own user id; our messages are never dice output
	SelfID string

	// DiceBotIDs restricts parsing to these authors. Empty accepts any bot.
	DiceBotIDs map[string]bool
}

// ParseRoll extracts a roll from a dice-bot message
func ParseRoll(msg *models.Message, cfg *ParseConfig) (*Roll, bool) {
	if msg == nil || !isDiceBot(msg, cfg) {
		return nil, false
	}

	m := rollPattern.FindStringSubmatch(msg.Content)
	if m == nil {
		m = compactPattern.FindStringSubmatch(msg.Content)
	}
	if m == nil {
		return nil, false
	}

	value, err := strconv.Atoi(m[3])
	if err != nil || value < 1 {
		return nil, false
	}

	roll := &Roll{
		UserID: m[1],
		Name:   strings.TrimSuffix(m[2], ":"),
		Value:  value,
	}
	if roll.UserID == "" && len(msg.Mentions) == 1 {
		roll.UserID = msg.Mentions[0]
	}
	return roll, true
}

func isDiceBot(msg *models.Message, cfg *ParseConfig) bool {
	if cfg == nil {
		return msg.AuthorBot
	}
	if msg.AuthorID == cfg.SelfID {
		return false
	}
	if len(cfg.DiceBotIDs) > 0 {
		return cfg.DiceBotIDs[msg.AuthorID]
	}
	return msg.AuthorBot
}
